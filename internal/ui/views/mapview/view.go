package mapview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	workoutdto "mapty/internal/modules/workout/dto"
	"mapty/internal/ui/theme"
)

const (
	minZoom = 1
	maxZoom = 18
)

// ─── messages ────────────────────────────────────────────────────────────────

// ClickMsg is the terminal equivalent of a map click.
type ClickMsg struct {
	Coords workoutdto.Coords
}

// ZoomMsg reports a zoom change made with +/-.
type ZoomMsg struct {
	Zoom int
}

// ─── keys ────────────────────────────────────────────────────────────────────

type keyMap struct {
	Up, Down, Left, Right key.Binding
	Click                 key.Binding
	ZoomIn, ZoomOut       key.Binding
	Center                key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Left:    key.NewBinding(key.WithKeys("left", "h")),
	Right:   key.NewBinding(key.WithKeys("right", "l")),
	Click:   key.NewBinding(key.WithKeys("enter", " ")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "=")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_")),
	Center:  key.NewBinding(key.WithKeys("0")),
}

var (
	gridStyle    = lipgloss.NewStyle().Foreground(theme.Surface1)
	pendingStyle = lipgloss.NewStyle().Foreground(theme.Lavender).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(theme.Sapphire).Bold(true)
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model draws an equirectangular grid around center. One column spans
// 360/(4*2^zoom) degrees of longitude; rows are twice as tall as columns.
type Model struct {
	center  workoutdto.Coords
	zoom    int
	ready   bool
	markers []workoutdto.Marker
	pending *workoutdto.Coords
	cursorX int
	cursorY int
	width   int
	height  int
}

func New() Model {
	return Model{zoom: 13, width: 40, height: 16}
}

// SetView re-centers the map and puts the cursor back in the middle.
func (m *Model) SetView(center workoutdto.Coords, zoom int) {
	m.center = center
	m.zoom = clampZoom(zoom)
	m.ready = true
	m.cursorX, m.cursorY = m.cols()/2, m.rows()/2
}

func (m *Model) SetMarkers(markers []workoutdto.Marker) { m.markers = markers }

func (m *Model) SetPending(pending *workoutdto.Coords) { m.pending = pending }

func (m Model) Ready() bool { return m.ready }

func (m Model) Zoom() int { return m.zoom }

func (m Model) CursorCoords() workoutdto.Coords {
	return m.Unproject(m.cursorX, m.cursorY)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.cursorX = clamp(m.cursorX, 0, m.cols()-1)
		m.cursorY = clamp(m.cursorY, 0, m.rows()-1)

	case tea.KeyMsg:
		if !m.ready {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			m.move(0, -1)
		case key.Matches(msg, keys.Down):
			m.move(0, 1)
		case key.Matches(msg, keys.Left):
			m.move(-1, 0)
		case key.Matches(msg, keys.Right):
			m.move(1, 0)
		case key.Matches(msg, keys.Center):
			m.cursorX, m.cursorY = m.cols()/2, m.rows()/2
		case key.Matches(msg, keys.ZoomIn), key.Matches(msg, keys.ZoomOut):
			at := m.CursorCoords()
			if key.Matches(msg, keys.ZoomIn) {
				m.zoom = clampZoom(m.zoom + 1)
			} else {
				m.zoom = clampZoom(m.zoom - 1)
			}
			m.center = at
			m.cursorX, m.cursorY = m.cols()/2, m.rows()/2
			zoom := m.zoom
			return m, func() tea.Msg { return ZoomMsg{Zoom: zoom} }
		case key.Matches(msg, keys.Click):
			at := m.CursorCoords()
			return m, func() tea.Msg { return ClickMsg{Coords: at} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("waiting for your position…"))
	}
	cols, rows := m.cols(), m.rows()
	grid := make([][]string, rows)
	for y := range grid {
		grid[y] = make([]string, cols)
		for x := range grid[y] {
			if x%4 == 0 && y%2 == 0 {
				grid[y][x] = gridStyle.Render("·")
			} else {
				grid[y][x] = " "
			}
		}
	}
	for _, mk := range m.markers {
		if x, y, ok := m.Project(mk.Coords); ok {
			grid[y][x] = lipgloss.NewStyle().Foreground(theme.Accent(mk.Kind)).Bold(true).Render("●")
		}
	}
	if m.pending != nil {
		if x, y, ok := m.Project(*m.pending); ok {
			grid[y][x] = pendingStyle.Render("◎")
		}
	}
	grid[m.cursorY][m.cursorX] = cursorStyle.Render("✛")

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.Join(row, ""))
		sb.WriteString("\n")
	}
	at := m.CursorCoords()
	footer := fmt.Sprintf("%.4f, %.4f  zoom %d", at.Lat, at.Lng, m.zoom)
	if mk, ok := m.markerAtCursor(); ok {
		footer += "  " + mk.Popup
	} else {
		footer += "  " + theme.Muted.Render("enter: log a workout here")
	}
	sb.WriteString(footer)
	return sb.String()
}

// Project maps coordinates to a grid cell; ok is false when off screen.
func (m Model) Project(c workoutdto.Coords) (int, int, bool) {
	lngStep, latStep := m.steps()
	x := m.cols()/2 + int(math.Round((c.Lng-m.center.Lng)/lngStep))
	y := m.rows()/2 - int(math.Round((c.Lat-m.center.Lat)/latStep))
	if x < 0 || x >= m.cols() || y < 0 || y >= m.rows() {
		return 0, 0, false
	}
	return x, y, true
}

// Unproject returns the coordinates at the middle of a grid cell.
func (m Model) Unproject(x, y int) workoutdto.Coords {
	lngStep, latStep := m.steps()
	lat := m.center.Lat + float64(m.rows()/2-y)*latStep
	lng := m.center.Lng + float64(x-m.cols()/2)*lngStep
	return workoutdto.Coords{
		Lat: math.Max(-90, math.Min(90, lat)),
		Lng: wrapLng(lng),
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) steps() (lngStep, latStep float64) {
	lngStep = 360 / (4 * math.Exp2(float64(m.zoom)))
	cos := math.Max(0.1, math.Cos(m.center.Lat*math.Pi/180))
	return lngStep, 2 * lngStep * cos
}

// move walks the cursor and pans the map when it would leave the grid.
func (m *Model) move(dx, dy int) {
	nx, ny := m.cursorX+dx, m.cursorY+dy
	if nx >= 0 && nx < m.cols() && ny >= 0 && ny < m.rows() {
		m.cursorX, m.cursorY = nx, ny
		return
	}
	lngStep, latStep := m.steps()
	m.center.Lng = wrapLng(m.center.Lng + float64(dx)*lngStep)
	m.center.Lat = math.Max(-90, math.Min(90, m.center.Lat-float64(dy)*latStep))
}

func (m Model) markerAtCursor() (workoutdto.Marker, bool) {
	for i := len(m.markers) - 1; i >= 0; i-- {
		if x, y, ok := m.Project(m.markers[i].Coords); ok && x == m.cursorX && y == m.cursorY {
			return m.markers[i], true
		}
	}
	return workoutdto.Marker{}, false
}

func (m Model) cols() int { return max(m.width, 3) }

// one line is reserved for the footer
func (m Model) rows() int { return max(m.height-1, 3) }

func clampZoom(z int) int { return clamp(z, minZoom, maxZoom) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
