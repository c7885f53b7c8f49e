package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	workoutdto "mapty/internal/modules/workout/dto"
	apperrors "mapty/internal/platform/errors"
	"mapty/internal/ui/components"
	"mapty/internal/ui/scene"
	"mapty/internal/ui/theme"
	"mapty/internal/ui/views/mapview"
	"mapty/internal/ui/views/workouts"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type trackerPort interface {
	InitMap(ctx context.Context) (workoutdto.Coords, error)
	Click(ctx context.Context, lat, lng float64) error
	Cancel(ctx context.Context) error
	SubmitForm(ctx context.Context, input workoutdto.FormInput) (workoutdto.SubmitOutput, error)
	Restore(ctx context.Context) (workoutdto.RestoreOutput, error)
	Locate(ctx context.Context, id int64) (workoutdto.Coords, error)
	Reset(ctx context.Context) error
	Save(ctx context.Context) error
	Export(ctx context.Context) (workoutdto.ExportOutput, error)
}

type sceneSource interface {
	Snapshot() scene.Snapshot
}

// ─── panes ───────────────────────────────────────────────────────────────────

type paneID int

const (
	paneMap paneID = iota
	paneList
	paneCount
)

// ─── async messages ───────────────────────────────────────────────────────────

type restoredMsg struct {
	out workoutdto.RestoreOutput
	err error
}

type mapInitMsg struct {
	center workoutdto.Coords
	err    error
}

type clickedMsg struct {
	at  workoutdto.Coords
	err error
}

type submittedMsg struct {
	out workoutdto.SubmitOutput
	err error
}

type cancelledMsg struct{ err error }

type locatedMsg struct {
	id  int64
	err error
}

type resetMsg struct{ err error }

type savedMsg struct{ err error }

type exportedMsg struct {
	out workoutdto.ExportOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Click   key.Binding
	Zoom    key.Binding
	Cancel  key.Binding
	Locate  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "map/list")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Click:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log workout here")),
		Zoom:    key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "zoom")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Locate:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show on map")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Click, k.Zoom, k.Cancel},
		{k.Tab, k.Locate},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Tracker calls run as commands and draw
// into the scene; the model copies the scene into its views after each result.
type Model struct {
	tracker trackerPort
	scene   sceneSource

	mapView  mapview.Model
	listView workouts.Model
	form     components.Form
	palette  components.Palette

	focus    paneID
	keys     keyMap
	help     help.Model
	showHelp bool
	notice   string
	status   string
	home     *workoutdto.Coords
	views    uint64
	version  uint64
	width    int
	height   int
}

func NewModel(tracker trackerPort, source sceneSource) Model {
	return Model{
		tracker:  tracker,
		scene:    source,
		mapView:  mapview.New(),
		listView: workouts.New(),
		form:     components.NewForm(),
		palette:  components.NewPalette(),
		keys:     defaultKeys(),
		help:     help.New(),
		status:   "locating…",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Sequence(m.restoreCmd(), m.initMapCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A notice blocks everything until dismissed.
	if m.notice != "" {
		if k, ok := msg.(tea.KeyMsg); ok {
			if k.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.notice = ""
			return m, nil
		}
	}

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 64))
		m.form.SetWidth(min(m.width-4, 56))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case restoredMsg:
		m.sync()
		if msg.err != nil {
			m.status = "restore: " + msg.err.Error()
		} else if msg.out.Skipped > 0 {
			m.status = fmt.Sprintf("restored %d workouts, skipped %d unreadable", len(msg.out.Workouts), msg.out.Skipped)
		} else {
			m.status = fmt.Sprintf("restored %d workouts", len(msg.out.Workouts))
		}
		return m, nil

	case mapInitMsg:
		if msg.err != nil {
			m.notice = "Could not get your position.\n\n" + msg.err.Error()
			m.status = "map unavailable"
			return m, nil
		}
		center := msg.center
		m.home = &center
		m.sync()
		m.status = fmt.Sprintf("centered at %.4f, %.4f", center.Lat, center.Lng)
		return m, nil

	case clickedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		at := msg.at
		m.mapView.SetPending(&at)
		if m.form.Visible() {
			m.form.Move(at)
			return m, nil
		}
		return m, m.form.Open(at)

	case submittedMsg:
		if msg.err != nil {
			// form stays open with its values
			m.notice = msg.err.Error()
			return m, nil
		}
		m.form.Close()
		m.mapView.SetPending(nil)
		m.sync()
		m.status = "saved " + msg.out.Workout.Description
		if !msg.out.Persisted {
			m.status += " (not persisted: " + msg.out.PersistError + ")"
		}
		return m, nil

	case cancelledMsg:
		m.form.Close()
		m.mapView.SetPending(nil)
		m.status = "cancelled"
		return m, nil

	case locatedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, apperrors.ErrNotFound) {
				m.status = fmt.Sprintf("workout %d is gone", msg.id)
			} else {
				m.status = "locate: " + msg.err.Error()
			}
			return m, nil
		}
		m.sync()
		m.focus = paneMap
		m.status = fmt.Sprintf("showing workout %d", msg.id)
		return m, nil

	case resetMsg:
		m.form.Close()
		m.mapView.SetPending(nil)
		m.sync()
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		m.status = "all workouts removed"
		return m, tea.Sequence(m.restoreCmd(), m.initMapCmd())

	case savedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.status = "workouts saved"
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("exported %d notes", len(msg.out.Paths))
		return m, nil

	case mapview.ClickMsg:
		return m, m.clickCmd(msg.Coords)

	case mapview.ZoomMsg:
		m.status = fmt.Sprintf("zoom %d", msg.Zoom)
		return m, nil

	case workouts.LocateMsg:
		return m, m.locateCmd(msg.ID)

	case components.FormSubmitMsg:
		return m, m.submitCmd(msg.Input)

	case components.FormCancelMsg:
		return m, m.cancelCmd()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.form.Visible() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		if m.focus == paneList && m.listView.Filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.focus = (m.focus + 1) % paneCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case paneMap:
		m.mapView, cmd = m.mapView.Update(msg)
	case paneList:
		m.listView, cmd = m.listView.Update(msg)
	}
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.notice != "":
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.renderNotice())
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.form.Visible():
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderMapPane(contentH), m.form.View())
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderMapPane(contentH), m.renderListPane(contentH))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderHeader() string {
	bar := theme.Hot.Render("mapty") + "  " + theme.Muted.Render("map your workouts")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) renderMapPane(h int) string {
	style := theme.Pane
	if m.focus == paneMap || m.form.Visible() {
		style = theme.PaneActive
	}
	mapW, _ := m.paneWidths()
	return style.Width(mapW - 2).Height(h - 2).Render(m.mapView.View())
}

func (m Model) renderListPane(h int) string {
	style := theme.Pane
	if m.focus == paneList {
		style = theme.PaneActive
	}
	_, listW := m.paneWidths()
	return style.Width(listW - 2).Height(h - 2).Render(m.listView.View())
}

func (m Model) renderNotice() string {
	return theme.Notice.Width(min(max(m.width-8, 20), 56)).Render(m.notice + "\n\n" + theme.Muted.Render("press any key"))
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "locate":
		if len(parts) < 2 {
			m.status = "usage: locate <id>"
			return m, nil
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			m.status = "invalid id: " + parts[1]
			return m, nil
		}
		return m, m.locateCmd(id)

	case "goto":
		if len(parts) < 3 {
			m.status = "usage: goto <lat> <lng>"
			return m, nil
		}
		lat, latErr := strconv.ParseFloat(parts[1], 64)
		lng, lngErr := strconv.ParseFloat(parts[2], 64)
		if latErr != nil || lngErr != nil {
			m.status = "invalid coordinates"
			return m, nil
		}
		return m, m.clickCmd(workoutdto.Coords{Lat: lat, Lng: lng})

	case "home":
		if m.home == nil {
			m.status = "position unknown"
			return m, nil
		}
		m.mapView.SetView(*m.home, m.mapView.Zoom())
		m.focus = paneMap
		return m, nil

	case "new":
		if !m.mapView.Ready() {
			m.status = "map not ready"
			return m, nil
		}
		return m, m.clickCmd(m.mapView.CursorCoords())

	case "cancel":
		return m, m.cancelCmd()

	case "save":
		return m, m.saveCmd()

	case "export":
		return m, m.exportCmd()

	case "reset":
		return m, m.resetCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// sync copies what the tracker drew into the views. The map only re-centers
// when the tracker set a new view, so cursor position survives marker updates.
func (m *Model) sync() {
	snap := m.scene.Snapshot()
	if snap.Version == m.version {
		return
	}
	m.version = snap.Version
	if snap.HasView && snap.Views != m.views {
		m.views = snap.Views
		m.mapView.SetView(snap.Center, snap.Zoom)
	}
	m.mapView.SetMarkers(snap.Markers)
	m.listView.SetWorkouts(snap.Items)
	log.Tracef("scene synced at version %d", snap.Version)
}

func (m Model) paneWidths() (int, int) {
	mapW := m.width * 6 / 10
	return mapW, m.width - mapW
}

func (m *Model) propagateSize() {
	contentH := max(m.height-3, 1)
	mapW, listW := m.paneWidths()
	m.mapView, _ = m.mapView.Update(tea.WindowSizeMsg{Width: max(mapW-4, 3), Height: max(contentH-4, 4)})
	m.listView, _ = m.listView.Update(tea.WindowSizeMsg{Width: max(listW-4, 10), Height: max(contentH-4, 4)})
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) restoreCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Restore(context.Background())
		return restoredMsg{out: out, err: err}
	}
}

func (m Model) initMapCmd() tea.Cmd {
	return func() tea.Msg {
		center, err := m.tracker.InitMap(context.Background())
		return mapInitMsg{center: center, err: err}
	}
}

func (m Model) clickCmd(at workoutdto.Coords) tea.Cmd {
	return func() tea.Msg {
		err := m.tracker.Click(context.Background(), at.Lat, at.Lng)
		return clickedMsg{at: at, err: err}
	}
}

func (m Model) submitCmd(input workoutdto.FormInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.SubmitForm(context.Background(), input)
		return submittedMsg{out: out, err: err}
	}
}

func (m Model) cancelCmd() tea.Cmd {
	return func() tea.Msg {
		return cancelledMsg{err: m.tracker.Cancel(context.Background())}
	}
}

func (m Model) locateCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := m.tracker.Locate(context.Background(), id)
		return locatedMsg{id: id, err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		return resetMsg{err: m.tracker.Reset(context.Background())}
	}
}

func (m Model) saveCmd() tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: m.tracker.Save(context.Background())}
	}
}

func (m Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Export(context.Background())
		return exportedMsg{out: out, err: err}
	}
}
