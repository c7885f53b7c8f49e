package workouts

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	workoutdto "mapty/internal/modules/workout/dto"
	"mapty/internal/ui/theme"
)

// LocateMsg asks the app to move the map to a workout.
type LocateMsg struct {
	ID int64
}

type workoutItem struct {
	w workoutdto.WorkoutOutput
}

// Title carries the kind's accent bar, like the colored edge of a sidebar card.
func (i workoutItem) Title() string {
	return lipgloss.NewStyle().Foreground(theme.Accent(i.w.Kind)).Render("▍") + fmt.Sprintf("%s  #%d", i.w.Description, i.w.ID)
}
func (i workoutItem) Description() string {
	base := fmt.Sprintf("%s %.1f km  ⏱ %.0f min", i.w.Icon, i.w.Distance, i.w.Duration)
	switch i.w.Kind {
	case "running":
		return base + fmt.Sprintf("  ⚡️ %.1f min/km  🦶🏼 %.0f spm", i.w.Pace, i.w.Cadence)
	case "cycling":
		return base + fmt.Sprintf("  ⚡️ %.1f km/h  ⛰ %.0f m", i.w.Speed, i.w.ElevationGain)
	}
	return base
}
func (i workoutItem) FilterValue() string { return i.w.Description }

var locateKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show on map"))

type Model struct {
	list list.Model
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Workouts"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("workout", "workouts")
	return Model{list: l}
}

// SetWorkouts shows items newest first, the way the sidebar stacks them.
func (m *Model) SetWorkouts(ws []workoutdto.WorkoutOutput) tea.Cmd {
	items := make([]list.Item, 0, len(ws))
	for i := len(ws) - 1; i >= 0; i-- {
		items = append(items, workoutItem{w: ws[i]})
	}
	return m.list.SetItems(items)
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) SelectedID() (int64, bool) {
	if item, ok := m.list.SelectedItem().(workoutItem); ok {
		return item.w.ID, true
	}
	return 0, false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if !m.Filtering() && key.Matches(msg, locateKey) {
			if id, ok := m.SelectedID(); ok {
				return m, func() tea.Msg { return LocateMsg{ID: id} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return theme.Title.Render("Workouts") + "\n\n" + theme.Muted.Render("Pick a spot on the map and press enter to log your first workout.")
	}
	return m.list.View()
}
