package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	workoutdto "mapty/internal/modules/workout/dto"
	"mapty/internal/ui/theme"
)

// FormSubmitMsg carries the raw field values; the tracker parses them.
type FormSubmitMsg struct{ Input workoutdto.FormInput }

// FormCancelMsg is emitted when the user presses esc.
type FormCancelMsg struct{}

const (
	fieldDistance = iota
	fieldDuration
	fieldCadence
	fieldElevation
	fieldCount
)

var (
	formStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Lavender).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(theme.Subtext0).Width(10)
)

// Form is the workout entry overlay. ctrl+t toggles the type, which swaps
// the cadence field for elevation gain.
type Form struct {
	inputs  [fieldCount]textinput.Model
	kind    string
	focus   int
	visible bool
	at      workoutdto.Coords
	width   int
}

func NewForm() Form {
	f := Form{kind: "running"}
	placeholders := [fieldCount]string{"km", "min", "step/min", "meters"}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 16
		f.inputs[i] = ti
	}
	return f
}

func (f Form) Visible() bool { return f.visible }

func (f Form) Kind() string { return f.kind }

func (f *Form) SetWidth(w int) { f.width = w }

// Open shows an empty form for a location. Kind is kept between entries.
func (f *Form) Open(at workoutdto.Coords) tea.Cmd {
	f.visible = true
	f.at = at
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	return f.focusField(fieldDistance)
}

// Move keeps the values and points the form at a new location.
func (f *Form) Move(at workoutdto.Coords) { f.at = at }

// Close hides and clears the form.
func (f *Form) Close() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
}

func (f *Form) ToggleKind() {
	if f.kind == "running" {
		f.kind = "cycling"
	} else {
		f.kind = "running"
	}
	if f.focus == fieldCadence || f.focus == fieldElevation {
		f.focusField(f.extraField())
	}
}

func (f Form) Input() workoutdto.FormInput {
	return workoutdto.FormInput{
		Type:      f.kind,
		Distance:  f.inputs[fieldDistance].Value(),
		Duration:  f.inputs[fieldDuration].Value(),
		Cadence:   f.inputs[fieldCadence].Value(),
		Elevation: f.inputs[fieldElevation].Value(),
	}
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return f, func() tea.Msg { return FormCancelMsg{} }
		case "enter":
			input := f.Input()
			return f, func() tea.Msg { return FormSubmitMsg{Input: input} }
		case "ctrl+t":
			f.ToggleKind()
			return f, nil
		case "tab", "down":
			return f, f.focusField(f.nextField(1))
		case "shift+tab", "up":
			return f, f.focusField(f.nextField(-1))
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f Form) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New workout") + "  " +
		theme.Muted.Render(fmt.Sprintf("@ %.4f, %.4f", f.at.Lat, f.at.Lng)) + "\n\n")
	sb.WriteString(labelStyle.Render("Type") + theme.Hot.Render(strings.ToUpper(f.kind[:1])+f.kind[1:]) + theme.Muted.Render("  (ctrl+t)") + "\n")
	sb.WriteString(labelStyle.Render("Distance") + f.inputs[fieldDistance].View() + "\n")
	sb.WriteString(labelStyle.Render("Duration") + f.inputs[fieldDuration].View() + "\n")
	if f.kind == "cycling" {
		sb.WriteString(labelStyle.Render("Elev Gain") + f.inputs[fieldElevation].View() + "\n")
	} else {
		sb.WriteString(labelStyle.Render("Cadence") + f.inputs[fieldCadence].View() + "\n")
	}
	sb.WriteString("\n" + hintStyle.Render("enter: save  tab: next field  esc: cancel"))

	w := f.width
	if w < 20 {
		w = 48
	}
	return formStyle.Width(w - 2).Render(sb.String())
}

func (f Form) extraField() int {
	if f.kind == "cycling" {
		return fieldElevation
	}
	return fieldCadence
}

// nextField cycles through distance, duration and the visible extra field.
func (f Form) nextField(step int) int {
	order := []int{fieldDistance, fieldDuration, f.extraField()}
	idx := 0
	for i, field := range order {
		if field == f.focus {
			idx = i
		}
	}
	return order[(idx+step+len(order))%len(order)]
}

func (f *Form) focusField(field int) tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = field
	return f.inputs[field].Focus()
}
