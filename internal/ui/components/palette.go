package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mapty/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
	usageCol  = lipgloss.NewStyle().Foreground(theme.Text).Width(20)
)

type paletteHint struct {
	usage string
	about string
}

// hints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []paletteHint{
	{"locate <id>", "center the map on a workout"},
	{"goto <lat> <lng>", "log a workout at coordinates"},
	{"new", "log a workout at the cursor"},
	{"home", "back to your position"},
	{"cancel", "drop the selected location"},
	{"save", "retry saving workouts"},
	{"export", "write journal notes"},
	{"reset", "delete every workout"},
}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 64
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if hints := p.matching(); len(hints) == 1 {
				name, _, _ := strings.Cut(hints[0].usage, " ")
				p.input.SetValue(name + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if hints := p.matching(); len(hints) > 0 {
		sb.WriteString("\n")
		for _, h := range hints {
			sb.WriteString(fmt.Sprintf("  %s%s\n", usageCol.Render(h.usage), hintStyle.Render(h.about)))
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

// matching filters hints by the command word typed so far.
func (p Palette) matching() []paletteHint {
	typed, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(p.input.Value())), " ")
	var out []paletteHint
	for _, h := range paletteHints {
		if typed == "" || strings.HasPrefix(h.usage, typed) {
			out = append(out, h)
		}
	}
	return out
}
