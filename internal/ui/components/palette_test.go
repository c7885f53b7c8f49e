package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapty/internal/ui/components"
)

func TestPaletteCompletesAndSubmits(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open()
	for _, r := range "loc" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Contains(t, p.View(), "center the map on a workout")
	assert.NotContains(t, p.View(), "delete every workout")

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, components.PaletteSubmitMsg{Input: "locate 3"}, cmd())
	assert.False(t, p.Visible())
}
