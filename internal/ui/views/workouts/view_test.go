package workouts_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workoutdto "mapty/internal/modules/workout/dto"
	"mapty/internal/ui/views/workouts"
)

func TestNewestFirstAndEnterLocates(t *testing.T) {
	t.Parallel()
	m := workouts.New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m.SetWorkouts([]workoutdto.WorkoutOutput{
		{ID: 0, Kind: "running", Description: "Running on April 14"},
		{ID: 1, Kind: "cycling", Description: "Cycling on April 15"},
	})
	require.Equal(t, 2, m.Len())

	id, ok := m.SelectedID()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, workouts.LocateMsg{ID: 1}, cmd())
}
