package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workoutout "mapty/internal/modules/workout/adapter/out"
	workoutdto "mapty/internal/modules/workout/dto"
	"mapty/internal/platform/markdown"
)

func sampleRun() workoutdto.WorkoutOutput {
	return workoutdto.WorkoutOutput{
		ID:          3,
		Kind:        "running",
		Icon:        "🏃‍♂️",
		Description: "Running on April 14",
		Coords:      workoutdto.Coords{Lat: 10, Lng: 20},
		Distance:    5,
		Duration:    25,
		Date:        time.Date(2026, 4, 14, 9, 0, 0, 0, time.UTC),
		Cadence:     180,
		Pace:        5,
	}
}

func TestTextRendererWritesViewAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := workoutout.NewTextRenderer()

	var buf strings.Builder
	require.NoError(t, r.WriteView(&buf))
	assert.Equal(t, "map not initialized\n", buf.String())

	r.SetView(ctx, workoutdto.Coords{Lat: 10, Lng: 20}, 13, false)
	r.AddMarker(ctx, workoutdto.Marker{WorkoutID: 3, Kind: "running", Coords: workoutdto.Coords{Lat: 10, Lng: 20}, Popup: "🏃‍♂️ Running on April 14"})
	buf.Reset()
	require.NoError(t, r.WriteView(&buf))
	assert.Contains(t, buf.String(), "map centered at 10.0000,20.0000 (zoom 13)")
	assert.Contains(t, buf.String(), "#3 🏃‍♂️ Running on April 14")

	older := sampleRun()
	older.ID = 1
	r.RenderWorkout(ctx, older)
	r.RenderWorkout(ctx, sampleRun())
	buf.Reset()
	require.NoError(t, r.WriteList(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "#3"), "newest first")
	assert.Contains(t, lines[0], "5.0 min/km")

	r.ClearWorkouts(ctx)
	r.ClearMarkers(ctx)
	buf.Reset()
	require.NoError(t, r.WriteList(&buf))
	assert.Equal(t, "no workouts yet\n", buf.String())
}

func TestVaultJournalKeepsUserNotes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	journal := workoutout.NewVaultJournal(dir)

	path, err := journal.Write(ctx, sampleRun())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026", "04", "14", "3-running-on-april-14.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(raw, []byte("\nfelt strong today\n")...), 0o644))

	updated := sampleRun()
	updated.Cadence = 175
	_, err = journal.Write(ctx, updated)
	require.NoError(t, err)

	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	var meta map[string]any
	body, err := markdown.SplitFrontmatter(string(raw), &meta)
	require.NoError(t, err)
	assert.Equal(t, "running", meta["kind"])
	assert.Equal(t, 175, meta["cadence_spm"])
	assert.Contains(t, body, "felt strong today")
	assert.Contains(t, body, "- Cadence: 175 spm")
	assert.NotContains(t, body, "- Cadence: 180 spm")
	assert.Equal(t, 1, strings.Count(body, "<!-- mapty:summary:start -->"))
}

func TestVaultJournalKeepsNotesOfEarlierWorkoutWithSameID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	journal := workoutout.NewVaultJournal(dir)

	first, err := journal.Write(ctx, sampleRun())
	require.NoError(t, err)
	raw, err := os.ReadFile(first)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(first, append(raw, []byte("\nmorning loop\n")...), 0o644))

	// same id and day after ids were reset, but a different workout
	later := sampleRun()
	later.Date = later.Date.Add(3 * time.Hour)
	later.Cadence = 160
	second, err := journal.Write(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026", "04", "14", "3-running-on-april-14-2.md"), second)

	raw, err = os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "morning loop")
	assert.Contains(t, string(raw), "- Cadence: 180 spm")

	raw, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "morning loop")
	assert.Contains(t, string(raw), "- Cadence: 160 spm")

	// re-exporting the later workout finds its own note again
	again, err := journal.Write(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, second, again)
}
