package scene_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workoutdto "mapty/internal/modules/workout/dto"
	"mapty/internal/ui/scene"
)

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := scene.New()
	s.SetView(ctx, workoutdto.Coords{Lat: 1, Lng: 2}, 13, false)
	s.AddMarker(ctx, workoutdto.Marker{WorkoutID: 0})
	s.RenderWorkout(ctx, workoutdto.WorkoutOutput{ID: 0})

	snap := s.Snapshot()
	require.True(t, snap.HasView)
	require.Len(t, snap.Markers, 1)
	require.Len(t, snap.Items, 1)

	s.ClearMarkers(ctx)
	s.ClearWorkouts(ctx)
	assert.Len(t, snap.Markers, 1, "earlier snapshot unaffected")

	next := s.Snapshot()
	assert.Empty(t, next.Markers)
	assert.Empty(t, next.Items)
	assert.Greater(t, next.Version, snap.Version)
}
