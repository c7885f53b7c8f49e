package scene

import (
	"context"
	"sync"

	workoutdto "mapty/internal/modules/workout/dto"
)

// Scene is the render target the tracker draws into. The tracker runs inside
// tea.Cmd goroutines, so the root model copies a Snapshot on its own loop.
type Scene struct {
	mu      sync.Mutex
	center  workoutdto.Coords
	zoom    int
	hasView bool
	animate bool
	markers []workoutdto.Marker
	items   []workoutdto.WorkoutOutput
	version uint64
	views   uint64
}

type Snapshot struct {
	Center  workoutdto.Coords
	Zoom    int
	HasView bool
	Animate bool
	Markers []workoutdto.Marker
	Items   []workoutdto.WorkoutOutput
	Version uint64
	// Views counts SetView calls so readers can tell a re-center from a redraw.
	Views uint64
}

func New() *Scene {
	return &Scene{}
}

func (s *Scene) SetView(_ context.Context, center workoutdto.Coords, zoom int, animate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center, s.zoom, s.hasView, s.animate = center, zoom, true, animate
	s.version++
	s.views++
}

func (s *Scene) AddMarker(_ context.Context, marker workoutdto.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = append(s.markers, marker)
	s.version++
}

func (s *Scene) ClearMarkers(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = nil
	s.version++
}

func (s *Scene) RenderWorkout(_ context.Context, item workoutdto.WorkoutOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	s.version++
}

func (s *Scene) ClearWorkouts(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.version++
}

func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Center:  s.center,
		Zoom:    s.zoom,
		HasView: s.hasView,
		Animate: s.animate,
		Markers: append([]workoutdto.Marker(nil), s.markers...),
		Items:   append([]workoutdto.WorkoutOutput(nil), s.items...),
		Version: s.version,
		Views:   s.views,
	}
}
