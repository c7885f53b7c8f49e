package out

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	workoutdto "mapty/internal/modules/workout/dto"
)

// TextRenderer is the map and list surface of the non-interactive CLI. It
// keeps what was drawn and prints it on demand.
type TextRenderer struct {
	mu      sync.Mutex
	center  workoutdto.Coords
	zoom    int
	hasView bool
	markers []workoutdto.Marker
	items   []workoutdto.WorkoutOutput
}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) SetView(_ context.Context, center workoutdto.Coords, zoom int, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.center, r.zoom, r.hasView = center, zoom, true
}

func (r *TextRenderer) AddMarker(_ context.Context, marker workoutdto.Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = append(r.markers, marker)
}

func (r *TextRenderer) ClearMarkers(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = nil
}

func (r *TextRenderer) RenderWorkout(_ context.Context, item workoutdto.WorkoutOutput) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

func (r *TextRenderer) ClearWorkouts(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// WriteView prints the map center and every marker.
func (r *TextRenderer) WriteView(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasView {
		_, err := fmt.Fprintln(w, "map not initialized")
		return err
	}
	if _, err := fmt.Fprintf(w, "map centered at %.4f,%.4f (zoom %d)\n", r.center.Lat, r.center.Lng, r.zoom); err != nil {
		return err
	}
	for _, m := range r.markers {
		if _, err := fmt.Fprintf(w, "  #%d %s @ %.4f,%.4f\n", m.WorkoutID, m.Popup, m.Coords.Lat, m.Coords.Lng); err != nil {
			return err
		}
	}
	return nil
}

// WriteList prints rendered workouts newest first, the way the sidebar shows them.
func (r *TextRenderer) WriteList(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		_, err := fmt.Fprintln(w, "no workouts yet")
		return err
	}
	for i := len(r.items) - 1; i >= 0; i-- {
		if _, err := fmt.Fprintln(w, FormatWorkout(r.items[i])); err != nil {
			return err
		}
	}
	return nil
}

func FormatWorkout(item workoutdto.WorkoutOutput) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "#%-3d %s  %s %.1f km  ⏱ %.0f min", item.ID, item.Description, item.Icon, item.Distance, item.Duration)
	switch item.Kind {
	case "running":
		fmt.Fprintf(&b, "  ⚡️ %.1f min/km  🦶🏼 %.0f spm", item.Pace, item.Cadence)
	case "cycling":
		fmt.Fprintf(&b, "  ⚡️ %.1f km/h  ⛰ %.0f m", item.Speed, item.ElevationGain)
	}
	return b.String()
}
