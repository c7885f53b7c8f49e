package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"mapty/internal/modules/workout/domain"
	"mapty/internal/modules/workout/dto"
	workoutin "mapty/internal/modules/workout/port/in"
	workoutout "mapty/internal/modules/workout/port/out"
	"mapty/internal/modules/workout/service"
	apperrors "mapty/internal/platform/errors"
)

const DefaultZoom = 13

// Tracker owns the in-memory workout list and the pending map selection.
// Bubble Tea runs commands on goroutines, so every operation takes mu.
type Tracker struct {
	svc     *service.WorkoutService
	store   workoutout.KeyValueStore
	mapView workoutout.MapWidget
	list    workoutout.WorkoutList
	geo     workoutout.Geolocator
	journal workoutout.Journal
	zoom    int

	mu       sync.Mutex
	workouts []domain.Workout
	pending  *domain.Coords
	mapReady bool
	center   domain.Coords

	// readErr blocks saving while the stored list is unknown.
	readErr error
	// kept holds stored records that failed to decode; they are written back.
	kept []json.RawMessage
	// unreadable is a stored payload that was not a list at all.
	unreadable string
}

type Collaborators struct {
	Store   workoutout.KeyValueStore
	Map     workoutout.MapWidget
	List    workoutout.WorkoutList
	Geo     workoutout.Geolocator
	Journal workoutout.Journal
}

func NewInteractor(svc *service.WorkoutService, deps Collaborators, zoom int) workoutin.Usecase {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &Tracker{
		svc:     svc,
		store:   deps.Store,
		mapView: deps.Map,
		list:    deps.List,
		geo:     deps.Geo,
		journal: deps.Journal,
		zoom:    zoom,
	}
}

// InitMap centers the map on the current position and draws markers that
// were waiting for it. Geolocation runs without holding the lock.
func (t *Tracker) InitMap(ctx context.Context) (dto.Coords, error) {
	if t.geo == nil {
		return dto.Coords{}, fmt.Errorf("%w: no geolocation provider configured", apperrors.ErrGeolocation)
	}
	coords, err := t.geo.Locate(ctx)
	if err != nil {
		return dto.Coords{}, fmt.Errorf("%w: %w", apperrors.ErrGeolocation, err)
	}
	if err := coords.Validate(); err != nil {
		return dto.Coords{}, fmt.Errorf("%w: %w", apperrors.ErrGeolocation, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.mapReady = true
	t.center = coords
	if t.mapView != nil {
		t.mapView.SetView(ctx, toDTOCoords(coords), t.zoom, false)
		t.mapView.ClearMarkers(ctx)
	}
	for _, w := range t.workouts {
		t.renderMarker(ctx, w)
	}
	log.WithField("center", coords.String()).Debugf("map ready with %d markers", len(t.workouts))
	return toDTOCoords(coords), nil
}

func (t *Tracker) SelectLocation(_ context.Context, coords dto.Coords) error {
	c := domain.Coords{Lat: coords.Lat, Lng: coords.Lng}
	if err := c.Validate(); err != nil {
		return &apperrors.ValidationError{Field: "location", Reason: "is not a point on the map", Err: err}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = &c
	return nil
}

func (t *Tracker) Cancel(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
	return nil
}

func (t *Tracker) Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error) {
	kind, err := domain.ParseKind(input.Kind)
	if err != nil {
		return dto.SubmitOutput{}, &apperrors.ValidationError{Field: "type", Reason: "must be running or cycling", Err: err}
	}
	extraField := "cadence"
	if kind == domain.KindCycling {
		extraField = "elevation"
	}
	if err := validateSubmission(kind, extraField, input); err != nil {
		return dto.SubmitOutput{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return dto.SubmitOutput{}, &apperrors.ValidationError{Reason: "select a location on the map first", Err: apperrors.ErrNoPendingLocation}
	}

	w, err := t.svc.Create(kind, *t.pending, input.Distance, input.Duration, input.Extra)
	if err != nil {
		return dto.SubmitOutput{}, &apperrors.ValidationError{Reason: "distance and duration are out of range", Err: err}
	}
	t.workouts = append(t.workouts, w)
	t.renderMarker(ctx, w)
	t.renderListItem(ctx, w)
	t.pending = nil

	log.WithFields(log.Fields{"id": w.ID, "kind": w.Kind()}).Infof("recorded %s", w.Description())

	output := dto.SubmitOutput{Workout: toOutput(w), Persisted: true}
	if err := t.persistLocked(ctx); err != nil {
		log.Warnf("workout %d kept in memory only: %s", w.ID, err)
		output.Persisted = false
		output.PersistError = err.Error()
	}
	return output, nil
}

// SubmitForm coerces raw field values the way a number input does: blank is 0
// and anything unparsable is NaN, which Submit rejects.
func (t *Tracker) SubmitForm(ctx context.Context, input dto.FormInput) (dto.SubmitOutput, error) {
	extra := input.Cadence
	if strings.EqualFold(strings.TrimSpace(input.Type), string(domain.KindCycling)) {
		extra = input.Elevation
	}
	return t.Submit(ctx, dto.SubmitInput{
		Kind:     input.Type,
		Distance: parseField(input.Distance),
		Duration: parseField(input.Duration),
		Extra:    parseField(extra),
	})
}

// Restore replaces the in-memory list with the stored one. A missing,
// unreadable or malformed value restores nothing and is not an error, but an
// unreadable store blocks saving until a later Restore or Reset succeeds.
func (t *Tracker) Restore(ctx context.Context) (dto.RestoreOutput, error) {
	if t.store == nil {
		return dto.RestoreOutput{}, nil
	}
	raw, ok, err := t.store.Get(ctx, domain.StorageKey)
	if err != nil {
		log.Warnf("restore workouts, saving is disabled: %s", fmt.Errorf("%w: %w", apperrors.ErrStorage, err))
		t.mu.Lock()
		t.readErr = err
		t.mu.Unlock()
		return dto.RestoreOutput{}, nil
	}
	if !ok {
		log.Debug("no stored workouts")
		t.mu.Lock()
		t.readErr, t.kept, t.unreadable = nil, nil, ""
		t.mu.Unlock()
		return dto.RestoreOutput{}, nil
	}

	workouts, errs := domain.DecodeList([]byte(raw))
	var (
		kept       []json.RawMessage
		keptIDs    []int64
		unreadable string
	)
	for _, err := range errs {
		var skipped *domain.SkippedRecord
		if errors.As(err, &skipped) {
			kept = append(kept, skipped.Raw)
			if id, ok := skipped.StoredID(); ok {
				keptIDs = append(keptIDs, id)
			}
			log.Warnf("skipping stored workout: %s", err)
			continue
		}
		unreadable = raw
		log.Warnf("stored workouts unreadable, backing up to %q on next save: %s", domain.UnreadableKey, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.readErr, t.kept, t.unreadable = nil, kept, unreadable
	t.workouts = workouts
	t.svc.Adopt(workouts)
	for _, id := range keptIDs {
		t.svc.ReserveID(id)
	}
	if t.list != nil {
		t.list.ClearWorkouts(ctx)
	}
	if t.mapReady && t.mapView != nil {
		t.mapView.ClearMarkers(ctx)
	}
	out := dto.RestoreOutput{Workouts: make([]dto.WorkoutOutput, 0, len(workouts)), Skipped: len(errs)}
	for _, w := range workouts {
		t.renderListItem(ctx, w)
		t.renderMarker(ctx, w)
		out.Workouts = append(out.Workouts, toOutput(w))
	}
	log.Infof("restored %d workouts (%d skipped)", len(workouts), len(errs))
	return out, nil
}

func (t *Tracker) Persist(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.persistLocked(ctx); err != nil {
		log.Warnf("save workouts: %s", err)
		return err
	}
	return nil
}

func (t *Tracker) Locate(ctx context.Context, id int64) (dto.Coords, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, w := range t.workouts {
		if w.ID != id {
			continue
		}
		if t.mapReady && t.mapView != nil {
			t.center = w.Coords
			t.mapView.SetView(ctx, toDTOCoords(w.Coords), t.zoom, true)
		}
		return toDTOCoords(w.Coords), nil
	}
	return dto.Coords{}, fmt.Errorf("%w: workout %d", apperrors.ErrNotFound, id)
}

// Reset wipes stored and in-memory state. Memory is cleared even when the
// store cannot be reached.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.workouts = nil
	t.pending = nil
	t.readErr, t.kept, t.unreadable = nil, nil, ""
	t.svc.ResetIDs()
	if t.mapView != nil {
		t.mapView.ClearMarkers(ctx)
	}
	if t.list != nil {
		t.list.ClearWorkouts(ctx)
	}
	if t.store == nil {
		return nil
	}
	if err := t.store.Remove(ctx, domain.StorageKey); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	log.Info("workouts reset")
	return nil
}

func (t *Tracker) List(_ context.Context) ([]dto.WorkoutOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]dto.WorkoutOutput, 0, len(t.workouts))
	for _, w := range t.workouts {
		out = append(out, toOutput(w))
	}
	return out, nil
}

func (t *Tracker) State(_ context.Context) (dto.StateOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := dto.StateOutput{
		State:     dto.StateIdle,
		MapReady:  t.mapReady,
		MapCenter: toDTOCoords(t.center),
		Count:     len(t.workouts),
	}
	if t.pending != nil {
		out.State = dto.StateAwaitingInput
		out.Pending = toDTOCoords(*t.pending)
	}
	return out, nil
}

func (t *Tracker) Export(ctx context.Context) (dto.ExportOutput, error) {
	if t.journal == nil {
		return dto.ExportOutput{}, fmt.Errorf("journal is not configured")
	}
	items, _ := t.List(ctx)
	out := dto.ExportOutput{Paths: make([]string, 0, len(items))}
	for _, item := range items {
		path, err := t.journal.Write(ctx, item)
		if err != nil {
			return out, fmt.Errorf("export workout %d: %w", item.ID, err)
		}
		out.Paths = append(out.Paths, path)
	}
	return out, nil
}

func (t *Tracker) persistLocked(ctx context.Context) error {
	if t.store == nil {
		return fmt.Errorf("%w: no store configured", apperrors.ErrStorage)
	}
	if t.readErr != nil {
		return fmt.Errorf("%w: stored workouts could not be read, not overwriting them: %w", apperrors.ErrStorage, t.readErr)
	}
	if t.unreadable != "" {
		if err := t.store.Set(ctx, domain.UnreadableKey, t.unreadable); err != nil {
			return fmt.Errorf("%w: back up unreadable workouts: %w", apperrors.ErrStorage, err)
		}
		log.Warnf("unreadable workouts moved to %q", domain.UnreadableKey)
		t.unreadable = ""
	}
	payload, err := domain.EncodeList(t.workouts, t.kept...)
	if err != nil {
		return err
	}
	if err := t.store.Set(ctx, domain.StorageKey, string(payload)); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	return nil
}

// renderMarker is a no-op until the map is ready; InitMap catches up.
func (t *Tracker) renderMarker(ctx context.Context, w domain.Workout) {
	if !t.mapReady || t.mapView == nil {
		return
	}
	t.mapView.AddMarker(ctx, dto.Marker{
		WorkoutID: w.ID,
		Kind:      string(w.Kind()),
		Coords:    toDTOCoords(w.Coords),
		Popup:     fmt.Sprintf("%s %s", w.Kind().Icon(), w.Description()),
	})
}

func (t *Tracker) renderListItem(ctx context.Context, w domain.Workout) {
	if t.list == nil {
		return
	}
	t.list.RenderWorkout(ctx, toOutput(w))
}

func validateSubmission(kind domain.Kind, extraField string, input dto.SubmitInput) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"distance", input.Distance},
		{"duration", input.Duration},
		{extraField, input.Extra},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return apperrors.NewValidationError(f.name, "has to be a number")
		}
	}
	if input.Distance <= 0 {
		return apperrors.NewValidationError("distance", "has to be a positive number")
	}
	if input.Duration <= 0 {
		return apperrors.NewValidationError("duration", "has to be a positive number")
	}
	// elevation may be negative for descents; cadence may not
	if kind == domain.KindRunning && input.Extra <= 0 {
		return apperrors.NewValidationError("cadence", "has to be a positive number")
	}
	return nil
}

func parseField(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func toOutput(w domain.Workout) dto.WorkoutOutput {
	out := dto.WorkoutOutput{
		ID:          w.ID,
		Kind:        string(w.Kind()),
		Icon:        w.Kind().Icon(),
		Description: w.Description(),
		Coords:      toDTOCoords(w.Coords),
		Distance:    w.Distance,
		Duration:    w.Duration,
		Date:        w.Date,
	}
	switch m := w.Metrics.(type) {
	case domain.Running:
		out.Cadence, out.Pace = m.Cadence, m.Pace
	case domain.Cycling:
		out.ElevationGain, out.Speed = m.ElevationGain, m.Speed
	}
	return out
}

func toDTOCoords(c domain.Coords) dto.Coords {
	return dto.Coords{Lat: c.Lat, Lng: c.Lng}
}
