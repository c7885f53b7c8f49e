package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	apperrors "mapty/internal/platform/errors"
)

// record is the persisted shape of one workout. Derived fields are written for
// readers of the raw value but recomputed on decode.
type record struct {
	ID            *int64    `json:"id"`
	Coords        []float64 `json:"coords"`
	Distance      *float64  `json:"distance"`
	Duration      *float64  `json:"duration"`
	Date          string    `json:"date"`
	Kind          string    `json:"kind,omitempty"`
	Type          string    `json:"type,omitempty"`
	Description   string    `json:"description,omitempty"`
	Cadence       *float64  `json:"cadence,omitempty"`
	Pace          *float64  `json:"pace,omitempty"`
	ElevationGain *float64  `json:"elevationGain,omitempty"`
	Speed         *float64  `json:"speed,omitempty"`
}

// SkippedRecord is a stored element DecodeList could not turn into a workout.
// Raw is the element as stored so it can be written back untouched.
type SkippedRecord struct {
	Index int
	Raw   json.RawMessage
	Err   error
}

func (e *SkippedRecord) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Err)
}

func (e *SkippedRecord) Unwrap() error { return e.Err }

// StoredID reports the record's id when it has a usable one.
func (e *SkippedRecord) StoredID() (int64, bool) {
	var head struct {
		ID *int64 `json:"id"`
	}
	if json.Unmarshal(e.Raw, &head) != nil || head.ID == nil {
		return 0, false
	}
	if *head.ID < 0 || *head.ID == math.MaxInt64 {
		return 0, false
	}
	return *head.ID, true
}

// EncodeList serializes workouts followed by any kept raw elements.
func EncodeList(workouts []Workout, kept ...json.RawMessage) ([]byte, error) {
	records := make([]any, 0, len(workouts)+len(kept))
	for _, w := range workouts {
		rec, err := toRecord(w)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	for _, raw := range kept {
		records = append(records, raw)
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal workouts: %w", err)
	}
	return payload, nil
}

// DecodeList parses a stored list. Invalid records are skipped and reported as
// *SkippedRecord; a payload that is not an array yields no workouts and a
// single plain error.
func DecodeList(payload []byte) ([]Workout, []error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, []error{fmt.Errorf("%w: decode workout list: %v", apperrors.ErrInvalidInput, err)}
	}
	workouts := make([]Workout, 0, len(raw))
	var errs []error
	for i, item := range raw {
		w, err := decodeRecord(item)
		if err != nil {
			errs = append(errs, &SkippedRecord{Index: i, Raw: item, Err: err})
			continue
		}
		workouts = append(workouts, w)
	}
	return workouts, errs
}

func toRecord(w Workout) (record, error) {
	id, distance, duration := w.ID, w.Distance, w.Duration
	rec := record{
		ID:          &id,
		Coords:      []float64{w.Coords.Lat, w.Coords.Lng},
		Distance:    &distance,
		Duration:    &duration,
		Date:        w.Date.Format(time.RFC3339Nano),
		Kind:        string(w.Kind()),
		Description: w.Description(),
	}
	switch m := w.Metrics.(type) {
	case Running:
		rec.Cadence, rec.Pace = &m.Cadence, &m.Pace
	case Cycling:
		rec.ElevationGain, rec.Speed = &m.ElevationGain, &m.Speed
	default:
		return record{}, fmt.Errorf("%w: workout %d has no kind", apperrors.ErrInvalidInput, w.ID)
	}
	return rec, nil
}

func decodeRecord(raw json.RawMessage) (Workout, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Workout{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	tag := rec.Kind
	if tag == "" {
		tag = rec.Type
	}
	kind, err := ParseKind(tag)
	if err != nil {
		return Workout{}, err
	}
	if rec.ID == nil {
		return Workout{}, fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	if *rec.ID < 0 || *rec.ID == math.MaxInt64 {
		return Workout{}, fmt.Errorf("%w: id %d out of range", apperrors.ErrInvalidInput, *rec.ID)
	}
	if len(rec.Coords) != 2 {
		return Workout{}, fmt.Errorf("%w: coords must be [lat, lng]", apperrors.ErrInvalidInput)
	}
	coords := Coords{Lat: rec.Coords[0], Lng: rec.Coords[1]}
	if err := coords.Validate(); err != nil {
		return Workout{}, err
	}
	if rec.Distance == nil || rec.Duration == nil {
		return Workout{}, fmt.Errorf("%w: distance and duration are required", apperrors.ErrInvalidInput)
	}
	date, err := time.Parse(time.RFC3339Nano, rec.Date)
	if err != nil {
		return Workout{}, fmt.Errorf("%w: date %q: %v", apperrors.ErrInvalidInput, rec.Date, err)
	}
	// labels are computed in local time, as they were when the workout was created
	date = date.Local()

	switch kind {
	case KindRunning:
		if rec.Cadence == nil {
			return Workout{}, fmt.Errorf("%w: running workout without cadence", apperrors.ErrInvalidInput)
		}
		return NewRunning(*rec.ID, date, coords, *rec.Distance, *rec.Duration, *rec.Cadence)
	case KindCycling:
		if rec.ElevationGain == nil {
			return Workout{}, fmt.Errorf("%w: cycling workout without elevationGain", apperrors.ErrInvalidInput)
		}
		return NewCycling(*rec.ID, date, coords, *rec.Distance, *rec.Duration, *rec.ElevationGain)
	}
	return Workout{}, fmt.Errorf("%w: unsupported workout type %q", apperrors.ErrInvalidInput, tag)
}
