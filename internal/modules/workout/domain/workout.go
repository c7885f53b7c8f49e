package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "mapty/internal/platform/errors"
)

// StorageKey is the key-value slot holding the serialized workout list.
const StorageKey = "workouts"

// UnreadableKey receives a stored list that could not be parsed before the
// first save replaces it.
const UnreadableKey = StorageKey + ".unreadable"

type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindRunning, KindCycling:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unsupported workout type %q", apperrors.ErrInvalidInput, raw)
	}
}

// Title is the kind with its first letter capitalized.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

func (k Kind) Icon() string {
	switch k {
	case KindRunning:
		return "🏃‍♂️"
	case KindCycling:
		return "🚴‍♀️"
	default:
		return "•"
	}
}

type Coords struct {
	Lat float64
	Lng float64
}

func (c Coords) Validate() error {
	if !finite(c.Lat) || !finite(c.Lng) {
		return fmt.Errorf("%w: coordinates must be numbers", apperrors.ErrInvalidInput)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: coordinates %.4f,%.4f out of range", apperrors.ErrInvalidInput, c.Lat, c.Lng)
	}
	return nil
}

func (c Coords) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng)
}

// Metrics is the kind specific part of a workout. Only Running and Cycling implement it.
type Metrics interface {
	Kind() Kind
	sealed()
}

type Running struct {
	Cadence float64 // steps/min
	Pace    float64 // min/km
}

func (Running) Kind() Kind { return KindRunning }
func (Running) sealed()    {}

type Cycling struct {
	ElevationGain float64 // meters, negative for descents
	Speed         float64 // km/h
}

func (Cycling) Kind() Kind { return KindCycling }
func (Cycling) sealed()    {}

// Workout is immutable once built by NewRunning or NewCycling.
type Workout struct {
	ID       int64
	Coords   Coords
	Distance float64 // km
	Duration float64 // min
	Date     time.Time
	Metrics  Metrics
}

func NewRunning(id int64, date time.Time, coords Coords, distance, duration, cadence float64) (Workout, error) {
	if err := validateBase(distance, duration); err != nil {
		return Workout{}, err
	}
	if !finite(cadence) {
		return Workout{}, fmt.Errorf("%w: cadence must be a number", apperrors.ErrInvalidInput)
	}
	pace := duration / distance
	if !finite(pace) {
		return Workout{}, fmt.Errorf("%w: pace for %v min over %v km is out of range", apperrors.ErrInvalidInput, duration, distance)
	}
	return Workout{
		ID:       id,
		Coords:   coords,
		Distance: distance,
		Duration: duration,
		Date:     date,
		Metrics:  Running{Cadence: cadence, Pace: pace},
	}, nil
}

func NewCycling(id int64, date time.Time, coords Coords, distance, duration, elevationGain float64) (Workout, error) {
	if err := validateBase(distance, duration); err != nil {
		return Workout{}, err
	}
	if !finite(elevationGain) {
		return Workout{}, fmt.Errorf("%w: elevation gain must be a number", apperrors.ErrInvalidInput)
	}
	speed := distance / (duration / 60)
	if !finite(speed) {
		return Workout{}, fmt.Errorf("%w: speed for %v km in %v min is out of range", apperrors.ErrInvalidInput, distance, duration)
	}
	return Workout{
		ID:       id,
		Coords:   coords,
		Distance: distance,
		Duration: duration,
		Date:     date,
		Metrics:  Cycling{ElevationGain: elevationGain, Speed: speed},
	}, nil
}

func (w Workout) Kind() Kind {
	if w.Metrics == nil {
		return ""
	}
	return w.Metrics.Kind()
}

func (w Workout) Description() string {
	return Describe(w.Kind(), w.Date)
}

// Describe renders "<Kind> on <Month> <day>" in the date's own location.
func Describe(kind Kind, date time.Time) string {
	return fmt.Sprintf("%s on %s %d", kind.Title(), date.Month(), date.Day())
}

func validateBase(distance, duration float64) error {
	if !finite(distance) || distance <= 0 {
		return fmt.Errorf("%w: distance must be a positive number, got %v", apperrors.ErrInvalidInput, distance)
	}
	if !finite(duration) || duration <= 0 {
		return fmt.Errorf("%w: duration must be a positive number, got %v", apperrors.ErrInvalidInput, duration)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
