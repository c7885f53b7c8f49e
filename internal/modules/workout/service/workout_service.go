package service

import (
	"fmt"

	"mapty/internal/modules/workout/domain"
	"mapty/internal/platform/clock"
	"mapty/internal/platform/id"
)

// WorkoutService is the construction boundary: it stamps new workouts with an
// id from the injected sequence and a date from the injected clock.
type WorkoutService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewWorkoutService(clock clock.Clock, idGen id.Generator) *WorkoutService {
	return &WorkoutService{clock: clock, idGen: idGen}
}

// Create builds a workout of the given kind. extra is cadence for running and
// elevation gain for cycling. No id is consumed when construction fails.
func (s *WorkoutService) Create(kind domain.Kind, coords domain.Coords, distance, duration, extra float64) (domain.Workout, error) {
	now := s.clock.Now()
	var (
		w   domain.Workout
		err error
	)
	switch kind {
	case domain.KindRunning:
		w, err = domain.NewRunning(0, now, coords, distance, duration, extra)
	case domain.KindCycling:
		w, err = domain.NewCycling(0, now, coords, distance, duration, extra)
	default:
		return domain.Workout{}, fmt.Errorf("unsupported workout kind %q", kind)
	}
	if err != nil {
		return domain.Workout{}, err
	}
	w.ID = s.idGen.Next()
	return w, nil
}

// Adopt keeps ids of restored workouts out of the sequence.
func (s *WorkoutService) Adopt(workouts []domain.Workout) {
	for _, w := range workouts {
		s.idGen.Reserve(w.ID)
	}
}

// ReserveID keeps a single stored id out of the sequence.
func (s *WorkoutService) ReserveID(id int64) {
	s.idGen.Reserve(id)
}

func (s *WorkoutService) ResetIDs() {
	s.idGen.Reset()
}
