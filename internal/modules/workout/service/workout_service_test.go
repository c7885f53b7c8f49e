package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapty/internal/modules/workout/domain"
	"mapty/internal/modules/workout/service"
	apperrors "mapty/internal/platform/errors"
	"mapty/internal/platform/id"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func TestCreateStampsIDAndDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 4, 14, 8, 0, 0, 0, time.UTC)
	svc := service.NewWorkoutService(fixedClock{now: now}, id.NewSequence())

	run, err := svc.Create(domain.KindRunning, domain.Coords{Lat: 10, Lng: 10}, 5, 25, 180)
	require.NoError(t, err)
	assert.Equal(t, int64(0), run.ID)
	assert.Equal(t, now, run.Date)
	assert.Equal(t, domain.Running{Cadence: 180, Pace: 5}, run.Metrics)

	ride, err := svc.Create(domain.KindCycling, domain.Coords{Lat: 10, Lng: 10}, 20, 60, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ride.ID)
	assert.Equal(t, domain.Cycling{ElevationGain: -5, Speed: 20}, ride.Metrics)
}

func TestCreateFailureDoesNotConsumeID(t *testing.T) {
	t.Parallel()
	svc := service.NewWorkoutService(fixedClock{now: time.Now()}, id.NewSequence())

	_, err := svc.Create(domain.KindRunning, domain.Coords{}, 0, 25, 180)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = svc.Create(domain.Kind("rowing"), domain.Coords{}, 5, 25, 0)
	assert.Error(t, err)

	w, err := svc.Create(domain.KindCycling, domain.Coords{}, 5, 25, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.ID)
}

func TestAdoptAndResetIDs(t *testing.T) {
	t.Parallel()
	svc := service.NewWorkoutService(fixedClock{now: time.Now()}, id.NewSequence())
	svc.Adopt([]domain.Workout{{ID: 3}, {ID: 11}, {ID: 7}})

	w, err := svc.Create(domain.KindRunning, domain.Coords{}, 5, 25, 180)
	require.NoError(t, err)
	assert.Equal(t, int64(12), w.ID)

	svc.ResetIDs()
	w, err = svc.Create(domain.KindRunning, domain.Coords{}, 5, 25, 180)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.ID)
}
