package domain_test

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapty/internal/modules/workout/domain"
	apperrors "mapty/internal/platform/errors"
)

func randomWorkouts(t *testing.T, faker *gofakeit.Faker, n int) []domain.Workout {
	t.Helper()
	out := make([]domain.Workout, 0, n)
	for i := 0; i < n; i++ {
		coords := domain.Coords{Lat: faker.Latitude(), Lng: faker.Longitude()}
		distance := faker.Float64Range(0.1, 200)
		duration := faker.Float64Range(1, 600)
		date := faker.Date()

		var (
			w   domain.Workout
			err error
		)
		if faker.Bool() {
			w, err = domain.NewRunning(int64(i), date, coords, distance, duration, faker.Float64Range(120, 200))
		} else {
			w, err = domain.NewCycling(int64(i), date, coords, distance, duration, faker.Float64Range(-500, 2000))
		}
		require.NoError(t, err)
		out = append(out, w)
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	faker := gofakeit.New(42)
	want := randomWorkouts(t, faker, 40)

	payload, err := domain.EncodeList(want)
	require.NoError(t, err)

	got, errs := domain.DecodeList(payload)
	require.Empty(t, errs)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Coords, got[i].Coords)
		assert.Equal(t, want[i].Distance, got[i].Distance)
		assert.Equal(t, want[i].Duration, got[i].Duration)
		assert.True(t, want[i].Date.Equal(got[i].Date), "date %d", i)
		assert.Equal(t, want[i].Metrics, got[i].Metrics)
		assert.Equal(t, domain.Describe(want[i].Kind(), want[i].Date.Local()), got[i].Description())
	}
}

func TestEncodeListLayout(t *testing.T) {
	t.Parallel()
	run, err := domain.NewRunning(7, april14, domain.Coords{Lat: 10, Lng: 10.5}, 5, 25, 180)
	require.NoError(t, err)
	ride, err := domain.NewCycling(8, april14, domain.Coords{Lat: -1, Lng: 2}, 20, 60, -5)
	require.NoError(t, err)

	payload, err := domain.EncodeList([]domain.Workout{run, ride})
	require.NoError(t, err)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(payload, &generic))
	require.Len(t, generic, 2)

	assert.Equal(t, float64(7), generic[0]["id"])
	assert.Equal(t, []any{10.0, 10.5}, generic[0]["coords"])
	assert.Equal(t, "running", generic[0]["kind"])
	assert.Equal(t, "Running on April 14", generic[0]["description"])
	assert.Equal(t, "2026-04-14T09:30:00Z", generic[0]["date"])
	assert.Equal(t, 180.0, generic[0]["cadence"])
	assert.Equal(t, 5.0, generic[0]["pace"])
	assert.NotContains(t, generic[0], "speed")
	assert.NotContains(t, generic[0], "type")

	assert.Equal(t, "cycling", generic[1]["kind"])
	assert.Equal(t, -5.0, generic[1]["elevationGain"])
	assert.Equal(t, 20.0, generic[1]["speed"])
	assert.NotContains(t, generic[1], "cadence")

	empty, err := domain.EncodeList(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(empty))
}

func TestDecodeRecomputesDerivedFieldsAndAcceptsLegacyType(t *testing.T) {
	t.Parallel()
	payload := `[
	  {"id":0,"coords":[38.7,-9.1],"distance":5,"duration":25,"date":"2026-04-14T07:12:45.123Z",
	   "type":"running","description":"stale","cadence":178,"pace":999},
	  {"id":1,"coords":[38.7,-9.2],"distance":27,"duration":95,"date":"2026-04-15T17:00:00.000Z",
	   "type":"cycling","elevationGain":523,"speed":1}
	]`
	got, errs := domain.DecodeList([]byte(payload))
	require.Empty(t, errs)
	require.Len(t, got, 2)

	assert.Equal(t, domain.Running{Cadence: 178, Pace: 5}, got[0].Metrics)
	stamp := time.Date(2026, 4, 14, 7, 12, 45, 123e6, time.UTC)
	assert.True(t, stamp.Equal(got[0].Date))
	assert.Equal(t, time.Local, got[0].Date.Location())
	assert.Equal(t, domain.Describe(domain.KindRunning, stamp.Local()), got[0].Description())
	assert.Equal(t, 123, got[0].Date.Nanosecond()/1e6)

	ride := got[1].Metrics.(domain.Cycling)
	assert.InDelta(t, 27/(95.0/60), ride.Speed, 1e-12)
	assert.Equal(t, 523.0, ride.ElevationGain)
}

func TestDecodeSkipsInvalidRecords(t *testing.T) {
	t.Parallel()
	payload := `[
	  {"id":0,"coords":[1,1],"distance":5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"running","cadence":170},
	  {"id":1,"coords":[1,1],"distance":5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"swimming"},
	  {"id":2,"coords":[1,1],"distance":5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"running"},
	  {"id":3,"coords":[1,1],"distance":-5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"cycling","elevationGain":3},
	  {"id":4,"coords":[1],"distance":5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"cycling","elevationGain":3},
	  {"id":5,"coords":[1,1],"distance":5,"duration":25,"date":"yesterday","kind":"cycling","elevationGain":3},
	  {"coords":[1,1],"distance":5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"cycling","elevationGain":3},
	  {"id":"seven","coords":[1,1]},
	  {"id":8,"coords":[1,1],"distance":5,"duration":0,"date":"2026-04-14T07:00:00Z","kind":"running","cadence":170},
	  {"id":9,"coords":[2,2],"distance":12,"duration":40,"date":"2026-04-14T07:00:00Z","kind":"cycling","elevationGain":0}
	]`
	got, errs := domain.DecodeList([]byte(payload))
	require.Len(t, got, 2)
	assert.Equal(t, int64(0), got[0].ID)
	assert.Equal(t, int64(9), got[1].ID)
	require.Len(t, errs, 8)
	for _, err := range errs {
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	t.Parallel()
	for _, payload := range []string{"", "null-ish", `{"id":1}`, `[{"id":1}`} {
		got, errs := domain.DecodeList([]byte(payload))
		assert.Empty(t, got, payload)
		require.Len(t, errs, 1, payload)
		assert.ErrorIs(t, errs[0], apperrors.ErrInvalidInput)
	}

	got, errs := domain.DecodeList([]byte("null"))
	assert.Empty(t, got)
	assert.Empty(t, errs)
}

func TestDecodeRejectsOutOfRangeIDs(t *testing.T) {
	t.Parallel()
	for _, id := range []int64{-1, math.MaxInt64} {
		payload := `[{"id":` + strconv.FormatInt(id, 10) + `,"coords":[1,1],"distance":5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"running","cadence":170}]`
		got, errs := domain.DecodeList([]byte(payload))
		assert.Empty(t, got, "id %d", id)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], apperrors.ErrInvalidInput)
	}
}

func TestSkippedRecordsCanBeWrittenBack(t *testing.T) {
	t.Parallel()
	payload := `[
	  {"id":0,"coords":[1,1],"distance":5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"running","cadence":170},
	  {"id":1,"coords":[10,200],"distance":5,"duration":25,"date":"2026-04-14T07:00:00Z","kind":"running","cadence":170,"note":"wrapped map"}
	]`
	got, errs := domain.DecodeList([]byte(payload))
	require.Len(t, got, 1)
	require.Len(t, errs, 1)

	var skipped *domain.SkippedRecord
	require.True(t, errors.As(errs[0], &skipped))
	assert.Equal(t, 1, skipped.Index)
	assert.Contains(t, skipped.Error(), "record 1")
	storedID, ok := skipped.StoredID()
	require.True(t, ok)
	assert.Equal(t, int64(1), storedID)

	out, err := domain.EncodeList(got, skipped.Raw)
	require.NoError(t, err)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	require.Len(t, generic, 2)
	assert.Equal(t, float64(0), generic[0]["id"])
	assert.Equal(t, "wrapped map", generic[1]["note"])
	assert.Equal(t, []any{10.0, 200.0}, generic[1]["coords"])
}
