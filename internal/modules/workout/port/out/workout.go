package out

import (
	"context"

	"mapty/internal/modules/workout/domain"
	"mapty/internal/modules/workout/dto"
)

// KeyValueStore mirrors browser local storage: whole string values under a key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

type MapWidget interface {
	SetView(ctx context.Context, center dto.Coords, zoom int, animate bool)
	AddMarker(ctx context.Context, marker dto.Marker)
	ClearMarkers(ctx context.Context)
}

type WorkoutList interface {
	RenderWorkout(ctx context.Context, item dto.WorkoutOutput)
	ClearWorkouts(ctx context.Context)
}

type Geolocator interface {
	Locate(ctx context.Context) (domain.Coords, error)
}

type Journal interface {
	Write(ctx context.Context, item dto.WorkoutOutput) (string, error)
}
