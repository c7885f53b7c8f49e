package out

import (
	"context"

	"mapty/internal/modules/workout/domain"
	workoutout "mapty/internal/modules/workout/port/out"
)

// StaticLocator always reports the configured point. Useful offline.
type StaticLocator struct {
	coords domain.Coords
}

func NewStaticLocator(lat, lng float64) workoutout.Geolocator {
	return StaticLocator{coords: domain.Coords{Lat: lat, Lng: lng}}
}

func (l StaticLocator) Locate(ctx context.Context) (domain.Coords, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coords{}, err
	}
	if err := l.coords.Validate(); err != nil {
		return domain.Coords{}, err
	}
	return l.coords, nil
}
