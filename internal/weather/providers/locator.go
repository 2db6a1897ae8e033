package providers

import (
	"context"

	"github.com/i474232898/panenku/internal/weather"
)

// StaticLocator reports a configured device position. Without one it behaves
// like a device that has no location to share.
type StaticLocator struct {
	Lat *float64
	Lon *float64
}

func (l StaticLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}
	if l.Lat == nil || l.Lon == nil {
		return weather.Coordinates{}, weather.ErrLocationUnavailable
	}
	return weather.Coordinates{Latitude: *l.Lat, Longitude: *l.Lon}, nil
}
