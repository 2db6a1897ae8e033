package weather

import (
	"context"
	"errors"
)

var (
	// ErrLocationDenied is returned by a Locator when the user refused location access.
	ErrLocationDenied = errors.New("location permission denied")
	// ErrLocationUnavailable is returned by a Locator that has no position to report.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// Locator resolves the device position.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Geocoder turns a coordinate into administrative place names.
type Geocoder interface {
	Reverse(ctx context.Context, c Coordinates) (Place, error)
}

// Forecaster abstracts a weather data source queried by coordinate.
type Forecaster interface {
	Name() string
	Fetch(ctx context.Context, c Coordinates) (Reading, error)
}
