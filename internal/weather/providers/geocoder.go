package providers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/panenku/internal/weather"
)

var errNoGeocoderKey = errors.New("geocoder api key is not configured")

// geocoderMu serializes access to the geocoder package, which keeps its API key in a package variable.
var geocoderMu sync.Mutex

// GoogleGeocoder implements weather.Geocoder with the Google reverse-geocoding API.
type GoogleGeocoder struct {
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{apiKey: apiKey}
}

// Reverse resolves the first address Google reports for c.
func (g *GoogleGeocoder) Reverse(ctx context.Context, c weather.Coordinates) (weather.Place, error) {
	if g.apiKey == "" {
		return weather.Place{}, errNoGeocoderKey
	}
	if err := ctx.Err(); err != nil {
		return weather.Place{}, err
	}

	geocoderMu.Lock()
	geocoder.ApiKey = g.apiKey
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	})
	geocoderMu.Unlock()

	if err != nil {
		return weather.Place{}, fmt.Errorf("reverse geocode: %w", err)
	}
	if len(addresses) == 0 {
		return weather.Place{}, fmt.Errorf("reverse geocode: no address for %.4f,%.4f", c.Latitude, c.Longitude)
	}

	a := addresses[0]
	return weather.Place{
		Street:       a.Street,
		Neighborhood: a.Neighborhood,
		District:     a.District,
		City:         a.City,
		County:       a.County,
		Region:       a.State,
	}, nil
}
