package weather

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/i474232898/panenku/internal/common"
)

// DefaultCoordinates is used when the device position cannot be resolved (Cikole, Sukabumi).
var DefaultCoordinates = Coordinates{Latitude: -6.8096, Longitude: 106.9650}

const (
	// FallbackLocationLabel is shown when the device position is unknown.
	FallbackLocationLabel = "Cikole, Kota Sukabumi"
	// DetectedLocationLabel is shown when a position was found but could not be named.
	DetectedLocationLabel = "Lokasi terdeteksi"

	maxForecastDays = 7
)

// Offline fallback values.
const (
	fallbackTemperature = 28
	fallbackHumidity    = 65
	fallbackWindSpeed   = 12
)

var dayNames = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

// Service resolves the device location and turns a provider reading into a Snapshot.
// It never fails: every error degrades to a fallback value.
type Service struct {
	locator    Locator
	geocoder   Geocoder
	forecaster Forecaster
	now        func() time.Time
}

// NewService creates a Service. locator and geocoder may be nil.
func NewService(locator Locator, geocoder Geocoder, forecaster Forecaster) *Service {
	return &Service{
		locator:    locator,
		geocoder:   geocoder,
		forecaster: forecaster,
		now:        time.Now,
	}
}

// Current returns the weather at the device location, or the offline fallback when
// the provider cannot be reached.
func (s *Service) Current(ctx context.Context) Snapshot {
	coords, label := s.resolveLocation(ctx)

	if s.forecaster == nil {
		log.Printf("ERROR: no weather provider configured; using offline fallback")
		return Fallback(label, s.now())
	}

	reading, err := s.forecaster.Fetch(ctx, coords)
	if err != nil {
		log.Printf("ERROR: provider %s fetch failed for %s: %v; using offline fallback", s.forecaster.Name(), label, err)
		return Fallback(label, s.now())
	}

	return s.build(reading, label)
}

func (s *Service) resolveLocation(ctx context.Context) (Coordinates, string) {
	if s.locator == nil {
		return DefaultCoordinates, FallbackLocationLabel
	}
	coords, err := s.locator.Locate(ctx)
	if err != nil {
		log.Printf("INFO: location not available (%v); using default location", err)
		return DefaultCoordinates, FallbackLocationLabel
	}

	if s.geocoder == nil {
		return coords, DetectedLocationLabel
	}
	place, err := s.geocoder.Reverse(ctx, coords)
	if err != nil {
		log.Printf("INFO: reverse geocode failed for %.4f,%.4f: %v", coords.Latitude, coords.Longitude, err)
		return coords, DetectedLocationLabel
	}
	if label := PlaceLabel(place); label != "" {
		return coords, label
	}
	return coords, DetectedLocationLabel
}

func (s *Service) build(r Reading, location string) Snapshot {
	cond := Classify(r.WeatherCode, r.Temperature)
	dur := HarvestDuration(cond)

	n := min(maxForecastDays, len(r.Daily))
	forecast := make([]DailyForecast, 0, n)
	for _, d := range r.Daily[:n] {
		c := ConditionFromCode(d.WeatherCode)
		forecast = append(forecast, DailyForecast{
			Day:       dayNames[d.Date.Weekday()],
			Date:      d.Date.Format("2006-01-02"),
			Condition: c,
			Label:     Label(c),
			Icon:      Icon(c),
			HighTemp:  d.MaxTemp,
			LowTemp:   d.MinTemp,
		})
	}

	return Snapshot{
		Temperature:         r.Temperature,
		Condition:           cond,
		Label:               Label(cond),
		Humidity:            r.Humidity,
		WindSpeed:           r.WindSpeed,
		Precipitation:       r.Precipitation,
		Location:            location,
		Icon:                Icon(cond),
		HarvestDurationDays: dur.Days,
		HarvestDurationText: dur.Text,
		Forecast:            forecast,
		UpdatedAt:           s.now().UTC(),
	}
}

// Fallback is the fixed snapshot served when live weather is unavailable.
func Fallback(location string, now time.Time) Snapshot {
	dur := HarvestDuration(ConditionBerawan)
	return Snapshot{
		Temperature:         fallbackTemperature,
		Condition:           ConditionBerawan,
		Label:               Label(ConditionBerawan),
		Humidity:            fallbackHumidity,
		WindSpeed:           fallbackWindSpeed,
		Precipitation:       0,
		Location:            location,
		Icon:                Icon(ConditionBerawan),
		HarvestDurationDays: dur.Days,
		HarvestDurationText: dur.Text,
		Forecast:            []DailyForecast{},
		UpdatedAt:           now.UTC(),
		Offline:             true,
	}
}

// PlaceLabel joins the most specific and the broadest resolved parts of p,
// skipping empty and repeated parts. It returns "" when nothing resolved.
func PlaceLabel(p Place) string {
	candidates := []string{
		common.FirstNonEmpty(p.District, p.Neighborhood, p.Street),
		common.FirstNonEmpty(p.City, p.County, p.Region),
	}

	var parts []string
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}
