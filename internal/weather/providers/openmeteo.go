package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/panenku/internal/weather"
)

// DefaultOpenMeteoURL is the public Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

const (
	openMeteoCurrent = "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m"
	openMeteoDaily   = "weather_code,temperature_2m_max,temperature_2m_min"
	openMeteoDays    = 7
)

// OpenMeteoProvider implements weather.Forecaster for Open-Meteo. No API key is required.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a provider against baseURL (DefaultOpenMeteoURL when empty).
func NewOpenMeteoProvider(client *http.Client, baseURL string, maxRetries int) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      maxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoPayload struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed     float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		MaxTemp     []float64 `json:"temperature_2m_max"`
		MinTemp     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Fetch queries current conditions and the daily forecast for c.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, c weather.Coordinates) (weather.Reading, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', 4, 64))
		values.Set("current", openMeteoCurrent)
		values.Set("daily", openMeteoDaily)
		values.Set("forecast_days", strconv.Itoa(openMeteoDays))
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("decode open-meteo response: %w", err)
	}

	return payload.toReading(), nil
}

func (p openMeteoPayload) toReading() weather.Reading {
	r := weather.Reading{
		Temperature:   p.Current.Temperature,
		Humidity:      p.Current.Humidity,
		WindSpeed:     p.Current.WindSpeed,
		Precipitation: p.Current.Precipitation,
		WeatherCode:   p.Current.WeatherCode,
	}

	// The daily arrays are parallel; a short one bounds the forecast.
	n := min(len(p.Daily.Time), len(p.Daily.WeatherCode), len(p.Daily.MaxTemp), len(p.Daily.MinTemp))
	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", p.Daily.Time[i])
		if err != nil {
			continue
		}
		r.Daily = append(r.Daily, weather.DailyReading{
			Date:        date,
			WeatherCode: p.Daily.WeatherCode[i],
			MaxTemp:     p.Daily.MaxTemp[i],
			MinTemp:     p.Daily.MinTemp[i],
		})
	}
	return r
}
