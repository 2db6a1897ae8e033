package weather

import (
	"time"
)

// Condition is the closed set of weather conditions the journal works with.
// It is distinct from the provider's raw numeric weather code.
type Condition string

const (
	ConditionCerah   Condition = "cerah"   // clear
	ConditionBerawan Condition = "berawan" // cloudy or overcast
	ConditionHujan   Condition = "hujan"   // rain, drizzle, thunderstorm
	ConditionPanas   Condition = "panas"   // hot
	ConditionDingin  Condition = "dingin"  // cold, fog, snow
)

// Conditions lists every condition in display order.
var Conditions = []Condition{ConditionCerah, ConditionBerawan, ConditionHujan, ConditionPanas, ConditionDingin}

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place holds the administrative parts a reverse geocode resolved. Any part may be empty.
type Place struct {
	Street       string
	Neighborhood string
	District     string
	City         string
	County       string
	Region       string
}

// Reading is a provider's normalized answer for one coordinate.
type Reading struct {
	Temperature   float64
	Humidity      float64
	WindSpeed     float64
	Precipitation float64
	WeatherCode   int
	Daily         []DailyReading
}

// DailyReading is one day of a provider forecast.
type DailyReading struct {
	Date        time.Time
	WeatherCode int
	MaxTemp     float64
	MinTemp     float64
}

// Snapshot is the current-conditions view handed to callers, plus the forecast
// and the harvest-duration estimate derived from the condition.
type Snapshot struct {
	Temperature         float64         `json:"temperature"`
	Condition           Condition       `json:"condition"`
	Label               string          `json:"label"`
	Humidity            float64         `json:"humidity"`
	WindSpeed           float64         `json:"windSpeed"`
	Precipitation       float64         `json:"precipitation"`
	Location            string          `json:"location"`
	Icon                string          `json:"icon"`
	HarvestDurationDays int             `json:"harvestDurationDays"`
	HarvestDurationText string          `json:"harvestDurationText"`
	Forecast            []DailyForecast `json:"forecast"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	// Offline is set when the snapshot is the fixed fallback rather than live data.
	Offline bool `json:"offline"`
}

// DailyForecast is one forecast day mapped onto the journal's conditions.
type DailyForecast struct {
	Day       string    `json:"day"`
	Date      string    `json:"date"`
	Condition Condition `json:"condition"`
	Label     string    `json:"label"`
	Icon      string    `json:"icon"`
	HighTemp  float64   `json:"highTemp"`
	LowTemp   float64   `json:"lowTemp"`
}
