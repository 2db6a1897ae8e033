package plant

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// record is one stored element before it is trusted as a Plant.
type record map[string]any

func (r record) str(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

func (r record) num(key string) (float64, bool) {
	v, ok := r[key].(float64)
	return v, ok
}

// valid reports whether the record carries every required field with the right type.
func (r record) valid() bool {
	for _, k := range []string{"id", "name", "type", "plantedDate", "harvestDate", "image"} {
		if _, ok := r.str(k); !ok {
			return false
		}
	}
	for _, k := range []string{"daysLeft", "progress"} {
		if _, ok := r.num(k); !ok {
			return false
		}
	}
	planted, _ := r.str("plantedDate")
	harvest, _ := r.str("harvestDate")
	if _, ok := parseDate(planted); !ok {
		return false
	}
	if _, ok := parseDate(harvest); !ok {
		return false
	}
	status, _ := r.str("status")
	return Status(status).Valid()
}

// decode converts a valid record into a Plant.
func (r record) decode() (Plant, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return Plant{}, err
	}
	var p Plant
	if err := json.Unmarshal(raw, &p); err != nil {
		return Plant{}, err
	}
	return p, nil
}

// repair rebuilds a Plant from a drifted or partially written record, keeping every
// usable field and filling the rest with the same defaults as Create.
func (r record) repair(index int, now time.Time) Plant {
	text := func(key, def string) string {
		if v, ok := r.str(key); ok && v != "" {
			return v
		}
		return def
	}

	id := text("id", "")
	if id == "" {
		if n, ok := r.num("id"); ok {
			id = strconv.FormatFloat(n, 'f', -1, 64)
		} else {
			id = fmt.Sprintf("repaired-%d-%d", now.UnixMilli(), index)
		}
	}

	planted := text("plantedDate", "")
	if _, ok := parseDate(planted); !ok {
		planted = FormatDate(now)
	}
	harvest := text("harvestDate", "")
	if _, ok := parseDate(harvest); !ok {
		harvest = FormatDate(now.AddDate(0, 0, DefaultHarvestDays))
	}

	status := StatusGrowing
	if s, _ := r.str("status"); Status(s) == StatusHarvested {
		status = StatusHarvested
	}

	progress := DefaultProgress
	if n, ok := r.num("progress"); ok && n != 0 {
		progress = int(n)
	}
	daysLeft := 0
	if n, ok := r.num("daysLeft"); ok {
		daysLeft = int(n)
	}

	p := Plant{
		ID:              id,
		Name:            text("name", DefaultRepairedName),
		Type:            text("type", DefaultType),
		DaysLeft:        max(0, daysLeft),
		PlantedDate:     planted,
		HarvestDate:     harvest,
		Image:           text("image", DefaultImage),
		Description:     text("description", ""),
		Location:        text("location", DefaultLocation),
		Weather:         text("weather", ""),
		WeatherLabel:    text("weatherLabel", ""),
		WeatherNotes:    text("weatherNotes", ""),
		Fertilizer:      text("fertilizer", ""),
		Progress:        clampProgress(progress),
		Status:          status,
		HarvestDuration: text("harvestDuration", DefaultHarvestDuration),
		CreatedAt:       text("createdAt", now.UTC().Format(time.RFC3339)),
		UpdatedAt:       now.UTC().Format(time.RFC3339),
	}
	if n, ok := r.num("area"); ok {
		p.Area = &n
	}
	care := DefaultCare()
	if c, ok := r["care"].(map[string]any); ok {
		if raw, err := json.Marshal(c); err == nil {
			_ = json.Unmarshal(raw, &care)
		}
	}
	p.Care = &care
	return p
}
