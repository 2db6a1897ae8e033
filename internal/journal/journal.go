// Package journal ties the plant and harvest collections together: the
// harvest flow, weather-aware planting and the combined statistics.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/i474232898/panenku/internal/harvest"
	"github.com/i474232898/panenku/internal/plant"
	"github.com/i474232898/panenku/internal/store"
	"github.com/i474232898/panenku/internal/weather"
)

var (
	ErrPlantNotFound   = errors.New("plant not found")
	ErrInvalidQuantity = errors.New("harvest quantity must be greater than zero")
	// ErrAlreadyHarvested is returned when a harvested plant already has a harvest record.
	ErrAlreadyHarvested = errors.New("plant has already been harvested")
)

// WeatherSource supplies the current weather snapshot. *weather.Service and
// *weather.CachedService both satisfy it.
type WeatherSource interface {
	Current(ctx context.Context) weather.Snapshot
}

// Journal coordinates operations spanning both collections.
type Journal struct {
	store    store.Store
	plants   *plant.Repository
	harvests *harvest.Repository
	weather  WeatherSource
}

// New creates a Journal. ws may be nil, in which case AddPlant uses plain defaults.
func New(st store.Store, plants *plant.Repository, harvests *harvest.Repository, ws WeatherSource) *Journal {
	return &Journal{store: st, plants: plants, harvests: harvests, weather: ws}
}

func (j *Journal) Plants() *plant.Repository     { return j.plants }
func (j *Journal) Harvests() *harvest.Repository { return j.harvests }

// HarvestPlant records a harvest of plantID and marks the plant harvested.
// The record snapshots the plant's name, image and location; location overrides
// the plant's location when set. If the plant cannot be flipped the record is removed again.
// A plant that reached its harvest date but was never recorded can still be harvested once.
func (j *Journal) HarvestPlant(ctx context.Context, plantID string, quantity float64, unit, notes, location string) (harvest.Record, error) {
	p, err := j.plants.Find(ctx, plantID)
	if err != nil {
		return harvest.Record{}, fmt.Errorf("failed to look up plant: %w", err)
	}
	if p == nil {
		return harvest.Record{}, fmt.Errorf("%w: %s", ErrPlantNotFound, plantID)
	}
	if quantity <= 0 {
		return harvest.Record{}, ErrInvalidQuantity
	}
	if p.Status == plant.StatusHarvested && len(j.harvests.ListByPlant(ctx, p.ID)) > 0 {
		return harvest.Record{}, fmt.Errorf("%w: %s", ErrAlreadyHarvested, p.ID)
	}

	if strings.TrimSpace(location) == "" {
		location = p.Location
	}
	rec, err := j.harvests.Create(ctx, harvest.Draft{
		PlantID:   p.ID,
		PlantName: p.Name,
		Quantity:  quantity,
		Unit:      unit,
		Notes:     notes,
		Image:     p.Image,
		Location:  location,
	})
	if err != nil {
		return harvest.Record{}, fmt.Errorf("failed to record harvest: %w", err)
	}

	status := plant.StatusHarvested
	daysLeft, progress := 0, 100
	updated, err := j.plants.Update(ctx, p.ID, plant.Patch{
		Status:   &status,
		DaysLeft: &daysLeft,
		Progress: &progress,
	})
	if err == nil && updated == nil {
		err = fmt.Errorf("%w: %s", ErrPlantNotFound, p.ID)
	}
	if err != nil {
		j.compensate(ctx, rec)
		return harvest.Record{}, fmt.Errorf("failed to mark plant harvested: %w", err)
	}

	log.Printf("INFO: harvested plant %s: %.2f %s", p.ID, rec.Quantity, rec.Unit)
	return rec, nil
}

func (j *Journal) compensate(ctx context.Context, rec harvest.Record) {
	removed, err := j.harvests.Delete(ctx, rec.ID)
	switch {
	case err != nil:
		log.Printf("ERROR: could not remove orphaned harvest %s for plant %s: %v", rec.ID, rec.PlantID, err)
	case !removed:
		log.Printf("ERROR: orphaned harvest %s for plant %s already gone", rec.ID, rec.PlantID)
	default:
		log.Printf("INFO: removed harvest %s after failed status update", rec.ID)
	}
}

// AddPlant creates a plant, filling the location, weather condition and
// harvest duration from the current weather when the draft leaves them out.
// An explicit condition in the draft decides the duration.
func (j *Journal) AddPlant(ctx context.Context, d plant.Draft) (plant.Plant, error) {
	chosen := weather.Condition(strings.ToLower(strings.TrimSpace(d.Weather)))

	if j.weather != nil && (d.Location == "" || chosen == "") {
		snap := j.weather.Current(ctx)
		if d.Location == "" {
			d.Location = snap.Location
		}
		if chosen == "" {
			chosen = snap.Condition
		}
	}

	if chosen.Valid() {
		dur := weather.HarvestDuration(chosen)
		d.Weather = string(chosen)
		if d.WeatherLabel == "" {
			d.WeatherLabel = weather.Label(chosen)
		}
		if d.HarvestDuration == "" {
			d.HarvestDuration = dur.Text
		}
		if d.HarvestDurationDays <= 0 {
			d.HarvestDurationDays = dur.Days
		}
	}

	return j.plants.Create(ctx, d)
}

// PlantStats counts plants by status.
type PlantStats struct {
	TotalPlants     int `json:"totalPlants"`
	GrowingPlants   int `json:"growingPlants"`
	HarvestedPlants int `json:"harvestedPlants"`
}

// Stats is the dashboard summary over both collections.
type Stats struct {
	Plants   PlantStats    `json:"plants"`
	Harvests harvest.Stats `json:"harvests"`
}

// Stats summarizes both collections. Store failures count as empty collections.
func (j *Journal) Stats(ctx context.Context) Stats {
	var ps PlantStats
	for _, p := range j.plants.List(ctx) {
		ps.TotalPlants++
		switch p.Status {
		case plant.StatusGrowing:
			ps.GrowingPlants++
		case plant.StatusHarvested:
			ps.HarvestedPlants++
		}
	}
	return Stats{Plants: ps, Harvests: j.harvests.Stats(ctx)}
}

// DueForHarvest returns growing plants with at most withinDays days left.
func (j *Journal) DueForHarvest(ctx context.Context, withinDays int) []plant.Plant {
	due := []plant.Plant{}
	for _, p := range j.plants.ListByStatus(ctx, plant.StatusGrowing) {
		if p.DaysLeft <= withinDays {
			due = append(due, p)
		}
	}
	return due
}

// Reset removes both collections.
func (j *Journal) Reset(ctx context.Context) error {
	for _, key := range []string{store.PlantsKey, store.HarvestsKey} {
		if err := j.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	log.Printf("INFO: journal data cleared")
	return nil
}
