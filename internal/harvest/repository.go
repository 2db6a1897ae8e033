package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/panenku/internal/store"
)

const dateLayout = "2006-01-02"

// Repository owns persistence of harvest records under store.HarvestsKey.
// Records are append-mostly: there is no repair or recomputation on read.
type Repository struct {
	store store.Store
	now   func() time.Time
}

// NewRepository creates a Repository over st using the wall clock.
func NewRepository(st store.Store) *Repository {
	return NewRepositoryWithClock(st, time.Now)
}

// NewRepositoryWithClock creates a Repository whose timestamps and default harvest dates come from now().
func NewRepositoryWithClock(st store.Store, now func() time.Time) *Repository {
	return &Repository{store: st, now: now}
}

func (r *Repository) load(ctx context.Context) ([]Record, error) {
	raw, err := r.store.Get(ctx, store.HarvestsKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode harvests: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (r *Repository) save(ctx context.Context, records []Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode harvests: %w", err)
	}
	return r.store.Set(ctx, store.HarvestsKey, raw)
}

// Create appends a new record built from d.
func (r *Repository) Create(ctx context.Context, d Draft) (Record, error) {
	now := r.now()

	rec := Record{
		ID:          uuid.NewString(),
		PlantID:     d.PlantID,
		PlantName:   d.PlantName,
		HarvestDate: d.HarvestDate,
		Quantity:    d.Quantity,
		Unit:        d.Unit,
		Notes:       d.Notes,
		Image:       d.Image,
		Location:    d.Location,
		CreatedAt:   now.UTC().Format(time.RFC3339),
	}
	if rec.HarvestDate == "" {
		rec.HarvestDate = now.UTC().Format(dateLayout)
	}
	if rec.Unit == "" {
		rec.Unit = DefaultUnit
	}

	records, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: create harvest for plant %s: %v", d.PlantID, err)
		return Record{}, fmt.Errorf("failed to read harvests: %w", err)
	}
	records = append(records, rec)
	if err := r.save(ctx, records); err != nil {
		log.Printf("ERROR: create harvest for plant %s: %v", d.PlantID, err)
		return Record{}, fmt.Errorf("failed to save harvests: %w", err)
	}

	log.Printf("INFO: created harvest %s for plant %s", rec.ID, rec.PlantID)
	return rec, nil
}

// List returns every record, newest harvest date first. Failures yield an empty list.
func (r *Repository) List(ctx context.Context) []Record {
	records, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: list harvests: %v", err)
		return []Record{}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return dateValue(records[i].HarvestDate).After(dateValue(records[j].HarvestDate))
	})
	return records
}

// GetByID returns the record with the given id, or nil.
func (r *Repository) GetByID(ctx context.Context, id string) *Record {
	for _, rec := range r.List(ctx) {
		if sameID(rec.ID, id) {
			return &rec
		}
	}
	return nil
}

// ListByPlant returns the records harvested from plantID, newest first.
func (r *Repository) ListByPlant(ctx context.Context, plantID string) []Record {
	out := []Record{}
	for _, rec := range r.List(ctx) {
		if sameID(rec.PlantID, plantID) {
			out = append(out, rec)
		}
	}
	return out
}

// Recent returns at most limit records, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) []Record {
	records := r.List(ctx)
	if limit >= 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

// Update applies patch to the record with the given id, or returns nil when none matches.
func (r *Repository) Update(ctx context.Context, id string, patch Patch) (*Record, error) {
	records, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: update harvest %s: %v", id, err)
		return nil, fmt.Errorf("failed to read harvests: %w", err)
	}

	for i := range records {
		if !sameID(records[i].ID, id) {
			continue
		}
		updated := records[i]
		patch.apply(&updated)
		updated.UpdatedAt = r.now().UTC().Format(time.RFC3339)
		records[i] = updated
		if err := r.save(ctx, records); err != nil {
			log.Printf("ERROR: update harvest %s: %v", id, err)
			return nil, fmt.Errorf("failed to save harvests: %w", err)
		}
		return &updated, nil
	}
	return nil, nil
}

// Delete removes the record with the given id and reports whether one was removed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	records, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: delete harvest %s: %v", id, err)
		return false, fmt.Errorf("failed to read harvests: %w", err)
	}

	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if !sameID(rec.ID, id) {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	if err := r.save(ctx, kept); err != nil {
		log.Printf("ERROR: delete harvest %s: %v", id, err)
		return false, fmt.Errorf("failed to save harvests: %w", err)
	}
	return true, nil
}

// Stats summarizes the log; quantities are summed regardless of unit.
func (r *Repository) Stats(ctx context.Context) Stats {
	records := r.List(ctx)

	var total float64
	plants := make(map[string]struct{}, len(records))
	for _, rec := range records {
		total += rec.Quantity
		plants[rec.PlantID] = struct{}{}
	}

	return Stats{
		TotalHarvests: len(records),
		TotalQuantity: math.Round(total*100) / 100,
		UniquePlants:  len(plants),
	}
}

// dateValue parses a calendar date; unparseable dates sort last.
func dateValue(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func sameID(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
