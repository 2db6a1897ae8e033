package plant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/panenku/internal/common"
	"github.com/i474232898/panenku/internal/store"
)

// Repository owns persistence of plants under store.PlantsKey.
//
// Every mutation is a full read-modify-write of the stored array; there is no
// locking, so concurrent writers race and the last write wins. Reads never fail:
// store or decode errors are logged and degrade to an empty result.
type Repository struct {
	store store.Store
	now   func() time.Time
}

// NewRepository creates a Repository over st using the wall clock.
func NewRepository(st store.Store) *Repository {
	return NewRepositoryWithClock(st, time.Now)
}

// NewRepositoryWithClock creates a Repository whose derived fields are computed against now().
func NewRepositoryWithClock(st store.Store, now func() time.Time) *Repository {
	return &Repository{store: st, now: now}
}

// load reads the stored array, repairing drifted records. repaired reports whether
// any record had to be rebuilt.
func (r *Repository) load(ctx context.Context) (plants []Plant, repaired bool, err error) {
	raw, err := r.store.Get(ctx, store.PlantsKey)
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		return []Plant{}, false, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode plants: %w", err)
	}

	now := r.now()
	plants = make([]Plant, 0, len(items))
	for i, item := range items {
		var rec record
		_ = json.Unmarshal(item, &rec)

		if rec.valid() {
			if p, err := rec.decode(); err == nil {
				plants = append(plants, p)
				continue
			}
		}
		repaired = true
		plants = append(plants, rec.repair(i, now))
	}
	return plants, repaired, nil
}

func (r *Repository) save(ctx context.Context, plants []Plant) error {
	raw, err := json.Marshal(plants)
	if err != nil {
		return fmt.Errorf("failed to encode plants: %w", err)
	}
	return r.store.Set(ctx, store.PlantsKey, raw)
}

// Create stores a new plant built from d, filling any missing field with its default.
func (r *Repository) Create(ctx context.Context, d Draft) (Plant, error) {
	now := r.now()
	stamp := now.UTC().Format(time.RFC3339)

	planted := d.PlantedDate
	if planted == "" {
		planted = FormatDate(now)
	}
	harvest := d.HarvestDate
	if harvest == "" {
		days := d.HarvestDurationDays
		if days <= 0 {
			days = DefaultHarvestDays
		}
		harvest = AddDays(planted, days)
	}
	if _, ok := parseDate(planted); !ok {
		return Plant{}, fmt.Errorf("%w: plantedDate %q", ErrInvalidDate, planted)
	}
	if _, ok := parseDate(harvest); !ok {
		return Plant{}, fmt.Errorf("%w: harvestDate %q", ErrInvalidDate, harvest)
	}

	status := d.Status
	if status == "" {
		status = StatusGrowing
	}
	if !status.Valid() {
		return Plant{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	care := DefaultCare()
	if d.Care != nil {
		care = *d.Care
	}

	p := Plant{
		ID:              uuid.NewString(),
		Name:            common.FirstNonEmpty(d.Name, DefaultName),
		Type:            common.FirstNonEmpty(d.Type, DefaultType),
		PlantedDate:     planted,
		HarvestDate:     harvest,
		Image:           common.FirstNonEmpty(d.Image, DefaultImage),
		Description:     d.Description,
		Location:        common.FirstNonEmpty(d.Location, DefaultLocation),
		Weather:         d.Weather,
		WeatherLabel:    d.WeatherLabel,
		WeatherNotes:    d.WeatherNotes,
		Area:            d.Area,
		Fertilizer:      d.Fertilizer,
		Care:            &care,
		Progress:        DefaultProgress,
		Status:          status,
		HarvestDuration: common.FirstNonEmpty(d.HarvestDuration, DefaultHarvestDuration),
		CreatedAt:       stamp,
		UpdatedAt:       stamp,
	}
	p = Derive(p, now)

	// Read strictly rather than through List: a broken store must not look like an empty collection.
	plants, _, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: create plant %q: %v", p.Name, err)
		return Plant{}, fmt.Errorf("failed to read plants: %w", err)
	}
	plants = append(plants, p)
	if err := r.save(ctx, plants); err != nil {
		log.Printf("ERROR: create plant %q: %v", p.Name, err)
		return Plant{}, fmt.Errorf("failed to save plants: %w", err)
	}

	log.Printf("INFO: created plant %s (%s)", p.ID, p.Name)
	return p, nil
}

// List returns every plant with derived fields recomputed. Repaired records are
// written back before returning. Failures are logged and yield an empty list.
func (r *Repository) List(ctx context.Context) []Plant {
	plants, repaired, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: list plants: %v", err)
		return []Plant{}
	}

	now := r.now()
	for i := range plants {
		plants[i] = Derive(plants[i], now)
	}

	if repaired {
		if err := r.save(ctx, plants); err != nil {
			log.Printf("ERROR: write back repaired plants: %v", err)
		} else {
			log.Printf("INFO: repaired corrupt plant records")
		}
	}
	return plants
}

// GetByID returns the plant whose id matches, or nil.
func (r *Repository) GetByID(ctx context.Context, id string) *Plant {
	for _, p := range r.List(ctx) {
		if sameID(p.ID, id) {
			return &p
		}
	}
	return nil
}

// ListByStatus returns the plants currently in status.
func (r *Repository) ListByStatus(ctx context.Context, status Status) []Plant {
	out := []Plant{}
	for _, p := range r.List(ctx) {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// Find is GetByID for write paths: a store failure is returned instead of
// being reported as a missing plant.
func (r *Repository) Find(ctx context.Context, id string) (*Plant, error) {
	plants, _, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: find plant %s: %v", id, err)
		return nil, fmt.Errorf("failed to read plants: %w", err)
	}
	now := r.now()
	for _, p := range plants {
		if sameID(p.ID, id) {
			p = Derive(p, now)
			return &p, nil
		}
	}
	return nil, nil
}

// Update merges patch over the plant as it currently reads and returns the
// result, or nil when no plant has the id. Derived fields, including a due
// plant's transition to harvested, are saved along with the change.
func (r *Repository) Update(ctx context.Context, id string, patch Patch) (*Plant, error) {
	plants, _, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: update plant %s: %v", id, err)
		return nil, fmt.Errorf("failed to read plants: %w", err)
	}

	now := r.now()
	for i := range plants {
		plants[i] = Derive(plants[i], now)
	}

	idx := -1
	for i := range plants {
		if sameID(plants[i].ID, id) {
			idx = i
			break
		}
	}
	if idx == -1 {
		log.Printf("INFO: update plant %s: not found", id)
		return nil, nil
	}

	current := plants[idx]
	if patch.Status != nil {
		next := *patch.Status
		if !next.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
		}
		if current.Status == StatusHarvested && next == StatusGrowing {
			return nil, ErrStatusTerminal
		}
	}
	if patch.PlantedDate != nil {
		if _, ok := parseDate(*patch.PlantedDate); !ok {
			return nil, fmt.Errorf("%w: plantedDate %q", ErrInvalidDate, *patch.PlantedDate)
		}
	}
	if patch.HarvestDate != nil {
		if _, ok := parseDate(*patch.HarvestDate); !ok {
			return nil, fmt.Errorf("%w: harvestDate %q", ErrInvalidDate, *patch.HarvestDate)
		}
	}

	updated := current
	patch.apply(&updated)
	updated.ID = current.ID
	updated.UpdatedAt = now.UTC().Format(time.RFC3339)
	updated = Derive(updated, now)

	plants[idx] = updated
	if err := r.save(ctx, plants); err != nil {
		log.Printf("ERROR: update plant %s: %v", id, err)
		return nil, fmt.Errorf("failed to save plants: %w", err)
	}

	log.Printf("INFO: updated plant %s", updated.ID)
	return &updated, nil
}

// Delete removes the plant with the given id. It reports whether anything was removed;
// the collection is only rewritten when it was.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	plants, _, err := r.load(ctx)
	if err != nil {
		log.Printf("ERROR: delete plant %s: %v", id, err)
		return false, fmt.Errorf("failed to read plants: %w", err)
	}

	kept := make([]Plant, 0, len(plants))
	for _, p := range plants {
		if !sameID(p.ID, id) {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(plants) {
		log.Printf("INFO: delete plant %s: not found", id)
		return false, nil
	}

	if err := r.save(ctx, kept); err != nil {
		log.Printf("ERROR: delete plant %s: %v", id, err)
		return false, fmt.Errorf("failed to save plants: %w", err)
	}

	log.Printf("INFO: deleted plant %s (%d removed)", id, len(plants)-len(kept))
	return true, nil
}

func sameID(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
