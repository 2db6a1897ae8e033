package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/panenku/internal/harvest"
	"github.com/i474232898/panenku/internal/journal"
	"github.com/i474232898/panenku/internal/plant"
	"github.com/i474232898/panenku/internal/store"
	"github.com/i474232898/panenku/internal/weather"
)

type stubWeather struct {
	snap weather.Snapshot
}

func (s stubWeather) Current(context.Context) weather.Snapshot { return s.snap }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	return newTestAppWithClock(t, func() time.Time { return now })
}

func newTestAppWithClock(t *testing.T, clock func() time.Time) *fiber.App {
	t.Helper()
	st := store.NewMemoryStore()
	ws := stubWeather{snap: weather.Snapshot{
		Temperature: 31,
		Condition:   weather.ConditionPanas,
		Label:       "Panas",
		Location:    "Cikole, Kota Sukabumi",
	}}
	j := journal.New(st, plant.NewRepositoryWithClock(st, clock), harvest.NewRepositoryWithClock(st, clock), ws)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, j, ws)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, b)
	}
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestPlantLifecycle(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPost, "/api/v1/plants", `{"name":"Tomat","plantedDate":"2024-01-01","harvestDate":"2024-04-01"}`)
	expectStatus(t, resp, http.StatusCreated)
	var created plant.Plant
	decode(t, resp, &created)
	if created.ID == "" || created.DaysLeft != 46 || created.Progress != 49 {
		t.Fatalf("unexpected created plant: %+v", created)
	}
	if created.Weather != "panas" || created.HarvestDuration != "2.5 Bulan" || created.Location != "Cikole, Kota Sukabumi" {
		t.Fatalf("weather fields not filled: %+v", created)
	}

	resp = do(t, app, http.MethodPatch, "/api/v1/plants/"+created.ID, `{"name":"Tomat Cherry"}`)
	expectStatus(t, resp, http.StatusOK)
	var updated plant.Plant
	decode(t, resp, &updated)
	if updated.Name != "Tomat Cherry" || updated.ID != created.ID {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/plants?status=growing", "")
	expectStatus(t, resp, http.StatusOK)
	var growing []plant.Plant
	decode(t, resp, &growing)
	if len(growing) != 1 {
		t.Fatalf("expected 1 growing plant, got %d", len(growing))
	}

	resp = do(t, app, http.MethodDelete, "/api/v1/plants/"+created.ID, "")
	expectStatus(t, resp, http.StatusNoContent)

	resp = do(t, app, http.MethodGet, "/api/v1/plants/"+created.ID, "")
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, app, http.MethodDelete, "/api/v1/plants/"+created.ID, "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestPlantValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"bad status filter", http.MethodGet, "/api/v1/plants?status=wilted", "", http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/v1/plants", `{"plantedDate":"15-02-2024"}`, http.StatusBadRequest},
		{"bad status", http.MethodPost, "/api/v1/plants", `{"status":"dormant"}`, http.StatusBadRequest},
		{"negative area", http.MethodPost, "/api/v1/plants", `{"area":-1}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/plants", `{"name":`, http.StatusBadRequest},
		{"unknown plant patch", http.MethodPatch, "/api/v1/plants/missing", `{"name":"x"}`, http.StatusNotFound},
		{"unknown plant harvest", http.MethodPost, "/api/v1/plants/missing/harvest", `{"quantity":1}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, tt.method, tt.target, tt.body)
			expectStatus(t, resp, tt.want)
		})
	}
}

func TestHarvestFlow(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPost, "/api/v1/plants", `{"name":"Cabai","plantedDate":"2024-01-01","harvestDate":"2024-04-01","location":"Kebun"}`)
	expectStatus(t, resp, http.StatusCreated)
	var p plant.Plant
	decode(t, resp, &p)

	resp = do(t, app, http.MethodPost, "/api/v1/plants/"+p.ID+"/harvest", `{"quantity":0}`)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, app, http.MethodPost, "/api/v1/plants/"+p.ID+"/harvest", `{"quantity":5,"unit":"Kg"}`)
	expectStatus(t, resp, http.StatusCreated)
	var rec harvest.Record
	decode(t, resp, &rec)
	if rec.PlantID != p.ID || rec.Quantity != 5 || rec.Unit != "Kg" || rec.Location != "Kebun" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/plants/"+p.ID, "")
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &p)
	if p.Status != plant.StatusHarvested || p.Progress != 100 || p.DaysLeft != 0 {
		t.Fatalf("plant not marked harvested: %+v", p)
	}

	resp = do(t, app, http.MethodPatch, "/api/v1/plants/"+p.ID, `{"status":"growing"}`)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, app, http.MethodPost, "/api/v1/plants/"+p.ID+"/harvest", `{"quantity":3}`)
	expectStatus(t, resp, http.StatusConflict)

	resp = do(t, app, http.MethodGet, "/api/v1/harvests?plantId="+p.ID, "")
	expectStatus(t, resp, http.StatusOK)
	var records []harvest.Record
	decode(t, resp, &records)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	resp = do(t, app, http.MethodPatch, "/api/v1/harvests/"+rec.ID, `{"notes":"manis"}`)
	expectStatus(t, resp, http.StatusOK)

	resp = do(t, app, http.MethodGet, "/api/v1/stats", "")
	expectStatus(t, resp, http.StatusOK)
	var stats journal.Stats
	decode(t, resp, &stats)
	if stats.Plants.HarvestedPlants != 1 || stats.Harvests.TotalHarvests != 1 || stats.Harvests.TotalQuantity != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	resp = do(t, app, http.MethodDelete, "/api/v1/harvests/"+rec.ID, "")
	expectStatus(t, resp, http.StatusNoContent)
	resp = do(t, app, http.MethodGet, "/api/v1/harvests/"+rec.ID, "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestPatchDuePlantStaysHarvested(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	app := newTestAppWithClock(t, func() time.Time { return now })

	resp := do(t, app, http.MethodPost, "/api/v1/plants", `{"name":"Bayam","plantedDate":"2024-01-01","harvestDate":"2024-02-01"}`)
	expectStatus(t, resp, http.StatusCreated)
	var p plant.Plant
	decode(t, resp, &p)
	if p.Status != plant.StatusGrowing {
		t.Fatalf("expected growing plant, got %+v", p)
	}

	now = time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	resp = do(t, app, http.MethodPatch, "/api/v1/plants/"+p.ID, `{"harvestDate":"2024-12-01"}`)
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &p)
	if p.Status != plant.StatusHarvested || p.DaysLeft != 0 || p.Progress != 100 || p.HarvestDate != "2024-12-01" {
		t.Fatalf("patched plant left harvested state: %+v", p)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/plants/"+p.ID, "")
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &p)
	if p.Status != plant.StatusHarvested {
		t.Fatalf("stored plant left harvested state: %+v", p)
	}

	resp = do(t, app, http.MethodPatch, "/api/v1/plants/"+p.ID, `{"status":"growing"}`)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, app, http.MethodPost, "/api/v1/plants/"+p.ID+"/harvest", `{"quantity":1.5}`)
	expectStatus(t, resp, http.StatusCreated)
}

func TestHarvestValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"missing plantId", http.MethodPost, "/api/v1/harvests", `{"quantity":2}`, http.StatusBadRequest},
		{"zero quantity", http.MethodPost, "/api/v1/harvests", `{"plantId":"p1","quantity":0}`, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/v1/harvests?limit=abc", "", http.StatusBadRequest},
		{"negative limit", http.MethodGet, "/api/v1/harvests?limit=-2", "", http.StatusBadRequest},
		{"unknown record", http.MethodPatch, "/api/v1/harvests/missing", `{"notes":"x"}`, http.StatusNotFound},
		{"valid record", http.MethodPost, "/api/v1/harvests", `{"plantId":"p1","plantName":"Padi","quantity":12.5}`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, tt.method, tt.target, tt.body)
			expectStatus(t, resp, tt.want)
		})
	}
}

func TestWeatherEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/weather", "")
	expectStatus(t, resp, http.StatusOK)
	var snap weather.Snapshot
	decode(t, resp, &snap)
	if snap.Condition != weather.ConditionPanas || snap.Temperature != 31 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/weather/tips", "")
	expectStatus(t, resp, http.StatusOK)
	var tips weather.Tips
	decode(t, resp, &tips)
	if tips.Title != "Cuaca Panas" {
		t.Fatalf("unexpected tips for current weather: %+v", tips)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/weather/tips?condition=hujan&temperature=24", "")
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &tips)
	if tips.Title != "Hujan Diprediksi" {
		t.Fatalf("unexpected tips for rain: %+v", tips)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/weather/tips?temperature=hot", "")
	expectStatus(t, resp, http.StatusBadRequest)
}
