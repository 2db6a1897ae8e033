package plant

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDerive_MidSeason(t *testing.T) {
	p := Plant{PlantedDate: "2024-01-01", HarvestDate: "2024-04-01", Status: StatusGrowing}

	got := Derive(p, date("2024-02-15"))

	// 91-day window with 46 days to go.
	if got.DaysLeft != 46 {
		t.Fatalf("expected daysLeft 46, got %d", got.DaysLeft)
	}
	if got.Progress != 49 {
		t.Fatalf("expected progress 49, got %d", got.Progress)
	}
	if got.Status != StatusGrowing {
		t.Fatalf("expected status growing, got %s", got.Status)
	}
}

func TestDerive_PartialDayRoundsUp(t *testing.T) {
	p := Plant{PlantedDate: "2024-01-01", HarvestDate: "2024-01-11", Status: StatusGrowing}

	got := Derive(p, date("2024-01-05").Add(6*time.Hour))
	if got.DaysLeft != 6 {
		t.Fatalf("expected daysLeft 6, got %d", got.DaysLeft)
	}
	if got.Progress != 40 {
		t.Fatalf("expected progress 40, got %d", got.Progress)
	}
}

func TestDerive_DuePlantTransitionsToHarvested(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"on harvest day", date("2024-04-01")},
		{"after harvest day", date("2024-06-30")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Plant{PlantedDate: "2024-01-01", HarvestDate: "2024-04-01", Status: StatusGrowing, Progress: 40}
			got := Derive(p, tc.now)
			if got.Status != StatusHarvested {
				t.Fatalf("expected harvested, got %s", got.Status)
			}
			if got.DaysLeft != 0 || got.Progress != 100 {
				t.Fatalf("expected 0 days / 100%%, got %d / %d", got.DaysLeft, got.Progress)
			}
		})
	}
}

func TestDerive_HarvestedIsPinned(t *testing.T) {
	p := Plant{PlantedDate: "2024-01-01", HarvestDate: "2024-04-01", Status: StatusHarvested, DaysLeft: 30, Progress: 20}

	got := Derive(p, date("2024-01-10"))
	if got.Status != StatusHarvested || got.DaysLeft != 0 || got.Progress != 100 {
		t.Fatalf("unexpected harvested plant: %+v", got)
	}
}

func TestDerive_Bounds(t *testing.T) {
	tests := []struct {
		name         string
		plant        Plant
		now          time.Time
		wantDaysLeft int
		wantProgress int
	}{
		{
			name:         "not planted yet",
			plant:        Plant{PlantedDate: "2024-03-01", HarvestDate: "2024-04-01", Status: StatusGrowing},
			now:          date("2024-02-01"),
			wantDaysLeft: 60,
			wantProgress: 0,
		},
		{
			name:         "empty window keeps stored progress",
			plant:        Plant{PlantedDate: "2024-04-01", HarvestDate: "2024-04-01", Status: StatusGrowing, Progress: 130},
			now:          date("2024-03-31"),
			wantDaysLeft: 1,
			wantProgress: 100,
		},
		{
			name:         "unparseable harvest date",
			plant:        Plant{PlantedDate: "2024-01-01", HarvestDate: "soon", Status: StatusGrowing, DaysLeft: -4, Progress: -7},
			now:          date("2024-02-01"),
			wantDaysLeft: 0,
			wantProgress: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Derive(tc.plant, tc.now)
			if got.DaysLeft != tc.wantDaysLeft {
				t.Fatalf("daysLeft: expected %d, got %d", tc.wantDaysLeft, got.DaysLeft)
			}
			if got.Progress != tc.wantProgress {
				t.Fatalf("progress: expected %d, got %d", tc.wantProgress, got.Progress)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	if got := AddDays("2024-02-15", 90); got != "2024-05-15" {
		t.Fatalf("expected 2024-05-15, got %s", got)
	}
	if got := AddDays("bogus", 10); got != "bogus" {
		t.Fatalf("expected unparseable date unchanged, got %s", got)
	}
}
