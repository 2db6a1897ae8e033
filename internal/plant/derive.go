package plant

import (
	"math"
	"time"
)

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as a calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// AddDays returns the calendar date days after date. An unparseable date is returned unchanged.
func AddDays(date string, days int) string {
	t, ok := parseDate(date)
	if !ok {
		return date
	}
	return FormatDate(t.AddDate(0, 0, days))
}

// daysBetween is ceil((to - from) / 24h), unclamped.
func daysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

func clampProgress(p int) int {
	return min(100, max(0, p))
}

// Derive recomputes the derived fields of p against now.
//
// daysLeft is the ceiling of the days remaining until harvestDate, floored at 0.
// progress is the rounded share of the plantedDate..harvestDate window already
// elapsed, clamped to [0,100]; the stored progress is kept when the window is empty.
// A growing plant whose harvest date has been reached becomes harvested, and
// harvested plants always read as 0 days left at 100%.
func Derive(p Plant, now time.Time) Plant {
	if p.Status == StatusHarvested {
		p.DaysLeft = 0
		p.Progress = 100
		return p
	}

	harvest, ok := parseDate(p.HarvestDate)
	if !ok {
		p.DaysLeft = max(0, p.DaysLeft)
		p.Progress = clampProgress(p.Progress)
		return p
	}

	left := daysBetween(now, harvest)
	progress := p.Progress
	if planted, ok := parseDate(p.PlantedDate); ok {
		if total := daysBetween(planted, harvest); total > 0 {
			progress = int(math.Round(float64(total-left) / float64(total) * 100))
		}
	}

	p.DaysLeft = max(0, left)
	p.Progress = clampProgress(progress)
	if left <= 0 {
		p.Status = StatusHarvested
		p.Progress = 100
	}
	return p
}
