package plant

import "errors"

// Status is the lifecycle state of a planting. Harvested is terminal.
type Status string

const (
	StatusGrowing   Status = "growing"
	StatusHarvested Status = "harvested"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusGrowing || s == StatusHarvested
}

// DateLayout is the calendar-date format of plantedDate/harvestDate.
const DateLayout = "2006-01-02"

// Defaults applied when creating or repairing a plant.
const (
	DefaultName            = "Tanaman Baru"
	DefaultRepairedName    = "Tanaman Tanpa Nama"
	DefaultType            = "Umum"
	DefaultImage           = "https://images.unsplash.com/photo-1416879595882-3373a0480b5b?w=400&h=300&fit=crop"
	DefaultLocation        = "Cikole, Kota Sukabumi"
	DefaultHarvestDuration = "4 - 5 Bulan"
	DefaultHarvestDays     = 90
	// DefaultProgress is used when a record has no usable dates to derive progress from.
	DefaultProgress = 10
)

var (
	ErrInvalidStatus  = errors.New("invalid plant status")
	ErrInvalidDate    = errors.New("invalid date, want YYYY-MM-DD")
	ErrStatusTerminal = errors.New("harvested plant cannot return to growing")
)

// Care holds the care instructions shown with a plant.
type Care struct {
	Water      string `json:"water"`
	Sun        string `json:"sun"`
	Soil       string `json:"soil"`
	Fertilizer string `json:"fertilizer"`
}

// DefaultCare returns the care instructions given to plants that have none.
func DefaultCare() Care {
	return Care{
		Water:      "1 kali sehari",
		Sun:        "6-8 jam/hari",
		Soil:       "Tanah gembur",
		Fertilizer: "Pupuk organik mingguan",
	}
}

// Plant is a crop planting record as persisted under the plants key.
// DaysLeft, Progress and (for due plants) Status are recomputed on every read.
type Plant struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	DaysLeft        int      `json:"daysLeft"`
	PlantedDate     string   `json:"plantedDate"`
	HarvestDate     string   `json:"harvestDate"`
	Image           string   `json:"image"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	Weather         string   `json:"weather"`
	WeatherLabel    string   `json:"weatherLabel,omitempty"`
	WeatherNotes    string   `json:"weatherNotes,omitempty"`
	Area            *float64 `json:"area"`
	Fertilizer      string   `json:"fertilizer"`
	Care            *Care    `json:"care,omitempty"`
	Progress        int      `json:"progress"`
	Status          Status   `json:"status"`
	HarvestDuration string   `json:"harvestDuration"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}

// Draft carries the caller-supplied fields of a new plant. Zero values mean "use the default".
type Draft struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	PlantedDate     string   `json:"plantedDate"`
	HarvestDate     string   `json:"harvestDate"`
	Image           string   `json:"image"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	Weather         string   `json:"weather"`
	WeatherLabel    string   `json:"weatherLabel"`
	WeatherNotes    string   `json:"weatherNotes"`
	Area            *float64 `json:"area"`
	Fertilizer      string   `json:"fertilizer"`
	Care            *Care    `json:"care"`
	Status          Status   `json:"status"`
	HarvestDuration string   `json:"harvestDuration"`
	// HarvestDurationDays decides harvestDate from plantedDate when harvestDate is empty.
	HarvestDurationDays int `json:"harvestDurationDays"`
}

// Patch is a partial update. Nil fields are left untouched; the id is never patched.
// DaysLeft and Progress are recomputed after the merge unless the dates are unusable.
type Patch struct {
	Name            *string  `json:"name"`
	Type            *string  `json:"type"`
	PlantedDate     *string  `json:"plantedDate"`
	HarvestDate     *string  `json:"harvestDate"`
	Image           *string  `json:"image"`
	Description     *string  `json:"description"`
	Location        *string  `json:"location"`
	Weather         *string  `json:"weather"`
	WeatherLabel    *string  `json:"weatherLabel"`
	WeatherNotes    *string  `json:"weatherNotes"`
	Area            *float64 `json:"area"`
	Fertilizer      *string  `json:"fertilizer"`
	Care            *Care    `json:"care"`
	HarvestDuration *string  `json:"harvestDuration"`
	DaysLeft        *int     `json:"daysLeft"`
	Progress        *int     `json:"progress"`
	Status          *Status  `json:"status"`
}

// apply shallow-merges the patch over pl.
func (p Patch) apply(pl *Plant) {
	setString(&pl.Name, p.Name)
	setString(&pl.Type, p.Type)
	setString(&pl.PlantedDate, p.PlantedDate)
	setString(&pl.HarvestDate, p.HarvestDate)
	setString(&pl.Image, p.Image)
	setString(&pl.Description, p.Description)
	setString(&pl.Location, p.Location)
	setString(&pl.Weather, p.Weather)
	setString(&pl.WeatherLabel, p.WeatherLabel)
	setString(&pl.WeatherNotes, p.WeatherNotes)
	setString(&pl.Fertilizer, p.Fertilizer)
	setString(&pl.HarvestDuration, p.HarvestDuration)
	if p.Area != nil {
		a := *p.Area
		pl.Area = &a
	}
	if p.Care != nil {
		c := *p.Care
		pl.Care = &c
	}
	if p.DaysLeft != nil {
		pl.DaysLeft = *p.DaysLeft
	}
	if p.Progress != nil {
		pl.Progress = *p.Progress
	}
	if p.Status != nil {
		pl.Status = *p.Status
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
