package harvest

// DefaultUnit is the unit recorded when none is given.
const DefaultUnit = "Kg"

// Record is an immutable log entry of one harvest. PlantName, Image and Location
// are snapshots taken at harvest time, not live references to the plant.
type Record struct {
	ID          string  `json:"id"`
	PlantID     string  `json:"plantId"`
	PlantName   string  `json:"plantName"`
	HarvestDate string  `json:"harvestDate"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes"`
	Image       string  `json:"image"`
	Location    string  `json:"location"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// Draft carries the fields of a new record. Empty HarvestDate means today.
type Draft struct {
	PlantID     string  `json:"plantId"`
	PlantName   string  `json:"plantName"`
	HarvestDate string  `json:"harvestDate"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes"`
	Image       string  `json:"image"`
	Location    string  `json:"location"`
}

// Patch is an explicit correction of a record. Nil fields are left untouched.
type Patch struct {
	PlantName   *string  `json:"plantName"`
	HarvestDate *string  `json:"harvestDate"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Notes       *string  `json:"notes"`
	Image       *string  `json:"image"`
	Location    *string  `json:"location"`
}

func (p Patch) apply(r *Record) {
	setString(&r.PlantName, p.PlantName)
	setString(&r.HarvestDate, p.HarvestDate)
	setString(&r.Unit, p.Unit)
	setString(&r.Notes, p.Notes)
	setString(&r.Image, p.Image)
	setString(&r.Location, p.Location)
	if p.Quantity != nil {
		r.Quantity = *p.Quantity
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Stats summarizes the harvest log.
type Stats struct {
	TotalHarvests int     `json:"totalHarvests"`
	TotalQuantity float64 `json:"totalQuantity"`
	UniquePlants  int     `json:"uniquePlants"`
}
