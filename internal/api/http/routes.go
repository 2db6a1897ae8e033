package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/panenku/internal/harvest"
	"github.com/i474232898/panenku/internal/journal"
	"github.com/i474232898/panenku/internal/plant"
	"github.com/i474232898/panenku/internal/weather"
)

var validate = validator.New()

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, j *journal.Journal, ws journal.WeatherSource) {
	v1 := app.Group("/api/v1")

	plants := v1.Group("/plants")
	plants.Get("/", listPlants(j))
	plants.Post("/", createPlant(j))
	plants.Get("/:id", getPlant(j))
	plants.Patch("/:id", updatePlant(j))
	plants.Delete("/:id", deletePlant(j))
	plants.Post("/:id/harvest", harvestPlant(j))

	harvests := v1.Group("/harvests")
	harvests.Get("/", listHarvests(j))
	harvests.Post("/", createHarvest(j))
	harvests.Get("/:id", getHarvest(j))
	harvests.Patch("/:id", updateHarvest(j))
	harvests.Delete("/:id", deleteHarvest(j))

	v1.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(j.Stats(c.UserContext()))
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		return c.JSON(ws.Current(c.UserContext()))
	})

	v1.Get("/weather/tips", func(c *fiber.Ctx) error {
		var q tipsQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if q.Condition == "" || q.Temperature == nil {
			snap := ws.Current(c.UserContext())
			if q.Condition == "" {
				q.Condition = string(snap.Condition)
			}
			if q.Temperature == nil {
				q.Temperature = &snap.Temperature
			}
		}
		return c.JSON(weather.TipsFor(q.Condition, *q.Temperature))
	})
}

// plantError maps plant repository errors onto HTTP errors.
func plantError(err error, action string) error {
	switch {
	case errors.Is(err, plant.ErrInvalidDate),
		errors.Is(err, plant.ErrInvalidStatus),
		errors.Is(err, plant.ErrStatusTerminal):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to "+action+", please try again")
	}
}

func bindBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// plantQuery holds the query parameters of the plant listing.
type plantQuery struct {
	Status string `validate:"omitempty,oneof=growing harvested"`
}

func listPlants(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := plantQuery{Status: c.Query("status")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if q.Status != "" {
			return c.JSON(j.Plants().ListByStatus(c.UserContext(), plant.Status(q.Status)))
		}
		return c.JSON(j.Plants().List(c.UserContext()))
	}
}

type createPlantRequest struct {
	Name                string      `json:"name" validate:"max=100"`
	Type                string      `json:"type" validate:"max=50"`
	PlantedDate         string      `json:"plantedDate" validate:"omitempty,datetime=2006-01-02"`
	HarvestDate         string      `json:"harvestDate" validate:"omitempty,datetime=2006-01-02"`
	Image               string      `json:"image"`
	Description         string      `json:"description"`
	Location            string      `json:"location"`
	Weather             string      `json:"weather"`
	WeatherLabel        string      `json:"weatherLabel"`
	WeatherNotes        string      `json:"weatherNotes"`
	Area                *float64    `json:"area" validate:"omitempty,gte=0"`
	Fertilizer          string      `json:"fertilizer"`
	Care                *plant.Care `json:"care"`
	Status              string      `json:"status" validate:"omitempty,oneof=growing harvested"`
	HarvestDuration     string      `json:"harvestDuration"`
	HarvestDurationDays int         `json:"harvestDurationDays" validate:"gte=0"`
}

func (r createPlantRequest) toDraft() plant.Draft {
	return plant.Draft{
		Name:                r.Name,
		Type:                r.Type,
		PlantedDate:         r.PlantedDate,
		HarvestDate:         r.HarvestDate,
		Image:               r.Image,
		Description:         r.Description,
		Location:            r.Location,
		Weather:             r.Weather,
		WeatherLabel:        r.WeatherLabel,
		WeatherNotes:        r.WeatherNotes,
		Area:                r.Area,
		Fertilizer:          r.Fertilizer,
		Care:                r.Care,
		Status:              plant.Status(r.Status),
		HarvestDuration:     r.HarvestDuration,
		HarvestDurationDays: r.HarvestDurationDays,
	}
}

func createPlant(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createPlantRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		p, err := j.AddPlant(c.UserContext(), req.toDraft())
		if err != nil {
			return plantError(err, "save plant")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func getPlant(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := j.Plants().GetByID(c.UserContext(), c.Params("id"))
		if p == nil {
			return fiber.NewError(fiber.StatusNotFound, "plant not found")
		}
		return c.JSON(p)
	}
}

func updatePlant(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch plant.Patch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
			return fiber.NewError(fiber.StatusBadRequest, "progress must be between 0 and 100")
		}
		if patch.DaysLeft != nil && *patch.DaysLeft < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "daysLeft must not be negative")
		}

		updated, err := j.Plants().Update(c.UserContext(), c.Params("id"), patch)
		if err != nil {
			return plantError(err, "update plant")
		}
		if updated == nil {
			return fiber.NewError(fiber.StatusNotFound, "plant not found")
		}
		return c.JSON(updated)
	}
}

func deletePlant(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		removed, err := j.Plants().Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete plant, please try again")
		}
		if !removed {
			return fiber.NewError(fiber.StatusNotFound, "plant not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type harvestPlantRequest struct {
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit" validate:"max=20"`
	Notes    string  `json:"notes"`
	Location string  `json:"location"`
}

func harvestPlant(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req harvestPlantRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		rec, err := j.HarvestPlant(c.UserContext(), c.Params("id"), req.Quantity, req.Unit, req.Notes, req.Location)
		switch {
		case errors.Is(err, journal.ErrPlantNotFound):
			return fiber.NewError(fiber.StatusNotFound, "plant not found")
		case errors.Is(err, journal.ErrInvalidQuantity):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, journal.ErrAlreadyHarvested):
			return fiber.NewError(fiber.StatusConflict, "plant has already been harvested")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to harvest plant, please try again")
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// harvestQuery holds the query parameters of the harvest listing.
type harvestQuery struct {
	PlantID string
	Limit   int `validate:"gte=0,lte=1000"`
}

func (q *harvestQuery) bind(c *fiber.Ctx) error {
	q.PlantID = strings.TrimSpace(c.Query("plantId"))
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		q.Limit = n
	}
	return validate.Struct(q)
}

func listHarvests(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q harvestQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()
		var records []harvest.Record
		switch {
		case q.PlantID != "":
			records = j.Harvests().ListByPlant(ctx, q.PlantID)
			if q.Limit > 0 && len(records) > q.Limit {
				records = records[:q.Limit]
			}
		case q.Limit > 0:
			records = j.Harvests().Recent(ctx, q.Limit)
		default:
			records = j.Harvests().List(ctx)
		}
		return c.JSON(records)
	}
}

type createHarvestRequest struct {
	PlantID     string  `json:"plantId" validate:"required"`
	PlantName   string  `json:"plantName"`
	HarvestDate string  `json:"harvestDate" validate:"omitempty,datetime=2006-01-02"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	Unit        string  `json:"unit" validate:"max=20"`
	Notes       string  `json:"notes"`
	Image       string  `json:"image"`
	Location    string  `json:"location"`
}

func createHarvest(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createHarvestRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		rec, err := j.Harvests().Create(c.UserContext(), harvest.Draft(req))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save harvest, please try again")
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

func getHarvest(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec := j.Harvests().GetByID(c.UserContext(), c.Params("id"))
		if rec == nil {
			return fiber.NewError(fiber.StatusNotFound, "harvest not found")
		}
		return c.JSON(rec)
	}
}

type updateHarvestRequest struct {
	PlantName   *string  `json:"plantName"`
	HarvestDate *string  `json:"harvestDate" validate:"omitempty,datetime=2006-01-02"`
	Quantity    *float64 `json:"quantity" validate:"omitempty,gt=0"`
	Unit        *string  `json:"unit" validate:"omitempty,max=20"`
	Notes       *string  `json:"notes"`
	Image       *string  `json:"image"`
	Location    *string  `json:"location"`
}

func updateHarvest(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateHarvestRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		if req.Quantity != nil && *req.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than zero")
		}

		updated, err := j.Harvests().Update(c.UserContext(), c.Params("id"), harvest.Patch(req))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update harvest, please try again")
		}
		if updated == nil {
			return fiber.NewError(fiber.StatusNotFound, "harvest not found")
		}
		return c.JSON(updated)
	}
}

func deleteHarvest(j *journal.Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		removed, err := j.Harvests().Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete harvest, please try again")
		}
		if !removed {
			return fiber.NewError(fiber.StatusNotFound, "harvest not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// tipsQuery holds the optional overrides of the tips endpoint.
type tipsQuery struct {
	Condition   string
	Temperature *float64
}

func (q *tipsQuery) bind(c *fiber.Ctx) error {
	q.Condition = strings.TrimSpace(c.Query("condition"))
	if s := c.Query("temperature"); s != "" {
		t, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("temperature must be a number")
		}
		q.Temperature = &t
	}
	return nil
}
