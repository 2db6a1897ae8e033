package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/panenku/internal/plant"
)

// DueLister lists growing plants close to harvest.
type DueLister interface {
	DueForHarvest(ctx context.Context, withinDays int) []plant.Plant
}

// Config holds the job timings.
type Config struct {
	WeatherInterval time.Duration
	ReminderDays    int
	ReminderAt      string // HH:MM, UTC
}

// Scheduler runs the periodic weather refresh and the daily harvest reminder sweep.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresh   func(ctx context.Context)
	due       DueLister
	cfg       Config
	notify    func(plant.Plant)
}

// New creates a new Scheduler. refresh may be nil to disable the weather job.
func New(cfg Config, refresh func(ctx context.Context), due DueLister) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresh:   refresh,
		due:       due,
		cfg:       cfg,
		notify:    logReminder,
	}
}

// Start schedules the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.refresh != nil {
		minutes := int(s.cfg.WeatherInterval.Minutes())
		if minutes <= 0 {
			minutes = 30
		}
		_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
			log.Println("scheduler: running weather refresh job")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			s.refresh(ctx)
		})
		if err != nil {
			return err
		}
	}

	if s.due != nil {
		_, err := s.scheduler.Every(1).Day().At(s.cfg.ReminderAt).Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			s.Sweep(ctx)
		})
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Sweep reports every growing plant due within the reminder window and returns how many there were.
func (s *Scheduler) Sweep(ctx context.Context) int {
	due := s.due.DueForHarvest(ctx, s.cfg.ReminderDays)
	for _, p := range due {
		s.notify(p)
	}
	log.Printf("scheduler: reminder sweep found %d plant(s) due within %d day(s)", len(due), s.cfg.ReminderDays)
	return len(due)
}

func logReminder(p plant.Plant) {
	log.Printf("INFO: reminder: %s (%s) is ready to harvest in %d day(s), on %s", p.Name, p.ID, p.DaysLeft, p.HarvestDate)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
