// PanenKu crop journal server and command line.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/panenku/internal/api/http"
	"github.com/i474232898/panenku/internal/config"
	"github.com/i474232898/panenku/internal/harvest"
	"github.com/i474232898/panenku/internal/journal"
	"github.com/i474232898/panenku/internal/plant"
	"github.com/i474232898/panenku/internal/scheduler"
	"github.com/i474232898/panenku/internal/store"
	"github.com/i474232898/panenku/internal/weather"
	"github.com/i474232898/panenku/internal/weather/providers"
)

var (
	rootCmd = &cobra.Command{
		Use:   "panenku",
		Short: "PanenKu crop journal",
		Long:  "Track planted crops, projected harvest dates, harvest yields and the weather that drives them.",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE:  serve,
	}

	weatherCmd = &cobra.Command{
		Use:   "weather",
		Short: "Show the current weather and harvest-duration estimate",
		RunE:  showWeather,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show plant and harvest statistics",
		RunE:  showStats,
	}

	dueCmd = &cobra.Command{
		Use:   "due",
		Short: "List growing plants close to harvest",
		RunE:  showDue,
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Delete all plants and harvest records",
		RunE:  resetData,
	}

	dueDays int
	confirm bool
)

func init() {
	dueCmd.Flags().IntVarP(&dueDays, "days", "n", 7, "Reminder window in days")
	resetCmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deletion")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(weatherCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the wired dependencies shared by every command.
type app struct {
	cfg     *config.AppConfig
	store   store.Store
	journal *journal.Journal
	weather *weather.CachedService
	close   func()
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var (
		st      store.Store
		closeFn = func() {}
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Printf("INFO: using in-memory store; data is lost on exit")
		st = store.NewMemoryStore()
	default:
		sq, err := store.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		log.Printf("INFO: using sqlite store at %s", cfg.DBPath)
		st = sq
		closeFn = func() {
			if err := sq.Close(); err != nil {
				log.Printf("ERROR: closing store: %v", err)
			}
		}
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var geo weather.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geo = providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	}
	service := weather.NewService(
		providers.StaticLocator{Lat: cfg.Latitude, Lon: cfg.Longitude},
		geo,
		providers.NewOpenMeteoProvider(httpClient, cfg.WeatherBaseURL, cfg.WeatherMaxRetries),
	)
	cached := weather.NewCachedService(service, weather.NewCache(cfg.WeatherCacheTTL))

	j := journal.New(st, plant.NewRepository(st), harvest.NewRepository(st), cached)

	return &app{cfg: cfg, store: st, journal: j, weather: cached, close: closeFn}, nil
}

func serve(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(scheduler.Config{
		WeatherInterval: a.cfg.WeatherRefreshInterval,
		ReminderDays:    a.cfg.ReminderDays,
		ReminderAt:      a.cfg.ReminderAt,
	}, func(ctx context.Context) { a.weather.Refresh(ctx) }, a.journal)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	srv := fiber.New(fiber.Config{
		AppName:               "panenku",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	srv.Use(logger.New())
	srv.Use(recover.New())

	srv.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "panenku",
		})
	})

	httpapi.RegisterRoutes(srv, a.journal, a.weather)

	go func() {
		log.Printf("INFO: listening on :%s", a.cfg.Port)
		if err := srv.Listen(":" + a.cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}

func showWeather(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	s := a.weather.Current(cmd.Context())
	tips := weather.TipsFor(string(s.Condition), s.Temperature)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Location:\t%s\n", s.Location)
	fmt.Fprintf(w, "Condition:\t%s (%.1f°C)\n", s.Label, s.Temperature)
	fmt.Fprintf(w, "Humidity:\t%.0f%%\n", s.Humidity)
	fmt.Fprintf(w, "Wind:\t%.1f km/h\n", s.WindSpeed)
	fmt.Fprintf(w, "Precipitation:\t%.1f mm\n", s.Precipitation)
	fmt.Fprintf(w, "Harvest estimate:\t%s (%d days)\n", s.HarvestDurationText, s.HarvestDurationDays)
	if s.Offline {
		fmt.Fprintln(w, "Source:\toffline fallback")
	}
	w.Flush()

	if len(s.Forecast) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DAY\tDATE\tCONDITION\tHIGH\tLOW")
		fmt.Fprintln(w, "---\t----\t---------\t----\t---")
		for _, d := range s.Forecast {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.1f\n", d.Day, d.Date, d.Label, d.HighTemp, d.LowTemp)
		}
		w.Flush()
	}

	fmt.Printf("\n%s\n", tips.Title)
	for _, t := range tips.Tips {
		fmt.Printf("  - %s\n", t)
	}
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	s := a.journal.Stats(cmd.Context())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Plants:\t%d\n", s.Plants.TotalPlants)
	fmt.Fprintf(w, "  growing:\t%d\n", s.Plants.GrowingPlants)
	fmt.Fprintf(w, "  harvested:\t%d\n", s.Plants.HarvestedPlants)
	fmt.Fprintf(w, "Harvests:\t%d\n", s.Harvests.TotalHarvests)
	fmt.Fprintf(w, "Total quantity:\t%.2f\n", s.Harvests.TotalQuantity)
	fmt.Fprintf(w, "Harvested plants:\t%d\n", s.Harvests.UniquePlants)
	return w.Flush()
}

func showDue(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	due := a.journal.DueForHarvest(cmd.Context(), dueDays)
	if len(due) == 0 {
		fmt.Printf("No plants due within %d day(s)\n", dueDays)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tHARVEST\tDAYS LEFT\tPROGRESS")
	fmt.Fprintln(w, "--\t----\t----\t-------\t---------\t--------")
	for _, p := range due {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d%%\n", p.ID, p.Name, p.Type, p.HarvestDate, p.DaysLeft, p.Progress)
	}
	return w.Flush()
}

func resetData(cmd *cobra.Command, args []string) error {
	if !confirm {
		return fmt.Errorf("refusing to delete data without --yes")
	}
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.journal.Reset(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("All plants and harvest records deleted")
	return nil
}
