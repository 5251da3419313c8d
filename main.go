package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/road.report/internal/api"
	"github.com/banshee-data/road.report/internal/config"
	"github.com/banshee-data/road.report/internal/db"
	"github.com/banshee-data/road.report/internal/monitoring"
	"github.com/banshee-data/road.report/internal/rci"
	"github.com/banshee-data/road.report/internal/units"
	"github.com/banshee-data/road.report/internal/version"
)

var (
	listen        = flag.String("listen", ":8080", "Listen address")
	dbFile        = flag.String("db", "roughness.db", "Path to the SQLite database")
	configFile    = flag.String("config", "", "Path to a JSON or YAML config file (optional)")
	speedUnits    = flag.String("units", units.KMPH, "Display units for speeds: mps, mph, kmph, kph")
	migrationsDir = flag.String("migrations", "migrations", "Path to the migrations directory")
	migrate       = flag.Bool("migrate", false, "Run pending migrations on startup")
	verbose       = flag.Bool("verbose", false, "Log per-submission pipeline diagnostics")
)

func loadConfig() *config.Config {
	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("failed to load config %s: %v", *configFile, err)
		}
		cfg = loaded
	}
	if err := cfg.FromEnv(); err != nil {
		log.Fatalf("failed to apply environment overrides: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if !units.IsValid(*speedUnits) {
		log.Fatalf("invalid units %q, expected one of: %s", *speedUnits, units.GetValidUnitsString())
	}

	log.Printf("road.report %s (%s) starting", version.Version, version.GitSHA)

	cfg := loadConfig()
	log.Printf("pipeline config: %v", cfg.Effective())

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *migrate {
		if err := database.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		v, dirty, err := database.MigrateVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("failed to read migration version: %v", err)
		}
		log.Printf("migrations applied: version=%d dirty=%v", v, dirty)
	}

	var trace monitoring.TraceFunc
	if *verbose {
		trace = monitoring.Logf
	}
	pipeline := rci.New(cfg, trace)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(database, pipeline, *speedUnits).ServeMux()

		// mount the admin debugging routes (SQL console and backups)
		if err := database.AttachAdminRoutes(mux); err != nil {
			log.Fatalf("failed to attach admin routes: %v", err)
		}

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
