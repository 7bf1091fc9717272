package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nahanni/placekeeper/internal/adapters/http"
	natsadapter "github.com/nahanni/placekeeper/internal/adapters/nats"
	"github.com/nahanni/placekeeper/internal/adapters/plainsql"
	"github.com/nahanni/placekeeper/internal/adapters/postgres"
	"github.com/nahanni/placekeeper/internal/core/ports"
	"github.com/nahanni/placekeeper/internal/core/usecases"
	"github.com/nahanni/placekeeper/internal/pkg/config"
	"github.com/nahanni/placekeeper/internal/pkg/logging"
	"github.com/nahanni/placekeeper/internal/pkg/telemetry"
)

// sqlPinger adapts *sql.DB to the readiness Pinger interface.
type sqlPinger struct{ db *sql.DB }

func (p sqlPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func main() {
	cfg, err := config.Load("placekeeper-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("placekeeper-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Spatial backend: chosen once at startup, everything downstream only
	// sees the ports.SpatialBackend interface.
	var (
		backend     ports.SpatialBackend
		communities ports.CommunityRepository
		pinger      http.Pinger
	)
	switch cfg.Database.Backend {
	case config.BackendGeometry:
		db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		db.StartPoolMetrics(ctx, 15*time.Second)
		backend = postgres.NewGeometryBackend(db)
		communities = postgres.NewCommunityRepo(db)
		pinger = db.Pool
	case config.BackendCoordinatePair:
		db, err := plainsql.Open(cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		backend = plainsql.NewPairBackend(db)
		communities = plainsql.NewCommunityRepo(db)
		pinger = sqlPinger{db}
	default:
		log.Fatalf("unknown database backend %q", cfg.Database.Backend)
	}
	slog.Info("spatial backend selected", "backend", cfg.Database.Backend)

	// NATS
	events, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer events.Close()

	// Use cases
	guarded := usecases.NewTenantIsolationGuard(backend)
	engine := usecases.NewGeoQueryEngine(guarded)
	placeSvc := usecases.NewPlaceService(guarded, engine, communities, events)

	deps := &http.Dependencies{
		Places:  placeSvc,
		DB:      pinger,
		Events:  events,
		Backend: cfg.Database.Backend,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "PlaceKeeper API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000, http://localhost:5173",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID, X-User-Role",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
