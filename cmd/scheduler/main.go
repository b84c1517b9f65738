package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fleet-assignment-service/internal/adapters/cache"
	"fleet-assignment-service/internal/adapters/repositories"
	"fleet-assignment-service/internal/adapters/routing"
	"fleet-assignment-service/internal/config"
	"fleet-assignment-service/internal/domain"
	"fleet-assignment-service/internal/platform/db"
	"fleet-assignment-service/internal/platform/lock"
	"fleet-assignment-service/internal/platform/logging"
	"fleet-assignment-service/internal/platform/metrics"
	"fleet-assignment-service/internal/services"
)

// main is the batch composition root. It wires concrete adapters (Postgres,
// ORS, Redis) behind ports and runs one scheduling batch for today; the
// engine itself is invoked programmatically and exposes no other surface.
func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("FLEET_CONFIG"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logging.New(logging.Config{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logging.New(cfg.Logging)
	metrics.RegisterDefault()

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	sched := services.Scheduler{
		Orders:   repositories.NewPostgresOrderRepository(pool),
		Vehicles: repositories.NewPostgresVehicleRepository(pool),
		Drivers:  repositories.NewPostgresDriverRepository(pool),
		Routes:   repositories.NewPostgresRouteRepository(pool),
		Sequencer: &services.Sequencer{
			Log: log.With().Str("component", "sequencer").Logger(),
		},
		Config: services.SchedulerConfig{
			Depot:        domain.Coordinates{Lat: cfg.Depot.Lat, Lon: cfg.Depot.Lon},
			PlanningDays: cfg.Planning.Days,
			Cluster: services.ClusterConfig{
				TargetWeightKg:      cfg.Planning.TargetWeightKg,
				MaxRegionDistanceKm: cfg.Planning.MaxRegionDistanceKm,
			},
		},
		Log: log.With().Str("component", "scheduler").Logger(),
	}

	// Routing and geocoding are optional: without an API key the engine runs
	// entirely on the local sequencing fallback.
	if cfg.ORSAPIKey != "" {
		ors, err := routing.NewORSClient(cfg.ORSAPIKey, log.With().Str("component", "ors").Logger())
		if err != nil {
			log.Fatal().Err(err).Msg("init ORS client")
		}
		sched.Sequencer.Optimizer = ors
		sched.Geocoder = cache.NewCachedGeocoder(pool, ors)
	}

	if cfg.RedisAddr != "" {
		redisLock := lock.NewRedisLock(cfg.RedisAddr, 30*time.Minute)
		defer redisLock.Close()
		sched.Lock = redisLock
	} else {
		sched.Lock = lock.NewLocalLock()
	}

	report, err := sched.Run(context.Background(), time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("scheduling run failed")
	}

	for _, day := range report.Days {
		log.Info().
			Str("date", day.Date.Format(time.DateOnly)).
			Int("routes", day.RoutesPlanned).
			Int("assigned", day.OrdersAssigned).
			Int("cascaded", day.OrdersCascaded).
			Strs("unstaffed_vehicles", day.UnstaffedVehicles).
			Msg("day planned")
	}
	log.Info().
		Str("run_id", report.RunID).
		Int("unassigned", len(report.UnassignedOrderIDs)).
		Int("needs_location", len(report.NeedsLocationIDs)).
		Msg("batch complete")
}
