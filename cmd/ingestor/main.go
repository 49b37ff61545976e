package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hashicorp/go-uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"food_rent/internal/adapters/observability"
	redisad "food_rent/internal/adapters/redis"
	"food_rent/internal/adapters/upstream"
	"food_rent/internal/app"
	"food_rent/internal/domain"
	"food_rent/internal/shared"
	"food_rent/internal/storage"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred closes happen before exit.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) global logger (console in dev, JSON otherwise), tagged with the run id
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	runID, err := uuid.GenerateUUID()
	if err != nil {
		log.Error().Err(err).Msg("run id generation failed")
		return 1
	}
	log.Logger = log.With().Str("run_id", runID).Logger()

	if err := cfg.ValidateIngest(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 1
	}
	cities, _ := cfg.SelectedCities()

	log.Info().
		Str("store", cfg.StoreDriver).
		Int("cities", len(cities)).
		Int("workers", cfg.Workers).
		Dur("pace", cfg.Pace).
		Msg("ingestor starting")

	observability.Serve(cfg.MetricsAddr)

	repo, db, err := storage.Open(ctx, cfg.StoreDriver, cfg.SQLitePath, cfg.MySQLDSN)
	if err != nil {
		log.Error().Err(err).Msg("store open failed")
		return 1
	}
	defer db.Close()
	log.Info().Msg("store ready")

	yelp, err := upstream.NewYelp(cfg.YelpBase, cfg.YelpKey, cfg.UpstreamRPS)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize Yelp client")
		return 1
	}
	rentcast, err := upstream.NewRentCast(cfg.RentCastBase, cfg.RentCastKey, cfg.UpstreamRPS)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize RentCast client")
		return 1
	}

	opts := app.IngestOptions{
		Windows: map[domain.Dataset]app.WindowConfig{
			domain.DatasetRestaurants: {Size: cfg.YelpPageSize, MaxOffset: cfg.YelpMaxOffset},
			domain.DatasetRentals:     {Size: cfg.RentCastPageSize},
		},
		Pace:     cfg.Pace,
		CacheTTL: cfg.CacheTTL,
	}
	if cfg.RedisAddr != "" {
		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cache.Close()
		opts.Cache = cache
	}
	ing := app.NewIngestionService(repo, yelp, rentcast, opts)

	stored, err := ing.EnsureCities(ctx, cities)
	if err != nil {
		log.Error().Err(err).Msg("city registration failed")
		return 1
	}

	// one goroutine per city; a city's datasets run sequentially inside it
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed int

	for i := range stored {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("stopping before all cities were scheduled")
			break
		}

		wg.Add(1)
		go func(city *domain.City) {
			defer wg.Done()
			defer sem.Release(1)

			for _, rep := range ing.RunCity(ctx, city) {
				if rep.Err == nil {
					continue
				}
				mu.Lock()
				failed++
				mu.Unlock()
				if upstream.IsAuth(rep.Err) {
					log.Error().Err(rep.Err).Str("city", city.Name).Str("dataset", string(rep.Dataset)).Msg("credentials rejected")
				}
			}
		}(&stored[i])
	}

	wg.Wait()
	log.Info().Int("failed_batches", failed).Msg("ingestion completed")
	if failed > 0 {
		return 1
	}
	return 0
}
