package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/hotdeals/deal-harvester/cmd/server/config"
	"github.com/hotdeals/deal-harvester/internal/api"
	"github.com/hotdeals/deal-harvester/internal/extractor"
	"github.com/hotdeals/deal-harvester/internal/fetcher"
	"github.com/hotdeals/deal-harvester/internal/normalizer"
	"github.com/hotdeals/deal-harvester/internal/pipeline"
	"github.com/hotdeals/deal-harvester/internal/query"
	"github.com/hotdeals/deal-harvester/internal/scheduler"
	"github.com/hotdeals/deal-harvester/internal/store"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	// UserAgent is user agent header value used when fetching listing pages.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

func main() {
	// local development convenience, ignored when no .env file exists
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	rawStore := store.NewRawStore(cfg.RawSnapshotPath)
	cleanStore := store.NewCleanStore(cfg.CleanSnapshotPath)

	pipe := pipeline.NewPipeline(
		fetcher.NewFetcher(&http.Client{Timeout: cfg.HTTPTimeout}, UserAgent),
		&extractor.Extractor{},
		&normalizer.Normalizer{},
		rawStore,
		cleanStore,
		pipeline.Config{
			Categories:       pipeline.DefaultCategories(),
			PagesPerCategory: cfg.Harvest.PagesPerCategory,
			PageDelay:        cfg.Harvest.PageDelay,
			FetchTimeout:     cfg.Harvest.FetchTimeout,
			NormalizeTimeout: cfg.Harvest.NormalizeTimeout,
		},
		&logger,
	)

	sched := scheduler.New(pipe, cfg.Harvest.ScrapeInterval, &logger)
	if err := sched.Start(); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start scheduler")
	}

	handlers := api.NewHandlers(query.NewEngine(cleanStore), sched, &logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handlers, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().
				Err(err).
				Msg("can't serve HTTP")
		}
	}()

	logger.Info().Str("port", cfg.Port).Msg("deal harvester up and running")

	// handle graceful shutdown
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	<-termChan

	logger.Info().Msg("graceful shutdown start")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't shut down HTTP server")
	}

	logger.Info().Msg("graceful shutdown successful")
}
