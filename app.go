package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/go-co-op/gocron/v2"
	"github.com/samgozman/fin-dashboard/archivist"
	"github.com/samgozman/fin-dashboard/jobs"
	"github.com/samgozman/fin-dashboard/refdata"
	"github.com/samgozman/fin-dashboard/scavenger"
	"github.com/samgozman/fin-dashboard/scavenger/crypto"
	"github.com/samgozman/fin-dashboard/scavenger/fetcher"
	"github.com/samgozman/fin-dashboard/scavenger/stocks"
	"github.com/samgozman/fin-dashboard/snapshot"
)

type App struct {
	cfg    *Config
	job    *jobs.SnapshotJob
	kit    *SentryKit
	logger *slog.Logger
}

// NewApp loads the reference data and wires every collaborator of the snapshot job.
func NewApp(cfg *Config, logger *slog.Logger) (*App, error) {
	env := cfg.env

	reference, err := refdata.Load(env.ReferenceDataPath)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}

	f := fetcher.NewClient(
		fetcher.WithTimeout(env.HTTPTimeout),
		fetcher.WithRateLimit(env.RequestsPerSecond),
		fetcher.WithSanitizer(env.SanitizeStrings),
		fetcher.WithLogger(logger),
	)

	quoteOpts := []stocks.QuoteOption{stocks.WithLogger(logger)}
	if env.AlphaVantageURL != "" {
		quoteOpts = append(quoteOpts, stocks.WithBaseURL(env.AlphaVantageURL))
	}
	quotes := stocks.NewQuoteClient(f, env.AlphaVantageKey, quoteOpts...)

	prices := crypto.NewClient(f, crypto.Provider(env.CryptoProvider),
		reference.Crypto.IDs, reference.Crypto.Currencies,
		crypto.WithURL(env.CryptoURL),
		crypto.WithLogger(logger),
	)

	sc := scavenger.NewScavenger(f, quotes, prices, reference, scavenger.Sources{
		CountriesURL:   env.CountriesURL,
		IndicesURL:     env.IndicesURL,
		StockThemesURL: env.StockThemesURL,
		RealEstateURL:  env.RealEstateURL,
		GICIURL:        env.GICIURL,
	}).WithLogger(logger)

	a, err := archivist.NewArchivist(env.OutputPath)
	if err != nil {
		return nil, err
	}

	job := jobs.NewSnapshotJob(sc, reference).
		WriteTo(a).
		WithThemesKey(env.ThemesKey).
		WithTimeout(cfg.jobTimeout).
		WithLogger(logger).
		PrintSummary()

	return &App{
		cfg:    cfg,
		job:    job,
		kit:    &SentryKit{log: logger},
		logger: logger,
	}, nil
}

// Run executes the snapshot job once, or on the configured schedule until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.env.Schedule == "" {
		return a.job.Run(ctx)
	}
	return a.schedule(ctx)
}

// schedule runs the job immediately and then on every tick of the cron expression.
func (a *App) schedule(ctx context.Context) error {
	hub := a.kit.GetHub(ctx)
	defer hub.Flush(a.cfg.sentryFlushTimeout)

	s, err := gocron.NewScheduler(gocron.WithLocation(snapshot.KST))
	if err != nil {
		a.kit.AddBreadcrumb(hub, "scheduler", "Error creating scheduler", sentry.LevelFatal)
		a.kit.CaptureError(hub, "schedulerCreateError", "Error creating scheduler", err)
		return err
	}

	_, err = s.NewJob(
		gocron.CronJob(a.cfg.env.Schedule, false),
		gocron.NewTask(a.job.Task()),
		gocron.WithName("snapshot"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		a.kit.AddBreadcrumb(hub, "scheduler", "Error scheduling snapshot job", sentry.LevelFatal)
		a.kit.CaptureError(hub, "schedulerJobError", "Error scheduling snapshot job", err)
		_ = s.Shutdown()
		return err
	}

	// a failed first run is already reported and the schedule keeps going
	_ = a.job.Run(ctx)

	s.Start()
	a.logger.Info("Started fin-dashboard scheduler", "schedule", a.cfg.env.Schedule)

	<-ctx.Done()
	a.logger.Info("Stopping fin-dashboard scheduler")

	return s.Shutdown()
}
