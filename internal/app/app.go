package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eurofx/internal/adapters/bundesbank"
	"eurofx/internal/adapters/cache"
	"eurofx/internal/adapters/postgres"
	"eurofx/internal/api"
	"eurofx/internal/config"
	"eurofx/internal/platform/db"
	httpserver "eurofx/internal/platform/http"
	"eurofx/internal/rate"
	"eurofx/internal/rate/handler"

	"github.com/sirupsen/logrus"
)

const (
	defaultClientTimeout = 10 * time.Second
	defaultBulkTimeout   = 5 * time.Minute
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(startupCtx, pool); err != nil {
		logrus.WithError(err).Error("Failed to apply migrations")
		return err
	}
	logrus.Info("✅ Migrations applied")

	// Upstream client: short timeout for SDMX queries, long one for the CSV dump
	ratesClient := bundesbank.NewClient(
		&http.Client{Timeout: secondsOr(appCfg.HTTPClient.TimeoutSeconds, defaultClientTimeout)},
		&http.Client{Timeout: secondsOr(appCfg.HTTPClient.BulkTimeoutSeconds, defaultBulkTimeout)},
		bundesbank.Config{
			BaseURL:           appCfg.Bundesbank.BaseURL,
			CurrenciesPath:    appCfg.Bundesbank.CurrenciesPath,
			ExchangeRatesPath: appCfg.Bundesbank.ExchangeRatesPath,
			DatasetURL:        appCfg.Bundesbank.DatasetURL,
			Language:          appCfg.Bundesbank.Language,
			DataAccept:        appCfg.Bundesbank.DataAccept,
			StructureAccept:   appCfg.Bundesbank.StructureAccept,
		},
	)

	// Repositories and cache
	rateRepo := postgres.NewRateRepository(pool)
	currencyRepo := postgres.NewCurrencyRepository(pool)
	rateCache, err := cache.NewRateCache(appCfg.Cache.MaxDates)
	if err != nil {
		logrus.WithError(err).Error("Failed to create rate cache")
		return err
	}
	defer rateCache.Close()

	// Services
	refresher := rate.NewRefresher(ratesClient, rateRepo, rateCache, appCfg.Refresh.BatchSize)
	rateService := rate.NewService(ratesClient, rateRepo, rateCache, refresher)
	currencyService := rate.NewCurrencyService(ratesClient, currencyRepo)

	if loadErr := currencyService.LoadAtStartup(startupCtx); loadErr != nil {
		logrus.WithError(loadErr).Warn("Currencies were not loaded at startup")
	}

	location, err := time.LoadLocation(appCfg.Scheduler.Timezone)
	if err != nil {
		logrus.WithError(err).Errorf("Unknown scheduler timezone %q", appCfg.Scheduler.Timezone)
		return err
	}
	scheduler := rate.NewScheduler(refresher, appCfg.Scheduler.RefreshCron, location)
	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	if appCfg.Scheduler.RefreshOnStartup {
		refresher.StartRefresh(ctx)
	}

	// Handlers and router
	rateHandler := handler.NewRateHandler(rate.NewValidator(), rateService, currencyService, refresher)
	router := api.NewRouter(rateHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
