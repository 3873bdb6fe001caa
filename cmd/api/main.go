// Package main is the entry point for the Voyager API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Erfanur1/Voyager/internal/config"
	"github.com/Erfanur1/Voyager/internal/country"
	"github.com/Erfanur1/Voyager/internal/currency"
	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/handler"
	"github.com/Erfanur1/Voyager/internal/identity"
	"github.com/Erfanur1/Voyager/internal/middleware"
	"github.com/Erfanur1/Voyager/internal/remote"
	"github.com/Erfanur1/Voyager/internal/repo"
	"github.com/Erfanur1/Voyager/internal/service"
	"github.com/Erfanur1/Voyager/internal/sync"
	"github.com/Erfanur1/Voyager/internal/weather"
	"github.com/Erfanur1/Voyager/pkg/logging"
)

// maxBodyBytes caps request bodies; cover images are the largest payload.
const maxBodyBytes = 8 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	// --- Database ---------------------------------------------------------
	// Open creates the file if needed and runs embedded migrations.
	store, err := repo.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("database ready", "path", cfg.DBPath)

	trips := repo.NewTripRepo(store)
	expenses := repo.NewExpenseRepo(store)

	// --- Identity and remote store ---------------------------------------
	// Wired even in local-only mode: without a sign-in the provider reports
	// no identity, the coordinator rejects pushes with ErrNotAuthenticated,
	// and no request ever reaches the remote endpoints.
	provider := identity.NewProvider(cfg.AuthBaseURL, cfg.AuthAPIKey, nil, logger)
	docs := remote.NewClient(cfg.RemoteBaseURL, provider.Token, nil)
	coordinator := sync.NewCoordinator(expenses, docs, provider, logger)

	if !cfg.LocalOnly {
		// Sign-in failure is not fatal: the app runs local-only until the
		// next attempt.
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if _, err := provider.EnsureSignedIn(ctx); err != nil {
			logger.Warn("anonymous sign-in failed, starting local-only", "error", err)
		}
		cancel()
	}

	// --- Services ---------------------------------------------------------
	tripSvc := service.NewTripService(trips, coordinator, provider, logger)
	expenseSvc := service.NewExpenseService(trips, expenses, coordinator, provider, logger)
	syncSvc := service.NewSyncService(trips, coordinator)
	exportSvc := service.NewExportService(trips, expenses)

	// --- Lookup clients ----------------------------------------------------
	var weatherClient handler.WeatherLookup
	if cfg.WeatherBaseURL != "" && cfg.WeatherAPIKey != "" {
		weatherClient = weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, nil)
	}
	var currencyClient handler.CurrencyConverter
	if cfg.ExchangeRateBaseURL != "" {
		currencyClient = currency.NewClient(cfg.ExchangeRateBaseURL, nil)
	}
	var countryClient handler.CountryLookup
	if cfg.CountriesBaseURL != "" {
		countryClient = country.NewClient(cfg.CountriesBaseURL, nil)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger →
	// Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	srvHandler := handler.NewServer(tripSvc, expenseSvc, syncSvc, exportSvc,
		weatherClient, currencyClient, countryClient, logger)
	r.Mount("/", srvHandler.Routes())
	r.Handle("/metrics", promhttp.Handler())

	// --- Background sync ---------------------------------------------------
	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()
	if !cfg.LocalOnly && cfg.SyncInterval > 0 {
		go runPeriodicSync(syncCtx, syncSvc, cfg.SyncInterval, logger)
	}

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "local_only", cfg.LocalOnly)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")
	stopSync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// runPeriodicSync pushes all local trips on a fixed interval until ctx is
// canceled. An in-flight rejection just means a manual sync got there
// first; it is logged at debug and retried next tick.
func runPeriodicSync(ctx context.Context, syncs *service.SyncService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := syncs.SyncNow(ctx)
			switch {
			case err == nil:
				logger.Debug("periodic sync completed")
			case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrSyncInFlight):
				logger.Debug("periodic sync skipped", "reason", err)
			default:
				logger.Warn("periodic sync failed", "error", err)
			}
		}
	}
}
