package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/services"

	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires the configured plan repository behind its port and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	log, err := obs.Configure(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := repositories.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepo()

	if cfg.SeedPath != "" {
		if err := repositories.SeedFromJSON(ctx, repo, cfg.SeedPath); err != nil {
			log.Fatal(err)
		}
		log.WithField("path", cfg.SeedPath).Info("seed plan imported")
	}

	m := metrics.New()
	calc := services.NewRouteCalculator(services.WithEstimateObserver(m.ObserveEstimate))
	ws := handlers.NewWorkspace(repo, calc, log)
	router := api.NewRouter(ws, calc, m, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "backend": cfg.StoreBackend}).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}
