package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/planme-app/planme-backend/internal/auth"
	"github.com/planme-app/planme-backend/internal/config"
	"github.com/planme-app/planme-backend/internal/database"
	"github.com/planme-app/planme-backend/internal/expenses"
	"github.com/planme-app/planme-backend/internal/logging"
	"github.com/planme-app/planme-backend/internal/planstore"
	"github.com/planme-app/planme-backend/internal/router"
	"github.com/planme-app/planme-backend/internal/scheduler"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if cfg.SeedDevData {
		if err := database.SeedDevData(db); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	}

	auth.InitProviders(cfg)

	categories, err := expenses.LoadCategories()
	if err != nil {
		log.Fatalf("failed to load expense categories: %v", err)
	}

	lastRun, err := scheduler.NewLastRunCache(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to create last-run cache: %v", err)
	}
	defer lastRun.Close()

	location, err := time.LoadLocation(cfg.CompletionTimezone)
	if err != nil {
		logger.Warn("Invalid timezone, using UTC", "timezone", cfg.CompletionTimezone, "error", err)
		location = time.UTC
	}

	runner := scheduler.NewRunner(planstore.New(db), logger, location)

	stopScheduler, err := scheduler.Start(cfg, runner, lastRun, logger)
	if err != nil {
		log.Fatalf("failed to start completion scheduler: %v", err)
	}
	defer stopScheduler()

	engine := router.New(cfg, db, runner, lastRun, categories, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err.Error())
	}
}
