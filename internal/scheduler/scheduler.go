package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/planme-app/planme-backend/internal/config"
)

// TaskDailyCompletionCheck is the asynq task type for the nightly run.
const TaskDailyCompletionCheck = "completion:daily-check"

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Start registers the nightly completion check with an Asynq scheduler and
// starts a single-worker server to process it. The runner executes the
// same logic the manual trigger uses. Returns a stop function for graceful
// shutdown; calling it is safe exactly once.
func Start(cfg *config.Config, runner *Runner, lastRun *LastRunCache, logger *slog.Logger) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	location, err := time.LoadLocation(cfg.CompletionTimezone)
	if err != nil {
		logger.Warn("Invalid timezone, using UTC", "timezone", cfg.CompletionTimezone, "error", err)
		location = time.UTC
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     1,
			ShutdownTimeout: 30 * time.Second,
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDailyCompletionCheck, handleDailyCompletionCheck(runner, lastRun, logger))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start completion worker: %w", err)
	}

	sched := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	task := asynq.NewTask(
		TaskDailyCompletionCheck,
		nil, // no payload: the handler computes the window itself
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(24*time.Hour), // prevent duplicate if scheduler runs twice
	)

	entryID, err := sched.Register(cfg.CompletionSchedule, task)
	if err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("failed to register completion schedule: %w", err)
	}

	if err := sched.Start(); err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("Completion scheduler started",
		"schedule", cfg.CompletionSchedule,
		"timezone", cfg.CompletionTimezone,
		"entry_id", entryID,
	)

	return func() {
		sched.Shutdown()
		srv.Shutdown()
	}, nil
}

// handleDailyCompletionCheck runs the completion check when the scheduled
// task fires. An in-progress run (e.g. an overlapping manual trigger) is
// not an error worth retrying.
func handleDailyCompletionCheck(runner *Runner, lastRun *LastRunCache, logger *slog.Logger) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		summary, err := runner.Run(ctx)
		if err != nil {
			if err == ErrRunInProgress {
				logger.Warn("Scheduled completion check skipped: run already in progress")
				return nil
			}
			return fmt.Errorf("completion check failed: %w", err)
		}

		if lastRun != nil {
			if err := lastRun.Store(ctx, summary); err != nil {
				logger.Warn("Failed to cache completion run summary", "error", err.Error())
			}
		}

		return nil
	}
}
