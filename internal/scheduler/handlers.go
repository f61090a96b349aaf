package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/config"
)

// RunNowHandler triggers a completion check synchronously. The run is
// "successful" as a whole unless the initial fetch fails; individual plan
// failures are reflected in the summary, not the status code.
func RunNowHandler(runner *Runner, lastRun *LastRunCache, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Detached from the request context: a client disconnect must not
		// cancel store writes mid-run.
		ctx := context.WithoutCancel(c.Request.Context())

		summary, err := runner.Run(ctx)
		if err != nil {
			if errors.Is(err, ErrRunInProgress) {
				c.JSON(http.StatusConflict, gin.H{
					"success": false,
					"error":   "a completion check is already running",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		if lastRun != nil {
			if err := lastRun.Store(ctx, summary); err != nil {
				logger.Warn("Failed to cache completion run summary", "error", err.Error())
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Daily completion check executed successfully",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"summary":   summary,
		})
	}
}

// StatusHandler reports the configured schedule and, when available, the
// summary of the most recent run.
func StatusHandler(cfg *config.Config, lastRun *LastRunCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{
			"success":  true,
			"message":  "Daily completion scheduler is running",
			"schedule": cfg.CompletionSchedule,
			"timezone": cfg.CompletionTimezone,
		}

		if lastRun != nil {
			if summary, err := lastRun.Load(c.Request.Context()); err == nil && summary != nil {
				resp["last_run"] = summary
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
