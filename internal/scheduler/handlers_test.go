package scheduler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/models"
)

// ctxSensitiveStore fails every call once its context is cancelled, the way
// a real database driver would.
type ctxSensitiveStore struct {
	inner *fakeStore
}

func (s *ctxSensitiveStore) PlansInWindow(ctx context.Context, start, end time.Time) ([]models.DailyPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.PlansInWindow(ctx, start, end)
}

func (s *ctxSensitiveStore) SetPlanCompletion(ctx context.Context, planID uint, completed bool) (models.DailyPlan, error) {
	if err := ctx.Err(); err != nil {
		return models.DailyPlan{}, err
	}
	return s.inner.SetPlanCompletion(ctx, planID, completed)
}

func (s *ctxSensitiveStore) AdjustStreak(ctx context.Context, userID string, delta int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.inner.AdjustStreak(ctx, userID, delta)
}

func TestRunNowSurvivesClientDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	inner := newFakeStore()
	inner.plans = []models.DailyPlan{
		yesterdayPlan(1, "user-1", `[{"title":"a","time":"07:00","completed":true}]`, nil),
	}
	store := &ctxSensitiveStore{inner: inner}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := NewRunner(store, logger, time.UTC)
	runner.now = func() time.Time { return testNow }

	r := gin.New()
	r.POST("/scheduler/run-daily-check", RunNowHandler(runner, nil, logger))

	// The client goes away before the run starts.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/scheduler/run-daily-check", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(inner.completionCalls) != 1 {
		t.Errorf("expected completion write despite disconnect, got %v", inner.completionCalls)
	}
	if got := inner.plans[0].IsCompleted; got == nil || !*got {
		t.Errorf("plan is_completed = %v, want true", got)
	}
}
