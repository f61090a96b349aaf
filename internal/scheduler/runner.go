package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/planme-app/planme-backend/internal/models"
)

// ErrRunInProgress is returned when a run is requested while another run is
// already executing in this process.
var ErrRunInProgress = errors.New("completion check already running")

// PlanStore is the persistence surface the completion check needs. The
// production implementation is planstore.Store.
type PlanStore interface {
	PlansInWindow(ctx context.Context, start, end time.Time) ([]models.DailyPlan, error)
	SetPlanCompletion(ctx context.Context, planID uint, completed bool) (models.DailyPlan, error)
	AdjustStreak(ctx context.Context, userID string, delta int) (int, error)
}

// Summary aggregates the per-plan outcomes of one completion run.
type Summary struct {
	CheckedDate string        `json:"checked_date"`
	Found       int           `json:"found"`
	Updated     int           `json:"updated"`
	Completed   int           `json:"completed"`
	Incomplete  int           `json:"incomplete"`
	Skipped     int           `json:"skipped"`
	Failed      int           `json:"failed"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

// Runner evaluates yesterday's daily plans: it recomputes each plan's
// completion flag from its reminder checklist and moves the owning user's
// streak when the flag changes. Runs are guarded against in-process
// overlap; multi-instance deployments must not schedule the check on more
// than one instance.
type Runner struct {
	store  PlanStore
	logger *slog.Logger
	loc    *time.Location

	// now is swappable for tests.
	now func() time.Time

	running atomic.Bool
}

// NewRunner creates a Runner that evaluates day windows in loc.
func NewRunner(store PlanStore, logger *slog.Logger, loc *time.Location) *Runner {
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{
		store:  store,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// yesterdayWindow returns the closed [00:00:00.000, 23:59:59.999] window of
// the calendar day preceding now, in now's location.
func yesterdayWindow(now time.Time) (time.Time, time.Time) {
	y := now.AddDate(0, 0, -1)
	start := time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, now.Location())
	end := time.Date(y.Year(), y.Month(), y.Day(), 23, 59, 59, 999000000, now.Location())
	return start, end
}

// Run executes one completion check. The window is computed fresh from the
// current instant, so a manual mid-afternoon run still evaluates the
// previous calendar day. Only a failure of the initial batch fetch aborts
// the run; every per-plan error is logged and isolated.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Summary{}, ErrRunInProgress
	}
	defer r.running.Store(false)

	startedAt := r.now()
	windowStart, windowEnd := yesterdayWindow(startedAt.In(r.loc))

	summary := Summary{
		CheckedDate: windowStart.Format("2006-01-02"),
		StartedAt:   startedAt,
	}

	r.logger.Info("Running daily completion check",
		"checked_date", summary.CheckedDate,
		"window_start", windowStart,
		"window_end", windowEnd,
	)

	plans, err := r.store.PlansInWindow(ctx, windowStart, windowEnd)
	if err != nil {
		r.logger.Error("Failed to fetch plans for yesterday", "error", err.Error())
		return summary, err
	}

	summary.Found = len(plans)
	if len(plans) == 0 {
		summary.Duration = r.now().Sub(startedAt)
		r.logger.Info("No plans found for yesterday", "checked_date", summary.CheckedDate)
		return summary, nil
	}

	for i := range plans {
		switch outcome := r.processPlan(ctx, &plans[i]); outcome.kind {
		case planSkipped:
			summary.Skipped++
		case planFailed:
			summary.Failed++
		case planEvaluated:
			if outcome.updated {
				summary.Updated++
			}
			if outcome.completed {
				summary.Completed++
			} else {
				summary.Incomplete++
			}
		}
	}

	summary.Duration = r.now().Sub(startedAt)

	r.logger.Info("Daily completion check finished",
		"checked_date", summary.CheckedDate,
		"found", summary.Found,
		"updated", summary.Updated,
		"completed", summary.Completed,
		"incomplete", summary.Incomplete,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	return summary, nil
}

type outcomeKind int

const (
	planSkipped outcomeKind = iota
	planEvaluated
	planFailed
)

type planOutcome struct {
	kind      outcomeKind
	completed bool
	updated   bool
}

// processPlan evaluates a single plan. Plans with no reminders, an empty
// checklist, or a malformed payload are skipped without any writes. A plan
// whose recomputed status matches the stored one is tallied but not
// written. The status write and the streak write are deliberately
// independent: a streak failure never rolls back the status change.
func (r *Runner) processPlan(ctx context.Context, plan *models.DailyPlan) planOutcome {
	if len(plan.Reminders) == 0 {
		return planOutcome{kind: planSkipped}
	}

	reminders, err := plan.DecodeReminders()
	if err != nil {
		r.logger.Warn("Plan has invalid reminders payload, skipping",
			"plan_id", plan.ID, "error", err.Error())
		return planOutcome{kind: planSkipped}
	}

	if len(reminders) == 0 {
		return planOutcome{kind: planSkipped}
	}

	completed := true
	for _, reminder := range reminders {
		if !reminder.Completed {
			completed = false
			break
		}
	}

	// Unchanged status means no writes at all, but the plan still counts
	// toward the completed/incomplete tally.
	if plan.IsCompleted != nil && *plan.IsCompleted == completed {
		return planOutcome{kind: planEvaluated, completed: completed}
	}

	if _, err := r.store.SetPlanCompletion(ctx, plan.ID, completed); err != nil {
		r.logger.Error("Failed to update plan completion status",
			"plan_id", plan.ID, "error", err.Error())
		return planOutcome{kind: planFailed}
	}

	delta := -1
	if completed {
		delta = 1
	}

	newStreak, err := r.store.AdjustStreak(ctx, plan.UserID, delta)
	if err != nil {
		// Swallowed: the status change stands and the run continues.
		r.logger.Error("Failed to adjust user streak",
			"plan_id", plan.ID, "user_id", plan.UserID, "delta", delta, "error", err.Error())
	} else {
		r.logger.Info("Plan status updated",
			"plan_id", plan.ID,
			"plan_name", plan.PlanName,
			"completed", completed,
			"streak", newStreak,
		)
	}

	return planOutcome{kind: planEvaluated, completed: completed, updated: true}
}
