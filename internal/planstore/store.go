package planstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/gorm"
)

// ErrPlanNotFound is returned when a completion write targets a plan ID
// that does not exist.
var ErrPlanNotFound = errors.New("plan not found")

// Store is the persistence layer for daily plans and user streaks. The
// completion scheduler only ever talks to this type (through its own
// interface), so all JSONB handling stays behind this boundary.
type Store struct {
	db *gorm.DB
}

// New creates a Store backed by the given GORM database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// PlansInWindow returns every daily plan whose plan_date falls inside the
// closed [start, end] window and whose reminders column is non-NULL. The
// NULL filter is scoping only; plans whose reminders decode to an empty
// list are still returned and it is the caller's job to skip them.
func (s *Store) PlansInWindow(ctx context.Context, start, end time.Time) ([]models.DailyPlan, error) {
	var plans []models.DailyPlan
	err := s.db.WithContext(ctx).
		Where("plan_date >= ? AND plan_date <= ?", start, end).
		Where("reminders IS NOT NULL").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plans in window: %w", err)
	}
	return plans, nil
}

// SetPlanCompletion persists the is_completed flag for one plan and
// returns the updated record.
func (s *Store) SetPlanCompletion(ctx context.Context, planID uint, completed bool) (models.DailyPlan, error) {
	var plan models.DailyPlan
	if err := s.db.WithContext(ctx).First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DailyPlan{}, ErrPlanNotFound
		}
		return models.DailyPlan{}, fmt.Errorf("failed to fetch plan %d: %w", planID, err)
	}

	if err := s.db.WithContext(ctx).Model(&plan).Update("is_completed", completed).Error; err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to update plan %d completion: %w", planID, err)
	}

	plan.IsCompleted = &completed
	return plan, nil
}

// AdjustStreak applies a relative delta to the user's streak with a floor
// of zero and returns the new value. A user with no streak recorded is
// treated as zero. The read and write are two separate statements; callers
// running plans sequentially (as the scheduler does) never race here.
func (s *Store) AdjustStreak(ctx context.Context, userID string, delta int) (int, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch user %s streak: %w", userID, err)
	}

	newStreak := user.Streak + delta
	if newStreak < 0 {
		newStreak = 0
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("streak", newStreak).Error; err != nil {
		return 0, fmt.Errorf("failed to update user %s streak: %w", userID, err)
	}

	return newStreak, nil
}

// ResetStreak sets the user's streak back to zero.
func (s *Store) ResetStreak(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("streak", 0).Error
	if err != nil {
		return fmt.Errorf("failed to reset user %s streak: %w", userID, err)
	}
	return nil
}
