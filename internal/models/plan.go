package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reminder is one titled, timed checklist entry embedded in a DailyPlan's
// reminders JSONB array.
type Reminder struct {
	Title     string `json:"title"`
	Time      string `json:"time"` // HH:MM
	Completed bool   `json:"completed"`
}

// DailyPlan is one reminder checklist for one user on one calendar date.
// Reminders may be NULL for plans created without a checklist. IsCompleted
// is nil until the completion scheduler (or an explicit update) evaluates
// the plan.
type DailyPlan struct {
	gorm.Model
	UserID      string         `gorm:"not null;index" json:"user_id"`
	PlanName    string         `gorm:"not null" json:"plan_name"`
	PlanDate    time.Time      `gorm:"not null;index" json:"plan_date"`
	Reminders   datatypes.JSON `gorm:"type:jsonb" json:"reminders,omitempty"`
	IsCompleted *bool          `json:"is_completed,omitempty"`
}

func (DailyPlan) TableName() string { return "user_daily_plans" }

// DecodeReminders deserializes the reminders JSONB column into a typed
// slice. A NULL column yields a nil slice and no error. Some legacy rows
// hold a JSON string containing the array rather than the array itself;
// those are unwrapped before decoding.
func (p *DailyPlan) DecodeReminders() ([]Reminder, error) {
	if len(p.Reminders) == 0 {
		return nil, nil
	}

	raw := []byte(p.Reminders)

	// Unwrap double-encoded payloads ("[{...}]" stored as a JSON string).
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		raw = []byte(asString)
	}

	var reminders []Reminder
	if err := json.Unmarshal(raw, &reminders); err != nil {
		return nil, fmt.Errorf("malformed reminders payload: %w", err)
	}

	return reminders, nil
}

// DayPlan is a time-slot schedule for one user on one date. TimeSlots is a
// JSONB array of TimeSlot.
type DayPlan struct {
	gorm.Model
	UserID       string         `gorm:"not null;index" json:"user_id"`
	DayName      string         `gorm:"not null" json:"day_name"`
	SelectedDate time.Time      `gorm:"not null;index" json:"selected_date"`
	TimeSlots    datatypes.JSON `gorm:"type:jsonb" json:"time_slots,omitempty"`
}

func (DayPlan) TableName() string { return "day_plans" }

// TimeSlot is one entry of a DayPlan's time_slots JSONB array.
type TimeSlot struct {
	ID       string   `json:"id"`
	Time     string   `json:"time"`
	Title    string   `json:"title"`
	Subgoals []string `json:"subgoals"`
	Priority string   `json:"priority,omitempty"`
	Category string   `json:"category,omitempty"`
}
