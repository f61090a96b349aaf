package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TemplateReminder is one entry of a template's reminders JSONB array.
// Templates carry no completion state; that is stamped on at plan creation.
type TemplateReminder struct {
	Title string `json:"title"`
	Time  string `json:"time"` // HH:MM
}

// ReminderTemplate is a reusable named reminder checklist owned by a user.
type ReminderTemplate struct {
	gorm.Model
	UserID    string         `gorm:"not null;index" json:"user_id"`
	Name      string         `gorm:"not null" json:"name"`
	Reminders datatypes.JSON `gorm:"type:jsonb;not null" json:"reminders"`
}

func (ReminderTemplate) TableName() string { return "reminder_templates" }
