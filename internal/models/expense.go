package models

import (
	"time"

	"gorm.io/gorm"
)

// ExpenseLog is one spend entry for a user on a calendar date.
type ExpenseLog struct {
	gorm.Model
	UserID        string    `gorm:"not null;index" json:"user_id"`
	Date          time.Time `gorm:"not null;index" json:"date"`
	Amount        float64   `gorm:"not null" json:"amount"`
	CategoryID    string    `gorm:"not null" json:"category_id"`
	CategoryTitle string    `gorm:"not null" json:"category_title"`
	Note          string    `json:"note,omitempty"`
	PaymentType   string    `json:"payment_type,omitempty"`
}

func (ExpenseLog) TableName() string { return "expense_logs" }
