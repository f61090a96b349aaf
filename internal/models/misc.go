package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyFoodMisc is the JSONB payload of a MiscEntry. Only protein is
// tracked today; the object form leaves room for more metrics.
type DailyFoodMisc struct {
	Protein float64 `json:"protein,omitempty"`
}

// MiscEntry holds one day's miscellaneous metrics for a user. At most one
// row per user per day; the day boundary is evaluated in IST.
type MiscEntry struct {
	gorm.Model
	UserID        string         `gorm:"not null;index" json:"user_id"`
	DailyFoodMisc datatypes.JSON `gorm:"column:daily_food_misc;type:jsonb" json:"Daily_Food_Misc"`
}

func (MiscEntry) TableName() string { return "misc_entries" }
