package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existingUser models.User
	result := db.Where("email = ?", "dev@planme.local").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	user := models.User{
		UserID: uuid.New().String(),
		Email:  "dev@planme.local",
		Name:   "Dev User",
		Streak: 3,
		BucketList: datatypes.JSON([]byte(`[
			{"title": "Visit Japan", "description": "Two weeks in spring", "priority_number": 1},
			{"title": "Run a marathon", "description": "", "priority_number": 2}
		]`)),
	}

	if err := db.Create(&user).Error; err != nil {
		return err
	}

	// Yesterday's plan so the completion check has something to evaluate
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	plan := models.DailyPlan{
		UserID:   user.UserID,
		PlanName: "Morning routine",
		PlanDate: yesterday,
		Reminders: datatypes.JSON([]byte(`[
			{"title": "Drink water", "time": "07:00", "completed": true},
			{"title": "Stretch", "time": "07:15", "completed": true}
		]`)),
	}

	if err := db.Create(&plan).Error; err != nil {
		return err
	}

	template := models.ReminderTemplate{
		UserID: user.UserID,
		Name:   "Workday",
		Reminders: datatypes.JSON([]byte(`[
			{"title": "Standup", "time": "10:00"},
			{"title": "Review PRs", "time": "16:00"}
		]`)),
	}

	if err := db.Create(&template).Error; err != nil {
		return err
	}

	log.Printf("Seed data created: user %s with one daily plan and one template", user.UserID)
	return nil
}
