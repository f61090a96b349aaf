package misc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func findToday(db *gorm.DB, userID string, now time.Time) (*models.MiscEntry, error) {
	start, end := todayWindow(now)

	var entry models.MiscEntry
	err := db.Where("user_id = ?", userID).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetTodayHandler returns today's misc entry, or null data when none exists.
func GetTodayHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		entry, err := findToday(db, userID, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
	}
}

type addProteinRequest struct {
	Protein *float64 `json:"protein" binding:"required"`
}

// AddProteinHandler adds grams to today's protein total, creating the
// day's entry when missing.
func AddProteinHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		var req addProteinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "protein must be a number"})
			return
		}

		entry, err := findToday(db, userID, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		if entry != nil {
			updated := models.DailyFoodMisc{Protein: proteinOf(*entry) + *req.Protein}
			payload, err := json.Marshal(updated)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}

			if err := db.Model(entry).Update("daily_food_misc", datatypes.JSON(payload)).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}
			entry.DailyFoodMisc = datatypes.JSON(payload)

			c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
			return
		}

		payload, err := json.Marshal(models.DailyFoodMisc{Protein: *req.Protein})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		created := models.MiscEntry{
			UserID:        userID,
			DailyFoodMisc: datatypes.JSON(payload),
		}
		if err := db.Create(&created).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": created})
	}
}

// ProteinHistoryHandler returns a dense, newest-first protein series for
// the requested IST day window.
func ProteinHistoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		days, err := strconv.Atoi(c.DefaultQuery("days", "10"))
		if err != nil || days < 1 {
			days = 10
		}
		offsetDays, err := strconv.Atoi(c.DefaultQuery("offsetDays", "0"))
		if err != nil || offsetDays < 0 {
			offsetDays = 0
		}

		now := time.Now()
		start, end := historyWindow(now, days, offsetDays)

		var entries []models.MiscEntry
		fetchErr := db.Where("user_id = ?", userID).
			Where("created_at >= ? AND created_at <= ?", start, end).
			Order("created_at DESC").
			Find(&entries).Error
		if fetchErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fetchErr.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": BuildHistory(now, entries, days, offsetDays)})
	}
}
