package plans

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// parseDate accepts the two date shapes clients send: full RFC 3339
// timestamps and bare YYYY-MM-DD dates (interpreted as UTC midnight).
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", value)
}

// parsePlanID validates the :planId path parameter. IDs go into GORM
// inline conditions, so anything non-numeric must be rejected here.
func parsePlanID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("planId"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "planId must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

type saveDayPlanRequest struct {
	UserID       string            `json:"userId" binding:"required"`
	DayName      string            `json:"dayName" binding:"required"`
	SelectedDate string            `json:"selectedDate" binding:"required"`
	TimeSlots    []models.TimeSlot `json:"timeSlots" binding:"required"`
}

// SaveDayPlanHandler stores a time-slot schedule for one date.
func SaveDayPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req saveDayPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		selectedDate, err := parseDate(req.SelectedDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		slots, err := json.Marshal(req.TimeSlots)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		plan := models.DayPlan{
			UserID:       req.UserID,
			DayName:      req.DayName,
			SelectedDate: selectedDate,
			TimeSlots:    datatypes.JSON(slots),
		}
		if err := db.Create(&plan).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Day plan saved successfully", "data": plan})
	}
}

// GetUserDayPlansHandler lists a user's day plans, newest first.
func GetUserDayPlansHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		var dayPlans []models.DayPlan
		if err := db.Where("user_id = ?", userID).Order("selected_date DESC").Find(&dayPlans).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": dayPlans})
	}
}

// GetDayPlanHandler returns one day plan by ID.
func GetDayPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		planID, ok := parsePlanID(c)
		if !ok {
			return
		}

		var plan models.DayPlan
		if err := db.First(&plan, planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Day plan not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": plan})
	}
}

type updateDayPlanRequest struct {
	DayName      string            `json:"dayName"`
	SelectedDate string            `json:"selectedDate"`
	TimeSlots    []models.TimeSlot `json:"timeSlots"`
}

// UpdateDayPlanHandler applies a partial update to a day plan.
func UpdateDayPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		planID, ok := parsePlanID(c)
		if !ok {
			return
		}

		var req updateDayPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		var plan models.DayPlan
		if err := db.First(&plan, planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Day plan not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		updates := map[string]interface{}{}
		if req.DayName != "" {
			updates["day_name"] = req.DayName
		}
		if req.SelectedDate != "" {
			selectedDate, err := parseDate(req.SelectedDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			updates["selected_date"] = selectedDate
		}
		if req.TimeSlots != nil {
			slots, err := json.Marshal(req.TimeSlots)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			updates["time_slots"] = datatypes.JSON(slots)
		}

		if len(updates) > 0 {
			if err := db.Model(&plan).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Day plan updated successfully", "data": plan})
	}
}

// DeleteDayPlanHandler soft-deletes a day plan.
func DeleteDayPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		planID, ok := parsePlanID(c)
		if !ok {
			return
		}

		result := db.Delete(&models.DayPlan{}, planID)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Day plan not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Day plan deleted successfully"})
	}
}

type addPlanRequest struct {
	UserID    string            `json:"userId" binding:"required"`
	PlanName  string            `json:"planName" binding:"required"`
	PlanDate  string            `json:"planDate" binding:"required"`
	Reminders []models.Reminder `json:"reminders" binding:"required"`
}

// AddPlanHandler creates a daily reminder plan. is_completed starts unset;
// only the completion scheduler (or an explicit update) evaluates it.
func AddPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		planDate, err := parseDate(req.PlanDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		reminders, err := json.Marshal(req.Reminders)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		plan := models.DailyPlan{
			UserID:    req.UserID,
			PlanName:  req.PlanName,
			PlanDate:  planDate,
			Reminders: datatypes.JSON(reminders),
		}
		if err := db.Create(&plan).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Daily plan saved successfully", "data": plan})
	}
}

// GetAllPlansForDateHandler lists a user's daily plans whose plan_date
// falls on the given calendar day (UTC).
func GetAllPlansForDateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		date := c.Query("date")

		day, err := parseDate(date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.AddDate(0, 0, 1)

		var plans []models.DailyPlan
		err = db.Where("user_id = ?", userID).
			Where("plan_date >= ? AND plan_date < ?", dayStart, dayEnd).
			Find(&plans).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "plans": plans})
	}
}

type updatePlanRequest struct {
	PlanID    uint              `json:"planId" binding:"required"`
	Reminders []models.Reminder `json:"reminders" binding:"required"`
}

// UpdatePlanHandler replaces a plan's reminder list wholesale. The
// completion flag is not recomputed here; that stays the scheduler's job.
func UpdatePlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updatePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		var plan models.DailyPlan
		if err := db.First(&plan, req.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Plan not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		reminders, err := json.Marshal(req.Reminders)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		if err := db.Model(&plan).Update("reminders", datatypes.JSON(reminders)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		plan.Reminders = datatypes.JSON(reminders)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Plan updated successfully", "data": plan})
	}
}

// GetUserDailyPlansHandler lists all of a user's daily plans, newest first.
func GetUserDailyPlansHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		var plans []models.DailyPlan
		if err := db.Where("user_id = ?", userID).Order("plan_date DESC").Find(&plans).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": plans})
	}
}
