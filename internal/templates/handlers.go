package templates

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type templateRequest struct {
	UserID    string                    `json:"userId"`
	Name      string                    `json:"name" binding:"required"`
	Reminders []models.TemplateReminder `json:"reminders" binding:"required,min=1"`
}

// parseTemplateID validates the :templateId path parameter. IDs go into
// GORM inline conditions, so anything non-numeric must be rejected here.
func parseTemplateID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("templateId"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "templateId must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

func (r *templateRequest) remindersJSON() (datatypes.JSON, error) {
	payload, err := json.Marshal(r.Reminders)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(payload), nil
}

// CreateTemplateHandler stores a new reusable reminder checklist.
func CreateTemplateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req templateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId is required"})
			return
		}

		reminders, err := req.remindersJSON()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		template := models.ReminderTemplate{
			UserID:    req.UserID,
			Name:      strings.TrimSpace(req.Name),
			Reminders: reminders,
		}
		if err := db.Create(&template).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": template})
	}
}

// ListTemplatesHandler returns all of a user's templates, newest first.
func ListTemplatesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		var templates []models.ReminderTemplate
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&templates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": templates})
	}
}

// GetTemplateHandler returns a single template scoped to its owner.
func GetTemplateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		templateID, ok := parseTemplateID(c)
		if !ok {
			return
		}

		var template models.ReminderTemplate
		err := db.Where("user_id = ?", userID).First(&template, templateID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Template not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": template})
	}
}

// UpdateTemplateHandler replaces a template's name and reminder list.
func UpdateTemplateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		templateID, ok := parseTemplateID(c)
		if !ok {
			return
		}

		var req templateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		var template models.ReminderTemplate
		err := db.Where("user_id = ?", userID).First(&template, templateID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Template not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		reminders, err := req.remindersJSON()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		updates := map[string]interface{}{
			"name":      strings.TrimSpace(req.Name),
			"reminders": reminders,
		}
		if err := db.Model(&template).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": template})
	}
}

// DeleteTemplateHandler soft-deletes a template scoped to its owner.
func DeleteTemplateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		templateID, ok := parseTemplateID(c)
		if !ok {
			return
		}

		result := db.Where("user_id = ?", userID).Delete(&models.ReminderTemplate{}, templateID)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Template not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Template deleted successfully"})
	}
}
