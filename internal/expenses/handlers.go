package expenses

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/gorm"
)

func parseDay(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

type addExpenseRequest struct {
	Date          string   `json:"date" binding:"required"`
	Amount        *float64 `json:"amount" binding:"required"`
	CategoryID    string   `json:"category_id" binding:"required"`
	CategoryTitle string   `json:"category_title" binding:"required"`
	Note          string   `json:"note"`
	PaymentType   string   `json:"payment_type"`
}

// AddHandler records one expense for a user.
func AddHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		var req addExpenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		date, err := parseDay(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		log := models.ExpenseLog{
			UserID:        userID,
			Date:          date,
			Amount:        *req.Amount,
			CategoryID:    req.CategoryID,
			CategoryTitle: req.CategoryTitle,
			Note:          req.Note,
			PaymentType:   req.PaymentType,
		}
		if err := db.Create(&log).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": log})
	}
}

func windowFromQuery(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := parseDay(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return time.Time{}, time.Time{}, false
	}
	to, err := parseDay(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// ListHandler returns a user's expenses inside [from, to], ascending.
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		from, to, ok := windowFromQuery(c)
		if !ok {
			return
		}

		var logs []models.ExpenseLog
		err := db.Where("user_id = ?", userID).
			Where("date >= ? AND date <= ?", from, to).
			Order("date ASC").
			Find(&logs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": logs})
	}
}

// SummaryHandler aggregates a user's expenses inside [from, to].
func SummaryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		from, to, ok := windowFromQuery(c)
		if !ok {
			return
		}

		var logs []models.ExpenseLog
		err := db.Where("user_id = ?", userID).
			Where("date >= ? AND date <= ?", from, to).
			Find(&logs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": Summarize(logs)})
	}
}

// CategoriesHandler returns the built-in expense category catalog.
func CategoriesHandler(categories []Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
	}
}
