package bucketlist

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/gorm"
)

func loadUser(db *gorm.DB, c *gin.Context) (*models.User, bool) {
	userID := c.Param("userId")

	var user models.User
	if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}
	return &user, true
}

func saveList(db *gorm.DB, c *gin.Context, user *models.User, items []models.BucketListItem, message string) {
	payload, err := Encode(items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := db.Model(user).Update("bucket_list", payload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp := gin.H{"success": true, "bucketList": items}
	if message != "" {
		resp["message"] = message
	}
	c.JSON(http.StatusOK, resp)
}

// GetHandler returns the user's bucket list sorted by priority.
func GetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(db, c)
		if !ok {
			return
		}

		items, err := Decode(user.BucketList)
		if err != nil {
			// Malformed stored data is recoverable: present an empty list.
			items = []models.BucketListItem{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "bucketList": items})
	}
}

type addItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// AddItemHandler appends one item, assigning the next priority number.
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title is required"})
			return
		}

		user, ok := loadUser(db, c)
		if !ok {
			return
		}

		items, err := Decode(user.BucketList)
		if err != nil {
			items = []models.BucketListItem{}
		}

		items = Append(items, models.BucketListItem{
			Title:       strings.TrimSpace(req.Title),
			Description: strings.TrimSpace(req.Description),
		})

		saveList(db, c, user, items, "Bucket list item added successfully")
	}
}

type updateListRequest struct {
	BucketList []models.BucketListItem `json:"bucketList" binding:"required"`
}

// UpdateHandler replaces the entire bucket list.
func UpdateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		for _, item := range req.BucketList {
			if strings.TrimSpace(item.Title) == "" {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "All bucket list items must have a valid title",
				})
				return
			}
		}

		user, ok := loadUser(db, c)
		if !ok {
			return
		}

		saveList(db, c, user, req.BucketList, "Bucket list updated successfully")
	}
}

type reorderRequest struct {
	ReorderedItems []models.BucketListItem `json:"reorderedItems" binding:"required"`
}

// ReorderHandler persists a drag-and-drop ordering by renumbering
// priorities 1..N in the given order.
func ReorderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		user, ok := loadUser(db, c)
		if !ok {
			return
		}

		saveList(db, c, user, Renumber(req.ReorderedItems), "Bucket list reordered successfully")
	}
}
