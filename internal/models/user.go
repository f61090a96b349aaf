package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents an application user. UserID is the external identifier
// handed to clients; the numeric gorm.Model ID stays internal. Streak is
// the consecutive-completion counter maintained by the completion scheduler
// and never goes below zero. BucketList is a JSONB array of BucketListItem.
type User struct {
	gorm.Model
	UserID      string         `gorm:"uniqueIndex:idx_users_user_id_not_deleted,where:deleted_at IS NULL;not null" json:"user_id"`
	Email       string         `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null" json:"email"`
	Name        string         `gorm:"not null;default:''" json:"name"`
	Streak      int            `gorm:"not null;default:0" json:"streak"`
	BucketList  datatypes.JSON `gorm:"type:jsonb" json:"bucket_list,omitempty"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
}

// BucketListItem is one entry of the user's bucket_list JSONB array.
// priority_number drives ordering (1 = highest).
type BucketListItem struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	PriorityNumber int    `json:"priority_number"`
}
