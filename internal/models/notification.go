package models

import "time"

// Notification represents a user notification (PostgreSQL).
// User and post ids are the hex form of their MongoDB ObjectIDs.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EventID     string    `json:"event_id" gorm:"size:36;uniqueIndex"`
	Type        string    `json:"type" gorm:"size:30;index"` // subscribe, like, comment
	ActorID     string    `json:"actor_id" gorm:"size:24;index"`
	RecipientID string    `json:"recipient_id" gorm:"size:24;index"`
	TargetID    string    `json:"target_id" gorm:"size:24"`
	TargetType  string    `json:"target_type" gorm:"size:20"` // post, user
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
