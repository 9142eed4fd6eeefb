package models

import (
	"time"
)

const NotificationsCollection = "notifications"

type Notification struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	IsRead    bool      `bson:"is_read" json:"is_read"`
	Icon      string    `bson:"icon,omitempty" json:"icon,omitempty"`
	Link      string    `bson:"link,omitempty" json:"link,omitempty"`
	// seq keeps insertion order independent of clock resolution.
	Seq int64 `bson:"seq" json:"-"`
}
