package model

import "time"

// Notification is an in-app notification row shown in the user's feed.
type Notification struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID string `gorm:"not null;index;type:uuid"`

	NoteID    string `gorm:"type:uuid"`
	NoteTitle string

	Title   string `gorm:"not null"`
	Message string
	Type    string

	IsRead bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
