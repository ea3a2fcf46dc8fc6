package model

import "time"

// Reminder channels, combinable as a bitmask.
const (
	ReminderInApp = 1 << iota
	ReminderEmail
	ReminderPush
)

// Reminder is a one-shot notification scheduled for a note. At most one
// reminder exists per note; setting it again replaces time and channels.
type Reminder struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID string `gorm:"not null;index;type:uuid"`
	NoteID string `gorm:"not null;uniqueIndex;type:uuid"`

	Title       string `gorm:"not null"`
	Description string

	// UTC.
	RemindAt time.Time `gorm:"not null;index"`

	// Bitmask of Reminder* channel flags.
	Channels int `gorm:"not null"`

	IsCompleted bool `gorm:"not null;default:false"`
	IsCancelled bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
