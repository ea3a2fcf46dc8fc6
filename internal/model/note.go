package model

import "time"

// Note belongs to exactly one user; there is no sharing. Soft-deleted notes
// are filtered out at the repository query boundary.
type Note struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID string `gorm:"not null;index;type:uuid"`

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Title           string `gorm:"not null"`
	Content         string
	BackgroundColor string

	// AI summary, safe to show in list views.
	Summary          string
	SummaryUpdatedAt *time.Time

	// S3 object keys.
	FilePath  string
	ImagePath string

	ReminderAt *time.Time

	// Protection is per note, but all protected notes of a user are gated
	// by the user's single CommonPasswordHash and unlock window.
	IsPasswordProtected bool `gorm:"not null;default:false"`

	IsDeleted bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
