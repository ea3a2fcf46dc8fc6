package model

import "time"

// User is the account record. Guests are ephemeral accounts created without
// credentials; they can be converted to full accounts later.
type User struct {
	ID string `gorm:"primaryKey;type:uuid"`

	FirstName string
	LastName  string
	UserName  string `gorm:"uniqueIndex:idx_users_username,where:user_name <> ''"`
	Email     string `gorm:"uniqueIndex:idx_users_email,where:email <> ''"`

	// Login credential hash (bcrypt). Empty for guests.
	PasswordHash string
	IsGuest      bool `gorm:"not null;default:false"`

	ProfileImagePath string

	// Shared secret gating all password-protected notes of this user.
	// Set once on the first lock, nil until then.
	CommonPasswordHash *string

	// Unlock window for protected notes. Both nil or both set,
	// AccessibleFrom <= AccessibleTill. Expired lazily, never by a timer.
	AccessibleFrom *time.Time
	AccessibleTill *time.Time

	IsDeleted bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DeviceTokens []DeviceToken `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
