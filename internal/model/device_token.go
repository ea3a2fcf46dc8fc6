package model

import "time"

// DeviceToken is an FCM registration for push delivery.
// Platform is one of "web", "android", "ios".
type DeviceToken struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID string `gorm:"not null;index;type:uuid"`

	Token    string `gorm:"not null;uniqueIndex"`
	Platform string `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
