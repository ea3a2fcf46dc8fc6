package repo

import (
	"notesapp/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens a Postgres connection and migrates the schema.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates/updates tables for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Note{},
		&model.Reminder{},
		&model.Notification{},
		&model.DeviceToken{},
	)
}
