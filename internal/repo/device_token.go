package repo

import (
	"context"

	"notesapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenRepository stores FCM registrations.
type DeviceTokenRepository interface {
	// Upsert registers a token, reassigning it to userID if it already
	// exists (a device may change hands between accounts).
	Upsert(ctx context.Context, userID, token, platform string) error

	ListByUser(ctx context.Context, userID string) ([]model.DeviceToken, error)

	// DeleteByToken drops a registration, e.g. after FCM reports it stale.
	DeleteByToken(ctx context.Context, token string) error
}

type deviceTokenRepo struct {
	db *gorm.DB
}

// NewDeviceTokenRepository creates the gorm-backed device token repository.
func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepo{db: db}
}

func (r *deviceTokenRepo) Upsert(ctx context.Context, userID, token, platform string) error {
	dt := &model.DeviceToken{
		ID:       uuid.NewString(),
		UserID:   userID,
		Token:    token,
		Platform: platform,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform"}),
	}).Create(dt).Error
}

func (r *deviceTokenRepo) ListByUser(ctx context.Context, userID string) ([]model.DeviceToken, error) {
	var out []model.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *deviceTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.DeviceToken{}).Error
}
