package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/notification"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) GetEntry(
	ctx context.Context,
	id uuid.UUID,
) (*models.QueueEntry, error) {

	var e models.QueueEntry
	if err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Barber").
		First(&e, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

// MarkNotified only stamps an entry that has not been stamped yet.
func (r *NotificationGormRepository) MarkNotified(
	ctx context.Context,
	entryID uuid.UUID,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Where("id = ? AND notification_sent_at IS NULL", entryID).
		Update("notification_sent_at", at).Error
}

// Compile-time check
var _ domain.Repository = (*NotificationGormRepository)(nil)
