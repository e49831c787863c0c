package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/analytics"
	queuedomain "github.com/BruksfildServices01/barberconnect/internal/domain/queue"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type AnalyticsGormRepository struct {
	shopLookup
	db *gorm.DB
}

func NewAnalyticsGormRepository(db *gorm.DB) *AnalyticsGormRepository {
	return &AnalyticsGormRepository{shopLookup: shopLookup{db: db}, db: db}
}

func (r *AnalyticsGormRepository) ListBilledEntries(
	ctx context.Context,
	shopID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.QueueEntry, error) {

	billed := r.db.
		Model(&models.BillableEvent{}).
		Select("queue_entry_id").
		Where("shop_id = ? AND created_at >= ? AND created_at < ?", shopID, start, end)

	var out []models.QueueEntry
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Services").
		Where("shop_id = ? AND id IN (?)", shopID, billed).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AnalyticsGormRepository) CountNoShows(
	ctx context.Context,
	shopID uuid.UUID,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Where(
			"shop_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			shopID, string(queuedomain.StatusNoShow), start, end,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Compile-time check
var _ domain.Repository = (*AnalyticsGormRepository)(nil)
