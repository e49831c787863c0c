package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/queue"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type QueueGormRepository struct {
	shopLookup
	db *gorm.DB
}

func NewQueueGormRepository(db *gorm.DB) *QueueGormRepository {
	return &QueueGormRepository{shopLookup: shopLookup{db: db}, db: db}
}

// --------------------------------------------------
// Staff / services
// --------------------------------------------------

func (r *QueueGormRepository) GetBarber(
	ctx context.Context,
	shopID uuid.UUID,
	barberID uuid.UUID,
) (*models.Barber, error) {

	var b models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", barberID, shopID).
		First(&b).Error; err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (r *QueueGormRepository) ListServicesByIDs(
	ctx context.Context,
	shopID uuid.UUID,
	ids []uuid.UUID,
) ([]models.Service, error) {

	var out []models.Service
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND active = ? AND id IN ?", shopID, true, ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *QueueGormRepository) ListActiveBarbers(
	ctx context.Context,
	shopID uuid.UUID,
) ([]models.Barber, error) {

	var out []models.Barber
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND active = ?", shopID, true).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *QueueGormRepository) ListActiveServices(
	ctx context.Context,
	shopID uuid.UUID,
) ([]models.Service, error) {

	var out []models.Service
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND active = ?", shopID, true).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Entries
// --------------------------------------------------

func (r *QueueGormRepository) CreateEntry(
	ctx context.Context,
	e *models.QueueEntry,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *QueueGormRepository) GetEntry(
	ctx context.Context,
	id uuid.UUID,
) (*models.QueueEntry, error) {

	var e models.QueueEntry
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Services").
		First(&e, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (r *QueueGormRepository) ListActive(
	ctx context.Context,
	shopID uuid.UUID,
) ([]models.QueueEntry, error) {

	var out []models.QueueEntry
	err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Services").
		Where("shop_id = ? AND status IN ?", shopID, []string{
			string(domain.StatusWaiting),
			string(domain.StatusInProgress),
		}).
		Order("created_at ASC").
		Find(&out).Error

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *QueueGormRepository) CountWaitingBefore(
	ctx context.Context,
	shopID uuid.UUID,
	createdAt time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Where(
			"shop_id = ? AND status = ? AND created_at < ?",
			shopID,
			string(domain.StatusWaiting),
			createdAt,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *QueueGormRepository) SaveTransition(
	ctx context.Context,
	e *models.QueueEntry,
	from string,
	ev *models.BillableEvent,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(e).
			Where("status = ?", from).
			Select("status", "started_at", "completed_at").
			Updates(e)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusinessMsg("status_changed", "The entry was updated by someone else. Reload and try again.")
		}
		if ev == nil {
			return nil
		}
		return tx.Create(ev).Error
	})
}

// Compile-time check
var _ domain.Repository = (*QueueGormRepository)(nil)
