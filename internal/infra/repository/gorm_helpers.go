package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

// mapErr turns gorm's missing-row error into the domain sentinel.
func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound
	}
	return err
}

// shopLookup is shared by the repositories that resolve a tenant first.
type shopLookup struct {
	db *gorm.DB
}

func (r shopLookup) GetShop(
	ctx context.Context,
	id uuid.UUID,
) (*models.Shop, error) {

	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &shop, nil
}

func (r shopLookup) GetShopBySlug(
	ctx context.Context,
	slug string,
) (*models.Shop, error) {

	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&shop).Error; err != nil {
		return nil, mapErr(err)
	}
	return &shop, nil
}
