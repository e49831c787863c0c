package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type BillingGormRepository struct {
	shopLookup
	db *gorm.DB
}

func NewBillingGormRepository(db *gorm.DB) *BillingGormRepository {
	return &BillingGormRepository{shopLookup: shopLookup{db: db}, db: db}
}

// --------------------------------------------------
// Shop
// --------------------------------------------------

func (r *BillingGormRepository) FindShopByStripeCustomer(
	ctx context.Context,
	customerID string,
) (*models.Shop, error) {

	var shop models.Shop
	if err := r.db.WithContext(ctx).
		Where("stripe_customer_id = ?", customerID).
		First(&shop).Error; err != nil {
		return nil, mapErr(err)
	}
	return &shop, nil
}

func (r *BillingGormRepository) UpdateShopBilling(
	ctx context.Context,
	shopID uuid.UUID,
	status string,
	balance int64,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Updates(map[string]any{
			"subscription_status": status,
			"account_balance":     balance,
		}).Error
}

func (r *BillingGormRepository) UpdateShopSubscriptionStatus(
	ctx context.Context,
	shopID uuid.UUID,
	status string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Update("subscription_status", status).Error
}

func (r *BillingGormRepository) SetStripeCustomerID(
	ctx context.Context,
	shopID uuid.UUID,
	customerID string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Update("stripe_customer_id", customerID).Error
}

func (r *BillingGormRepository) SetPinCustomerToken(
	ctx context.Context,
	shopID uuid.UUID,
	token string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Update("pin_customer_token", token).Error
}

// --------------------------------------------------
// Invoice
// --------------------------------------------------

func (r *BillingGormRepository) FindInvoiceByStripeID(
	ctx context.Context,
	stripeInvoiceID string,
) (*models.Invoice, error) {

	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Where("stripe_invoice_id = ?", stripeInvoiceID).
		First(&inv).Error; err != nil {
		return nil, mapErr(err)
	}
	return &inv, nil
}

func (r *BillingGormRepository) FindInvoiceByChargeToken(
	ctx context.Context,
	token string,
) (*models.Invoice, error) {

	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Where("charge_token = ?", token).
		First(&inv).Error; err != nil {
		return nil, mapErr(err)
	}
	return &inv, nil
}

func (r *BillingGormRepository) LatestFailedInvoice(
	ctx context.Context,
	shopID uuid.UUID,
	provider string,
) (*models.Invoice, error) {

	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND provider = ? AND status = ?", shopID, provider, domain.InvoiceFailed).
		Order("created_at DESC").
		First(&inv).Error; err != nil {
		return nil, mapErr(err)
	}
	return &inv, nil
}

func (r *BillingGormRepository) ListInvoices(
	ctx context.Context,
	shopID uuid.UUID,
) ([]models.Invoice, error) {

	var out []models.Invoice
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BillingGormRepository) CreateInvoice(
	ctx context.Context,
	inv *models.Invoice,
) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *BillingGormRepository) SaveInvoice(
	ctx context.Context,
	inv *models.Invoice,
) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// --------------------------------------------------
// Usage
// --------------------------------------------------

func (r *BillingGormRepository) ListUnbilledEvents(
	ctx context.Context,
	shopID uuid.UUID,
) ([]models.BillableEvent, error) {

	var out []models.BillableEvent
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND invoice_id IS NULL", shopID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BillingGormRepository) MarkEventsBilled(
	ctx context.Context,
	eventIDs []uuid.UUID,
	invoiceID uuid.UUID,
) error {
	if len(eventIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.BillableEvent{}).
		Where("id IN ?", eventIDs).
		Update("invoice_id", invoiceID).Error
}

// Compile-time check
var _ domain.Repository = (*BillingGormRepository)(nil)
