package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProviderStripe = "stripe"
	ProviderPin    = "pin"
)

// Invoice mirrors the lifecycle of a provider invoice (Stripe) or charge (Pin).
// Amounts are in the smallest currency unit.
type Invoice struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShopID   uuid.UUID `gorm:"type:uuid;index;not null" json:"shop_id"`
	Provider string    `gorm:"size:16;not null" json:"provider"`

	StripeInvoiceID *string `gorm:"size:64;uniqueIndex" json:"stripe_invoice_id"`
	ChargeToken     *string `gorm:"size:64;uniqueIndex" json:"charge_token"`

	Status       string `gorm:"size:32;index" json:"status"`
	AmountDue    int64  `json:"amount_due"`
	AmountPaid   int64  `json:"amount_paid"`
	Currency     string `gorm:"size:3" json:"currency"`
	ErrorMessage string `gorm:"type:text" json:"error_message"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
