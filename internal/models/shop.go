package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription states mirrored from the payment provider.
const (
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

type Shop struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"size:100;not null" json:"name"`
	Slug    string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string    `gorm:"size:20" json:"phone"`
	Address string    `gorm:"size:255" json:"address"`
	LogoURL string    `gorm:"size:255" json:"logo_url"`

	Timezone    string `gorm:"size:64" json:"timezone"`
	OpeningTime string `gorm:"size:5" json:"opening_time"`
	ClosingTime string `gorm:"size:5" json:"closing_time"`

	BillingEmail       string  `gorm:"size:100" json:"billing_email"`
	StripeCustomerID   *string `gorm:"size:64;uniqueIndex" json:"stripe_customer_id"`
	PinCustomerToken   string  `gorm:"size:64" json:"-"`
	SubscriptionStatus string  `gorm:"size:32;default:'trialing'" json:"subscription_status"`
	AccountBalance     int64   `gorm:"default:0" json:"account_balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Shop) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
