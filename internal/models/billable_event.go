package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillableEvent marks a completed queue entry as chargeable. There is at most
// one per entry. InvoiceID is set once the event has been included in a usage
// charge.
type BillableEvent struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	QueueEntryID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"queue_entry_id"`
	ShopID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"shop_id"`
	InvoiceID    *uuid.UUID `gorm:"type:uuid;index" json:"invoice_id"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

func (b *BillableEvent) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
