package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/models"
)

// Repository lookups return httperr.ErrNotFound when no row matches.
type Repository interface {
	// -------- Shop --------
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	GetShopBySlug(ctx context.Context, slug string) (*models.Shop, error)

	// -------- Staff / services --------
	GetBarber(ctx context.Context, shopID, barberID uuid.UUID) (*models.Barber, error)
	ListServicesByIDs(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]models.Service, error)

	// -------- Entries --------
	CreateEntry(ctx context.Context, e *models.QueueEntry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*models.QueueEntry, error)
	ListActive(ctx context.Context, shopID uuid.UUID) ([]models.QueueEntry, error)
	CountWaitingBefore(ctx context.Context, shopID uuid.UUID, createdAt time.Time) (int64, error)

	// SaveTransition persists the entry and, when non-nil, the billable event
	// in one local transaction. The write only applies while the stored
	// status still equals from; otherwise it fails with the business error
	// "status_changed" and nothing is written.
	SaveTransition(ctx context.Context, e *models.QueueEntry, from string, ev *models.BillableEvent) error
}
