package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type Repository interface {
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)

	// ListBilledEntries returns the queue entries referenced by billable
	// events created in [start, end), with barber and services loaded.
	ListBilledEntries(ctx context.Context, shopID uuid.UUID, start, end time.Time) ([]models.QueueEntry, error)

	CountNoShows(ctx context.Context, shopID uuid.UUID, start, end time.Time) (int64, error)
}
