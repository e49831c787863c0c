package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type Repository interface {
	// GetEntry loads the entry with its shop and barber.
	GetEntry(ctx context.Context, id uuid.UUID) (*models.QueueEntry, error)
	MarkNotified(ctx context.Context, entryID uuid.UUID, at time.Time) error
}

type Message struct {
	To   string
	Body string
}

type Receipt struct {
	MessageID string
}

// SmsSender delivers one text message. A provider rejection is returned as
// *httperr.ProviderError.
type SmsSender interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
