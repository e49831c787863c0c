package queue

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/queue"
)

type PositionResult struct {
	ID       uuid.UUID `json:"id"`
	Status   string    `json:"status"`
	Position int64     `json:"position"`
	Notified bool      `json:"notified"`
}

// GetPosition reports where a customer stands. Position is 0 once the entry
// has left the waiting state.
type GetPosition struct {
	repo domain.Repository
}

func NewGetPosition(repo domain.Repository) *GetPosition {
	return &GetPosition{repo: repo}
}

func (uc *GetPosition) Execute(ctx context.Context, entryID uuid.UUID) (*PositionResult, error) {
	entry, err := uc.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	res := &PositionResult{
		ID:       entry.ID,
		Status:   entry.Status,
		Notified: entry.NotificationSentAt != nil,
	}

	if domain.Status(entry.Status) == domain.StatusWaiting {
		ahead, err := uc.repo.CountWaitingBefore(ctx, entry.ShopID, entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		res.Position = ahead + 1
	}

	return res, nil
}
