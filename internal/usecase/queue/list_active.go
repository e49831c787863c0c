package queue

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/queue"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type ListActive struct {
	repo domain.Repository
}

func NewListActive(repo domain.Repository) *ListActive {
	return &ListActive{repo: repo}
}

func (uc *ListActive) Execute(ctx context.Context, shopID uuid.UUID) ([]models.QueueEntry, error) {
	return uc.repo.ListActive(ctx, shopID)
}
