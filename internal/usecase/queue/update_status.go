package queue

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/queue"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/timezone"
)

type UpdateStatus struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewUpdateStatus(
	repo domain.Repository,
	audit audit.Recorder,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	shopID uuid.UUID,
	userID uuid.UUID,
	entryID uuid.UUID,
	status string,
) (*models.QueueEntry, error) {

	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	shop, err := uc.repo.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	entry, err := uc.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.ShopID != shop.ID {
		return nil, httperr.ErrNotFound
	}

	from := entry.Status
	ev, err := domain.Transition(entry, next, timezone.NowIn(shop.Timezone))
	if err != nil {
		return nil, err
	}

	if err := uc.repo.SaveTransition(ctx, entry, from, ev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   shop.ID,
		UserID:   audit.Ref(userID),
		Action:   "queue_status_changed",
		Entity:   "queue_entry",
		EntityID: audit.Ref(entry.ID),
		Metadata: map[string]any{"from": from, "to": entry.Status, "billable": ev != nil},
	})

	return entry, nil
}
