package queue

import (
	"time"

	"github.com/BruksfildServices01/barberconnect/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves the entry to next and stamps the matching timestamp.
// It returns the billable event to record when the entry is completed.
func Transition(e *models.QueueEntry, next Status, now time.Time) (*models.BillableEvent, error) {
	if err := CanTransition(Status(e.Status), next); err != nil {
		return nil, err
	}

	e.Status = string(next)

	switch next {
	case StatusInProgress:
		e.StartedAt = &now
	case StatusDone:
		e.CompletedAt = &now
		return &models.BillableEvent{
			QueueEntryID: e.ID,
			ShopID:       e.ShopID,
			CreatedAt:    now,
		}, nil
	}

	return nil, nil
}
