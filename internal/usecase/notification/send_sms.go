package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/notification"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/metrics"
)

const (
	ResultSent        = "sent"
	ResultAlreadySent = "already_sent"
)

type SendResult struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
}

// SendQueueSMS texts a customer that their turn is close. The send timestamp
// is written only after the provider accepts the message, so a failed send
// can be retried.
type SendQueueSMS struct {
	repo   domain.Repository
	sender domain.SmsSender
	audit  audit.Recorder
	brand  string
}

func NewSendQueueSMS(
	repo domain.Repository,
	sender domain.SmsSender,
	audit audit.Recorder,
	brand string,
) *SendQueueSMS {
	return &SendQueueSMS{
		repo:   repo,
		sender: sender,
		audit:  audit,
		brand:  brand,
	}
}

func (uc *SendQueueSMS) Execute(ctx context.Context, shopID, entryID uuid.UUID) (*SendResult, error) {
	entry, err := uc.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.ShopID != shopID {
		return nil, httperr.ErrNotFound
	}

	if entry.NotificationSentAt != nil {
		metrics.SMSSends.WithLabelValues("skipped").Inc()
		return &SendResult{Status: ResultAlreadySent}, nil
	}

	if entry.ClientPhone == "" {
		return nil, httperr.ErrBusinessMsg("missing_phone", "This customer has no phone number.")
	}

	receipt, err := uc.sender.Send(ctx, domain.Message{
		To:   entry.ClientPhone,
		Body: domain.NearlyUpMessage(entry, uc.brand),
	})
	if err != nil {
		metrics.SMSSends.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Str("queue_entry_id", entry.ID.String()).Msg("sms send failed")
		if _, ok := httperr.AsProvider(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("send sms: %w", err)
	}

	if err := uc.repo.MarkNotified(ctx, entry.ID, time.Now().UTC()); err != nil {
		return nil, err
	}
	metrics.SMSSends.WithLabelValues("sent").Inc()

	uc.audit.Dispatch(audit.Event{
		ShopID:   entry.ShopID,
		Action:   "sms_sent",
		Entity:   "queue_entry",
		EntityID: audit.Ref(entry.ID),
		Metadata: map[string]any{"message_id": receipt.MessageID},
	})

	return &SendResult{Status: ResultSent, MessageID: receipt.MessageID}, nil
}
