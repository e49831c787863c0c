package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

const (
	PinChargeSucceeded = "charge.succeeded"
	PinChargeFailed    = "charge.failed"
	pinDisputePrefix   = "dispute."
)

// PinEvent is a verified Pin Payments webhook reduced to what billing uses.
type PinEvent struct {
	Type         string
	ChargeToken  string
	Amount       int64
	ErrorMessage string
}

type PinEvents struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewPinEvents(
	repo domain.Repository,
	audit audit.Recorder,
) *PinEvents {
	return &PinEvents{
		repo:  repo,
		audit: audit,
	}
}

// Handle applies the event to the invoice holding the charge token. It returns
// false for event types it ignores and for charges it does not know.
func (uc *PinEvents) Handle(ctx context.Context, ev PinEvent) (bool, error) {
	isDispute := strings.HasPrefix(ev.Type, pinDisputePrefix)
	if ev.Type != PinChargeSucceeded && ev.Type != PinChargeFailed && !isDispute {
		return false, nil
	}
	if ev.ChargeToken == "" {
		return false, nil
	}

	inv, err := uc.repo.FindInvoiceByChargeToken(ctx, ev.ChargeToken)
	if errors.Is(err, httperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var action string

	switch {
	case ev.Type == PinChargeSucceeded:
		if err := settle(ctx, uc.repo, inv, ev.Amount); err != nil {
			return false, err
		}
		action = "invoice_paid"

	case ev.Type == PinChargeFailed:
		reason := ev.ErrorMessage
		if reason == "" {
			reason = defaultFailureReason
		}
		if err := uc.markUnpaid(ctx, inv, domain.InvoiceFailed, reason); err != nil {
			return false, err
		}
		action = "invoice_failed"

	default:
		if err := uc.markUnpaid(ctx, inv, domain.InvoiceDisputed, "Charge disputed ("+ev.Type+")"); err != nil {
			return false, err
		}
		action = "invoice_disputed"
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   inv.ShopID,
		Action:   action,
		Entity:   "invoice",
		EntityID: audit.Ref(inv.ID),
		Metadata: map[string]any{"charge_token": ev.ChargeToken, "event": ev.Type},
	})

	return true, nil
}

func (uc *PinEvents) markUnpaid(ctx context.Context, inv *models.Invoice, status, reason string) error {
	domain.MarkFailed(inv, status, reason)
	if err := uc.repo.SaveInvoice(ctx, inv); err != nil {
		return err
	}
	return uc.repo.UpdateShopBilling(ctx, inv.ShopID, models.SubscriptionPastDue, inv.AmountDue)
}
