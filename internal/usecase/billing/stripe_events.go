package billing

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

const defaultFailureReason = "Payment failed"

// InvoiceEvent is the part of a Stripe invoice webhook the shop cares about.
type InvoiceEvent struct {
	StripeInvoiceID string
	CustomerID      string
	MetadataShopID  string
	AmountDue       int64
	AmountPaid      int64
	Currency        string
	FailureReason   string
}

type SubscriptionEvent struct {
	CustomerID     string
	MetadataShopID string
	Status         string
}

// StripeEvents applies Stripe webhook events to shops and invoices.
// Redelivered events are applied again; the last write wins.
type StripeEvents struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewStripeEvents(
	repo domain.Repository,
	audit audit.Recorder,
) *StripeEvents {
	return &StripeEvents{
		repo:  repo,
		audit: audit,
	}
}

// PaymentSucceeded returns false when the event matches no shop.
func (uc *StripeEvents) PaymentSucceeded(ctx context.Context, ev InvoiceEvent) (bool, error) {
	shop, err := resolveShop(ctx, uc.repo, ev.MetadataShopID, ev.CustomerID)
	if err != nil || shop == nil {
		return false, err
	}

	inv, err := uc.loadInvoice(ctx, shop, ev)
	if err != nil {
		return false, err
	}

	if err := settle(ctx, uc.repo, inv, ev.AmountPaid); err != nil {
		return false, err
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   shop.ID,
		Action:   "invoice_paid",
		Entity:   "invoice",
		EntityID: audit.Ref(inv.ID),
		Metadata: map[string]any{"stripe_invoice_id": ev.StripeInvoiceID, "amount_paid": inv.AmountPaid},
	})

	return true, nil
}

func (uc *StripeEvents) PaymentFailed(ctx context.Context, ev InvoiceEvent) (bool, error) {
	shop, err := resolveShop(ctx, uc.repo, ev.MetadataShopID, ev.CustomerID)
	if err != nil || shop == nil {
		return false, err
	}

	inv, err := uc.loadInvoice(ctx, shop, ev)
	if err != nil {
		return false, err
	}

	reason := ev.FailureReason
	if reason == "" {
		reason = defaultFailureReason
	}
	domain.MarkFailed(inv, domain.InvoiceFailed, reason)

	if err := uc.repo.SaveInvoice(ctx, inv); err != nil {
		return false, err
	}
	if err := uc.repo.UpdateShopBilling(ctx, shop.ID, models.SubscriptionPastDue, ev.AmountDue); err != nil {
		return false, err
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   shop.ID,
		Action:   "invoice_failed",
		Entity:   "invoice",
		EntityID: audit.Ref(inv.ID),
		Metadata: map[string]any{"stripe_invoice_id": ev.StripeInvoiceID, "reason": reason},
	})

	return true, nil
}

func (uc *StripeEvents) SubscriptionUpdated(ctx context.Context, ev SubscriptionEvent) (bool, error) {
	shop, err := resolveShop(ctx, uc.repo, ev.MetadataShopID, ev.CustomerID)
	if err != nil || shop == nil {
		return false, err
	}

	if domain.ClearsBalance(ev.Status) {
		err = uc.repo.UpdateShopBilling(ctx, shop.ID, ev.Status, 0)
	} else {
		err = uc.repo.UpdateShopSubscriptionStatus(ctx, shop.ID, ev.Status)
	}
	if err != nil {
		return false, err
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   shop.ID,
		Action:   "subscription_updated",
		Entity:   "shop",
		EntityID: audit.Ref(shop.ID),
		Metadata: map[string]any{"status": ev.Status},
	})

	return true, nil
}

// loadInvoice returns the local mirror of the Stripe invoice, creating it on
// first sight.
func (uc *StripeEvents) loadInvoice(ctx context.Context, shop *models.Shop, ev InvoiceEvent) (*models.Invoice, error) {
	inv, err := uc.repo.FindInvoiceByStripeID(ctx, ev.StripeInvoiceID)
	if err == nil {
		inv.AmountDue = ev.AmountDue
		return inv, nil
	}
	if !errors.Is(err, httperr.ErrNotFound) {
		return nil, err
	}

	stripeID := ev.StripeInvoiceID
	inv = &models.Invoice{
		ShopID:          shop.ID,
		Provider:        models.ProviderStripe,
		StripeInvoiceID: &stripeID,
		Status:          domain.InvoicePending,
		AmountDue:       ev.AmountDue,
		Currency:        ev.Currency,
	}
	if err := uc.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
