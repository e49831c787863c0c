package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/metrics"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type UsageChargeConfig struct {
	FeeCents int64
	Currency string
	Brand    string
}

// UsageCharge bills every un-invoiced billable event of a shop with one Pin
// Payments charge.
type UsageCharge struct {
	repo    domain.Repository
	charges domain.ChargeGateway
	audit   audit.Recorder
	cfg     UsageChargeConfig
}

func NewUsageCharge(
	repo domain.Repository,
	charges domain.ChargeGateway,
	audit audit.Recorder,
	cfg UsageChargeConfig,
) *UsageCharge {
	return &UsageCharge{
		repo:    repo,
		charges: charges,
		audit:   audit,
		cfg:     cfg,
	}
}

func (uc *UsageCharge) Execute(ctx context.Context, shopID uuid.UUID) (*models.Invoice, error) {
	shop, err := uc.repo.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.PinCustomerToken == "" {
		return nil, httperr.ErrBusinessMsg("no_payment_method", "Add a card before usage can be billed.")
	}

	events, err := uc.repo.ListUnbilledEvents(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, httperr.ErrBusinessMsg("nothing_to_bill", "There is no unbilled usage.")
	}

	amount := int64(len(events)) * uc.cfg.FeeCents

	inv := &models.Invoice{
		ShopID:    shop.ID,
		Provider:  models.ProviderPin,
		Status:    domain.InvoicePending,
		AmountDue: amount,
		Currency:  uc.cfg.Currency,
	}
	if err := uc.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	res, err := uc.charges.Charge(ctx, domain.ChargeRequest{
		CustomerToken: shop.PinCustomerToken,
		Email:         shop.BillingEmail,
		AmountCents:   amount,
		Currency:      uc.cfg.Currency,
		Description:   fmt.Sprintf("%s usage: %d customers", uc.cfg.Brand, len(events)),
		Metadata: map[string]string{
			"shop_id":    shop.ID.String(),
			"invoice_id": inv.ID.String(),
		},
	})
	if err != nil {
		return uc.fail(ctx, inv, err)
	}

	token := res.Token
	inv.ChargeToken = &token
	if err := settle(ctx, uc.repo, inv, amount); err != nil {
		return nil, err
	}
	metrics.PaymentAttempts.WithLabelValues(models.ProviderPin, "paid").Inc()

	ids := make([]uuid.UUID, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	if err := uc.repo.MarkEventsBilled(ctx, ids, inv.ID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   shop.ID,
		Action:   "usage_charged",
		Entity:   "invoice",
		EntityID: audit.Ref(inv.ID),
		Metadata: map[string]any{"events": len(events), "amount": amount, "charge_token": token},
	})

	return inv, nil
}

// fail records a declined or errored charge. The shop owes the full amount.
func (uc *UsageCharge) fail(ctx context.Context, inv *models.Invoice, chargeErr error) (*models.Invoice, error) {
	reason := chargeErr.Error()
	outcome := "error"
	if pe, ok := httperr.AsProvider(chargeErr); ok {
		reason = pe.Message
		outcome = "declined"
		if pe.Reference != "" {
			ref := pe.Reference
			inv.ChargeToken = &ref
		}
	}
	metrics.PaymentAttempts.WithLabelValues(models.ProviderPin, outcome).Inc()

	domain.MarkFailed(inv, domain.InvoiceFailed, reason)
	if err := uc.repo.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateShopBilling(ctx, inv.ShopID, models.SubscriptionPastDue, inv.AmountDue); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   inv.ShopID,
		Action:   "invoice_failed",
		Entity:   "invoice",
		EntityID: audit.Ref(inv.ID),
		Metadata: map[string]any{"reason": reason},
	})

	if outcome == "declined" {
		return inv, chargeErr
	}
	return inv, fmt.Errorf("charge usage: %w", chargeErr)
}
