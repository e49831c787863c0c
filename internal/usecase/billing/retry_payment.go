package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/metrics"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

const RequiresActionMessage = "Your bank requires additional authentication. Please update your payment method."

type RetryResult struct {
	InvoiceID       uuid.UUID `json:"invoice_id"`
	StripeInvoiceID string    `json:"stripe_invoice_id"`
	Status          string    `json:"status"`
	AmountPaid      int64     `json:"amount_paid"`
	Charged         bool      `json:"charged"`
	Message         string    `json:"message"`
}

// RetryPayment re-attempts the most recent failed Stripe invoice of a shop.
// The remote call and the local write are not atomic.
type RetryPayment struct {
	repo    domain.Repository
	gateway domain.PaymentGateway
	audit   audit.Recorder
}

func NewRetryPayment(
	repo domain.Repository,
	gateway domain.PaymentGateway,
	audit audit.Recorder,
) *RetryPayment {
	return &RetryPayment{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
	}
}

func (uc *RetryPayment) Execute(ctx context.Context, shopID uuid.UUID) (*RetryResult, error) {

	// --------------------------------------------------
	// Shop and failed invoice
	// --------------------------------------------------
	shop, err := uc.repo.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.StripeCustomerID == nil || *shop.StripeCustomerID == "" {
		return nil, httperr.ErrBusinessMsg("no_stripe_customer", "This shop has no billing account yet.")
	}

	inv, err := uc.repo.LatestFailedInvoice(ctx, shop.ID, models.ProviderStripe)
	if errors.Is(err, httperr.ErrNotFound) {
		return nil, fmt.Errorf("no failed invoice for shop: %w", httperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if inv.StripeInvoiceID == nil || *inv.StripeInvoiceID == "" {
		return nil, httperr.ErrBusinessMsg("invoice_not_retryable", "Only subscription invoices can be retried.")
	}
	stripeID := *inv.StripeInvoiceID

	// --------------------------------------------------
	// Remote state
	// --------------------------------------------------
	remote, err := uc.gateway.GetInvoice(ctx, stripeID)
	if err != nil {
		return nil, fmt.Errorf("retrieve invoice %s: %w", stripeID, err)
	}

	switch remote.Status {
	case domain.RemotePaid:
		if err := settle(ctx, uc.repo, inv, remote.AmountPaid); err != nil {
			return nil, err
		}
		uc.record(inv, "invoice_paid", "already_paid")
		return uc.result(inv, stripeID, false, "Invoice was already paid."), nil

	case domain.RemoteOpen:
		// attempt below

	default:
		return nil, httperr.ErrBusinessMsg(
			"invoice_not_payable",
			fmt.Sprintf("Invoice cannot be paid in its current state (%s).", remote.Status),
		)
	}

	// --------------------------------------------------
	// Off-session payment
	// --------------------------------------------------
	attempt, err := uc.gateway.PayInvoice(ctx, stripeID)
	if err != nil {
		metrics.PaymentAttempts.WithLabelValues(models.ProviderStripe, "error").Inc()
		domain.MarkFailed(inv, domain.InvoiceFailed, err.Error())
		if saveErr := uc.repo.SaveInvoice(ctx, inv); saveErr != nil {
			return nil, saveErr
		}
		return nil, fmt.Errorf("pay invoice %s: %w", stripeID, err)
	}

	metrics.PaymentAttempts.WithLabelValues(models.ProviderStripe, attempt.Status).Inc()

	switch attempt.Status {
	case domain.AttemptPaid:
		if err := settle(ctx, uc.repo, inv, attempt.AmountPaid); err != nil {
			return nil, err
		}
		uc.record(inv, "invoice_paid", "retry")
		return uc.result(inv, stripeID, true, "Payment successful."), nil

	case domain.AttemptRequiresAction:
		domain.MarkFailed(inv, domain.InvoiceRequiresAction, RequiresActionMessage)
		if err := uc.repo.SaveInvoice(ctx, inv); err != nil {
			return nil, err
		}
		uc.record(inv, "invoice_requires_action", "retry")
		return uc.result(inv, stripeID, true, RequiresActionMessage), &httperr.ProviderError{
			Provider:  models.ProviderStripe,
			Status:    domain.InvoiceRequiresAction,
			Message:   RequiresActionMessage,
			Reference: stripeID,
		}

	default:
		reason := attempt.Message
		if reason == "" {
			reason = fmt.Sprintf("Payment %s", attempt.Status)
		}
		domain.MarkFailed(inv, domain.InvoiceFailed, reason)
		if err := uc.repo.SaveInvoice(ctx, inv); err != nil {
			return nil, err
		}
		uc.record(inv, "invoice_failed", "retry")
		return uc.result(inv, stripeID, true, reason), &httperr.ProviderError{
			Provider:  models.ProviderStripe,
			Status:    attempt.Status,
			Message:   reason,
			Reference: stripeID,
		}
	}
}

func (uc *RetryPayment) result(inv *models.Invoice, stripeID string, charged bool, msg string) *RetryResult {
	return &RetryResult{
		InvoiceID:       inv.ID,
		StripeInvoiceID: stripeID,
		Status:          inv.Status,
		AmountPaid:      inv.AmountPaid,
		Charged:         charged,
		Message:         msg,
	}
}

func (uc *RetryPayment) record(inv *models.Invoice, action, source string) {
	uc.audit.Dispatch(audit.Event{
		ShopID:   inv.ShopID,
		Action:   action,
		Entity:   "invoice",
		EntityID: audit.Ref(inv.ID),
		Metadata: map[string]any{"source": source, "error": inv.ErrorMessage},
	})
}
