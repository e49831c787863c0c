package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/models"
)

// Repository is the slice of the database the billing flows touch.
// Lookups return httperr.ErrNotFound when no row matches.
type Repository interface {
	// -------- Shop --------
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindShopByStripeCustomer(ctx context.Context, customerID string) (*models.Shop, error)
	UpdateShopBilling(ctx context.Context, shopID uuid.UUID, status string, balance int64) error
	UpdateShopSubscriptionStatus(ctx context.Context, shopID uuid.UUID, status string) error
	SetStripeCustomerID(ctx context.Context, shopID uuid.UUID, customerID string) error
	SetPinCustomerToken(ctx context.Context, shopID uuid.UUID, token string) error

	// -------- Invoice --------
	FindInvoiceByStripeID(ctx context.Context, stripeInvoiceID string) (*models.Invoice, error)
	FindInvoiceByChargeToken(ctx context.Context, token string) (*models.Invoice, error)
	// LatestFailedInvoice returns the newest failed invoice of one provider.
	LatestFailedInvoice(ctx context.Context, shopID uuid.UUID, provider string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, shopID uuid.UUID) ([]models.Invoice, error)
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	SaveInvoice(ctx context.Context, inv *models.Invoice) error

	// -------- Usage --------
	ListUnbilledEvents(ctx context.Context, shopID uuid.UUID) ([]models.BillableEvent, error)
	MarkEventsBilled(ctx context.Context, eventIDs []uuid.UUID, invoiceID uuid.UUID) error
}

// RemoteInvoice is the provider's view of an invoice.
type RemoteInvoice struct {
	ID         string
	Status     string
	AmountDue  int64
	AmountPaid int64
}

// PaymentAttempt is the result of asking the provider to collect an invoice.
type PaymentAttempt struct {
	Status     string
	AmountPaid int64
	Message    string
}

// PaymentGateway collects subscription invoices (Stripe).
type PaymentGateway interface {
	GetInvoice(ctx context.Context, invoiceID string) (*RemoteInvoice, error)
	// PayInvoice attempts an off-session payment. Card declines and
	// authentication requirements are reported through the attempt, not err.
	PayInvoice(ctx context.Context, invoiceID string) (*PaymentAttempt, error)
}

type ChargeRequest struct {
	CustomerToken string
	Email         string
	AmountCents   int64
	Currency      string
	Description   string
	Metadata      map[string]string
}

type ChargeResult struct {
	Token   string
	Success bool
	Message string
}

// ChargeGateway creates one-off usage charges (Pin Payments). Declines are
// returned as *httperr.ProviderError.
type ChargeGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// CustomerVault turns a single-use card token into a reusable customer
// (Pin Payments).
type CustomerVault interface {
	CreateCustomer(ctx context.Context, email, cardToken string) (string, error)
}
