package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
)

// StripeGateway collects subscription invoices through the Stripe API.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return NewStripeGatewayWithBackends(secretKey, nil)
}

// NewStripeGatewayWithBackends lets callers point the client at another API
// host; nil uses Stripe's defaults.
func NewStripeGatewayWithBackends(secretKey string, backends *stripe.Backends) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) GetInvoice(ctx context.Context, invoiceID string) (*domain.RemoteInvoice, error) {
	params := &stripe.InvoiceParams{}
	params.Context = ctx

	inv, err := g.api.Invoices.Get(invoiceID, params)
	if err != nil {
		return nil, err
	}

	return &domain.RemoteInvoice{
		ID:         inv.ID,
		Status:     string(inv.Status),
		AmountDue:  inv.AmountDue,
		AmountPaid: inv.AmountPaid,
	}, nil
}

// PayInvoice charges the customer's default payment method off-session.
func (g *StripeGateway) PayInvoice(ctx context.Context, invoiceID string) (*domain.PaymentAttempt, error) {
	params := &stripe.InvoicePayParams{
		OffSession: stripe.Bool(true),
	}
	params.Context = ctx

	inv, err := g.api.Invoices.Pay(invoiceID, params)
	if err != nil {
		var se *stripe.Error
		if !errors.As(err, &se) {
			return nil, err
		}
		return attemptFromError(se)
	}

	if inv.Status == stripe.InvoiceStatusPaid {
		return &domain.PaymentAttempt{Status: domain.AttemptPaid, AmountPaid: inv.AmountPaid}, nil
	}
	if inv.PaymentIntent != nil && inv.PaymentIntent.Status == stripe.PaymentIntentStatusRequiresAction {
		return &domain.PaymentAttempt{Status: domain.AttemptRequiresAction}, nil
	}
	return &domain.PaymentAttempt{Status: string(inv.Status)}, nil
}

// attemptFromError reads card-level outcomes out of a Stripe API error.
// Anything that is not about the card is returned as an error.
func attemptFromError(se *stripe.Error) (*domain.PaymentAttempt, error) {
	if se.Code == stripe.ErrorCodeAuthenticationRequired {
		return &domain.PaymentAttempt{Status: domain.AttemptRequiresAction, Message: se.Msg}, nil
	}
	if se.PaymentIntent != nil && se.PaymentIntent.Status == stripe.PaymentIntentStatusRequiresAction {
		return &domain.PaymentAttempt{Status: domain.AttemptRequiresAction, Message: se.Msg}, nil
	}
	if se.Type == stripe.ErrorTypeCard {
		status := string(se.Code)
		if se.DeclineCode != "" {
			status = string(se.DeclineCode)
		}
		if status == "" {
			status = "card_declined"
		}
		return &domain.PaymentAttempt{Status: status, Message: se.Msg}, nil
	}
	return nil, se
}

// Compile-time check
var _ domain.PaymentGateway = (*StripeGateway)(nil)
