package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

func failedInvoice(shopID uuid.UUID, amount int64) *models.Invoice {
	return &models.Invoice{
		ID:              uuid.New(),
		ShopID:          shopID,
		Provider:        models.ProviderStripe,
		StripeInvoiceID: strPtr("in_failed"),
		Status:          domain.InvoiceFailed,
		AmountDue:       amount,
		ErrorMessage:    "Your card was declined.",
	}
}

func TestRetryReconcilesAlreadyPaidInvoice(t *testing.T) {
	shop := newShop(models.SubscriptionPastDue, 1500)
	repo := newFakeRepo(shop)
	inv := failedInvoice(shop.ID, 1500)
	repo.invoices = append(repo.invoices, inv)
	gw := &fakeGateway{remote: &domain.RemoteInvoice{Status: domain.RemotePaid, AmountPaid: 1500}}

	res, err := NewRetryPayment(repo, gw, &recorder{}).Execute(context.Background(), shop.ID)

	require.NoError(t, err)
	assert.Zero(t, gw.payCalls)
	assert.False(t, res.Charged)
	assert.Equal(t, domain.InvoicePaid, inv.Status)
	assert.Empty(t, inv.ErrorMessage)
	assert.Equal(t, models.SubscriptionActive, shop.SubscriptionStatus)
	assert.Zero(t, shop.AccountBalance)
}

func TestRetryPaysOpenInvoice(t *testing.T) {
	shop := newShop(models.SubscriptionPastDue, 1500)
	repo := newFakeRepo(shop)
	inv := failedInvoice(shop.ID, 1500)
	repo.invoices = append(repo.invoices, inv)
	gw := &fakeGateway{
		remote:  &domain.RemoteInvoice{Status: domain.RemoteOpen},
		attempt: &domain.PaymentAttempt{Status: domain.AttemptPaid, AmountPaid: 1500},
	}

	res, err := NewRetryPayment(repo, gw, &recorder{}).Execute(context.Background(), shop.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, gw.payCalls)
	assert.True(t, res.Charged)
	assert.Equal(t, domain.InvoicePaid, res.Status)
	assert.Equal(t, models.SubscriptionActive, shop.SubscriptionStatus)
	assert.Zero(t, shop.AccountBalance)
}

func TestRetryRequiresAction(t *testing.T) {
	shop := newShop(models.SubscriptionPastDue, 1500)
	repo := newFakeRepo(shop)
	inv := failedInvoice(shop.ID, 1500)
	repo.invoices = append(repo.invoices, inv)
	gw := &fakeGateway{
		remote:  &domain.RemoteInvoice{Status: domain.RemoteOpen},
		attempt: &domain.PaymentAttempt{Status: domain.AttemptRequiresAction},
	}

	_, err := NewRetryPayment(repo, gw, &recorder{}).Execute(context.Background(), shop.ID)

	pe, ok := httperr.AsProvider(err)
	require.True(t, ok)
	assert.Equal(t, RequiresActionMessage, pe.Message)
	assert.Equal(t, domain.InvoiceRequiresAction, inv.Status)
	assert.Equal(t, models.SubscriptionPastDue, shop.SubscriptionStatus)
	assert.Equal(t, int64(1500), shop.AccountBalance)
}

func TestRetryOtherOutcomeMarksFailed(t *testing.T) {
	shop := newShop(models.SubscriptionPastDue, 1500)
	repo := newFakeRepo(shop)
	inv := failedInvoice(shop.ID, 1500)
	repo.invoices = append(repo.invoices, inv)
	gw := &fakeGateway{
		remote:  &domain.RemoteInvoice{Status: domain.RemoteOpen},
		attempt: &domain.PaymentAttempt{Status: "card_declined", Message: "Insufficient funds."},
	}

	_, err := NewRetryPayment(repo, gw, &recorder{}).Execute(context.Background(), shop.ID)

	pe, ok := httperr.AsProvider(err)
	require.True(t, ok)
	assert.Equal(t, "Insufficient funds.", pe.Message)
	assert.Equal(t, domain.InvoiceFailed, inv.Status)
	assert.Equal(t, "Insufficient funds.", inv.ErrorMessage)
	assert.Equal(t, 1, repo.saves)
}

func TestRetryTransportErrorIsInternal(t *testing.T) {
	shop := newShop(models.SubscriptionPastDue, 1500)
	repo := newFakeRepo(shop)
	inv := failedInvoice(shop.ID, 1500)
	repo.invoices = append(repo.invoices, inv)
	gw := &fakeGateway{
		remote: &domain.RemoteInvoice{Status: domain.RemoteOpen},
		payErr: errors.New("connection reset"),
	}

	_, err := NewRetryPayment(repo, gw, &recorder{}).Execute(context.Background(), shop.ID)

	require.Error(t, err)
	_, isProvider := httperr.AsProvider(err)
	assert.False(t, isProvider)
	assert.Equal(t, "connection reset", inv.ErrorMessage)
}

func TestRetryRejectsUnpayableInvoice(t *testing.T) {
	shop := newShop(models.SubscriptionPastDue, 1500)
	repo := newFakeRepo(shop)
	repo.invoices = append(repo.invoices, failedInvoice(shop.ID, 1500))
	gw := &fakeGateway{remote: &domain.RemoteInvoice{Status: domain.RemoteVoid}}

	_, err := NewRetryPayment(repo, gw, &recorder{}).Execute(context.Background(), shop.ID)

	assert.True(t, httperr.IsBusiness(err, "invoice_not_payable"))
	assert.Contains(t, err.Error(), "void")
	assert.Zero(t, gw.payCalls)
	assert.Zero(t, repo.saves)
}

func TestRetryPreconditions(t *testing.T) {
	t.Run("no stripe customer", func(t *testing.T) {
		shop := newShop(models.SubscriptionPastDue, 0)
		shop.StripeCustomerID = nil
		_, err := NewRetryPayment(newFakeRepo(shop), &fakeGateway{}, &recorder{}).Execute(context.Background(), shop.ID)
		assert.True(t, httperr.IsBusiness(err, "no_stripe_customer"))
	})

	t.Run("no failed invoice", func(t *testing.T) {
		shop := newShop(models.SubscriptionPastDue, 0)
		_, err := NewRetryPayment(newFakeRepo(shop), &fakeGateway{}, &recorder{}).Execute(context.Background(), shop.ID)
		assert.ErrorIs(t, err, httperr.ErrNotFound)
	})
}

func TestRetrySkipsNewerFailedUsageInvoice(t *testing.T) {
	shop := newShop(models.SubscriptionPastDue, 1500)
	repo := newFakeRepo(shop)
	sub := failedInvoice(shop.ID, 1500)
	usage := &models.Invoice{
		ID:           uuid.New(),
		ShopID:       shop.ID,
		Provider:     models.ProviderPin,
		Status:       domain.InvoiceFailed,
		AmountDue:    300,
		ErrorMessage: "Card expired.",
	}
	repo.invoices = append(repo.invoices, sub, usage)
	gw := &fakeGateway{
		remote:  &domain.RemoteInvoice{Status: domain.RemoteOpen},
		attempt: &domain.PaymentAttempt{Status: domain.AttemptPaid, AmountPaid: 1500},
	}

	res, err := NewRetryPayment(repo, gw, &recorder{}).Execute(context.Background(), shop.ID)

	require.NoError(t, err)
	assert.Equal(t, sub.ID, res.InvoiceID)
	assert.Equal(t, "in_failed", res.StripeInvoiceID)
	assert.Equal(t, domain.InvoicePaid, sub.Status)
	assert.Equal(t, domain.InvoiceFailed, usage.Status)
}
