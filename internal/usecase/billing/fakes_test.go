package billing

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type fakeRepo struct {
	shops    map[uuid.UUID]*models.Shop
	invoices []*models.Invoice
	events   []models.BillableEvent
	saves    int
	saveErr  error
}

func newFakeRepo(shops ...*models.Shop) *fakeRepo {
	r := &fakeRepo{shops: map[uuid.UUID]*models.Shop{}}
	for _, s := range shops {
		r.shops[s.ID] = s
	}
	return r
}

func (r *fakeRepo) GetShop(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	s, ok := r.shops[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) FindShopByStripeCustomer(_ context.Context, customerID string) (*models.Shop, error) {
	for _, s := range r.shops {
		if s.StripeCustomerID != nil && *s.StripeCustomerID == customerID {
			return s, nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *fakeRepo) UpdateShopBilling(_ context.Context, shopID uuid.UUID, status string, balance int64) error {
	s, ok := r.shops[shopID]
	if !ok {
		return httperr.ErrNotFound
	}
	s.SubscriptionStatus = status
	s.AccountBalance = balance
	return nil
}

func (r *fakeRepo) UpdateShopSubscriptionStatus(_ context.Context, shopID uuid.UUID, status string) error {
	s, ok := r.shops[shopID]
	if !ok {
		return httperr.ErrNotFound
	}
	s.SubscriptionStatus = status
	return nil
}

func (r *fakeRepo) SetStripeCustomerID(_ context.Context, shopID uuid.UUID, customerID string) error {
	s, ok := r.shops[shopID]
	if !ok {
		return httperr.ErrNotFound
	}
	s.StripeCustomerID = &customerID
	return nil
}

func (r *fakeRepo) SetPinCustomerToken(_ context.Context, shopID uuid.UUID, token string) error {
	s, ok := r.shops[shopID]
	if !ok {
		return httperr.ErrNotFound
	}
	s.PinCustomerToken = token
	return nil
}

func (r *fakeRepo) FindInvoiceByStripeID(_ context.Context, id string) (*models.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.StripeInvoiceID != nil && *inv.StripeInvoiceID == id {
			return inv, nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *fakeRepo) FindInvoiceByChargeToken(_ context.Context, token string) (*models.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ChargeToken != nil && *inv.ChargeToken == token {
			return inv, nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *fakeRepo) LatestFailedInvoice(_ context.Context, shopID uuid.UUID, provider string) (*models.Invoice, error) {
	for i := len(r.invoices) - 1; i >= 0; i-- {
		inv := r.invoices[i]
		if inv.ShopID == shopID && inv.Provider == provider && inv.Status == domain.InvoiceFailed {
			return inv, nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *fakeRepo) ListInvoices(_ context.Context, shopID uuid.UUID) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range r.invoices {
		if inv.ShopID == shopID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices = append(r.invoices, inv)
	return nil
}

func (r *fakeRepo) SaveInvoice(context.Context, *models.Invoice) error {
	r.saves++
	return r.saveErr
}

func (r *fakeRepo) ListUnbilledEvents(_ context.Context, shopID uuid.UUID) ([]models.BillableEvent, error) {
	var out []models.BillableEvent
	for _, ev := range r.events {
		if ev.ShopID == shopID && ev.InvoiceID == nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkEventsBilled(_ context.Context, ids []uuid.UUID, invoiceID uuid.UUID) error {
	billed := map[uuid.UUID]bool{}
	for _, id := range ids {
		billed[id] = true
	}
	for i := range r.events {
		if billed[r.events[i].ID] {
			inv := invoiceID
			r.events[i].InvoiceID = &inv
		}
	}
	return nil
}

type fakeGateway struct {
	remote   *domain.RemoteInvoice
	attempt  *domain.PaymentAttempt
	payErr   error
	payCalls int
}

func (g *fakeGateway) GetInvoice(_ context.Context, id string) (*domain.RemoteInvoice, error) {
	r := *g.remote
	r.ID = id
	return &r, nil
}

func (g *fakeGateway) PayInvoice(context.Context, string) (*domain.PaymentAttempt, error) {
	g.payCalls++
	if g.payErr != nil {
		return nil, g.payErr
	}
	return g.attempt, nil
}

type fakeCharges struct {
	result *domain.ChargeResult
	err    error
	last   domain.ChargeRequest
}

func (c *fakeCharges) Charge(_ context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	c.last = req
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

type fakeVault struct {
	token string
	err   error
	email string
	card  string
}

func (v *fakeVault) CreateCustomer(_ context.Context, email, cardToken string) (string, error) {
	v.email, v.card = email, cardToken
	if v.err != nil {
		return "", v.err
	}
	return v.token, nil
}

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	sort.Strings(out)
	return out
}

func strPtr(s string) *string { return &s }
