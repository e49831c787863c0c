package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/middleware"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ------- billing repository -------

type billingRepo struct {
	shops    map[uuid.UUID]*models.Shop
	invoices []*models.Invoice
}

func newBillingRepo(shops ...*models.Shop) *billingRepo {
	r := &billingRepo{shops: map[uuid.UUID]*models.Shop{}}
	for _, s := range shops {
		r.shops[s.ID] = s
	}
	return r
}

func (r *billingRepo) GetShop(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	if s, ok := r.shops[id]; ok {
		return s, nil
	}
	return nil, httperr.ErrNotFound
}

func (r *billingRepo) FindShopByStripeCustomer(_ context.Context, customerID string) (*models.Shop, error) {
	for _, s := range r.shops {
		if s.StripeCustomerID != nil && *s.StripeCustomerID == customerID {
			return s, nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *billingRepo) UpdateShopBilling(_ context.Context, shopID uuid.UUID, status string, balance int64) error {
	s := r.shops[shopID]
	s.SubscriptionStatus = status
	s.AccountBalance = balance
	return nil
}

func (r *billingRepo) UpdateShopSubscriptionStatus(_ context.Context, shopID uuid.UUID, status string) error {
	r.shops[shopID].SubscriptionStatus = status
	return nil
}

func (r *billingRepo) SetStripeCustomerID(_ context.Context, shopID uuid.UUID, customerID string) error {
	r.shops[shopID].StripeCustomerID = &customerID
	return nil
}

func (r *billingRepo) SetPinCustomerToken(_ context.Context, shopID uuid.UUID, token string) error {
	r.shops[shopID].PinCustomerToken = token
	return nil
}

func (r *billingRepo) FindInvoiceByStripeID(_ context.Context, id string) (*models.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.StripeInvoiceID != nil && *inv.StripeInvoiceID == id {
			return inv, nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *billingRepo) FindInvoiceByChargeToken(_ context.Context, token string) (*models.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ChargeToken != nil && *inv.ChargeToken == token {
			return inv, nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *billingRepo) LatestFailedInvoice(_ context.Context, shopID uuid.UUID, provider string) (*models.Invoice, error) {
	for i := len(r.invoices) - 1; i >= 0; i-- {
		if r.invoices[i].ShopID == shopID && r.invoices[i].Provider == provider && r.invoices[i].Status == domain.InvoiceFailed {
			return r.invoices[i], nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *billingRepo) ListInvoices(_ context.Context, shopID uuid.UUID) ([]models.Invoice, error) {
	var out []models.Invoice
	for i := len(r.invoices) - 1; i >= 0; i-- {
		if r.invoices[i].ShopID == shopID {
			out = append(out, *r.invoices[i])
		}
	}
	return out, nil
}

func (r *billingRepo) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices = append(r.invoices, inv)
	return nil
}

func (r *billingRepo) SaveInvoice(context.Context, *models.Invoice) error { return nil }

func (r *billingRepo) ListUnbilledEvents(context.Context, uuid.UUID) ([]models.BillableEvent, error) {
	return nil, nil
}

func (r *billingRepo) MarkEventsBilled(context.Context, []uuid.UUID, uuid.UUID) error { return nil }

// ------- analytics repository -------

type analyticsRepo struct {
	shop      *models.Shop
	completed []models.QueueEntry
	noShows   int64
}

func (r *analyticsRepo) GetShop(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	if id != r.shop.ID {
		return nil, httperr.ErrNotFound
	}
	return r.shop, nil
}

func (r *analyticsRepo) ListBilledEntries(context.Context, uuid.UUID, time.Time, time.Time) ([]models.QueueEntry, error) {
	return r.completed, nil
}

func (r *analyticsRepo) CountNoShows(context.Context, uuid.UUID, time.Time, time.Time) (int64, error) {
	return r.noShows, nil
}

// ------- payment gateway -------

type stubGateway struct {
	remote  domain.RemoteInvoice
	attempt domain.PaymentAttempt
}

func (g *stubGateway) GetInvoice(_ context.Context, id string) (*domain.RemoteInvoice, error) {
	r := g.remote
	r.ID = id
	return &r, nil
}

func (g *stubGateway) PayInvoice(context.Context, string) (*domain.PaymentAttempt, error) {
	a := g.attempt
	return &a, nil
}

// ------- helpers -------

// signedIn mimics AuthMiddleware for a fixed shop and owner.
func signedIn(shopID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextShopID, shopID)
		c.Set(middleware.ContextUserID, uuid.New())
		c.Set(middleware.ContextUserRole, "owner")
		c.Next()
	}
}

func serve(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func strPtr(s string) *string { return &s }

