package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type stubCatalog struct {
	shop    *models.Shop
	barbers []models.Barber
}

func (s *stubCatalog) GetShopBySlug(_ context.Context, slug string) (*models.Shop, error) {
	if s.shop == nil || s.shop.Slug != slug {
		return nil, httperr.ErrNotFound
	}
	return s.shop, nil
}

func (s *stubCatalog) ListActiveBarbers(context.Context, uuid.UUID) ([]models.Barber, error) {
	return s.barbers, nil
}

func (s *stubCatalog) ListActiveServices(context.Context, uuid.UUID) ([]models.Service, error) {
	return nil, nil
}

func publicRouter(catalog PublicCatalog) *gin.Engine {
	h := NewPublicHandler(catalog, nil, nil)
	r := gin.New()
	r.GET("/api/public/shops/:slug", h.GetShop)
	return r
}

func TestPublicShopHidesBillingFields(t *testing.T) {
	catalog := &stubCatalog{
		shop: &models.Shop{
			ID:                 uuid.New(),
			Name:               "Fade Factory",
			Slug:               "fade-factory",
			Timezone:           "Australia/Sydney",
			BillingEmail:       "owner@fadefactory.com.au",
			StripeCustomerID:   strPtr("cus_123"),
			PinCustomerToken:   "cus_pin_1",
			SubscriptionStatus: models.SubscriptionPastDue,
			AccountBalance:     4200,
		},
		barbers: []models.Barber{{ID: uuid.New(), Name: "Sam", Active: true}},
	}

	w := serve(publicRouter(catalog), http.MethodGet, "/api/public/shops/fade-factory", "", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Shop     map[string]any `json:"shop"`
		OpenNow  bool           `json:"open_now"`
		Barbers  []any          `json:"barbers"`
		Services []any          `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "Fade Factory", body.Shop["name"])
	assert.Equal(t, "fade-factory", body.Shop["slug"])
	for _, key := range []string{"billing_email", "stripe_customer_id", "subscription_status", "account_balance"} {
		assert.NotContains(t, body.Shop, key)
	}
	assert.NotContains(t, w.Body.String(), "cus_123")
	assert.True(t, body.OpenNow)
	assert.Len(t, body.Barbers, 1)
	assert.NotNil(t, body.Services)
}

func TestPublicShopUnknownSlug(t *testing.T) {
	w := serve(publicRouter(&stubCatalog{}), http.MethodGet, "/api/public/shops/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "shop_not_found")
}
