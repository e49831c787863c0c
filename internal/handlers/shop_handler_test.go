package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
)

func TestUploadLogoWithoutStorage(t *testing.T) {
	h := NewShopHandler(nil, nil, audit.Discard{})

	r := gin.New()
	r.Use(signedIn(uuid.New()))
	r.POST("/api/me/shop/logo", h.UploadLogo)

	w := serve(r, http.MethodPost, "/api/me/shop/logo", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "storage_not_configured")
}
