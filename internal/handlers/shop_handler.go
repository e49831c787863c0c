package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/infra/storage"
	"github.com/BruksfildServices01/barberconnect/internal/middleware"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/timezone"
)

// ObjectStore keeps uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type ShopHandler struct {
	db    *gorm.DB
	store ObjectStore
	audit audit.Recorder
}

// NewShopHandler accepts a nil store; logo uploads then answer 503.
func NewShopHandler(db *gorm.DB, store ObjectStore, audit audit.Recorder) *ShopHandler {
	return &ShopHandler{db: db, store: store, audit: audit}
}

type UpdateShopRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Timezone     *string `json:"timezone"`
	OpeningTime  *string `json:"opening_time"`
	ClosingTime  *string `json:"closing_time"`
	BillingEmail *string `json:"billing_email"`
}

func (h *ShopHandler) load(c *gin.Context) (*models.Shop, bool) {
	var shop models.Shop
	if err := h.db.WithContext(c.Request.Context()).
		First(&shop, "id = ?", middleware.ShopID(c)).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "shop_not_found", "Shop not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_shop", err.Error())
		return nil, false
	}
	return &shop, true
}

func (h *ShopHandler) GetMeShop(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *ShopHandler) UpdateMeShop(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Shop name cannot be empty.")
			return
		}
		shop.Name = name
	}
	if req.Address != nil {
		shop.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		shop.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.BillingEmail != nil {
		shop.BillingEmail = strings.ToLower(strings.TrimSpace(*req.BillingEmail))
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		shop.Timezone = *req.Timezone
	}
	for _, hm := range []struct {
		in  *string
		out *string
	}{
		{req.OpeningTime, &shop.OpeningTime},
		{req.ClosingTime, &shop.ClosingTime},
	} {
		if hm.in == nil {
			continue
		}
		if *hm.in != "" {
			if _, err := timezone.ParseClock(*hm.in); err != nil {
				httperr.BadRequest(c, "invalid_time", "Opening hours must be HH:MM.")
				return
			}
		}
		*hm.out = *hm.in
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(shop).
		Select("name", "address", "phone", "billing_email", "timezone", "opening_time", "closing_time").
		Updates(shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_shop", err.Error())
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *ShopHandler) UploadLogo(c *gin.Context) {
	if h.store == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_not_configured", "Logo uploads are not available.")
		return
	}

	shop, ok := h.load(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "missing_logo", "Attach an image in the logo field.")
		return
	}
	if fh.Size > storage.LogoMaxBytes {
		httperr.BadRequest(c, "logo_too_large", "Logos must be 5 MB or smaller.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_logo", err.Error())
		return
	}
	defer f.Close()

	data, err := storage.EncodeLogo(f)
	if errors.Is(err, storage.ErrUnsupportedImage) {
		httperr.BadRequest(c, "unsupported_image", "Upload a JPEG, PNG or WebP image.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_encode_logo", err.Error())
		return
	}

	url, err := h.store.Put(c.Request.Context(), fmt.Sprintf("shops/%s/logo.webp", shop.ID), data, "image/webp")
	if err != nil {
		log.Error().Err(err).Str("shop_id", shop.ID.String()).Msg("logo upload failed")
		httperr.Internal(c, "failed_to_store_logo", err.Error())
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(shop).
		Update("logo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_shop", err.Error())
		return
	}

	h.audit.Dispatch(audit.Event{
		ShopID:   shop.ID,
		UserID:   audit.Ref(middleware.UserID(c)),
		Action:   "shop_logo_updated",
		Entity:   "shop",
		EntityID: audit.Ref(shop.ID),
	})

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}
