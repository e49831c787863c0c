package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barberconnect/internal/dto"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/timezone"
	"github.com/BruksfildServices01/barberconnect/internal/usecase/queue"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicCatalog is the read side of a shop page. Lookups return
// httperr.ErrNotFound when no row matches.
type PublicCatalog interface {
	GetShopBySlug(ctx context.Context, slug string) (*models.Shop, error)
	ListActiveBarbers(ctx context.Context, shopID uuid.UUID) ([]models.Barber, error)
	ListActiveServices(ctx context.Context, shopID uuid.UUID) ([]models.Service, error)
}

type PublicHandler struct {
	catalog  PublicCatalog
	join     *queue.JoinQueue
	position *queue.GetPosition
}

func NewPublicHandler(
	catalog PublicCatalog,
	join *queue.JoinQueue,
	position *queue.GetPosition,
) *PublicHandler {
	return &PublicHandler{
		catalog:  catalog,
		join:     join,
		position: position,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicJoinQueueRequest struct {
	ClientName  string      `json:"client_name" binding:"required"`
	ClientPhone string      `json:"client_phone"`
	BarberID    *uuid.UUID  `json:"barber_id"`
	ServiceIDs  []uuid.UUID `json:"service_ids"`
}

////////////////////////////////////////////////////////
// SHOP
////////////////////////////////////////////////////////

// GET /api/public/shops/:slug
func (h *PublicHandler) GetShop(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	shop, err := h.catalog.GetShopBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			httperr.NotFound(c, "shop_not_found", "Shop not found.")
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("public shop lookup failed")
		httperr.Internal(c, "failed_to_get_shop", err.Error())
		return
	}

	barbers, err := h.catalog.ListActiveBarbers(ctx, shop.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_barbers", err.Error())
		return
	}

	services, err := h.catalog.ListActiveServices(ctx, shop.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", err.Error())
		return
	}

	if barbers == nil {
		barbers = []models.Barber{}
	}
	if services == nil {
		services = []models.Service{}
	}

	now := timezone.NowIn(shop.Timezone)

	c.JSON(http.StatusOK, gin.H{
		"shop":     toPublicShopDTO(shop),
		"open_now": timezone.IsOpenAt(shop.OpeningTime, shop.ClosingTime, now),
		"barbers":  barbers,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// QUEUE
////////////////////////////////////////////////////////

// POST /api/public/shops/:slug/queue
func (h *PublicHandler) JoinQueue(c *gin.Context) {
	var req PublicJoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.join.Execute(c.Request.Context(), queue.JoinInput{
		ShopSlug:    c.Param("slug"),
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		BarberID:    req.BarberID,
		ServiceIDs:  req.ServiceIDs,
	})
	if err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			httperr.NotFound(c, "shop_not_found", "Shop not found.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// GET /api/public/queue/:id
func (h *PublicHandler) GetPosition(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	res, err := h.position.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func toPublicShopDTO(s *models.Shop) dto.PublicShopDTO {
	return dto.PublicShopDTO{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Address:     s.Address,
		Phone:       s.Phone,
		LogoURL:     s.LogoURL,
		Timezone:    s.Timezone,
		OpeningTime: s.OpeningTime,
		ClosingTime: s.ClosingTime,
	}
}
