package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barberconnect/internal/dto"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/httpresp"
	"github.com/BruksfildServices01/barberconnect/internal/middleware"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/usecase/queue"
)

type QueueHandler struct {
	list   *queue.ListActive
	update *queue.UpdateStatus
}

func NewQueueHandler(list *queue.ListActive, update *queue.UpdateStatus) *QueueHandler {
	return &QueueHandler{list: list, update: update}
}

type UpdateQueueStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GET /api/me/queue
func (h *QueueHandler) List(c *gin.Context) {
	entries, err := h.list.Execute(c.Request.Context(), middleware.ShopID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]dto.QueueEntryDTO, 0, len(entries))
	for i := range entries {
		out = append(out, toQueueEntryDTO(&entries[i]))
	}
	httpresp.List(c, out)
}

// PATCH /api/me/queue/:id/status
func (h *QueueHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQueueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	entry, err := h.update.Execute(
		c.Request.Context(),
		middleware.ShopID(c),
		middleware.UserID(c),
		id,
		req.Status,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, toQueueEntryDTO(entry))
}

func toQueueEntryDTO(e *models.QueueEntry) dto.QueueEntryDTO {
	out := dto.QueueEntryDTO{
		ID:          e.ID,
		ClientName:  e.ClientName,
		ClientPhone: e.ClientPhone,
		Status:      e.Status,
		BarberID:    e.BarberID,
		Services:    make([]string, 0, len(e.Services)),
		Notified:    e.NotificationSentAt != nil,
		CreatedAt:   e.CreatedAt,
		StartedAt:   e.StartedAt,
	}
	if e.Barber != nil {
		out.BarberName = e.Barber.Name
	}

	total := decimal.Zero
	for _, s := range e.Services {
		out.Services = append(out.Services, s.Name)
		total = total.Add(s.Price)
	}
	out.TotalPrice = total.StringFixed(2)

	return out
}
