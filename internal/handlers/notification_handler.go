package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/httpresp"
	"github.com/BruksfildServices01/barberconnect/internal/middleware"
	"github.com/BruksfildServices01/barberconnect/internal/usecase/notification"
)

type NotificationHandler struct {
	send *notification.SendQueueSMS
}

func NewNotificationHandler(send *notification.SendQueueSMS) *NotificationHandler {
	return &NotificationHandler{send: send}
}

type SendSMSRequest struct {
	QueueEntryID uuid.UUID `json:"queue_entry_id" binding:"required"`
}

// POST /api/notifications/sms
func (h *NotificationHandler) SendSMS(c *gin.Context) {
	var req SendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "queue_entry_id is required.")
		return
	}

	res, err := h.send.Execute(c.Request.Context(), middleware.ShopID(c), req.QueueEntryID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}
