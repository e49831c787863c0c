package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/metrics"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/usecase/billing"
)

const (
	pinSignatureHeader = "Pin-Signature"
	pinTimestampHeader = "Pin-Signature-Timestamp"
	pinMaxBodyBytes    = int64(65536)
)

type PinWebhookHandler struct {
	events *billing.PinEvents
	secret string
}

func NewPinWebhookHandler(events *billing.PinEvents, secret string) *PinWebhookHandler {
	return &PinWebhookHandler{events: events, secret: secret}
}

type pinWebhookBody struct {
	Type string `json:"type"`
	Data struct {
		Token        string `json:"token"`
		Amount       int64  `json:"amount"`
		ErrorMessage string `json:"error_message"`
		Charge       *struct {
			Token string `json:"token"`
		} `json:"charge"`
	} `json:"data"`
}

// POST /api/webhooks/pin
func (h *PinWebhookHandler) Handle(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, pinMaxBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httperr.BadRequest(c, "invalid_body", "Request body too large or unreadable.")
		return
	}

	if !domain.VerifyPinSignature(
		h.secret,
		c.GetHeader(pinTimestampHeader),
		c.GetHeader(pinSignatureHeader),
		body,
	) {
		metrics.WebhookEvents.WithLabelValues(models.ProviderPin, "unknown", "invalid_signature").Inc()
		httperr.Unauthorized(c, "invalid_signature", "Invalid webhook signature.")
		return
	}

	var payload pinWebhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		httperr.BadRequest(c, "malformed_json", "Malformed JSON.")
		return
	}

	ev := billing.PinEvent{
		Type:         payload.Type,
		ChargeToken:  payload.Data.Token,
		Amount:       payload.Data.Amount,
		ErrorMessage: payload.Data.ErrorMessage,
	}
	if strings.HasPrefix(payload.Type, "dispute.") && payload.Data.Charge != nil {
		ev.ChargeToken = payload.Data.Charge.Token
	}

	handled, err := h.events.Handle(c.Request.Context(), ev)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(models.ProviderPin, payload.Type, "error").Inc()
		log.Error().Err(err).Str("type", payload.Type).Msg("pin webhook failed")
		httperr.Internal(c, "webhook_failed", err.Error())
		return
	}

	if !handled {
		metrics.WebhookEvents.WithLabelValues(models.ProviderPin, "other", "ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	metrics.WebhookEvents.WithLabelValues(models.ProviderPin, payload.Type, "applied").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
