package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"

	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/metrics"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/usecase/billing"
)

const (
	stripeMaxBodyBytes = int64(65536)

	stripeInvoicePaymentSucceeded = "invoice.payment_succeeded"
	stripeInvoicePaymentFailed    = "invoice.payment_failed"
	stripeSubscriptionUpdated     = "customer.subscription.updated"
)

type StripeWebhookHandler struct {
	events *billing.StripeEvents
	secret string
}

func NewStripeWebhookHandler(events *billing.StripeEvents, secret string) *StripeWebhookHandler {
	return &StripeWebhookHandler{events: events, secret: secret}
}

// POST /api/webhooks/stripe
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, stripeMaxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httperr.BadRequest(c, "invalid_body", "Request body too large or unreadable.")
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(models.ProviderStripe, "unknown", "invalid_signature").Inc()
		httperr.BadRequest(c, "invalid_signature", "Webhook signature verification failed.")
		return
	}

	ctx := c.Request.Context()
	eventType := string(event.Type)

	var handled bool

	switch eventType {
	case stripeInvoicePaymentSucceeded, stripeInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			h.fail(c, eventType, err)
			return
		}
		ev := invoiceEvent(&inv)
		if eventType == stripeInvoicePaymentSucceeded {
			handled, err = h.events.PaymentSucceeded(ctx, ev)
		} else {
			handled, err = h.events.PaymentFailed(ctx, ev)
		}

	case stripeSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			h.fail(c, eventType, err)
			return
		}
		ev := billing.SubscriptionEvent{
			MetadataShopID: sub.Metadata["shop_id"],
			Status:         string(sub.Status),
		}
		if sub.Customer != nil {
			ev.CustomerID = sub.Customer.ID
		}
		handled, err = h.events.SubscriptionUpdated(ctx, ev)

	default:
		metrics.WebhookEvents.WithLabelValues(models.ProviderStripe, "other", "ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err != nil {
		h.fail(c, eventType, err)
		return
	}

	outcome := "applied"
	if !handled {
		outcome = "ignored"
		log.Info().Str("event_id", event.ID).Str("type", eventType).Msg("stripe event matched no shop")
	}
	metrics.WebhookEvents.WithLabelValues(models.ProviderStripe, eventType, outcome).Inc()

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *StripeWebhookHandler) fail(c *gin.Context, eventType string, err error) {
	metrics.WebhookEvents.WithLabelValues(models.ProviderStripe, eventType, "error").Inc()
	log.Error().Err(err).Str("type", eventType).Msg("stripe webhook failed")
	httperr.Internal(c, "webhook_failed", err.Error())
}

func invoiceEvent(inv *stripe.Invoice) billing.InvoiceEvent {
	ev := billing.InvoiceEvent{
		StripeInvoiceID: inv.ID,
		MetadataShopID:  inv.Metadata["shop_id"],
		AmountDue:       inv.AmountDue,
		AmountPaid:      inv.AmountPaid,
		Currency:        string(inv.Currency),
	}
	if inv.Customer != nil {
		ev.CustomerID = inv.Customer.ID
	}
	if inv.LastFinalizationError != nil {
		ev.FailureReason = inv.LastFinalizationError.Msg
	}
	return ev
}
