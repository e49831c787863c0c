package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/httpresp"
	"github.com/BruksfildServices01/barberconnect/internal/middleware"
	"github.com/BruksfildServices01/barberconnect/internal/usecase/billing"
)

type BillingHandler struct {
	repo   domain.Repository
	retry  *billing.RetryPayment
	charge *billing.UsageCharge
	card   *billing.SavePaymentMethod
}

func NewBillingHandler(
	repo domain.Repository,
	retry *billing.RetryPayment,
	charge *billing.UsageCharge,
	card *billing.SavePaymentMethod,
) *BillingHandler {
	return &BillingHandler{
		repo:   repo,
		retry:  retry,
		charge: charge,
		card:   card,
	}
}

// POST /api/billing/retry
func (h *BillingHandler) Retry(c *gin.Context) {
	res, err := h.retry.Execute(c.Request.Context(), middleware.ShopID(c))
	if err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			httperr.NotFound(c, "no_failed_invoice", "There is no failed invoice to retry.")
			return
		}
		if pe, ok := httperr.AsProvider(err); ok && res != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      pe.Message,
				"error_code": pe.Provider + "_error",
				"status":     res.Status,
				"invoice_id": res.InvoiceID,
			})
			return
		}
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

// POST /api/billing/usage-charge
func (h *BillingHandler) UsageCharge(c *gin.Context) {
	inv, err := h.charge.Execute(c.Request.Context(), middleware.ShopID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, inv)
}

type paymentMethodRequest struct {
	CardToken string `json:"card_token" binding:"required"`
}

// POST /api/billing/payment-method
func (h *BillingHandler) SavePaymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := h.card.Execute(c.Request.Context(), middleware.ShopID(c), req.CardToken); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_method": "saved"})
}

// GET /api/me/invoices
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.repo.ListInvoices(c.Request.Context(), middleware.ShopID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, invoices)
}
