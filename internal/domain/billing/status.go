package billing

import "github.com/BruksfildServices01/barberconnect/internal/models"

// Invoice statuses stored locally.
const (
	InvoicePending        = "pending"
	InvoicePaid           = "paid"
	InvoiceFailed         = "failed"
	InvoiceDisputed       = "disputed"
	InvoiceRequiresAction = "requires_action"
)

// Remote invoice statuses as reported by Stripe.
const (
	RemoteDraft         = "draft"
	RemoteOpen          = "open"
	RemotePaid          = "paid"
	RemoteVoid          = "void"
	RemoteUncollectible = "uncollectible"
)

// Outcome of a payment attempt. Any other value is treated as a failure.
const (
	AttemptPaid           = "paid"
	AttemptRequiresAction = "requires_action"
)

// ClearsBalance reports whether a mirrored subscription status leaves the
// shop without debt. Only these states reset the balance.
func ClearsBalance(status string) bool {
	switch status {
	case models.SubscriptionActive, models.SubscriptionTrialing, models.SubscriptionCanceled, "incomplete_expired":
		return true
	default:
		return false
	}
}

// MarkPaid settles an invoice locally.
func MarkPaid(inv *models.Invoice, amountPaid int64) {
	inv.Status = InvoicePaid
	if amountPaid > 0 {
		inv.AmountPaid = amountPaid
	} else {
		inv.AmountPaid = inv.AmountDue
	}
	inv.ErrorMessage = ""
}

// MarkFailed records a failed collection with the provider reason.
func MarkFailed(inv *models.Invoice, status, reason string) {
	inv.Status = status
	inv.ErrorMessage = reason
}
