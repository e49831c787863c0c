package billing

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
)

// SavePaymentMethod stores the card used for usage charges. The card token
// comes from Pin.js in the browser and is only valid once.
type SavePaymentMethod struct {
	repo  domain.Repository
	vault domain.CustomerVault
	audit audit.Recorder
}

func NewSavePaymentMethod(
	repo domain.Repository,
	vault domain.CustomerVault,
	audit audit.Recorder,
) *SavePaymentMethod {
	return &SavePaymentMethod{
		repo:  repo,
		vault: vault,
		audit: audit,
	}
}

func (uc *SavePaymentMethod) Execute(ctx context.Context, shopID uuid.UUID, cardToken string) error {
	cardToken = strings.TrimSpace(cardToken)
	if cardToken == "" {
		return httperr.ErrBusinessMsg("missing_card_token", "A card token is required.")
	}

	shop, err := uc.repo.GetShop(ctx, shopID)
	if err != nil {
		return err
	}
	if shop.BillingEmail == "" {
		return httperr.ErrBusinessMsg("missing_billing_email", "Set a billing email before adding a card.")
	}

	replaced := shop.PinCustomerToken != ""

	token, err := uc.vault.CreateCustomer(ctx, shop.BillingEmail, cardToken)
	if err != nil {
		return err
	}
	if err := uc.repo.SetPinCustomerToken(ctx, shop.ID, token); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   shop.ID,
		Action:   "payment_method_updated",
		Entity:   "shop",
		EntityID: audit.Ref(shop.ID),
		Metadata: map[string]any{"replaced": replaced},
	})
	return nil
}
