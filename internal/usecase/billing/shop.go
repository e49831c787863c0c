package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

// resolveShop finds the shop a Stripe object belongs to: the shop_id carried
// in metadata first, then the Stripe customer id. A shop found through
// metadata that has no customer id yet is linked to the event's customer.
// A nil shop with a nil error means neither matched.
func resolveShop(
	ctx context.Context,
	repo domain.Repository,
	metadataShopID string,
	customerID string,
) (*models.Shop, error) {

	if id, err := uuid.Parse(metadataShopID); err == nil {
		shop, err := repo.GetShop(ctx, id)
		if err == nil {
			if err := linkStripeCustomer(ctx, repo, shop, customerID); err != nil {
				return nil, err
			}
			return shop, nil
		}
		if !errors.Is(err, httperr.ErrNotFound) {
			return nil, err
		}
	}

	if customerID == "" {
		return nil, nil
	}

	shop, err := repo.FindShopByStripeCustomer(ctx, customerID)
	if errors.Is(err, httperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func linkStripeCustomer(
	ctx context.Context,
	repo domain.Repository,
	shop *models.Shop,
	customerID string,
) error {
	if customerID == "" || (shop.StripeCustomerID != nil && *shop.StripeCustomerID != "") {
		return nil
	}
	if err := repo.SetStripeCustomerID(ctx, shop.ID, customerID); err != nil {
		return err
	}
	shop.StripeCustomerID = &customerID
	return nil
}

// settle marks an invoice paid and clears the shop's debt.
func settle(
	ctx context.Context,
	repo domain.Repository,
	inv *models.Invoice,
	amountPaid int64,
) error {
	domain.MarkPaid(inv, amountPaid)
	if err := repo.SaveInvoice(ctx, inv); err != nil {
		return err
	}
	return repo.UpdateShopBilling(ctx, inv.ShopID, models.SubscriptionActive, 0)
}
