package queue

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/queue"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/timezone"
	"github.com/BruksfildServices01/barberconnect/internal/validators"
)

type JoinInput struct {
	ShopSlug    string
	ClientName  string
	ClientPhone string
	BarberID    *uuid.UUID
	ServiceIDs  []uuid.UUID
}

type JoinResult struct {
	Entry    *models.QueueEntry `json:"entry"`
	Position int64              `json:"position"`
}

// JoinQueue adds a walk-in customer to a shop's queue.
type JoinQueue struct {
	repo domain.Repository
}

func NewJoinQueue(repo domain.Repository) *JoinQueue {
	return &JoinQueue{repo: repo}
}

func (uc *JoinQueue) Execute(ctx context.Context, in JoinInput) (*JoinResult, error) {

	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, httperr.ErrBusinessMsg("missing_client_name", "Please enter your name.")
	}
	phone := validators.NormalizePhone(in.ClientPhone)
	if phone != "" && !validators.IsPhoneValid(phone) {
		return nil, httperr.ErrBusinessMsg("invalid_phone", "Please enter a valid mobile number.")
	}

	// --------------------------------------------------
	// Shop
	// --------------------------------------------------
	shop, err := uc.repo.GetShopBySlug(ctx, in.ShopSlug)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(shop.Timezone)
	if !timezone.IsOpenAt(shop.OpeningTime, shop.ClosingTime, now) {
		return nil, httperr.ErrBusinessMsg("shop_closed", "This shop is closed right now.")
	}

	// --------------------------------------------------
	// Barber / services
	// --------------------------------------------------
	if in.BarberID != nil {
		barber, err := uc.repo.GetBarber(ctx, shop.ID, *in.BarberID)
		if errors.Is(err, httperr.ErrNotFound) || (err == nil && !barber.Active) {
			return nil, httperr.ErrBusinessMsg("invalid_barber", "That barber is not available.")
		}
		if err != nil {
			return nil, err
		}
	}

	var services []models.Service
	if ids := dedupe(in.ServiceIDs); len(ids) > 0 {
		services, err = uc.repo.ListServicesByIDs(ctx, shop.ID, ids)
		if err != nil {
			return nil, err
		}
		if len(services) != len(ids) {
			return nil, httperr.ErrBusinessMsg("invalid_service", "One or more services are not offered by this shop.")
		}
	}

	// --------------------------------------------------
	// Entry
	// --------------------------------------------------
	entry := &models.QueueEntry{
		ShopID:      shop.ID,
		BarberID:    in.BarberID,
		ClientName:  name,
		ClientPhone: phone,
		Status:      string(domain.InitialStatus()),
		Services:    services,
	}
	if err := uc.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	pos, err := uc.repo.CountWaitingBefore(ctx, shop.ID, entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &JoinResult{Entry: entry, Position: pos + 1}, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
