package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	domain "github.com/BruksfildServices01/barberconnect/internal/domain/queue"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

type fakeRepo struct {
	shop     *models.Shop
	barbers  map[uuid.UUID]*models.Barber
	services map[uuid.UUID]models.Service
	entries  []*models.QueueEntry
	billed   []*models.BillableEvent
	clock    time.Time
	// beforeSave runs inside SaveTransition ahead of the status check.
	beforeSave func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		shop:     &models.Shop{ID: uuid.New(), Slug: "fade-factory", Timezone: "Australia/Sydney"},
		barbers:  map[uuid.UUID]*models.Barber{},
		services: map[uuid.UUID]models.Service{},
		clock:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) GetShop(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	if id != r.shop.ID {
		return nil, httperr.ErrNotFound
	}
	return r.shop, nil
}

func (r *fakeRepo) GetShopBySlug(_ context.Context, slug string) (*models.Shop, error) {
	if slug != r.shop.Slug {
		return nil, httperr.ErrNotFound
	}
	return r.shop, nil
}

func (r *fakeRepo) GetBarber(_ context.Context, shopID, barberID uuid.UUID) (*models.Barber, error) {
	b, ok := r.barbers[barberID]
	if !ok || b.ShopID != shopID {
		return nil, httperr.ErrNotFound
	}
	return b, nil
}

func (r *fakeRepo) ListServicesByIDs(_ context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if s, ok := r.services[id]; ok && s.ShopID == shopID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateEntry(_ context.Context, e *models.QueueEntry) error {
	e.ID = uuid.New()
	r.clock = r.clock.Add(time.Minute)
	e.CreatedAt = r.clock
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeRepo) GetEntry(_ context.Context, id uuid.UUID) (*models.QueueEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (r *fakeRepo) ListActive(_ context.Context, shopID uuid.UUID) ([]models.QueueEntry, error) {
	var out []models.QueueEntry
	for _, e := range r.entries {
		if e.ShopID == shopID && domain.IsActive(domain.Status(e.Status)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountWaitingBefore(_ context.Context, shopID uuid.UUID, createdAt time.Time) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.ShopID == shopID && e.Status == string(domain.StatusWaiting) && e.CreatedAt.Before(createdAt) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) SaveTransition(_ context.Context, e *models.QueueEntry, from string, ev *models.BillableEvent) error {
	if r.beforeSave != nil {
		r.beforeSave()
	}
	for _, stored := range r.entries {
		if stored.ID != e.ID {
			continue
		}
		if stored.Status != from {
			return httperr.ErrBusinessMsg("status_changed", "stale")
		}
		*stored = *e
		if ev != nil {
			r.billed = append(r.billed, ev)
		}
		return nil
	}
	return httperr.ErrNotFound
}

func TestJoinQueueAssignsPositions(t *testing.T) {
	repo := newFakeRepo()
	uc := NewJoinQueue(repo)

	for i := 1; i <= 3; i++ {
		res, err := uc.Execute(context.Background(), JoinInput{
			ShopSlug:   "fade-factory",
			ClientName: fmt.Sprintf("Client %d", i),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i), res.Position)
		assert.Equal(t, string(domain.StatusWaiting), res.Entry.Status)
	}
}

func TestJoinQueueValidation(t *testing.T) {
	repo := newFakeRepo()
	inactive := &models.Barber{ID: uuid.New(), ShopID: repo.shop.ID, Name: "Sam", Active: false}
	repo.barbers[inactive.ID] = inactive
	foreign := models.Service{ID: uuid.New(), ShopID: uuid.New(), Name: "Beard trim"}
	repo.services[foreign.ID] = foreign

	tests := []struct {
		name string
		in   JoinInput
		code string
	}{
		{"missing name", JoinInput{ShopSlug: "fade-factory", ClientName: "  "}, "missing_client_name"},
		{"bad phone", JoinInput{ShopSlug: "fade-factory", ClientName: "Jo", ClientPhone: "abc"}, "invalid_phone"},
		{"inactive barber", JoinInput{ShopSlug: "fade-factory", ClientName: "Jo", BarberID: &inactive.ID}, "invalid_barber"},
		{"foreign service", JoinInput{ShopSlug: "fade-factory", ClientName: "Jo", ServiceIDs: []uuid.UUID{foreign.ID}}, "invalid_service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJoinQueue(repo).Execute(context.Background(), tt.in)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
	assert.Empty(t, repo.entries)
}

func TestJoinQueueRejectsClosedShop(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now().In(mustLoad(t, repo.shop.Timezone))
	repo.shop.OpeningTime = now.Add(time.Hour).Format("15:04")
	repo.shop.ClosingTime = now.Add(2 * time.Hour).Format("15:04")

	_, err := NewJoinQueue(repo).Execute(context.Background(), JoinInput{ShopSlug: "fade-factory", ClientName: "Jo"})

	assert.True(t, httperr.IsBusiness(err, "shop_closed"))
}

func TestUpdateStatusDoneRecordsBillableEvent(t *testing.T) {
	repo := newFakeRepo()
	res, err := NewJoinQueue(repo).Execute(context.Background(), JoinInput{ShopSlug: "fade-factory", ClientName: "Jo"})
	require.NoError(t, err)

	uc := NewUpdateStatus(repo, audit.Discard{})
	userID := uuid.New()

	_, err = uc.Execute(context.Background(), repo.shop.ID, userID, res.Entry.ID, "done")
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))

	_, err = uc.Execute(context.Background(), repo.shop.ID, userID, res.Entry.ID, "in_progress")
	require.NoError(t, err)
	assert.Empty(t, repo.billed)

	entry, err := uc.Execute(context.Background(), repo.shop.ID, userID, res.Entry.ID, "done")
	require.NoError(t, err)
	require.Len(t, repo.billed, 1)
	assert.Equal(t, entry.ID, repo.billed[0].QueueEntryID)
	assert.NotNil(t, entry.CompletedAt)
}

func TestUpdateStatusConcurrentChangeIsNotBilledTwice(t *testing.T) {
	repo := newFakeRepo()
	res, err := NewJoinQueue(repo).Execute(context.Background(), JoinInput{ShopSlug: "fade-factory", ClientName: "Jo"})
	require.NoError(t, err)

	uc := NewUpdateStatus(repo, audit.Discard{})
	_, err = uc.Execute(context.Background(), repo.shop.ID, uuid.New(), res.Entry.ID, "in_progress")
	require.NoError(t, err)

	// Another request completes the entry after this one has read it.
	repo.beforeSave = func() {
		repo.entries[0].Status = string(domain.StatusDone)
		repo.billed = append(repo.billed, &models.BillableEvent{QueueEntryID: res.Entry.ID})
	}

	_, err = uc.Execute(context.Background(), repo.shop.ID, uuid.New(), res.Entry.ID, "done")

	assert.True(t, httperr.IsBusiness(err, "status_changed"))
	assert.Len(t, repo.billed, 1)
}

func TestUpdateStatusOtherShopIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	res, err := NewJoinQueue(repo).Execute(context.Background(), JoinInput{ShopSlug: "fade-factory", ClientName: "Jo"})
	require.NoError(t, err)
	res.Entry.ShopID = uuid.New()

	_, err = NewUpdateStatus(repo, audit.Discard{}).Execute(context.Background(), repo.shop.ID, uuid.New(), res.Entry.ID, "no_show")

	assert.ErrorIs(t, err, httperr.ErrNotFound)
}

func TestGetPosition(t *testing.T) {
	repo := newFakeRepo()
	join := NewJoinQueue(repo)
	first, err := join.Execute(context.Background(), JoinInput{ShopSlug: "fade-factory", ClientName: "A"})
	require.NoError(t, err)
	second, err := join.Execute(context.Background(), JoinInput{ShopSlug: "fade-factory", ClientName: "B"})
	require.NoError(t, err)

	pos, err := NewGetPosition(repo).Execute(context.Background(), second.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos.Position)

	first.Entry.Status = string(domain.StatusInProgress)

	pos, err = NewGetPosition(repo).Execute(context.Background(), second.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pos.Position)

	pos, err = NewGetPosition(repo).Execute(context.Background(), first.Entry.ID)
	require.NoError(t, err)
	assert.Zero(t, pos.Position)
}

func mustLoad(t *testing.T, tz string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	return loc
}
