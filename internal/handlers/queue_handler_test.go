package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barberconnect/internal/models"
)

func TestQueueEntryDTO(t *testing.T) {
	sent := time.Now()
	e := &models.QueueEntry{
		ID:         uuid.New(),
		ClientName: "Jo",
		Status:     "waiting",
		Barber:     &models.Barber{Name: "Sam"},
		Services: []models.Service{
			{Name: "Cut", Price: decimal.RequireFromString("35")},
			{Name: "Beard", Price: decimal.RequireFromString("12.5")},
		},
		NotificationSentAt: &sent,
	}

	got := toQueueEntryDTO(e)

	assert.Equal(t, "Sam", got.BarberName)
	assert.Equal(t, []string{"Cut", "Beard"}, got.Services)
	assert.Equal(t, "47.50", got.TotalPrice)
	assert.True(t, got.Notified)
}

func TestQueueEntryDTOWithoutBarberOrServices(t *testing.T) {
	got := toQueueEntryDTO(&models.QueueEntry{ID: uuid.New()})

	assert.Empty(t, got.BarberName)
	assert.NotNil(t, got.Services)
	assert.Equal(t, "0.00", got.TotalPrice)
	assert.False(t, got.Notified)
}
