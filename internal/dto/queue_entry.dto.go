package dto

import (
	"time"

	"github.com/google/uuid"
)

type QueueEntryDTO struct {
	ID          uuid.UUID  `json:"id"`
	ClientName  string     `json:"client_name"`
	ClientPhone string     `json:"client_phone"`
	Status      string     `json:"status"`
	BarberID    *uuid.UUID `json:"barber_id"`
	BarberName  string     `json:"barber_name"`
	Services    []string   `json:"services"`
	TotalPrice  string     `json:"total_price"`
	Notified    bool       `json:"notified"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at"`
}
