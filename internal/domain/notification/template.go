package notification

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barberconnect/internal/models"
)

const fallbackBarber = "Your barber"

// NearlyUpMessage is the text sent when a customer is close to the front of
// the queue.
func NearlyUpMessage(e *models.QueueEntry, brand string) string {
	barber := fallbackBarber
	if e.Barber != nil && strings.TrimSpace(e.Barber.Name) != "" {
		barber = e.Barber.Name
	}

	shop := ""
	if e.Shop != nil {
		shop = e.Shop.Name
	}

	return fmt.Sprintf(
		"Hi %s, it's nearly your turn at %s. %s will be ready for you in a few minutes. - %s",
		e.ClientName, shop, barber, brand,
	)
}
