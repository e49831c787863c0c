package dto

import "github.com/google/uuid"

// PublicShopDTO is what anonymous visitors of a shop page may see.
type PublicShopDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	LogoURL     string    `json:"logo_url"`
	Timezone    string    `json:"timezone"`
	OpeningTime string    `json:"opening_time"`
	ClosingTime string    `json:"closing_time"`
}
