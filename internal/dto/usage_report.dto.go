package dto

type BarberRevenueDTO struct {
	Barber  string  `json:"barber"`
	Revenue float64 `json:"revenue"`
}

type BarberClientsDTO struct {
	Barber  string `json:"barber"`
	Clients int    `json:"clients"`
}

type UsageReportDTO struct {
	StartDate      string             `json:"startDate"`
	EndDate        string             `json:"endDate"`
	TotalRevenue   float64            `json:"totalRevenue"`
	TotalCustomers int                `json:"totalCustomers"`
	NoShows        int64              `json:"noShows"`
	NoShowRate     float64            `json:"noShowRate"`
	BarberRevenue  []BarberRevenueDTO `json:"barberRevenue"`
	BarberClients  []BarberClientsDTO `json:"barberClients"`
}
