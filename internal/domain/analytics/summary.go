package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barberconnect/internal/dto"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

// UnassignedBarber groups completed entries nobody was assigned to.
const UnassignedBarber = "Unassigned"

// Summarize aggregates completed entries and the no-show count of a range.
// The no-show rate is a percentage of completed plus no-show entries,
// rounded to two decimals, and 0 when both are zero.
func Summarize(completed []models.QueueEntry, noShows int64) dto.UsageReportDTO {
	total := decimal.Zero
	revenue := map[string]decimal.Decimal{}
	clients := map[string]int{}

	for _, e := range completed {
		name := UnassignedBarber
		if e.Barber != nil && e.Barber.Name != "" {
			name = e.Barber.Name
		}

		sum := decimal.Zero
		for _, s := range e.Services {
			sum = sum.Add(s.Price)
		}

		total = total.Add(sum)
		revenue[name] = revenue[name].Add(sum)
		clients[name]++
	}

	report := dto.UsageReportDTO{
		TotalRevenue:   total.Round(2).InexactFloat64(),
		TotalCustomers: len(completed),
		NoShows:        noShows,
		NoShowRate:     noShowRate(int64(len(completed)), noShows),
		BarberRevenue:  []dto.BarberRevenueDTO{},
		BarberClients:  []dto.BarberClientsDTO{},
	}

	for name, v := range revenue {
		report.BarberRevenue = append(report.BarberRevenue, dto.BarberRevenueDTO{
			Barber:  name,
			Revenue: v.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(report.BarberRevenue, func(i, j int) bool {
		a, b := report.BarberRevenue[i], report.BarberRevenue[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Barber < b.Barber
	})

	for name, n := range clients {
		report.BarberClients = append(report.BarberClients, dto.BarberClientsDTO{Barber: name, Clients: n})
	}
	sort.Slice(report.BarberClients, func(i, j int) bool {
		a, b := report.BarberClients[i], report.BarberClients[j]
		if a.Clients != b.Clients {
			return a.Clients > b.Clients
		}
		return a.Barber < b.Barber
	})

	return report
}

func noShowRate(completed, noShows int64) float64 {
	den := completed + noShows
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(noShows * 100).
		Div(decimal.NewFromInt(den)).
		Round(2).
		InexactFloat64()
}
