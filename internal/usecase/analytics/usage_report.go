package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/analytics"
	"github.com/BruksfildServices01/barberconnect/internal/dto"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/timezone"
)

const dateLayout = "2006-01-02"

// UsageReport aggregates a shop's completed and no-show queue entries over an
// inclusive date range in the shop's timezone. The whole range is loaded in
// memory.
type UsageReport struct {
	repo domain.Repository
}

func NewUsageReport(repo domain.Repository) *UsageReport {
	return &UsageReport{repo: repo}
}

func (uc *UsageReport) Execute(
	ctx context.Context,
	shopID uuid.UUID,
	startDate string,
	endDate string,
) (*dto.UsageReportDTO, error) {

	if startDate == "" || endDate == "" {
		return nil, httperr.ErrBusinessMsg("missing_dates", "start_date and end_date are required.")
	}

	shop, err := uc.repo.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(shop.Timezone)

	from, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return nil, httperr.ErrBusinessMsg("invalid_date", "start_date must be YYYY-MM-DD.")
	}
	to, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return nil, httperr.ErrBusinessMsg("invalid_date", "end_date must be YYYY-MM-DD.")
	}
	if to.Before(from) {
		return nil, httperr.ErrBusinessMsg("invalid_range", "end_date must not be before start_date.")
	}

	start, end := timezone.DayRange(from, to, loc)

	completed, err := uc.repo.ListBilledEntries(ctx, shop.ID, start, end)
	if err != nil {
		return nil, err
	}
	noShows, err := uc.repo.CountNoShows(ctx, shop.ID, start, end)
	if err != nil {
		return nil, err
	}

	report := domain.Summarize(completed, noShows)
	report.StartDate = startDate
	report.EndDate = endDate

	return &report, nil
}
