package valuation

import (
	"github.com/bobmcallan/intrinsic/internal/models"
)

// Project compounds baseRevenue through the schedule and derives free cash
// flow from each period's margin:
//
//	revenue[t] = revenue[t-1] * (1 + growth[t]),  revenue[0] = baseRevenue
//	fcf[t]     = revenue[t] * margin[t]
//
// Periods are 1-indexed. A fresh slice is returned on every call so repeated
// projections under different schedules never alias.
func Project(baseRevenue float64, schedule Schedule) ([]models.ProjectedPeriod, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	periods := make([]models.ProjectedPeriod, len(schedule))
	revenue := baseRevenue
	for i, step := range schedule {
		revenue *= 1 + step.Growth
		periods[i] = models.ProjectedPeriod{
			Period:       i + 1,
			Revenue:      revenue,
			FreeCashFlow: revenue * step.Margin,
		}
	}

	return periods, nil
}
