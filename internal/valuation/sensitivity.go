package valuation

import (
	"errors"
	"fmt"

	"github.com/bobmcallan/intrinsic/internal/models"
)

// Sweep re-discounts and re-aggregates an already-projected cash-flow
// sequence over every (discount rate, terminal growth) pair from the two
// axes. Projection is deliberately not re-run per cell: the only varying
// inputs are the two swept rates.
//
// Cells where the rate precondition fails are recorded as invalid rather
// than aborting the sweep; the returned grid always has exactly
// len(discountAxis) × len(growthAxis) cells in the supplied axis order.
//
// Structural errors (no flows, empty axes, bad share count) fail the whole
// sweep; those are caller contract violations, not rate-pair artifacts.
func Sweep(flows []models.ProjectedPeriod, discountAxis, growthAxis []float64, netDebt, sharesOutstanding float64) (*models.SensitivityGrid, error) {
	if len(flows) == 0 {
		return nil, fmt.Errorf("%w: no cash flows to sweep", ErrInvalidSchedule)
	}
	if len(discountAxis) == 0 || len(growthAxis) == 0 {
		return nil, fmt.Errorf("sweep requires non-empty axes: %d discount rates, %d growth rates",
			len(discountAxis), len(growthAxis))
	}
	if sharesOutstanding <= 0 {
		return nil, fmt.Errorf("%w: got %.4f", ErrInvalidShareCount, sharesOutstanding)
	}

	grid := &models.SensitivityGrid{
		DiscountAxis: append([]float64(nil), discountAxis...),
		GrowthAxis:   append([]float64(nil), growthAxis...),
		Cells:        make([][]models.SensitivityCell, len(discountAxis)),
	}

	for i, r := range discountAxis {
		row := make([]models.SensitivityCell, len(growthAxis))
		for j, g := range growthAxis {
			d, err := Discount(flows, r, g)
			if err != nil {
				if errors.Is(err, ErrInvalidRateRelationship) {
					continue // leave the cell marked invalid
				}
				return nil, err
			}
			result, err := Aggregate(d, netDebt, sharesOutstanding)
			if err != nil {
				return nil, err
			}
			row[j] = models.SensitivityCell{ImpliedPerShare: result.ImpliedPerShare, Valid: true}
		}
		grid.Cells[i] = row
	}

	return grid, nil
}

// RateRange returns n evenly spaced values from start to end inclusive.
// n == 1 returns just start.
func RateRange(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	step := (end - start) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}
