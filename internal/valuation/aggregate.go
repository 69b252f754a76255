package valuation

import (
	"fmt"

	"github.com/bobmcallan/intrinsic/internal/models"
)

// Aggregate folds discounted flows and the discounted terminal value into
// enterprise value, adjusts for net debt, and divides by the share count:
//
//	ev      = sum(pv) + pv(tv)
//	equity  = ev - netDebt        (negative netDebt = net cash, adds value)
//	implied = equity / shares
//
// sharesOutstanding must be positive; violation fails with
// ErrInvalidShareCount.
func Aggregate(d *models.DiscountResult, netDebt, sharesOutstanding float64) (*models.ValuationResult, error) {
	if sharesOutstanding <= 0 {
		return nil, fmt.Errorf("%w: got %.4f", ErrInvalidShareCount, sharesOutstanding)
	}

	ev := d.DiscountedTerminalValue
	for _, f := range d.Flows {
		ev += f.PresentValue
	}

	equity := ev - netDebt

	return &models.ValuationResult{
		EnterpriseValue: ev,
		EquityValue:     equity,
		ImpliedPerShare: equity / sharesOutstanding,
		DiscountRate:    d.DiscountRate,
		TerminalGrowth:  d.TerminalGrowth,
	}, nil
}

// UpsidePct reports implied value against a current market price as a
// percentage: (implied/current - 1) * 100. Returns 0 when current is 0.
func UpsidePct(implied, current float64) float64 {
	if current == 0 {
		return 0
	}
	return (implied/current - 1) * 100
}
