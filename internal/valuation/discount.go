package valuation

import (
	"fmt"
	"math"

	"github.com/bobmcallan/intrinsic/internal/models"
)

// Discount converts projected cash flows to present value and computes the
// Gordon growth terminal value on the final period's flow:
//
//	pv[t] = fcf[t] / (1+r)^t
//	tv    = fcf[last] * (1+g) / (r - g)
//
// The terminal value is discounted at the same exponent as the final explicit
// period: it is treated as realized at the end of the horizon, not one
// period beyond it.
//
// The precondition discountRate > terminalGrowth is enforced strictly:
// at or below equality the perpetuity diverges or turns negative, so the call
// fails with ErrInvalidRateRelationship rather than returning a number.
func Discount(flows []models.ProjectedPeriod, discountRate, terminalGrowth float64) (*models.DiscountResult, error) {
	if len(flows) == 0 {
		return nil, fmt.Errorf("%w: no cash flows to discount", ErrInvalidSchedule)
	}
	if discountRate <= terminalGrowth {
		return nil, fmt.Errorf("%w: discount %.4f vs terminal growth %.4f",
			ErrInvalidRateRelationship, discountRate, terminalGrowth)
	}

	discounted := make([]models.DiscountedFlow, len(flows))
	for i, p := range flows {
		factor := math.Pow(1+discountRate, float64(p.Period))
		discounted[i] = models.DiscountedFlow{
			Period:       p.Period,
			CashFlow:     p.FreeCashFlow,
			PresentValue: p.FreeCashFlow / factor,
		}
	}

	last := flows[len(flows)-1]
	terminalValue := last.FreeCashFlow * (1 + terminalGrowth) / (discountRate - terminalGrowth)
	horizonFactor := math.Pow(1+discountRate, float64(last.Period))

	return &models.DiscountResult{
		Flows:                   discounted,
		TerminalValue:           terminalValue,
		DiscountedTerminalValue: terminalValue / horizonFactor,
		DiscountRate:            discountRate,
		TerminalGrowth:          terminalGrowth,
	}, nil
}
