// Package valuation implements the discounted cash flow valuation core:
// revenue projection under a growth schedule, present-value discounting with
// a Gordon-growth terminal value, equity aggregation, and two-parameter
// sensitivity sweeps. All functions are pure; callers own every returned
// structure.
package valuation

import (
	"fmt"

	"github.com/bobmcallan/intrinsic/internal/models"
)

// Schedule is an ordered per-period sequence of growth/margin assumptions.
// Its length is the projection horizon.
type Schedule []models.GrowthStep

// ConstantSchedule builds a schedule applying the same growth rate and
// margin for every period.
func ConstantSchedule(growth, margin float64, periods int) Schedule {
	if periods <= 0 {
		return nil
	}
	s := make(Schedule, periods)
	for i := range s {
		s[i] = models.GrowthStep{Growth: growth, Margin: margin}
	}
	return s
}

// SteppedSchedule builds a schedule from an explicit per-period growth ramp
// with a single margin, the shape used for decelerating-growth projections
// (e.g. 70% tapering to 30% over five years).
func SteppedSchedule(growths []float64, margin float64) Schedule {
	if len(growths) == 0 {
		return nil
	}
	s := make(Schedule, len(growths))
	for i, g := range growths {
		s[i] = models.GrowthStep{Growth: g, Margin: margin}
	}
	return s
}

// Validate checks the schedule invariants: non-empty, and every growth rate
// strictly above -1 so revenue cannot go non-positive in a single period.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: schedule is empty", ErrInvalidSchedule)
	}
	for i, step := range s {
		if step.Growth <= -1 {
			return fmt.Errorf("%w: growth rate %.4f at period %d is <= -100%%", ErrInvalidSchedule, step.Growth, i+1)
		}
	}
	return nil
}

// Horizon returns the number of projected periods.
func (s Schedule) Horizon() int {
	return len(s)
}
