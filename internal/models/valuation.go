// Package models defines data structures for Intrinsic
package models

import (
	"time"
)

// GrowthStep holds one projected period's growth and margin assumptions.
// Growth is period-over-period revenue growth; Margin is free cash flow as a
// fraction of revenue. Both are decimal fractions (0.25 = 25%).
type GrowthStep struct {
	Growth float64 `json:"growth"`
	Margin float64 `json:"margin"`
}

// ProjectedPeriod is one period of a revenue/cash-flow projection.
// Period is 1-indexed from the base period.
type ProjectedPeriod struct {
	Period       int     `json:"period"`
	Revenue      float64 `json:"revenue"`
	FreeCashFlow float64 `json:"free_cash_flow"`
}

// DiscountedFlow pairs a projected cash flow with its present value.
type DiscountedFlow struct {
	Period       int     `json:"period"`
	CashFlow     float64 `json:"cash_flow"`
	PresentValue float64 `json:"present_value"`
}

// DiscountResult holds the output of discounting a projected flow sequence:
// per-period present values plus the Gordon-growth terminal value, both
// nominal and discounted back to the valuation date.
type DiscountResult struct {
	Flows                   []DiscountedFlow `json:"flows"`
	TerminalValue           float64          `json:"terminal_value"`
	DiscountedTerminalValue float64          `json:"discounted_terminal_value"`
	DiscountRate            float64          `json:"discount_rate"`
	TerminalGrowth          float64          `json:"terminal_growth"`
}

// ValuationResult is a single valuation outcome together with the rate pair
// that produced it.
type ValuationResult struct {
	EnterpriseValue float64 `json:"enterprise_value"`
	EquityValue     float64 `json:"equity_value"`
	ImpliedPerShare float64 `json:"implied_per_share"`
	DiscountRate    float64 `json:"discount_rate"`
	TerminalGrowth  float64 `json:"terminal_growth"`
}

// SensitivityCell is one grid entry of a sensitivity sweep. Invalid cells
// (discount rate not above terminal growth) carry Valid=false and a zero value.
type SensitivityCell struct {
	ImpliedPerShare float64 `json:"implied_per_share"`
	Valid           bool    `json:"valid"`
}

// SensitivityGrid maps a discount-rate axis × terminal-growth axis to implied
// per-share values. Cells[i][j] corresponds to DiscountAxis[i] and
// GrowthAxis[j]; axis ordering is preserved exactly as supplied.
type SensitivityGrid struct {
	DiscountAxis []float64           `json:"discount_axis"`
	GrowthAxis   []float64           `json:"growth_axis"`
	Cells        [][]SensitivityCell `json:"cells"`
}

// ValuationInputs are the fully resolved inputs for one valuation run.
// Constructed once per run; never mutated afterwards.
type ValuationInputs struct {
	Ticker            string       `json:"ticker"`
	BaseRevenue       float64      `json:"base_revenue"`
	Schedule          []GrowthStep `json:"schedule"`
	DiscountRate      float64      `json:"discount_rate"`
	TerminalGrowth    float64      `json:"terminal_growth"`
	NetDebt           float64      `json:"net_debt"` // negative = net cash
	SharesOutstanding float64      `json:"shares_outstanding"`
	CurrentPrice      float64      `json:"current_price,omitempty"`
}

// Assumptions are caller-supplied valuation overrides. Zero-valued fields are
// resolved from fundamentals or configured defaults; NetDebt is a pointer
// because zero and negative are both meaningful values.
type Assumptions struct {
	Schedule          []GrowthStep `json:"schedule,omitempty"` // explicit per-period schedule wins
	Growths           []float64    `json:"growths,omitempty"`  // per-period growth ramp, paired with Margin
	Margin            float64      `json:"margin,omitempty"`
	Horizon           int          `json:"horizon,omitempty"`
	DiscountRate      float64      `json:"discount_rate,omitempty"`
	TerminalGrowth    float64      `json:"terminal_growth,omitempty"`
	BaseRevenue       float64      `json:"base_revenue,omitempty"`
	NetDebt           *float64     `json:"net_debt,omitempty"`
	SharesOutstanding float64      `json:"shares_outstanding,omitempty"`
	CurrentPrice      float64      `json:"current_price,omitempty"`
}

// ValuationReport is the full output of a single valuation run.
type ValuationReport struct {
	ID                      string            `json:"id"`
	Ticker                  string            `json:"ticker"`
	Inputs                  ValuationInputs   `json:"inputs"`
	Projections             []ProjectedPeriod `json:"projections"`
	DiscountedFlows         []DiscountedFlow  `json:"discounted_flows"`
	TerminalValue           float64           `json:"terminal_value"`
	DiscountedTerminalValue float64           `json:"discounted_terminal_value"`
	Result                  ValuationResult   `json:"result"`
	CurrentPrice            float64           `json:"current_price,omitempty"`
	UpsidePct               float64           `json:"upside_pct,omitempty"`
	GeneratedAt             time.Time         `json:"generated_at"`
}

// SensitivityReport is the full output of a sensitivity sweep.
type SensitivityReport struct {
	ID          string          `json:"id"`
	Ticker      string          `json:"ticker"`
	Inputs      ValuationInputs `json:"inputs"`
	Grid        SensitivityGrid `json:"grid"`
	GeneratedAt time.Time       `json:"generated_at"`
}
