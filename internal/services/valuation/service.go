// Package valuation implements the valuation service: it resolves request
// assumptions against cached fundamentals and configured defaults, then runs
// the projection, discounting and sensitivity engines.
package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/models"
	"github.com/bobmcallan/intrinsic/internal/valuation"
)

// Service runs DCF valuations against cached market data.
type Service struct {
	market   interfaces.MarketService
	storage  interfaces.StorageManager
	logger   *common.Logger
	defaults common.ValuationConfig
}

// NewService creates a new valuation service.
func NewService(market interfaces.MarketService, storage interfaces.StorageManager, defaults common.ValuationConfig, logger *common.Logger) *Service {
	return &Service{
		market:   market,
		storage:  storage,
		logger:   logger,
		defaults: defaults,
	}
}

// RunValuation resolves assumptions and produces a full valuation report.
func (s *Service) RunValuation(ctx context.Context, ticker string, assumptions models.Assumptions) (*models.ValuationReport, error) {
	inputs, err := s.resolveInputs(ctx, ticker, assumptions)
	if err != nil {
		return nil, err
	}

	projections, err := valuation.Project(inputs.BaseRevenue, valuation.Schedule(inputs.Schedule))
	if err != nil {
		return nil, err
	}

	discounted, err := valuation.Discount(projections, inputs.DiscountRate, inputs.TerminalGrowth)
	if err != nil {
		return nil, err
	}

	result, err := valuation.Aggregate(discounted, inputs.NetDebt, inputs.SharesOutstanding)
	if err != nil {
		return nil, err
	}

	report := &models.ValuationReport{
		ID:                      uuid.NewString(),
		Ticker:                  ticker,
		Inputs:                  *inputs,
		Projections:             projections,
		DiscountedFlows:         discounted.Flows,
		TerminalValue:           discounted.TerminalValue,
		DiscountedTerminalValue: discounted.DiscountedTerminalValue,
		Result:                  *result,
		GeneratedAt:             time.Now().UTC(),
	}
	if inputs.CurrentPrice > 0 {
		report.CurrentPrice = inputs.CurrentPrice
		report.UpsidePct = valuation.UpsidePct(result.ImpliedPerShare, inputs.CurrentPrice)
	}

	s.logger.Info().
		Str("ticker", ticker).
		Float64("implied_per_share", result.ImpliedPerShare).
		Float64("discount_rate", inputs.DiscountRate).
		Float64("terminal_growth", inputs.TerminalGrowth).
		Msg("Valuation complete")

	return report, nil
}

// RunSensitivity sweeps implied per-share value over the two rate axes.
// Projection runs once; each cell only re-discounts and re-aggregates.
func (s *Service) RunSensitivity(ctx context.Context, ticker string, assumptions models.Assumptions, discountAxis, growthAxis []float64) (*models.SensitivityReport, error) {
	inputs, err := s.resolveInputs(ctx, ticker, assumptions)
	if err != nil {
		return nil, err
	}

	if len(discountAxis) == 0 {
		discountAxis = valuation.RateRange(inputs.DiscountRate-0.02, inputs.DiscountRate+0.02, 5)
	}
	if len(growthAxis) == 0 {
		growthAxis = valuation.RateRange(inputs.TerminalGrowth-0.01, inputs.TerminalGrowth+0.01, 5)
	}

	projections, err := valuation.Project(inputs.BaseRevenue, valuation.Schedule(inputs.Schedule))
	if err != nil {
		return nil, err
	}

	grid, err := valuation.Sweep(projections, discountAxis, growthAxis, inputs.NetDebt, inputs.SharesOutstanding)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("ticker", ticker).
		Int("rows", len(grid.DiscountAxis)).
		Int("cols", len(grid.GrowthAxis)).
		Msg("Sensitivity sweep complete")

	return &models.SensitivityReport{
		ID:          uuid.NewString(),
		Ticker:      ticker,
		Inputs:      *inputs,
		Grid:        *grid,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// resolveInputs merges caller assumptions with cached fundamentals and
// configured defaults into a fully specified input set.
func (s *Service) resolveInputs(ctx context.Context, ticker string, a models.Assumptions) (*models.ValuationInputs, error) {
	var fundamentals *models.Fundamentals
	var currentPrice float64

	if s.market != nil {
		data, err := s.market.GetMarketData(ctx, ticker)
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to read cached market data")
		}
		if data != nil {
			fundamentals = data.Fundamentals
			// Prefer a fresh quote over the last close
			if data.Quote != nil && data.Quote.Close > 0 {
				currentPrice = data.Quote.Close
			} else if len(data.EOD) > 0 {
				currentPrice = data.EOD[0].Close
			}
		}
	}

	inputs := &models.ValuationInputs{
		Ticker:         ticker,
		DiscountRate:   s.defaults.DiscountRate,
		TerminalGrowth: s.defaults.TerminalGrowth,
		CurrentPrice:   currentPrice,
	}

	if a.DiscountRate > 0 {
		inputs.DiscountRate = a.DiscountRate
	}
	if a.TerminalGrowth != 0 {
		inputs.TerminalGrowth = a.TerminalGrowth
	}
	if a.CurrentPrice > 0 {
		inputs.CurrentPrice = a.CurrentPrice
	}

	inputs.BaseRevenue = a.BaseRevenue
	if inputs.BaseRevenue <= 0 && fundamentals != nil {
		inputs.BaseRevenue = fundamentals.RevenueTTM
	}
	if inputs.BaseRevenue <= 0 {
		return nil, fmt.Errorf("no base revenue for %s: provide base_revenue or collect fundamentals first", ticker)
	}

	inputs.SharesOutstanding = a.SharesOutstanding
	if inputs.SharesOutstanding <= 0 && fundamentals != nil {
		inputs.SharesOutstanding = fundamentals.SharesOutstanding
	}
	if inputs.SharesOutstanding <= 0 {
		return nil, fmt.Errorf("%w: no share count for %s", valuation.ErrInvalidShareCount, ticker)
	}

	if a.NetDebt != nil {
		inputs.NetDebt = *a.NetDebt
	} else if fundamentals != nil {
		inputs.NetDebt = fundamentals.NetDebt()
	}

	inputs.Schedule = s.resolveSchedule(a)

	return inputs, nil
}

// resolveSchedule builds the growth schedule: an explicit schedule wins, then
// a growth ramp paired with a margin, then the configured defaults.
func (s *Service) resolveSchedule(a models.Assumptions) []models.GrowthStep {
	if len(a.Schedule) > 0 {
		return a.Schedule
	}

	margin := a.Margin
	if margin <= 0 {
		margin = s.defaults.FCFMargin
	}
	horizon := a.Horizon
	if horizon <= 0 {
		horizon = s.defaults.Horizon
	}

	growths := a.Growths
	if len(growths) == 0 {
		growths = s.defaults.GrowthRamp
	}
	if len(growths) == 0 {
		growths = []float64{s.defaults.TerminalGrowth}
	}

	schedule := make([]models.GrowthStep, horizon)
	for i := range schedule {
		g := growths[len(growths)-1]
		if i < len(growths) {
			g = growths[i]
		}
		schedule[i] = models.GrowthStep{Growth: g, Margin: margin}
	}
	return schedule
}

// Ensure Service implements ValuationService
var _ interfaces.ValuationService = (*Service)(nil)
