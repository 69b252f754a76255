// Package interfaces defines service contracts for Intrinsic
package interfaces

import (
	"context"

	"github.com/bobmcallan/intrinsic/internal/models"
)

// MarketService handles market data collection and retrieval
type MarketService interface {
	// CollectMarketData fetches and caches market data for a ticker.
	// When force is true, all components are re-fetched regardless of
	// freshness; otherwise stale components are refreshed individually.
	CollectMarketData(ctx context.Context, ticker string, force bool) (*models.MarketData, error)

	// GetMarketData returns cached data without fetching.
	// Returns nil without error when nothing is cached.
	GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error)

	// ListTickers returns all tickers with cached market data
	ListTickers(ctx context.Context) ([]string, error)
}

// ValuationService runs discounted cash flow valuations
type ValuationService interface {
	// RunValuation resolves assumptions against cached fundamentals and
	// produces a full valuation report for the ticker.
	RunValuation(ctx context.Context, ticker string, assumptions models.Assumptions) (*models.ValuationReport, error)

	// RunSensitivity sweeps implied per-share value over discount-rate and
	// terminal-growth axes. Empty axes fall back to ranges centered on the
	// resolved base rates.
	RunSensitivity(ctx context.Context, ticker string, assumptions models.Assumptions, discountAxis, growthAxis []float64) (*models.SensitivityReport, error)

	// FormatReport renders a valuation report as markdown
	FormatReport(report *models.ValuationReport) string

	// FormatSensitivity renders a sensitivity grid as markdown
	FormatSensitivity(report *models.SensitivityReport) string

	// SensitivityCSV renders a sensitivity grid as CSV; invalid cells are
	// left empty
	SensitivityCSV(report *models.SensitivityReport) ([]byte, error)
}

// ChartService renders indicator charts
type ChartService interface {
	// GenerateMACDChart computes MACD over cached price history and renders
	// it as a PNG, returning the stored file path and the series.
	GenerateMACDChart(ctx context.Context, ticker string, days int) (string, *models.MACDSeries, error)
}

// ForecastService projects multi-segment revenue
type ForecastService interface {
	// ForecastSegments compounds each segment's revenue over the horizon
	ForecastSegments(ctx context.Context, ticker string, segments []models.Segment, years int) (*models.SegmentForecast, error)

	// FormatForecast renders a segment forecast as CSV
	FormatForecast(forecast *models.SegmentForecast) string
}
