// Package market implements market data collection with per-component
// freshness gating.
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/models"
)

// Service collects and caches market data from EODHD.
type Service struct {
	eodhd   interfaces.EODHDClient
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new market service.
func NewService(eodhd interfaces.EODHDClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		eodhd:   eodhd,
		storage: storage,
		logger:  logger,
	}
}

// CollectMarketData fetches EOD bars and fundamentals for a ticker, skipping
// components that are still fresh unless force is set.
func (s *Service) CollectMarketData(ctx context.Context, ticker string, force bool) (*models.MarketData, error) {
	if s.eodhd == nil {
		return nil, fmt.Errorf("EODHD client not configured")
	}
	now := time.Now()

	existing, err := s.storage.MarketDataStorage().GetMarketData(ctx, ticker)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to read cached market data, refetching")
	}

	data := existing
	if data == nil {
		data = &models.MarketData{
			Ticker:   ticker,
			Exchange: extractExchange(ticker),
		}
	}

	if force || !common.IsFresh(data.EODUpdatedAt, common.FreshnessEOD) {
		if err := s.collectEOD(ctx, data, force, now); err != nil {
			return nil, err
		}
	}

	if force || data.Fundamentals == nil || !common.IsFresh(data.FundamentalsUpdatedAt, common.FreshnessFundamentals) {
		if err := s.collectFundamentals(ctx, data, now); err != nil {
			return nil, err
		}
	}

	if force || !common.IsFresh(data.QuoteUpdatedAt, common.FreshnessQuote) {
		// A stale quote is not fatal; valuations fall back to the last close
		if quote, err := s.eodhd.GetRealTimeQuote(ctx, data.Ticker); err != nil {
			s.logger.Warn().Str("ticker", data.Ticker).Err(err).Msg("Failed to fetch real-time quote")
		} else {
			data.Quote = quote
			data.QuoteUpdatedAt = now
		}
	}

	if err := s.storage.MarketDataStorage().SaveMarketData(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to save market data: %w", err)
	}

	s.logger.Info().
		Str("ticker", ticker).
		Int("bars", len(data.EOD)).
		Bool("force", force).
		Msg("Market data collected")

	return data, nil
}

// collectEOD fetches bars, incrementally when possible.
func (s *Service) collectEOD(ctx context.Context, data *models.MarketData, force bool, now time.Time) error {
	if !force && len(data.EOD) > 0 {
		// Incremental fetch: only bars after the latest stored date
		fromDate := data.EOD[0].Date.AddDate(0, 0, 1)
		if fromDate.Before(now) {
			resp, err := s.eodhd.GetEOD(ctx, data.Ticker, interfaces.WithDateRange(fromDate, now))
			if err != nil {
				return fmt.Errorf("failed to fetch incremental EOD data: %w", err)
			}
			if len(resp.Data) > 0 {
				data.EOD = mergeEODBars(resp.Data, data.EOD)
			}
		}
		data.EODUpdatedAt = now
		return nil
	}

	resp, err := s.eodhd.GetEOD(ctx, data.Ticker, interfaces.WithDateRange(now.AddDate(-3, 0, 0), now))
	if err != nil {
		return fmt.Errorf("failed to fetch EOD data: %w", err)
	}
	data.EOD = resp.Data
	data.EODUpdatedAt = now
	return nil
}

func (s *Service) collectFundamentals(ctx context.Context, data *models.MarketData, now time.Time) error {
	fundamentals, err := s.eodhd.GetFundamentals(ctx, data.Ticker)
	if err != nil {
		return fmt.Errorf("failed to fetch fundamentals: %w", err)
	}
	data.Fundamentals = fundamentals
	data.FundamentalsUpdatedAt = now
	if fundamentals.Name != "" {
		data.Name = fundamentals.Name
	}
	return nil
}

// GetMarketData returns cached data without fetching.
func (s *Service) GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error) {
	return s.storage.MarketDataStorage().GetMarketData(ctx, ticker)
}

// ListTickers returns all tickers with cached market data.
func (s *Service) ListTickers(ctx context.Context) ([]string, error) {
	return s.storage.MarketDataStorage().ListTickers(ctx)
}

// mergeEODBars merges new bars into existing ones, newest-first, replacing
// bars that share a date (e.g. today's bar updated intraday).
func mergeEODBars(newBars, existingBars []models.EODBar) []models.EODBar {
	seen := make(map[string]struct{}, len(newBars))
	merged := make([]models.EODBar, 0, len(newBars)+len(existingBars))

	for _, b := range newBars {
		merged = append(merged, b)
		seen[b.Date.Format("2006-01-02")] = struct{}{}
	}
	for _, b := range existingBars {
		if _, replaced := seen[b.Date.Format("2006-01-02")]; !replaced {
			merged = append(merged, b)
		}
	}
	return merged
}

func extractExchange(ticker string) string {
	for i := len(ticker) - 1; i >= 0; i-- {
		if ticker[i] == '.' {
			return ticker[i+1:]
		}
	}
	return ""
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
