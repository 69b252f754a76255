package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/models"
)

// MarketStore persists cached market data in the market_data table, one
// record per ticker.
type MarketStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewMarketStore(db *surrealdb.DB, logger *common.Logger) *MarketStore {
	return &MarketStore{
		db:     db,
		logger: logger,
	}
}

func (s *MarketStore) GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error) {
	data, err := surrealdb.Select[models.MarketData](ctx, s.db, surrealmodels.NewRecordID("market_data", ticker))
	if err != nil {
		return nil, fmt.Errorf("failed to select market data: %w", err)
	}
	if data == nil || data.Ticker == "" {
		return nil, nil
	}
	return data, nil
}

func (s *MarketStore) SaveMarketData(ctx context.Context, data *models.MarketData) error {
	data.LastUpdated = time.Now()

	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("market_data", data.Ticker), "data": data}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.MarketData](ctx, s.db, sql, vars)
		if err == nil {
			s.logger.Debug().Str("ticker", data.Ticker).Int("attempt", attempt).Msg("Market data saved")
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save market data after retries: %w", lastErr)
}

func (s *MarketStore) ListTickers(ctx context.Context) ([]string, error) {
	sql := "SELECT ticker FROM market_data"

	type tickerResult struct {
		Ticker string `json:"ticker"`
	}

	results, err := surrealdb.Query[[]tickerResult](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}

	var tickers []string
	if results != nil && len(*results) > 0 {
		for _, res := range (*results)[0].Result {
			tickers = append(tickers, res.Ticker)
		}
	}
	return tickers, nil
}

func (s *MarketStore) DeleteMarketData(ctx context.Context, ticker string) error {
	_, err := surrealdb.Delete[models.MarketData](ctx, s.db, surrealmodels.NewRecordID("market_data", ticker))
	if err != nil {
		return fmt.Errorf("failed to delete market data for %s: %w", ticker, err)
	}
	return nil
}

// Ensure MarketStore implements MarketDataStorage
var _ interfaces.MarketDataStorage = (*MarketStore)(nil)
