// Package interfaces defines service contracts for Intrinsic
package interfaces

import (
	"context"

	"github.com/bobmcallan/intrinsic/internal/models"
)

// StorageManager coordinates storage backends
type StorageManager interface {
	// MarketDataStorage returns the market data store
	MarketDataStorage() MarketDataStorage

	// DataPath returns the base data directory path
	DataPath() string

	// WriteRaw writes arbitrary binary data (charts, CSV exports) to a
	// subdirectory atomically. Key is sanitized for safe filenames
	// (e.g. "nvda-macd.png"). Returns the written file path.
	WriteRaw(subdir, key string, data []byte) (string, error)

	// Lifecycle
	Close() error
}

// MarketDataStorage manages cached market data per ticker
type MarketDataStorage interface {
	// SaveMarketData persists market data for a ticker
	SaveMarketData(ctx context.Context, data *models.MarketData) error

	// GetMarketData retrieves market data for a ticker.
	// Returns nil without error when the ticker has never been collected.
	GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error)

	// ListTickers returns all tickers with cached data
	ListTickers(ctx context.Context) ([]string, error)

	// DeleteMarketData removes cached data for a ticker
	DeleteMarketData(ctx context.Context, ticker string) error
}
