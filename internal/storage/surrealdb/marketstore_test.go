package surrealdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/intrinsic/internal/models"
)

func newTestMarketData(ticker, exchange string) *models.MarketData {
	return &models.MarketData{
		Ticker:   ticker,
		Exchange: exchange,
		Name:     ticker + " Corp",
		EOD: []models.EODBar{
			{
				Date:     time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC),
				Open:     100.0,
				High:     105.0,
				Low:      99.0,
				Close:    103.0,
				AdjClose: 103.0,
				Volume:   1000000,
			},
		},
		Fundamentals: &models.Fundamentals{
			Ticker:            ticker,
			SharesOutstanding: 2.46e9,
			RevenueTTM:        6.092e10,
			TotalDebt:         1.0e10,
			CashAndEquiv:      4.3e10,
		},
	}
}

func TestMarketStoreRoundTrip(t *testing.T) {
	store := NewMarketStore(testDB(t), testLogger())
	ctx := context.Background()

	data := newTestMarketData("NVDA.US", "US")
	require.NoError(t, store.SaveMarketData(ctx, data))
	assert.False(t, data.LastUpdated.IsZero(), "save should stamp LastUpdated")

	got, err := store.GetMarketData(ctx, "NVDA.US")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "NVDA.US", got.Ticker)
	assert.Equal(t, "US", got.Exchange)
	assert.Len(t, got.EOD, 1)
	require.NotNil(t, got.Fundamentals)
	assert.InDelta(t, 2.46e9, got.Fundamentals.SharesOutstanding, 1)
	assert.Less(t, got.Fundamentals.NetDebt(), 0.0, "net-cash position survives the round trip")
}

func TestMarketStoreUpsertOverwrites(t *testing.T) {
	store := NewMarketStore(testDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveMarketData(ctx, newTestMarketData("NVDA.US", "US")))

	updated := newTestMarketData("NVDA.US", "US")
	updated.Name = "NVIDIA Corporation"
	require.NoError(t, store.SaveMarketData(ctx, updated))

	got, err := store.GetMarketData(ctx, "NVDA.US")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "NVIDIA Corporation", got.Name)

	tickers, err := store.ListTickers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"NVDA.US"}, tickers, "upsert must not duplicate records")
}

func TestMarketStoreMissingTicker(t *testing.T) {
	store := NewMarketStore(testDB(t), testLogger())

	got, err := store.GetMarketData(context.Background(), "UNKNOWN.US")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMarketStoreDelete(t *testing.T) {
	store := NewMarketStore(testDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveMarketData(ctx, newTestMarketData("AMD.US", "US")))
	require.NoError(t, store.DeleteMarketData(ctx, "AMD.US"))

	got, err := store.GetMarketData(ctx, "AMD.US")
	require.NoError(t, err)
	assert.Nil(t, got)
}
