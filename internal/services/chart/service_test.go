package chart

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/models"
	"github.com/bobmcallan/intrinsic/internal/storage/marketfs"
)

type fakeMarket struct {
	data *models.MarketData
}

func (f *fakeMarket) CollectMarketData(_ context.Context, _ string, _ bool) (*models.MarketData, error) {
	return f.data, nil
}

func (f *fakeMarket) GetMarketData(_ context.Context, _ string) (*models.MarketData, error) {
	return f.data, nil
}

func (f *fakeMarket) ListTickers(_ context.Context) ([]string, error) {
	return nil, nil
}

func historyBars(n int) []models.EODBar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.EODBar, n)
	for i := 0; i < n; i++ {
		// Newest-first with a mild uptrend and some wobble
		age := n - 1 - i
		bars[age] = models.EODBar{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + float64(i)*0.5 + float64(i%5),
		}
	}
	return bars
}

func TestGenerateMACDChart(t *testing.T) {
	store, err := marketfs.NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)

	market := &fakeMarket{data: &models.MarketData{
		Ticker: "NVDA.US",
		EOD:    historyBars(120),
	}}
	svc := NewService(market, store, common.NewSilentLogger())

	path, series, err := svc.GenerateMACDChart(context.Background(), "NVDA.US", 0)
	require.NoError(t, err)

	require.NotNil(t, series)
	assert.Equal(t, 12, series.FastPeriod)
	assert.Equal(t, 26, series.SlowPeriod)
	assert.Equal(t, 9, series.SignalPeriod)
	assert.NotEmpty(t, series.Points)

	assert.Contains(t, path, "nvda-us-macd.png")
}

func TestGenerateMACDChartNoHistory(t *testing.T) {
	store, err := marketfs.NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)

	svc := NewService(&fakeMarket{}, store, common.NewSilentLogger())

	_, _, err = svc.GenerateMACDChart(context.Background(), "NVDA.US", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cached price history")
}

func TestGenerateMACDChartInsufficientBars(t *testing.T) {
	store, err := marketfs.NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)

	market := &fakeMarket{data: &models.MarketData{
		Ticker: "NVDA.US",
		EOD:    historyBars(20),
	}}
	svc := NewService(market, store, common.NewSilentLogger())

	_, _, err = svc.GenerateMACDChart(context.Background(), "NVDA.US", 0)
	assert.Error(t, err)
}

func TestRenderMACDChartProducesPNG(t *testing.T) {
	series := &models.MACDSeries{
		Ticker:       "NVDA.US",
		FastPeriod:   12,
		SlowPeriod:   26,
		SignalPeriod: 9,
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		series.Points = append(series.Points, models.MACDPoint{
			Date:   start.AddDate(0, 0, i),
			MACD:   float64(i%7) - 3,
			Signal: float64(i%5) - 2,
		})
	}

	png, err := RenderMACDChart(series)
	require.NoError(t, err)

	// PNG magic bytes
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 0x50, 0x4e, 0x47}))
}

func TestRenderMACDChartTooFewPoints(t *testing.T) {
	series := &models.MACDSeries{Ticker: "NVDA.US", Points: []models.MACDPoint{{}}}
	_, err := RenderMACDChart(series)
	assert.Error(t, err)
}
