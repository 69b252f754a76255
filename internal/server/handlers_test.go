package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/intrinsic/internal/app"
	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/models"
	"github.com/bobmcallan/intrinsic/internal/services/chart"
	"github.com/bobmcallan/intrinsic/internal/services/forecast"
	svcvaluation "github.com/bobmcallan/intrinsic/internal/services/valuation"
	"github.com/bobmcallan/intrinsic/internal/storage/marketfs"
)

// fakeMarket serves canned market data without touching EODHD.
type fakeMarket struct {
	data map[string]*models.MarketData
}

func (f *fakeMarket) CollectMarketData(ctx context.Context, ticker string, force bool) (*models.MarketData, error) {
	if d, ok := f.data[ticker]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("eodhd: unknown ticker %s", ticker)
}

func (f *fakeMarket) GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error) {
	return f.data[ticker], nil
}

func (f *fakeMarket) ListTickers(ctx context.Context) ([]string, error) {
	tickers := make([]string, 0, len(f.data))
	for t := range f.data {
		tickers = append(tickers, t)
	}
	return tickers, nil
}

func testMarketData() *models.MarketData {
	// Enough history for a 12/26/9 MACD.
	bars := make([]models.EODBar, 60)
	for i := range bars {
		bars[i] = models.EODBar{
			Date:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i),
			Close: 111.5 - float64(i)*0.5,
		}
	}
	return &models.MarketData{
		Ticker:   "NVDA.US",
		Exchange: "US",
		Name:     "NVIDIA Corporation",
		EOD:      bars,
		Fundamentals: &models.Fundamentals{
			Ticker:            "NVDA.US",
			SharesOutstanding: 2.46e9,
			RevenueTTM:        6.092e10,
			TotalDebt:         1.0e10,
			CashAndEquiv:      4.3e10,
		},
		LastUpdated: time.Now().UTC(),
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	store, err := marketfs.NewStore(logger, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	config := common.NewDefaultConfig()
	market := &fakeMarket{data: map[string]*models.MarketData{"NVDA.US": testMarketData()}}

	a := &app.App{
		Config:           config,
		Logger:           logger,
		Storage:          store,
		MarketService:    market,
		ValuationService: svcvaluation.NewService(market, store, config.Valuation, logger),
		ChartService:     chart.NewService(market, store, logger),
		ForecastService:  forecast.NewService(logger),
		StartupTime:      time.Now(),
	}
	return NewServer(a)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(blob)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "file", body["backend"])

	rec = doJSON(t, h, http.MethodPost, "/api/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestVersionEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["version"])
}

func TestMarketCollect(t *testing.T) {
	h := testServer(t).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/market/collect", map[string]interface{}{
		"ticker": "NVDA.US",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "NVDA.US", body["ticker"])
	assert.Equal(t, float64(60), body["bars"])
	assert.Equal(t, true, body["fundamentals"])

	rec = doJSON(t, h, http.MethodPost, "/api/market/collect", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/market/collect", map[string]interface{}{
		"ticker": "UNKNOWN.US",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMarketTickers(t *testing.T) {
	h := testServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/market/tickers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	tickers, ok := body["tickers"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, tickers, "NVDA.US")
}

func TestValuationEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/valuation/NVDA.US", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "NVDA.US", body["ticker"])
	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Greater(t, result["implied_per_share"], float64(0))

	// Markdown rendering
	rec = doJSON(t, h, http.MethodPost, "/api/valuation/NVDA.US?format=markdown", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "| Year |")

	// Terminal growth at the discount rate violates the engine contract
	rec = doJSON(t, h, http.MethodPost, "/api/valuation/NVDA.US", map[string]interface{}{
		"discount_rate":   0.05,
		"terminal_growth": 0.05,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/valuation/", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSensitivityEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/valuation/NVDA.US/sensitivity", map[string]interface{}{
		"discount_rates":   []float64{0.08, 0.10, 0.12},
		"terminal_growths": []float64{0.02, 0.03},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	grid, ok := body["grid"].(map[string]interface{})
	require.True(t, ok)
	cells, ok := grid["cells"].([]interface{})
	require.True(t, ok)
	assert.Len(t, cells, 3)

	rec = doJSON(t, h, http.MethodPost, "/api/valuation/NVDA.US/sensitivity?format=markdown", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")

	rec = doJSON(t, h, http.MethodPost, "/api/valuation/NVDA.US/sensitivity?format=csv", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "discount_rate,"))
}

func TestChartEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/chart/NVDA.US/macd", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	path, ok := body["path"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(path, "nvda-us-macd.png"))

	rec = doJSON(t, h, http.MethodGet, "/api/chart/NVDA.US/macd?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/chart/NVDA.US/rsi", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForecastEndpoint(t *testing.T) {
	h := testServer(t).Handler()

	req := map[string]interface{}{
		"ticker": "NVDA.US",
		"years":  3,
		"segments": []map[string]interface{}{
			{"name": "Data Center", "revenue": 47.5, "growth": 0.40},
			{"name": "Gaming", "revenue": 10.4, "growth": 0.05},
		},
	}

	rec := doJSON(t, h, http.MethodPost, "/api/forecast", req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	years, ok := body["years"].([]interface{})
	require.True(t, ok)
	assert.Len(t, years, 3)

	rec = doJSON(t, h, http.MethodPost, "/api/forecast?format=csv", req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "year,"))

	rec = doJSON(t, h, http.MethodPost, "/api/forecast", map[string]interface{}{
		"segments": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShutdownEndpoint(t *testing.T) {
	srv := testServer(t)
	ch := make(chan struct{}, 1)
	srv.SetShutdownChannel(ch)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/shutdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown signal not received")
	}
}

func TestShutdownBlockedInProduction(t *testing.T) {
	srv := testServer(t)
	srv.app.Config.Environment = "production"

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/shutdown", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
