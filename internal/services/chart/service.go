// Package chart renders indicator charts from cached price history.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/models"
	"github.com/bobmcallan/intrinsic/internal/signals"
)

// Standard MACD parameters.
const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// Service renders charts and stores them as raw artifacts.
type Service struct {
	market  interfaces.MarketService
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new chart service.
func NewService(market interfaces.MarketService, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		market:  market,
		storage: storage,
		logger:  logger,
	}
}

// GenerateMACDChart computes MACD(12,26,9) over the newest `days` bars of
// cached history, renders it as a PNG and writes it under charts/.
func (s *Service) GenerateMACDChart(ctx context.Context, ticker string, days int) (string, *models.MACDSeries, error) {
	data, err := s.market.GetMarketData(ctx, ticker)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load market data: %w", err)
	}
	if data == nil || len(data.EOD) == 0 {
		return "", nil, fmt.Errorf("no cached price history for %s: collect market data first", ticker)
	}

	bars := data.EOD
	if days > 0 && len(bars) > days {
		bars = bars[:days]
	}

	series, err := signals.ComputeMACD(ticker, bars, macdFast, macdSlow, macdSignal)
	if err != nil {
		return "", nil, err
	}

	png, err := RenderMACDChart(series)
	if err != nil {
		return "", nil, err
	}

	key := fmt.Sprintf("%s-macd.png", strings.ToLower(strings.ReplaceAll(ticker, ".", "-")))
	path, err := s.storage.WriteRaw("charts", key, png)
	if err != nil {
		return "", nil, fmt.Errorf("failed to store chart: %w", err)
	}

	s.logger.Info().
		Str("ticker", ticker).
		Str("path", path).
		Int("points", len(series.Points)).
		Msg("MACD chart generated")

	return path, series, nil
}

// RenderMACDChart renders a MACD series as a PNG line chart: MACD line
// (blue), signal line (orange dashed), histogram (thin gray), a zero baseline
// and the close price on the secondary axis. Returns raw PNG bytes.
func RenderMACDChart(series *models.MACDSeries) ([]byte, error) {
	if len(series.Points) < 2 {
		return nil, fmt.Errorf("need at least 2 MACD points, got %d", len(series.Points))
	}

	xValues := make([]time.Time, len(series.Points))
	macdY := make([]float64, len(series.Points))
	signalY := make([]float64, len(series.Points))
	histY := make([]float64, len(series.Points))
	closeY := make([]float64, len(series.Points))
	zeroY := make([]float64, len(series.Points))

	for i, p := range series.Points {
		xValues[i] = p.Date
		macdY[i] = p.MACD
		signalY[i] = p.Signal
		histY[i] = p.Histogram
		closeY[i] = p.Close
	}

	macdSeries := chart.TimeSeries{
		Name: "MACD",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.0,
		},
		XValues: xValues,
		YValues: macdY,
	}

	signalSeries := chart.TimeSeries{
		Name: "Signal",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("f59e0b"), // amber-500
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: signalY,
	}

	histSeries := chart.TimeSeries{
		Name: "Histogram",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("6b7280"), // gray-500
			StrokeWidth: 1.0,
		},
		XValues: xValues,
		YValues: histY,
	}

	closeSeries := chart.TimeSeries{
		Name:  "Close",
		YAxis: chart.YAxisSecondary,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("10b981"), // emerald-500
			StrokeWidth: 1.5,
		},
		XValues: xValues,
		YValues: closeY,
	}

	zeroSeries := chart.TimeSeries{
		Name: "Zero",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth: 1.0,
		},
		XValues: xValues,
		YValues: zeroY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s MACD (%d,%d,%d)", series.Ticker, series.FastPeriod, series.SlowPeriod, series.SignalPeriod),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		YAxisSecondary: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			macdSeries,
			signalSeries,
			histSeries,
			closeSeries,
			zeroSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Ensure Service implements ChartService
var _ interfaces.ChartService = (*Service)(nil)
