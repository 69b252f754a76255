// Package signals provides technical indicator calculations
package signals

import (
	"fmt"
	"time"

	"github.com/bobmcallan/intrinsic/internal/models"
)

// SMA calculates Simple Moving Average over the newest `period` bars
func SMA(bars []models.EODBar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += bars[i].Close
	}
	return sum / float64(period)
}

// EMA calculates the latest Exponential Moving Average value for the period
func EMA(bars []models.EODBar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	closes := closesOldestFirst(bars)
	series := emaSeries(closes, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// RSI calculates Relative Strength Index over the newest `period` bars
func RSI(bars []models.EODBar, period int) float64 {
	if len(bars) < period+1 {
		return 50 // Neutral default
	}

	var gains, losses float64
	for i := 0; i < period; i++ {
		change := bars[i].Close - bars[i+1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// ComputeMACD calculates the full MACD series over a bar history.
// Bars arrive newest-first; the returned series is oldest-first so charts
// can render it left to right. The signal line is a true EMA of the MACD
// line, seeded with an SMA over the first signalPeriod samples.
func ComputeMACD(ticker string, bars []models.EODBar, fastPeriod, slowPeriod, signalPeriod int) (*models.MACDSeries, error) {
	if fastPeriod <= 0 || slowPeriod <= 0 || signalPeriod <= 0 {
		return nil, fmt.Errorf("macd periods must be positive: fast=%d slow=%d signal=%d", fastPeriod, slowPeriod, signalPeriod)
	}
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("macd fast period %d must be shorter than slow period %d", fastPeriod, slowPeriod)
	}
	minBars := slowPeriod + signalPeriod
	if len(bars) < minBars {
		return nil, fmt.Errorf("macd needs at least %d bars, have %d", minBars, len(bars))
	}

	closes := closesOldestFirst(bars)
	dates := make([]time.Time, len(bars))
	for i, b := range bars {
		dates[len(bars)-1-i] = b.Date
	}

	fast := emaSeries(closes, fastPeriod)
	slow := emaSeries(closes, slowPeriod)

	// The slow EMA starts later; align both to the slow EMA's first sample.
	offset := slowPeriod - fastPeriod
	macdLine := make([]float64, len(slow))
	for i := range slow {
		macdLine[i] = fast[i+offset] - slow[i]
	}

	signal := emaSeries(macdLine, signalPeriod)

	// The signal line starts signalPeriod-1 samples into the MACD line.
	start := signalPeriod - 1
	points := make([]models.MACDPoint, len(signal))
	for i := range signal {
		m := macdLine[start+i]
		barIdx := slowPeriod - 1 + start + i
		points[i] = models.MACDPoint{
			Date:      dates[barIdx],
			Close:     closes[barIdx],
			MACD:      m,
			Signal:    signal[i],
			Histogram: m - signal[i],
		}
	}

	return &models.MACDSeries{
		Ticker:       ticker,
		FastPeriod:   fastPeriod,
		SlowPeriod:   slowPeriod,
		SignalPeriod: signalPeriod,
		Points:       points,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// closesOldestFirst reverses the newest-first bar convention into a plain
// close-price slice suitable for forward EMA recursion.
func closesOldestFirst(bars []models.EODBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[len(bars)-1-i] = b.Close
	}
	return closes
}

// emaSeries computes the EMA over values (oldest-first), seeded with the
// SMA of the first `period` values. The result has len(values)-period+1
// samples; result[0] corresponds to values[period-1].
func emaSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)

	multiplier := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)

	ema := seed
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out = append(out, ema)
	}
	return out
}
