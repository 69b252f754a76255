// Package models defines data structures for Intrinsic
package models

import (
	"time"
)

// RealTimeQuote holds a live OHLCV snapshot from the price source
type RealTimeQuote struct {
	Code          string    `json:"code"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`          // current/last price
	PreviousClose float64   `json:"previous_close"` // previous day's close
	Change        float64   `json:"change"`         // absolute change from previous close
	ChangePct     float64   `json:"change_p"`       // percentage change from previous close
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// MarketData holds all cached market data for a ticker
type MarketData struct {
	Ticker       string        `json:"ticker"`
	Exchange     string        `json:"exchange"`
	Name         string        `json:"name"`
	EOD          []EODBar       `json:"eod"`
	Fundamentals *Fundamentals  `json:"fundamentals,omitempty"`
	Quote        *RealTimeQuote `json:"quote,omitempty"`
	LastUpdated  time.Time      `json:"last_updated"`
	// Per-component freshness timestamps
	EODUpdatedAt          time.Time `json:"eod_updated_at"`
	FundamentalsUpdatedAt time.Time `json:"fundamentals_updated_at"`
	QuoteUpdatedAt        time.Time `json:"quote_updated_at"`
}

// EODBar represents a single day's price data.
// Bars are stored newest-first: EOD[0] is the latest trading day.
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// Fundamentals contains the fundamental figures a valuation needs
type Fundamentals struct {
	Ticker            string    `json:"ticker"`
	Name              string    `json:"name,omitempty"`
	MarketCap         float64   `json:"market_cap"`
	PE                float64   `json:"pe_ratio"`
	EPS               float64   `json:"eps"`
	Beta              float64   `json:"beta"`
	SharesOutstanding float64   `json:"shares_outstanding"`
	RevenueTTM        float64   `json:"revenue_ttm"`
	TotalDebt         float64   `json:"total_debt"`
	CashAndEquiv      float64   `json:"cash_and_equivalents"`
	Sector            string    `json:"sector"`
	Industry          string    `json:"industry"`
	LastUpdated       time.Time `json:"last_updated"`
}

// NetDebt returns total debt less cash. Negative means a net-cash position.
func (f *Fundamentals) NetDebt() float64 {
	return f.TotalDebt - f.CashAndEquiv
}

// EODResponse represents the EODHD API response
type EODResponse struct {
	Data []EODBar `json:"data"`
}

// MACDPoint is one dated sample of the MACD indicator set.
type MACDPoint struct {
	Date      time.Time `json:"date"`
	Close     float64   `json:"close"`
	MACD      float64   `json:"macd"`
	Signal    float64   `json:"signal"`
	Histogram float64   `json:"histogram"`
}

// MACDSeries is a full MACD computation over a bar history, oldest-first
// for direct chart rendering.
type MACDSeries struct {
	Ticker       string      `json:"ticker"`
	FastPeriod   int         `json:"fast_period"`
	SlowPeriod   int         `json:"slow_period"`
	SignalPeriod int         `json:"signal_period"`
	Points       []MACDPoint `json:"points"`
	GeneratedAt  time.Time   `json:"generated_at"`
}
