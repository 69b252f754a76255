// Package models defines data structures for Intrinsic
package models

import "time"

// Segment is one revenue segment with its growth assumptions.
// Damping optionally scales the growth rate per forecast year (a value per
// year; missing years reuse the last factor) to model diversification away
// from or toward the segment.
type Segment struct {
	Name    string    `json:"name"`
	Revenue float64   `json:"revenue"` // base-year revenue
	Growth  float64   `json:"growth"`  // decimal fraction, may be negative
	Damping []float64 `json:"damping,omitempty"`
}

// SegmentRevenue is one segment's revenue within a forecast year.
type SegmentRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Share   float64 `json:"share"` // fraction of that year's total
}

// ForecastYear is one projected year across all segments.
type ForecastYear struct {
	Year         int              `json:"year"` // 1-indexed from base year
	Segments     []SegmentRevenue `json:"segments"`
	TotalRevenue float64          `json:"total_revenue"`
}

// SegmentForecast is a multi-year segment revenue forecast.
type SegmentForecast struct {
	Ticker      string         `json:"ticker,omitempty"`
	BaseRevenue float64        `json:"base_revenue"`
	Years       []ForecastYear `json:"years"`
	GeneratedAt time.Time      `json:"generated_at"`
}
