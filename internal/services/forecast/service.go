// Package forecast projects multi-segment revenue over a horizon.
package forecast

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/models"
)

// Service compounds per-segment revenue growth.
type Service struct {
	logger *common.Logger
}

// NewService creates a new forecast service.
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// ForecastSegments compounds each segment's revenue over the horizon.
// A segment's growth may be damped per year via its Damping factors; when the
// horizon outruns the factors the last one repeats.
func (s *Service) ForecastSegments(ctx context.Context, ticker string, segments []models.Segment, years int) (*models.SegmentForecast, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("forecast requires at least one segment")
	}
	if years <= 0 {
		return nil, fmt.Errorf("forecast years must be positive, got %d", years)
	}
	for _, seg := range segments {
		if seg.Name == "" {
			return nil, fmt.Errorf("segment name must not be empty")
		}
		if seg.Growth <= -1 {
			return nil, fmt.Errorf("segment %s growth must exceed -100%%, got %.4f", seg.Name, seg.Growth)
		}
	}

	baseRevenue := 0.0
	for _, seg := range segments {
		baseRevenue += seg.Revenue
	}

	revenues := make([]float64, len(segments))
	for i, seg := range segments {
		revenues[i] = seg.Revenue
	}

	forecast := &models.SegmentForecast{
		Ticker:      ticker,
		BaseRevenue: baseRevenue,
		Years:       make([]models.ForecastYear, years),
		GeneratedAt: time.Now().UTC(),
	}

	for y := 0; y < years; y++ {
		year := models.ForecastYear{
			Year:     y + 1,
			Segments: make([]models.SegmentRevenue, len(segments)),
		}

		for i, seg := range segments {
			revenues[i] *= 1 + dampedGrowth(seg, y)
			year.Segments[i] = models.SegmentRevenue{
				Name:    seg.Name,
				Revenue: revenues[i],
			}
			year.TotalRevenue += revenues[i]
		}

		if year.TotalRevenue > 0 {
			for i := range year.Segments {
				year.Segments[i].Share = year.Segments[i].Revenue / year.TotalRevenue
			}
		}

		forecast.Years[y] = year
	}

	s.logger.Info().
		Str("ticker", ticker).
		Int("segments", len(segments)).
		Int("years", years).
		Float64("final_revenue", forecast.Years[years-1].TotalRevenue).
		Msg("Segment forecast complete")

	return forecast, nil
}

// dampedGrowth returns the segment's growth rate for forecast year y
// (0-indexed), applying the damping factor for that year if present.
func dampedGrowth(seg models.Segment, y int) float64 {
	if len(seg.Damping) == 0 {
		return seg.Growth
	}
	factor := seg.Damping[len(seg.Damping)-1]
	if y < len(seg.Damping) {
		factor = seg.Damping[y]
	}
	return seg.Growth * factor
}

// FormatForecast renders a segment forecast as CSV: one row per year with a
// column per segment plus the total.
func (s *Service) FormatForecast(forecast *models.SegmentForecast) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if len(forecast.Years) == 0 {
		return ""
	}

	header := []string{"year"}
	for _, seg := range forecast.Years[0].Segments {
		header = append(header, seg.Name)
	}
	header = append(header, "total")
	w.Write(header)

	for _, year := range forecast.Years {
		row := []string{strconv.Itoa(year.Year)}
		for _, seg := range year.Segments {
			row = append(row, strconv.FormatFloat(seg.Revenue, 'f', 2, 64))
		}
		row = append(row, strconv.FormatFloat(year.TotalRevenue, 'f', 2, 64))
		w.Write(row)
	}

	w.Flush()
	return buf.String()
}

// Ensure Service implements ForecastService
var _ interfaces.ForecastService = (*Service)(nil)
