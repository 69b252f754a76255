package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/models"
	"github.com/bobmcallan/intrinsic/internal/valuation"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).String(),
		"backend": s.app.Config.Storage.Backend,
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// collectRequest is the body for POST /api/market/collect.
type collectRequest struct {
	Ticker string `json:"ticker"`
	Force  bool   `json:"force"`
}

// handleMarketCollect handles POST /api/market/collect.
func (s *Server) handleMarketCollect(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req collectRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	data, err := s.app.MarketService.CollectMarketData(r.Context(), req.Ticker, req.Force)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Collection failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":       data.Ticker,
		"name":         data.Name,
		"bars":         len(data.EOD),
		"fundamentals": data.Fundamentals != nil,
		"last_updated": data.LastUpdated,
	})
}

// handleMarketTickers handles GET /api/market/tickers.
func (s *Server) handleMarketTickers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tickers, err := s.app.MarketService.ListTickers(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list tickers: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"tickers": tickers})
}

// valuationRequest is the body for the valuation endpoints: the assumption
// overrides plus, for sensitivity, the two rate axes.
type valuationRequest struct {
	models.Assumptions
	DiscountRates   []float64 `json:"discount_rates,omitempty"`
	TerminalGrowths []float64 `json:"terminal_growths,omitempty"`
}

// routeValuation dispatches /api/valuation/{ticker} and
// /api/valuation/{ticker}/sensitivity.
func (s *Server) routeValuation(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/valuation/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		s.handleValuation(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "sensitivity":
		s.handleSensitivity(w, r, parts[0])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleValuation handles POST /api/valuation/{ticker}.
func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req valuationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := s.app.ValuationService.RunValuation(r.Context(), ticker, req.Assumptions)
	if err != nil {
		writeValuationError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(s.app.ValuationService.FormatReport(report)))
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handleSensitivity handles POST /api/valuation/{ticker}/sensitivity.
func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req valuationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := s.app.ValuationService.RunSensitivity(r.Context(), ticker, req.Assumptions, req.DiscountRates, req.TerminalGrowths)
	if err != nil {
		writeValuationError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(s.app.ValuationService.FormatSensitivity(report)))
	case "csv":
		blob, err := s.app.ValuationService.SensitivityCSV(report)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write(blob)
	default:
		WriteJSON(w, http.StatusOK, report)
	}
}

// routeChart dispatches /api/chart/{ticker}/macd.
func (s *Server) routeChart(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/chart/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	if len(parts) != 2 || parts[1] != "macd" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleMACDChart(w, r, parts[0])
}

// handleMACDChart handles GET /api/chart/{ticker}/macd.
func (s *Server) handleMACDChart(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	days := 0
	if d := r.URL.Query().Get("days"); d != "" {
		v, err := strconv.Atoi(d)
		if err != nil || v < 0 {
			WriteError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = v
	}

	path, series, err := s.app.ChartService.GenerateMACDChart(r.Context(), ticker, days)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Chart failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"path":   path,
		"series": series,
	})
}

// forecastRequest is the body for POST /api/forecast.
type forecastRequest struct {
	Ticker   string           `json:"ticker"`
	Segments []models.Segment `json:"segments"`
	Years    int              `json:"years"`
}

// handleForecast handles POST /api/forecast.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req forecastRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Years <= 0 {
		req.Years = 5
	}

	forecast, err := s.app.ForecastService.ForecastSegments(r.Context(), req.Ticker, req.Segments, req.Years)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Forecast failed: "+err.Error())
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte(s.app.ForecastService.FormatForecast(forecast)))
		return
	}
	WriteJSON(w, http.StatusOK, forecast)
}

// writeValuationError maps engine errors to HTTP status codes: input
// contract violations are 422, everything else is 500.
func writeValuationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, valuation.ErrInvalidRateRelationship),
		errors.Is(err, valuation.ErrInvalidSchedule),
		errors.Is(err, valuation.ErrInvalidShareCount):
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
