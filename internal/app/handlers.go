package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/models"
)

// registerTools registers all MCP tools on the server.
func (a *App) registerTools() {
	s := a.MCPServer

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createCollectMarketDataTool(), handleCollectMarketData(a.MarketService, a.Logger))
	s.AddTool(createRunValuationTool(), handleRunValuation(a.ValuationService, a.Logger))
	s.AddTool(createSensitivityTableTool(), handleSensitivityTable(a.ValuationService, a.Logger))
	s.AddTool(createMACDChartTool(), handleMACDChart(a.ChartService, a.Logger))
	s.AddTool(createForecastSegmentsTool(), handleForecastSegments(a.ForecastService, a.Logger))
}

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Intrinsic MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleCollectMarketData implements the collect_market_data tool
func handleCollectMarketData(marketService interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		force := request.GetBool("force", false)

		data, err := marketService.CollectMarketData(ctx, ticker, force)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Market data collection failed")
			return errorResult(fmt.Sprintf("Collect error: %v", err)), nil
		}

		summary := fmt.Sprintf("Collected %s: %d EOD bars", data.Ticker, len(data.EOD))
		if data.Fundamentals != nil {
			summary += fmt.Sprintf(", fundamentals (%s shares outstanding, %s TTM revenue)",
				common.FormatMoney(data.Fundamentals.SharesOutstanding),
				common.FormatMoney(data.Fundamentals.RevenueTTM))
		}
		return textResult(summary), nil
	}
}

// handleRunValuation implements the run_valuation tool
func handleRunValuation(valuationService interfaces.ValuationService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		assumptions := assumptionsFromRequest(request)

		report, err := valuationService.RunValuation(ctx, ticker, assumptions)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Valuation failed")
			return errorResult(fmt.Sprintf("Valuation error: %v", err)), nil
		}

		return textResult(valuationService.FormatReport(report)), nil
	}
}

// handleSensitivityTable implements the sensitivity_table tool
func handleSensitivityTable(valuationService interfaces.ValuationService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		assumptions := assumptionsFromRequest(request)
		discountAxis := floatSlice(request, "discount_rates")
		growthAxis := floatSlice(request, "terminal_growths")

		report, err := valuationService.RunSensitivity(ctx, ticker, assumptions, discountAxis, growthAxis)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Sensitivity sweep failed")
			return errorResult(fmt.Sprintf("Sensitivity error: %v", err)), nil
		}

		return textResult(valuationService.FormatSensitivity(report)), nil
	}
}

// handleMACDChart implements the macd_chart tool
func handleMACDChart(chartService interfaces.ChartService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		days := request.GetInt("days", 0)

		path, series, err := chartService.GenerateMACDChart(ctx, ticker, days)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("MACD chart failed")
			return errorResult(fmt.Sprintf("Chart error: %v", err)), nil
		}

		latest := series.Points[len(series.Points)-1]
		result := fmt.Sprintf("MACD chart for %s written to %s\nLatest (%s): MACD %.3f, Signal %.3f, Histogram %.3f",
			ticker, path, latest.Date.Format("2006-01-02"), latest.MACD, latest.Signal, latest.Histogram)
		return textResult(result), nil
	}
}

// handleForecastSegments implements the forecast_segments tool
func handleForecastSegments(forecastService interfaces.ForecastService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		segments, err := segmentsFromRequest(request)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		ticker := request.GetString("ticker", "")
		years := request.GetInt("years", 5)

		forecast, err := forecastService.ForecastSegments(ctx, ticker, segments, years)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Segment forecast failed")
			return errorResult(fmt.Sprintf("Forecast error: %v", err)), nil
		}

		return textResult(forecastService.FormatForecast(forecast)), nil
	}
}

// assumptionsFromRequest extracts the shared valuation assumption parameters.
func assumptionsFromRequest(request mcp.CallToolRequest) models.Assumptions {
	a := models.Assumptions{
		DiscountRate:      request.GetFloat("discount_rate", 0),
		TerminalGrowth:    request.GetFloat("terminal_growth", 0),
		BaseRevenue:       request.GetFloat("base_revenue", 0),
		Margin:            request.GetFloat("margin", 0),
		Horizon:           request.GetInt("horizon", 0),
		SharesOutstanding: request.GetFloat("shares_outstanding", 0),
		Growths:           floatSlice(request, "growths"),
	}

	// net_debt distinguishes absent from zero: only set when supplied
	if raw, ok := request.GetArguments()["net_debt"]; ok {
		if v, ok := toFloat(raw); ok {
			a.NetDebt = &v
		}
	}
	return a
}

// segmentsFromRequest decodes the segments array. MCP proxies sometimes send
// array items as string-encoded JSON objects, so both forms are accepted.
func segmentsFromRequest(request mcp.CallToolRequest) ([]models.Segment, error) {
	raw, ok := request.GetArguments()["segments"]
	if !ok {
		return nil, fmt.Errorf("segments parameter is required")
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("segments must be an array")
	}

	segments := make([]models.Segment, 0, len(items))
	for i, item := range items {
		var blob []byte
		switch v := item.(type) {
		case string:
			blob = []byte(v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			blob = b
		}

		var seg models.Segment
		if err := json.Unmarshal(blob, &seg); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// floatSlice reads a numeric array parameter, tolerating JSON numbers
// arriving as float64 or int.
func floatSlice(request mcp.CallToolRequest, name string) []float64 {
	raw, ok := request.GetArguments()[name]
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		if v, ok := toFloat(item); ok {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
