package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Intrinsic MCP server version and status. Use this to verify connectivity."),
	)
}

// createCollectMarketDataTool returns the collect_market_data tool definition
func createCollectMarketDataTool() mcp.Tool {
	return mcp.NewTool("collect_market_data",
		mcp.WithDescription("Fetch and cache price history and fundamentals for a ticker from EODHD. Run this before valuations so fundamentals are available."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker with exchange suffix (e.g., 'NVDA.US', 'BHP.AU')"),
		),
		mcp.WithBoolean("force",
			mcp.Description("Re-fetch all components even if the cache is fresh (default: false)"),
		),
	)
}

// createRunValuationTool returns the run_valuation tool definition
func createRunValuationTool() mcp.Tool {
	return mcp.NewTool("run_valuation",
		mcp.WithDescription("Run a discounted cash flow valuation for a ticker. Projects revenue through a growth schedule, derives free cash flow from margins, discounts to present value with a Gordon growth terminal value, and reports implied per-share value versus the current price. Unspecified assumptions resolve from cached fundamentals and configured defaults."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker with exchange suffix (e.g., 'NVDA.US')"),
		),
		mcp.WithNumber("discount_rate",
			mcp.Description("Annual discount rate as a decimal fraction (e.g., 0.10 for 10%). Must exceed terminal_growth."),
		),
		mcp.WithNumber("terminal_growth",
			mcp.Description("Perpetual growth rate beyond the horizon as a decimal fraction (e.g., 0.03)"),
		),
		mcp.WithNumber("base_revenue",
			mcp.Description("Base-period revenue to project from (defaults to cached TTM revenue)"),
		),
		mcp.WithNumber("margin",
			mcp.Description("Free cash flow margin as a decimal fraction (e.g., 0.35)"),
		),
		mcp.WithNumber("horizon",
			mcp.Description("Number of explicit projection years (default from config)"),
		),
		mcp.WithArray("growths",
			mcp.WithNumberItems(),
			mcp.Description("Per-year revenue growth ramp as decimal fractions (e.g., [0.25, 0.20, 0.15]); the last rate repeats if shorter than the horizon"),
		),
		mcp.WithNumber("net_debt",
			mcp.Description("Total debt less cash; negative means net cash (defaults to cached balance sheet)"),
		),
		mcp.WithNumber("shares_outstanding",
			mcp.Description("Share count for per-share value (defaults to cached fundamentals)"),
		),
	)
}

// createSensitivityTableTool returns the sensitivity_table tool definition
func createSensitivityTableTool() mcp.Tool {
	return mcp.NewTool("sensitivity_table",
		mcp.WithDescription("Sweep implied per-share value across discount rate and terminal growth axes. Cells where the discount rate does not exceed terminal growth are marked n/a rather than failing the sweep."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker with exchange suffix (e.g., 'NVDA.US')"),
		),
		mcp.WithArray("discount_rates",
			mcp.WithNumberItems(),
			mcp.Description("Discount rate axis as decimal fractions (default: 5 steps centered on the base rate)"),
		),
		mcp.WithArray("terminal_growths",
			mcp.WithNumberItems(),
			mcp.Description("Terminal growth axis as decimal fractions (default: 5 steps centered on the base rate)"),
		),
		mcp.WithNumber("base_revenue",
			mcp.Description("Base-period revenue to project from (defaults to cached TTM revenue)"),
		),
		mcp.WithNumber("margin",
			mcp.Description("Free cash flow margin as a decimal fraction"),
		),
		mcp.WithArray("growths",
			mcp.WithNumberItems(),
			mcp.Description("Per-year revenue growth ramp as decimal fractions"),
		),
		mcp.WithNumber("shares_outstanding",
			mcp.Description("Share count for per-share value (defaults to cached fundamentals)"),
		),
	)
}

// createMACDChartTool returns the macd_chart tool definition
func createMACDChartTool() mcp.Tool {
	return mcp.NewTool("macd_chart",
		mcp.WithDescription("Compute MACD(12,26,9) over cached price history and render it as a PNG chart. Returns the chart path and the latest indicator values."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker with exchange suffix (e.g., 'NVDA.US')"),
		),
		mcp.WithNumber("days",
			mcp.Description("Number of trading days of history to include (default: all cached bars)"),
		),
	)
}

// createForecastSegmentsTool returns the forecast_segments tool definition
func createForecastSegmentsTool() mcp.Tool {
	return mcp.NewTool("forecast_segments",
		mcp.WithDescription("Project multi-segment revenue over a horizon, compounding each segment at its own growth rate. Returns a CSV table of segment revenues and shares per year."),
		mcp.WithString("ticker",
			mcp.Description("Ticker the forecast belongs to (optional, for labeling)"),
		),
		mcp.WithArray("segments",
			mcp.Required(),
			mcp.Description("Segments as JSON objects: {\"name\": string, \"revenue\": number, \"growth\": number, \"damping\": [number]}"),
		),
		mcp.WithNumber("years",
			mcp.Description("Forecast horizon in years (default: 5)"),
		),
	)
}
