package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/models"
)

func requestWith(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func TestAssumptionsFromRequest(t *testing.T) {
	request := requestWith(map[string]interface{}{
		"ticker":          "NVDA.US",
		"discount_rate":   0.10,
		"terminal_growth": 0.03,
		"horizon":         float64(3),
		"growths":         []interface{}{0.25, 0.20},
		"net_debt":        float64(0),
	})

	a := assumptionsFromRequest(request)

	if a.DiscountRate != 0.10 {
		t.Errorf("DiscountRate = %v, want 0.10", a.DiscountRate)
	}
	if a.Horizon != 3 {
		t.Errorf("Horizon = %d, want 3", a.Horizon)
	}
	if len(a.Growths) != 2 || a.Growths[0] != 0.25 {
		t.Errorf("Growths = %v, want [0.25 0.20]", a.Growths)
	}
	if a.NetDebt == nil || *a.NetDebt != 0 {
		t.Errorf("NetDebt = %v, want explicit zero", a.NetDebt)
	}
}

func TestAssumptionsFromRequest_NetDebtAbsent(t *testing.T) {
	a := assumptionsFromRequest(requestWith(map[string]interface{}{
		"ticker": "NVDA.US",
	}))
	if a.NetDebt != nil {
		t.Errorf("NetDebt = %v, want nil when not supplied", *a.NetDebt)
	}
}

func TestFloatSlice(t *testing.T) {
	request := requestWith(map[string]interface{}{
		"discount_rates": []interface{}{0.08, float64(1), 0.12},
		"not_an_array":   "0.08",
	})

	got := floatSlice(request, "discount_rates")
	if len(got) != 3 || got[1] != 1 {
		t.Errorf("floatSlice = %v, want [0.08 1 0.12]", got)
	}
	if floatSlice(request, "not_an_array") != nil {
		t.Error("floatSlice should return nil for non-array values")
	}
	if floatSlice(request, "missing") != nil {
		t.Error("floatSlice should return nil for missing parameters")
	}
}

func TestSegmentsFromRequest(t *testing.T) {
	// Native objects and string-encoded JSON items both arrive in practice.
	request := requestWith(map[string]interface{}{
		"segments": []interface{}{
			map[string]interface{}{"name": "Data Center", "revenue": 47.5, "growth": 0.40},
			`{"name":"Gaming","revenue":10.4,"growth":0.05}`,
		},
	})

	segments, err := segmentsFromRequest(request)
	if err != nil {
		t.Fatalf("segmentsFromRequest() error = %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Name != "Data Center" || segments[0].Growth != 0.40 {
		t.Errorf("segment 0 = %+v", segments[0])
	}
	if segments[1].Name != "Gaming" || segments[1].Revenue != 10.4 {
		t.Errorf("segment 1 = %+v", segments[1])
	}
}

func TestSegmentsFromRequest_Errors(t *testing.T) {
	if _, err := segmentsFromRequest(requestWith(map[string]interface{}{})); err == nil {
		t.Error("expected error for missing segments")
	}
	if _, err := segmentsFromRequest(requestWith(map[string]interface{}{
		"segments": "not an array",
	})); err == nil {
		t.Error("expected error for non-array segments")
	}
	if _, err := segmentsFromRequest(requestWith(map[string]interface{}{
		"segments": []interface{}{"{broken json"},
	})); err == nil {
		t.Error("expected error for malformed segment item")
	}
}

// fakeForecast records the arguments the handler forwards.
type fakeForecast struct {
	lastTicker string
	lastYears  int
}

func (f *fakeForecast) ForecastSegments(ctx context.Context, ticker string, segments []models.Segment, years int) (*models.SegmentForecast, error) {
	f.lastTicker = ticker
	f.lastYears = years
	if len(segments) == 0 {
		return nil, fmt.Errorf("at least one segment is required")
	}
	return &models.SegmentForecast{Ticker: ticker}, nil
}

func (f *fakeForecast) FormatForecast(forecast *models.SegmentForecast) string {
	return "year,total\n"
}

func TestHandleForecastSegments(t *testing.T) {
	fake := &fakeForecast{}
	handler := handleForecastSegments(fake, common.NewSilentLogger())

	result, err := handler(context.Background(), requestWith(map[string]interface{}{
		"ticker": "NVDA.US",
		"years":  float64(3),
		"segments": []interface{}{
			map[string]interface{}{"name": "Data Center", "revenue": 47.5, "growth": 0.40},
		},
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", result.Content)
	}
	if fake.lastTicker != "NVDA.US" || fake.lastYears != 3 {
		t.Errorf("forwarded ticker=%q years=%d", fake.lastTicker, fake.lastYears)
	}
}

func TestHandleGetVersion(t *testing.T) {
	handler := handleGetVersion()

	result, err := handler(context.Background(), requestWith(nil))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatal("expected success result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Content[0])
	}
	if !strings.Contains(text.Text, "Intrinsic MCP Server") {
		t.Errorf("unexpected version text: %q", text.Text)
	}
}
