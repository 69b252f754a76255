package valuation

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/models"
)

// FormatReport renders a valuation report as markdown.
func (s *Service) FormatReport(report *models.ValuationReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# DCF Valuation: %s\n\n", report.Ticker))
	sb.WriteString(fmt.Sprintf("**Date:** %s\n", report.GeneratedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("**Discount Rate:** %s\n", common.FormatPct(report.Inputs.DiscountRate)))
	sb.WriteString(fmt.Sprintf("**Terminal Growth:** %s\n", common.FormatPct(report.Inputs.TerminalGrowth)))
	sb.WriteString(fmt.Sprintf("**Base Revenue:** %s\n\n", common.FormatMoney(report.Inputs.BaseRevenue)))

	sb.WriteString("## Projections\n\n")
	sb.WriteString("| Year | Growth | Revenue | FCF | Present Value |\n")
	sb.WriteString("|------|--------|---------|-----|---------------|\n")
	for i, p := range report.Projections {
		growth := ""
		if i < len(report.Inputs.Schedule) {
			growth = common.FormatPct(report.Inputs.Schedule[i].Growth)
		}
		pv := 0.0
		if i < len(report.DiscountedFlows) {
			pv = report.DiscountedFlows[i].PresentValue
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			p.Period, growth,
			common.FormatMoney(p.Revenue),
			common.FormatMoney(p.FreeCashFlow),
			common.FormatMoney(pv),
		))
	}
	sb.WriteString("\n")

	sb.WriteString("## Valuation\n\n")
	sb.WriteString(fmt.Sprintf("- **Terminal Value:** %s (discounted: %s)\n",
		common.FormatMoney(report.TerminalValue), common.FormatMoney(report.DiscountedTerminalValue)))
	sb.WriteString(fmt.Sprintf("- **Enterprise Value:** %s\n", common.FormatMoney(report.Result.EnterpriseValue)))
	sb.WriteString(fmt.Sprintf("- **Net Debt:** %s\n", common.FormatMoney(report.Inputs.NetDebt)))
	sb.WriteString(fmt.Sprintf("- **Equity Value:** %s\n", common.FormatMoney(report.Result.EquityValue)))
	sb.WriteString(fmt.Sprintf("- **Implied Per Share:** %s\n", common.FormatMoney(report.Result.ImpliedPerShare)))

	if report.CurrentPrice > 0 {
		sb.WriteString(fmt.Sprintf("- **Current Price:** %s\n", common.FormatMoney(report.CurrentPrice)))
		sb.WriteString(fmt.Sprintf("- **Upside:** %s\n", common.FormatSignedPct(report.UpsidePct)))
	}

	return sb.String()
}

// FormatSensitivity renders a sensitivity grid as a markdown table with
// discount rates down the rows and terminal growth across the columns.
// Invalid cells (rate pair violates r > g) render as "n/a".
func (s *Service) FormatSensitivity(report *models.SensitivityReport) string {
	var sb strings.Builder
	grid := report.Grid

	sb.WriteString(fmt.Sprintf("# Sensitivity: %s\n\n", report.Ticker))
	sb.WriteString(fmt.Sprintf("Implied per-share value across discount rate (rows) and terminal growth (columns). Base revenue %s.\n\n",
		common.FormatMoney(report.Inputs.BaseRevenue)))

	sb.WriteString("| r \\ g |")
	for _, g := range grid.GrowthAxis {
		sb.WriteString(fmt.Sprintf(" %s |", common.FormatPct(g)))
	}
	sb.WriteString("\n|---|")
	for range grid.GrowthAxis {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for i, r := range grid.DiscountAxis {
		sb.WriteString(fmt.Sprintf("| **%s** |", common.FormatPct(r)))
		for _, cell := range grid.Cells[i] {
			if cell.Valid {
				sb.WriteString(fmt.Sprintf(" %.2f |", cell.ImpliedPerShare))
			} else {
				sb.WriteString(" n/a |")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// SensitivityCSV renders a sensitivity grid as CSV: one header row of
// terminal growth rates, then one row per discount rate. Invalid cells are
// left empty.
func (s *Service) SensitivityCSV(report *models.SensitivityReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	grid := report.Grid
	header := make([]string, 0, len(grid.GrowthAxis)+1)
	header = append(header, "discount_rate")
	for _, g := range grid.GrowthAxis {
		header = append(header, strconv.FormatFloat(g, 'f', 4, 64))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i, r := range grid.DiscountAxis {
		row := make([]string, 0, len(grid.GrowthAxis)+1)
		row = append(row, strconv.FormatFloat(r, 'f', 4, 64))
		for _, cell := range grid.Cells[i] {
			if cell.Valid {
				row = append(row, strconv.FormatFloat(cell.ImpliedPerShare, 'f', 4, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
