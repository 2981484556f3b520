package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/walkforward-backtest/pkg/validation"
)

// ExcelReporter writes a walk-forward report workbook with a Windows and a
// Trades sheet.
type ExcelReporter struct{}

// NewExcelReporter creates an Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteReportXLSX writes the full walk-forward report to an .xlsx file.
func (r *ExcelReporter) WriteReportXLSX(summary *validation.Summary, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const windowsSheet = "Windows"
	const tradesSheet = "Trades"

	fx.SetSheetName(fx.GetSheetName(0), windowsSheet)
	if _, err := fx.NewSheet(tradesSheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := r.writeWindowsSheet(fx, windowsSheet, summary, headerStyle); err != nil {
		return err
	}
	if err := r.writeTradesSheet(fx, tradesSheet, summary, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeWindowsSheet(fx *excelize.File, sheet string, summary *validation.Summary, headerStyle int) error {
	headers := []interface{}{
		"Window", "Test Start", "Test End", "Params",
		"Test Return %", "Benchmark %", "Excess %",
		"Sharpe", "Sortino", "Max Drawdown %", "Win Rate %", "Trades", "Status",
	}
	if err := fx.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "M1", headerStyle); err != nil {
		return err
	}

	for i, res := range summary.Results {
		status := "ok"
		switch {
		case res.Failed:
			status = "failed: " + res.FailReason
		case res.Degraded:
			status = "degraded"
		}

		row := []interface{}{
			res.Index + 1,
			res.TestStart.Format("2006-01-02"),
			res.TestEnd.Format("2006-01-02"),
			res.Params.String(),
			res.TestReturn,
			res.BenchmarkReturn,
			res.ExcessReturn,
			res.TestMetrics.SharpeRatio,
			res.TestMetrics.SortinoRatio,
			res.TestMetrics.MaxDrawdown * 100,
			res.TestMetrics.WinRate * 100,
			len(res.TestTrades),
			status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	// Summary block below the table.
	base := len(summary.Results) + 3
	summaryRows := [][]interface{}{
		{"Cumulative Return %", summary.CumulativeReturn},
		{"Avg Test Return %", summary.AvgTestReturn},
		{"Avg Benchmark %", summary.AvgBenchmarkReturn},
		{"Avg Excess %", summary.AvgExcessReturn},
		{"Failed Windows", summary.FailedWindows},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, base+i)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, summary *validation.Summary, headerStyle int) error {
	headers := []interface{}{
		"Entry Time", "Exit Time", "Entry Price", "Exit Price", "Return %", "Portfolio After",
	}
	if err := fx.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "F1", headerStyle); err != nil {
		return err
	}

	for i, t := range summary.Trades {
		row := []interface{}{
			t.EntryTime.Format("2006-01-02 15:04:05"),
			t.ExitTime.Format("2006-01-02 15:04:05"),
			t.EntryPrice,
			t.ExitPrice,
			t.ReturnPct,
			t.PortfolioAfter,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
