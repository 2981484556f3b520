package reporting

import (
	"github.com/ducminhle1904/walkforward-backtest/pkg/config"
	"github.com/ducminhle1904/walkforward-backtest/pkg/validation"
)

// Reporter bundles all output channels behind one facade.
type Reporter struct {
	console *ConsoleReporter
	csv     *CSVReporter
	excel   *ExcelReporter
}

// NewReporter creates a reporter with console, CSV and Excel output.
func NewReporter() *Reporter {
	return &Reporter{
		console: NewConsoleReporter(),
		csv:     NewCSVReporter(),
		excel:   NewExcelReporter(),
	}
}

// PrintRunConfig prints the effective configuration.
func (r *Reporter) PrintRunConfig(cfg *config.Config) {
	r.console.PrintRunConfig(cfg)
}

// PrintResults prints the per-window table and the aggregate summary.
func (r *Reporter) PrintResults(summary *validation.Summary) {
	r.console.PrintWindowResults(summary)
	r.console.PrintSummary(summary)
}

// WriteWindowsCSV exports the per-window results.
func (r *Reporter) WriteWindowsCSV(summary *validation.Summary, path string) error {
	return r.csv.WriteWindowsCSV(summary, path)
}

// WriteTradesCSV exports the concatenated out-of-sample trade log.
func (r *Reporter) WriteTradesCSV(summary *validation.Summary, path string) error {
	return r.csv.WriteTradesCSV(summary.Trades, path)
}

// WriteReportXLSX exports the full report workbook.
func (r *Reporter) WriteReportXLSX(summary *validation.Summary, path string) error {
	return r.excel.WriteReportXLSX(summary, path)
}
