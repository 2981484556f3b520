package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ducminhle1904/walkforward-backtest/internal/backtest"
	"github.com/ducminhle1904/walkforward-backtest/pkg/validation"
)

// CSVReporter writes walk-forward results to CSV files for tabular
// consumers.
type CSVReporter struct{}

// NewCSVReporter creates a CSV reporter.
func NewCSVReporter() *CSVReporter {
	return &CSVReporter{}
}

// WriteWindowsCSV writes one row per walk-forward window.
func (r *CSVReporter) WriteWindowsCSV(summary *validation.Summary, path string) error {
	w, file, err := createCSV(path)
	if err != nil {
		return err
	}
	defer file.Close()
	defer w.Flush()

	if err := w.Write([]string{
		"Window", "Train_Start", "Train_End", "Test_Start", "Test_End",
		"SMA_Short", "SMA_Long", "RSI_Period", "RSI_Lower", "RSI_Upper",
		"Test_Return_%", "Benchmark_Return_%", "Excess_Return_%",
		"Test_Sharpe", "Test_Max_Drawdown_%", "Test_Trades", "Status",
	}); err != nil {
		return err
	}

	for _, res := range summary.Results {
		status := "ok"
		switch {
		case res.Failed:
			status = "failed: " + res.FailReason
		case res.Degraded:
			status = "degraded"
		}

		row := []string{
			strconv.Itoa(res.Index + 1),
			res.TrainStart.Format("2006-01-02"),
			res.TrainEnd.Format("2006-01-02"),
			res.TestStart.Format("2006-01-02"),
			res.TestEnd.Format("2006-01-02"),
			strconv.Itoa(res.Params.SMAShort),
			strconv.Itoa(res.Params.SMALong),
			strconv.Itoa(res.Params.RSIPeriod),
			formatFloat(res.Params.RSILower),
			formatFloat(res.Params.RSIUpper),
			formatFloat(res.TestReturn),
			formatFloat(res.BenchmarkReturn),
			formatFloat(res.ExcessReturn),
			formatFloat(res.TestMetrics.SharpeRatio),
			formatFloat(res.TestMetrics.MaxDrawdown * 100),
			strconv.Itoa(len(res.TestTrades)),
			status,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTradesCSV writes the concatenated out-of-sample trade log.
func (r *CSVReporter) WriteTradesCSV(trades []backtest.Trade, path string) error {
	w, file, err := createCSV(path)
	if err != nil {
		return err
	}
	defer file.Close()
	defer w.Flush()

	if err := w.Write([]string{
		"Entry_Time", "Exit_Time", "Entry_Price", "Exit_Price", "Return_%", "Portfolio_After",
	}); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			t.EntryTime.Format("2006-01-02 15:04:05"),
			t.ExitTime.Format("2006-01-02 15:04:05"),
			formatFloat(t.EntryPrice),
			formatFloat(t.ExitPrice),
			formatFloat(t.ReturnPct),
			formatFloat(t.PortfolioAfter),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func createCSV(path string) (*csv.Writer, *os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(file), file, nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
