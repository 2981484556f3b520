package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/walkforward-backtest/pkg/config"
	"github.com/ducminhle1904/walkforward-backtest/pkg/validation"
)

// ConsoleReporter renders run configuration and walk-forward results as
// terminal tables.
type ConsoleReporter struct{}

// NewConsoleReporter creates a console reporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintRunConfig prints the effective configuration before a run.
func (r *ConsoleReporter) PrintRunConfig(cfg *config.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("WALK-FORWARD CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	rsiFilter := "off"
	if cfg.RSIFilter.Enabled {
		rsiFilter = fmt.Sprintf("[%.0f, %.0f]", cfg.RSIFilter.Lower, cfg.RSIFilter.Upper)
	}

	t.AppendRows([]table.Row{
		{"💰 Initial Capital", fmt.Sprintf("$%.2f", cfg.InitialCapital)},
		{"🏋️ Train Window", fmt.Sprintf("%d bars", cfg.TrainWindowBars)},
		{"🧪 Test Window", fmt.Sprintf("%d bars", cfg.TestWindowBars)},
		{"🎯 Objective", cfg.Objective},
		{"📊 RSI Filter", rsiFilter},
		{"💸 Spread+Slippage", fmt.Sprintf("%.1f bps", cfg.SpreadPips+cfg.SlippagePips)},
		{"📐 Position Fraction", fmt.Sprintf("%.0f%%", cfg.PositionFraction*100)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintWindowResults prints one row per walk-forward window.
func (r *ConsoleReporter) PrintWindowResults(summary *validation.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("WALK-FORWARD WINDOWS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Test Period", "Params", "Test %", "Bench %", "Excess %", "Sharpe", "Trades", "Status"})

	for _, res := range summary.Results {
		status := "✅"
		switch {
		case res.Failed:
			status = "❌ " + res.FailReason
		case res.Degraded:
			status = "⚠️ degraded"
		}

		t.AppendRow(table.Row{
			res.Index + 1,
			fmt.Sprintf("%s → %s", res.TestStart.Format("2006-01-02"), res.TestEnd.Format("2006-01-02")),
			res.Params.String(),
			fmt.Sprintf("%.2f", res.TestReturn),
			fmt.Sprintf("%.2f", res.BenchmarkReturn),
			fmt.Sprintf("%.2f", res.ExcessReturn),
			fmt.Sprintf("%.2f", res.TestMetrics.SharpeRatio),
			len(res.TestTrades),
			status,
		})
	}

	t.Render()
	fmt.Println()
}

// PrintSummary prints the aggregate out-of-sample statistics.
func (r *ConsoleReporter) PrintSummary(summary *validation.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("OUT-OF-SAMPLE SUMMARY")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🔄 Windows", fmt.Sprintf("%d ok / %d failed / %d degraded",
			summary.SuccessfulWindows, summary.FailedWindows, summary.DegradedWindows)},
		{"💰 Cumulative Return", fmt.Sprintf("%.2f%%", summary.CumulativeReturn)},
		{"📈 Avg Test Return", fmt.Sprintf("%.2f%% ± %.2f%%", summary.AvgTestReturn, summary.StdTestReturn)},
		{"📈 Avg Benchmark", fmt.Sprintf("%.2f%%", summary.AvgBenchmarkReturn)},
		{"📊 Avg Excess", fmt.Sprintf("%.2f%%", summary.AvgExcessReturn)},
		{"🔄 OOS Trades", len(summary.Trades)},
	})

	if summary.BestWindow >= 0 {
		best := summary.Results[summary.BestWindow]
		t.AppendSeparator()
		t.AppendRow(table.Row{"🏆 Best Window", fmt.Sprintf("#%d %s (excess %.2f%%)",
			best.Index+1, best.Params, best.ExcessReturn)})
	}

	t.Render()
	fmt.Println()
}
