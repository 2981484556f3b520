package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/walkforward-backtest/internal/monitoring"
	"github.com/ducminhle1904/walkforward-backtest/pkg/config"
	"github.com/ducminhle1904/walkforward-backtest/pkg/data"
	"github.com/ducminhle1904/walkforward-backtest/pkg/reporting"
	"github.com/ducminhle1904/walkforward-backtest/pkg/validation"
)

const (
	AppName    = "Walk-Forward Backtest"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewFlags()
	flag.Parse()

	if err := ValidateFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	cfg, err := loadConfiguration(flags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if *flags.MetricsAddr != "" {
		go serveMetrics(*flags.MetricsAddr)
	}

	bars, err := data.NewCSVProvider().LoadData(*flags.DataFile)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}
	log.Printf("📈 Loaded %d bars (%s → %s)", len(bars),
		bars[0].Timestamp.Format("2006-01-02"),
		bars[len(bars)-1].Timestamp.Format("2006-01-02"))

	reporter := reporting.NewReporter()
	reporter.PrintRunConfig(cfg)

	summary, err := validation.NewRunner(cfg).Run(bars)
	if err != nil {
		log.Fatalf("❌ Run error: %v", err)
	}

	reporter.PrintResults(summary)

	if !*flags.ConsoleOnly {
		writeFileOutputs(reporter, summary, flags)
	}
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", envFile, err)
	}
}

// loadConfiguration reads the config file (or defaults) and applies flag
// overrides on top.
func loadConfiguration(flags *Flags) (*config.Config, error) {
	cfg, err := config.Load(*flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	if *flags.InitialCapital > 0 {
		cfg.InitialCapital = *flags.InitialCapital
	}
	if *flags.TrainBars > 0 {
		cfg.TrainWindowBars = *flags.TrainBars
	}
	if *flags.TestBars > 0 {
		cfg.TestWindowBars = *flags.TestBars
	}
	if *flags.Objective != "" {
		cfg.Objective = *flags.Objective
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serveMetrics(addr string) {
	log.Printf("📡 Serving Prometheus metrics on %s/metrics", addr)
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("⚠️  Metrics server stopped: %v", err)
	}
}

func writeFileOutputs(reporter *reporting.Reporter, summary *validation.Summary, flags *Flags) {
	if *flags.WindowsCSV != "" {
		if err := reporter.WriteWindowsCSV(summary, *flags.WindowsCSV); err != nil {
			log.Printf("⚠️  Could not write %s: %v", *flags.WindowsCSV, err)
		} else {
			log.Printf("💾 Window results written to %s", *flags.WindowsCSV)
		}
	}
	if *flags.TradesCSV != "" {
		if err := reporter.WriteTradesCSV(summary, *flags.TradesCSV); err != nil {
			log.Printf("⚠️  Could not write %s: %v", *flags.TradesCSV, err)
		} else {
			log.Printf("💾 Trade log written to %s", *flags.TradesCSV)
		}
	}
	if *flags.ReportXLSX != "" {
		if err := reporter.WriteReportXLSX(summary, *flags.ReportXLSX); err != nil {
			log.Printf("⚠️  Could not write %s: %v", *flags.ReportXLSX, err)
		} else {
			log.Printf("💾 Report workbook written to %s", *flags.ReportXLSX)
		}
	}
}
