package main

import (
	"flag"
	"fmt"
)

// Flags holds all command line flags for the walk-forward backtester.
type Flags struct {
	// Input
	ConfigFile *string
	DataFile   *string

	// Overrides for the most common configuration knobs
	InitialCapital *float64
	TrainBars      *int
	TestBars       *int
	Objective      *string

	// Output options
	WindowsCSV  *string
	TradesCSV   *string
	ReportXLSX  *string
	ConsoleOnly *bool

	// Operations
	MetricsAddr *string
	EnvFile     *string

	// Help and version
	ShowVersion *bool
}

// NewFlags registers all command line flags.
func NewFlags() *Flags {
	return &Flags{
		ConfigFile: flag.String("config", "", "Path to configuration file (.json, .yaml)"),
		DataFile:   flag.String("data", "", "Path to historical bar CSV file (required)"),

		InitialCapital: flag.Float64("capital", 0, "Override initial capital"),
		TrainBars:      flag.Int("train-bars", 0, "Override train window length in bars"),
		TestBars:       flag.Int("test-bars", 0, "Override test window length in bars"),
		Objective:      flag.String("objective", "", "Override objective metric (sharpe_ratio, total_return, ...)"),

		WindowsCSV:  flag.String("windows-csv", "", "Write per-window results to CSV"),
		TradesCSV:   flag.String("trades-csv", "", "Write out-of-sample trades to CSV"),
		ReportXLSX:  flag.String("report-xlsx", "", "Write full report workbook to .xlsx"),
		ConsoleOnly: flag.Bool("console-only", false, "Skip all file output"),

		MetricsAddr: flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)"),
		EnvFile:     flag.String("env", ".env", "Path to environment file"),

		ShowVersion: flag.Bool("version", false, "Print version and exit"),
	}
}

// Validate rejects unusable flag combinations before any work starts.
func ValidateFlags(flags *Flags) error {
	if *flags.ShowVersion {
		return nil
	}
	if *flags.DataFile == "" {
		return fmt.Errorf("-data is required")
	}
	if *flags.InitialCapital < 0 {
		return fmt.Errorf("-capital must be positive")
	}
	if *flags.TrainBars < 0 || *flags.TestBars < 0 {
		return fmt.Errorf("-train-bars and -test-bars must be positive")
	}
	return nil
}
