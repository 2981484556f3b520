package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RSIFilterConfig enables the optional RSI gate on entries and exits.
type RSIFilterConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Lower   float64 `json:"lower" yaml:"lower"`
	Upper   float64 `json:"upper" yaml:"upper"`
}

// GridConfig lists the candidate values per strategy parameter. The search
// space is the cartesian product, constrained to sma_short < sma_long.
type GridConfig struct {
	SMAShort  []int     `json:"sma_short" yaml:"sma_short"`
	SMALong   []int     `json:"sma_long" yaml:"sma_long"`
	RSIPeriod []int     `json:"rsi_period" yaml:"rsi_period"`
	RSILower  []float64 `json:"rsi_lower" yaml:"rsi_lower"`
	RSIUpper  []float64 `json:"rsi_upper" yaml:"rsi_upper"`
}

// Config is the full walk-forward run configuration. It is passed explicitly
// into the runner; nothing in the engine reads the process environment.
type Config struct {
	InitialCapital   float64 `json:"initial_capital" yaml:"initial_capital"`
	TrainWindowBars  int     `json:"train_window_bars" yaml:"train_window_bars"`
	TestWindowBars   int     `json:"test_window_bars" yaml:"test_window_bars"`
	Objective        string  `json:"objective" yaml:"objective"`
	SpreadPips       float64 `json:"spread_pips" yaml:"spread_pips"`
	SlippagePips     float64 `json:"slippage_pips" yaml:"slippage_pips"`
	PositionFraction float64 `json:"position_fraction" yaml:"position_fraction"`
	VaRConfidence    float64 `json:"var_confidence" yaml:"var_confidence"`
	Workers          int     `json:"workers" yaml:"workers"`

	RSIFilter RSIFilterConfig `json:"rsi_filter" yaml:"rsi_filter"`
	Grid      GridConfig      `json:"grid" yaml:"grid"`
}

// DefaultConfig mirrors the original system's defaults: $100k capital,
// 3-year train / 1-year test windows in trading days, Sharpe objective, and
// the aggressive SMA grid that guarantees crossovers on daily data.
func DefaultConfig() *Config {
	return &Config{
		InitialCapital:   100000,
		TrainWindowBars:  3 * 252,
		TestWindowBars:   252,
		Objective:        "sharpe_ratio",
		SpreadPips:       0,
		SlippagePips:     20, // 0.2% per fill, the original commission
		PositionFraction: 1.0,
		VaRConfidence:    0.05,
		RSIFilter: RSIFilterConfig{
			Lower: 30,
			Upper: 70,
		},
		Grid: GridConfig{
			SMAShort:  []int{5, 10, 15, 20},
			SMALong:   []int{25, 35, 45, 55, 65},
			RSIPeriod: []int{14},
			RSILower:  []float64{25, 30, 35},
			RSIUpper:  []float64{65, 70, 75},
		},
	}
}

// Load reads a JSON or YAML configuration file (keyed on extension) over
// the defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}

	return cfg, nil
}

// Validate rejects configurations the engine cannot run.
func (c *Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("config: initial_capital must be positive, got %.2f", c.InitialCapital)
	}
	if c.TrainWindowBars <= 0 || c.TestWindowBars <= 0 {
		return fmt.Errorf("config: window lengths must be positive bar counts, got train=%d test=%d",
			c.TrainWindowBars, c.TestWindowBars)
	}
	if c.SpreadPips < 0 || c.SlippagePips < 0 {
		return fmt.Errorf("config: spread/slippage must be non-negative, got spread=%.2f slippage=%.2f",
			c.SpreadPips, c.SlippagePips)
	}
	if c.PositionFraction <= 0 || c.PositionFraction > 1 {
		return fmt.Errorf("config: position_fraction must be in (0, 1], got %.2f", c.PositionFraction)
	}
	if c.VaRConfidence <= 0 || c.VaRConfidence >= 1 {
		return fmt.Errorf("config: var_confidence must be in (0, 1), got %.2f", c.VaRConfidence)
	}
	if c.RSIFilter.Enabled && c.RSIFilter.Lower >= c.RSIFilter.Upper {
		return fmt.Errorf("config: rsi_filter lower %.1f must be below upper %.1f",
			c.RSIFilter.Lower, c.RSIFilter.Upper)
	}
	if len(c.Grid.SMAShort) == 0 || len(c.Grid.SMALong) == 0 {
		return fmt.Errorf("config: grid must list sma_short and sma_long candidates")
	}
	return nil
}
