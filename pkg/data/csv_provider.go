package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ducminhle1904/walkforward-backtest/pkg/types"
)

// CSVColumnMapping defines the column positions and timestamp layout of a
// bar file.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormats  []string
}

// DefaultCSVFormat matches "timestamp,open,high,low,close,volume" with
// either datetime or date-only timestamps.
var DefaultCSVFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormats:  []string{"2006-01-02 15:04:05", "2006-01-02"},
}

// CSVProvider loads bar series from CSV files. Rows that fail to parse are
// skipped with a log line; the surviving series must still be strictly
// chronological.
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a provider with the default column mapping.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{format: DefaultCSVFormat}
}

// NewCSVProviderWithFormat creates a provider with a custom column mapping.
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{format: format}
}

// GetName returns the provider name.
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData reads, parses and validates a bar file.
func (p *CSVProvider) LoadData(path string) ([]types.OHLCV, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("data: reading header of %s: %w", path, err)
	}

	var bars []types.OHLCV
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("data: reading %s line %d: %w", path, lineNum, err)
		}
		lineNum++

		bar, err := p.parseRecord(record)
		if err != nil {
			log.Printf("⚠️ Skipping line %d: %v", lineNum, err)
			continue
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("data: no valid bars in %s", path)
	}
	if err := types.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("data: %s: %w", path, err)
	}
	return bars, nil
}

func (p *CSVProvider) parseRecord(record []string) (types.OHLCV, error) {
	if len(record) < p.format.MinColumns {
		return types.OHLCV{}, fmt.Errorf("expected %d columns, got %d", p.format.MinColumns, len(record))
	}

	var timestamp time.Time
	var err error
	for _, layout := range p.format.DateFormats {
		if timestamp, err = time.Parse(layout, record[p.format.TimestampCol]); err == nil {
			break
		}
	}
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("invalid timestamp %q", record[p.format.TimestampCol])
	}

	bar := types.OHLCV{Timestamp: timestamp}
	for _, f := range []struct {
		name string
		col  int
		dst  *float64
	}{
		{"open", p.format.OpenCol, &bar.Open},
		{"high", p.format.HighCol, &bar.High},
		{"low", p.format.LowCol, &bar.Low},
		{"close", p.format.CloseCol, &bar.Close},
		{"volume", p.format.VolumeCol, &bar.Volume},
	} {
		v, err := strconv.ParseFloat(record[f.col], 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("invalid %s %q", f.name, record[f.col])
		}
		*f.dst = v
	}

	if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
		return types.OHLCV{}, fmt.Errorf("non-positive price data")
	}
	if bar.High < bar.Open || bar.High < bar.Close || bar.High < bar.Low {
		return types.OHLCV{}, fmt.Errorf("high below other prices")
	}
	if bar.Low > bar.Open || bar.Low > bar.Close {
		return types.OHLCV{}, fmt.Errorf("low above other prices")
	}
	return bar, nil
}
