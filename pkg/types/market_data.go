package types

import (
	"fmt"
	"time"
)

// OHLCV is a single price bar.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// ValidateSeries checks that bars are sorted strictly ascending by timestamp.
// Duplicate or out-of-order timestamps are rejected; gaps are tolerated.
func ValidateSeries(data []OHLCV) error {
	for i := 1; i < len(data); i++ {
		prev, cur := data[i-1].Timestamp, data[i].Timestamp
		if !cur.After(prev) {
			return fmt.Errorf("bar %d: timestamp %s is not after previous bar %s",
				i, cur.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
	}
	return nil
}

// Closes extracts the close prices of a bar series.
func Closes(data []OHLCV) []float64 {
	closes := make([]float64, len(data))
	for i, bar := range data {
		closes[i] = bar.Close
	}
	return closes
}
