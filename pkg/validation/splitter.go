package validation

import (
	"time"

	"github.com/ducminhle1904/walkforward-backtest/pkg/types"
)

// Window is one walk-forward train/test split. Train and Test are read-only
// views into the parent series; the test segment begins right where the
// train segment ends.
type Window struct {
	Index int

	Train []types.OHLCV
	Test  []types.OHLCV

	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
}

// CreateWindows slices the series into contiguous walk-forward windows:
// window i trains on trainBars bars and tests on the following testBars
// bars, and window i+1 starts testBars later. Test segments are
// non-overlapping and cover the evaluation period contiguously; a trailing
// partial window is not generated.
func CreateWindows(data []types.OHLCV, trainBars, testBars int) []Window {
	if trainBars <= 0 || testBars <= 0 {
		return nil
	}

	var windows []Window
	for start := 0; start+trainBars+testBars <= len(data); start += testBars {
		trainEnd := start + trainBars
		testEnd := trainEnd + testBars

		train := data[start:trainEnd]
		test := data[trainEnd:testEnd]

		windows = append(windows, Window{
			Index:      len(windows),
			Train:      train,
			Test:       test,
			TrainStart: train[0].Timestamp,
			TrainEnd:   train[len(train)-1].Timestamp,
			TestStart:  test[0].Timestamp,
			TestEnd:    test[len(test)-1].Timestamp,
		})
	}
	return windows
}
