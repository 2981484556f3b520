package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParams_Validate tests the accept/reject boundary of parameter sets
func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	bad := DefaultParams()
	bad.SMAShort = bad.SMALong
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.RSIPeriod = 0
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.RSIFilter = true
	bad.RSILower = 70
	bad.RSIUpper = 30
	assert.Error(t, bad.Validate())

	// Inverted RSI bounds are fine while the filter is off.
	bad.RSIFilter = false
	assert.NoError(t, bad.Validate())
}

// TestParams_String tests that the filter state shows up in the display form
func TestParams_String(t *testing.T) {
	p := Params{SMAShort: 10, SMALong: 30, RSIPeriod: 14, RSILower: 30, RSIUpper: 70}
	assert.Equal(t, "SMA(10,30)", p.String())

	p.RSIFilter = true
	assert.Equal(t, "SMA(10,30) RSI(14)[30,70]", p.String())
}
