package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHasValidScale(t *testing.T) {
	assert.True(t, HasValidScale(decimal.RequireFromString("110")))
	assert.True(t, HasValidScale(decimal.RequireFromString("110.50")))
	assert.True(t, HasValidScale(decimal.RequireFromString("0.01")))
	assert.False(t, HasValidScale(decimal.RequireFromString("0.001")))
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(decimal.RequireFromString("9999999999.99")))
	assert.True(t, Fits(decimal.RequireFromString("-9999999999.99")))
	assert.False(t, Fits(decimal.RequireFromString("10000000000")))
	assert.False(t, Fits(decimal.RequireFromString("1.005")))
}

func TestRoundAndFormat(t *testing.T) {
	assert.Equal(t, "0.13", Format(Round(decimal.RequireFromString("0.125"))))
	assert.Equal(t, "110.00", Format(decimal.NewFromInt(110)))
}
