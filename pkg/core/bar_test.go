package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBars() []Bar {
	return []Bar{
		{Date: "2024-01-02", Open: 100, High: 105, Low: 99, Close: 104, Volume: 1000},
		{Date: "2024-01-03", Open: 104, High: 106, Low: 101, Close: 102, Volume: 900},
		{Date: "2024-01-04", Open: 102, High: 108, Low: 102, Close: 107, Volume: 1100},
	}
}

func TestBar_IsBullish(t *testing.T) {
	assert.True(t, Bar{Open: 100, Close: 104}.IsBullish())
	assert.True(t, Bar{Open: 100, Close: 100}.IsBullish())
	assert.False(t, Bar{Open: 104, Close: 100}.IsBullish())
}

func TestIsIntradayKey(t *testing.T) {
	assert.True(t, IsIntradayKey("1718200800"))
	assert.False(t, IsIntradayKey("2024-01-02"))
	assert.False(t, IsIntradayKey(""))
}

func TestCompareTimeKeys_Dates(t *testing.T) {
	assert.Negative(t, CompareTimeKeys("2024-01-02", "2024-01-03"))
	assert.Positive(t, CompareTimeKeys("2024-02-01", "2024-01-03"))
	assert.Zero(t, CompareTimeKeys("2024-01-02", "2024-01-02"))
}

func TestCompareTimeKeys_Timestamps(t *testing.T) {
	// Lexicographic comparison would order "999" after "1000".
	assert.Negative(t, CompareTimeKeys("999", "1000"))
	assert.Positive(t, CompareTimeKeys("1718200860", "1718200800"))
	assert.Zero(t, CompareTimeKeys("1718200800", "1718200800"))
}

func TestValidateBars_Valid(t *testing.T) {
	require.NoError(t, ValidateBars(validBars()))
	require.NoError(t, ValidateBars(nil))
}

func TestValidateBars_MissingKey(t *testing.T) {
	bars := validBars()
	bars[1].Date = ""

	err := ValidateBars(bars)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestValidateBars_NonPositivePrice(t *testing.T) {
	bars := validBars()
	bars[0].Close = 0

	err := ValidateBars(bars)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestValidateBars_IncoherentBounds(t *testing.T) {
	bars := validBars()
	bars[2].High = bars[2].Close - 1

	err := ValidateBars(bars)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestValidateBars_NegativeVolume(t *testing.T) {
	bars := validBars()
	bars[0].Volume = -1

	err := ValidateBars(bars)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestValidateBars_NonMonotonicKeys(t *testing.T) {
	bars := validBars()
	bars[2].Date = bars[1].Date

	err := ValidateBars(bars)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestAnalysis_LastBar(t *testing.T) {
	analysis := &Analysis{Bars: validBars()}

	last, ok := analysis.LastBar()
	require.True(t, ok)
	assert.Equal(t, "2024-01-04", last.Date)

	_, ok = (&Analysis{}).LastBar()
	assert.False(t, ok)
}

func TestAnalysis_Intraday(t *testing.T) {
	daily := &Analysis{Bars: validBars()}
	assert.False(t, daily.Intraday())

	intraday := &Analysis{Bars: []Bar{
		{Date: "1718200800", Open: 1, High: 2, Low: 1, Close: 2, Volume: 1},
	}}
	assert.True(t, intraday.Intraday())
}
