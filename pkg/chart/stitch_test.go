package chart

import (
	"testing"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStitch_AnchorsAtLastClose(t *testing.T) {
	last := core.Bar{Date: "2024-01-10", Close: 100}
	prediction := []Point{
		{Time: "2024-01-11", Value: 102},
		{Time: "2024-01-12", Value: 105},
	}

	got := Stitch(prediction, last)

	require.Len(t, got, 3)
	assert.Equal(t, Point{Time: "2024-01-10", Value: 100}, got[0])
	assert.Equal(t, Point{Time: "2024-01-11", Value: 102}, got[1])
	assert.Equal(t, Point{Time: "2024-01-12", Value: 105}, got[2])
}

func TestStitch_DropsPointsOverlappingAnchor(t *testing.T) {
	last := core.Bar{Date: "2024-01-10", Close: 100}
	prediction := []Point{
		{Time: "2024-01-10", Value: 999},
		{Time: "2024-01-11", Value: 102},
	}

	got := Stitch(prediction, last)

	require.Len(t, got, 2)
	// The anchor's close wins over the overlapping forecast value.
	assert.Equal(t, Point{Time: "2024-01-10", Value: 100}, got[0])
	assert.Equal(t, Point{Time: "2024-01-11", Value: 102}, got[1])
}

func TestStitch_SortsUnorderedForecast(t *testing.T) {
	last := core.Bar{Date: "2024-01-10", Close: 100}
	prediction := []Point{
		{Time: "2024-01-13", Value: 108},
		{Time: "2024-01-11", Value: 102},
		{Time: "2024-01-12", Value: 105},
	}

	got := Stitch(prediction, last)

	require.Len(t, got, 4)
	assert.Equal(t, "2024-01-10", got[0].Time)
	assert.Equal(t, "2024-01-11", got[1].Time)
	assert.Equal(t, "2024-01-12", got[2].Time)
	assert.Equal(t, "2024-01-13", got[3].Time)
}

func TestStitch_CollapsesDuplicateKeys(t *testing.T) {
	last := core.Bar{Date: "2024-01-10", Close: 100}
	prediction := []Point{
		{Time: "2024-01-11", Value: 102},
		{Time: "2024-01-11", Value: 103},
		{Time: "2024-01-12", Value: 105},
	}

	got := Stitch(prediction, last)

	require.Len(t, got, 3)
	// First occurrence wins.
	assert.Equal(t, Point{Time: "2024-01-11", Value: 102}, got[1])
}

func TestStitch_EmptyForecast(t *testing.T) {
	last := core.Bar{Date: "2024-01-10", Close: 100}

	got := Stitch(nil, last)

	require.Len(t, got, 1)
	assert.Equal(t, Point{Time: "2024-01-10", Value: 100}, got[0])
}

func TestStitch_GapAfterLastBarIsKept(t *testing.T) {
	last := core.Bar{Date: "2024-01-10", Close: 100}
	prediction := []Point{
		{Time: "2024-02-01", Value: 110},
	}

	got := Stitch(prediction, last)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-10", got[0].Time)
	assert.Equal(t, "2024-02-01", got[1].Time)
}

func TestStitch_IntradayKeysSortNumerically(t *testing.T) {
	last := core.Bar{Date: "999", Close: 100}
	prediction := []Point{
		{Time: "1001", Value: 103},
		{Time: "1000", Value: 102},
	}

	got := Stitch(prediction, last)

	require.Len(t, got, 3)
	assert.Equal(t, "999", got[0].Time)
	assert.Equal(t, "1000", got[1].Time)
	assert.Equal(t, "1001", got[2].Time)
}

func TestStitch_EndToEnd(t *testing.T) {
	bars := []core.Bar{
		{Date: "1", Open: 99, High: 101, Low: 98, Close: 100, Volume: 10},
		{Date: "2", Open: 100, High: 103, Low: 100, Close: 102, Volume: 12},
		{Date: "3", Open: 102, High: 106, Low: 101, Close: 105, Volume: 9},
	}
	require.NoError(t, core.ValidateBars(bars))

	raw := []core.PredictionPoint{
		{Date: "3", Value: 104.5},
		{Date: "5", Value: 109},
		{Date: "4", Value: 107},
	}

	got := Stitch(NormalizePrediction(raw), bars[len(bars)-1])

	require.Len(t, got, 3)
	assert.Equal(t, Point{Time: "3", Value: 105}, got[0])
	assert.Equal(t, Point{Time: "4", Value: 107}, got[1])
	assert.Equal(t, Point{Time: "5", Value: 109}, got[2])
}
