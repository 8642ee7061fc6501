package chart

import (
	"testing"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestNormalize_FiltersNilValues(t *testing.T) {
	points := []core.OverlayPoint{
		{Date: "2024-01-02", Value: nil},
		{Date: "2024-01-03", Value: ptr(101.5)},
		{Date: "2024-01-04", Value: nil},
		{Date: "2024-01-05", Value: ptr(102.25)},
	}

	got := Normalize(points)

	require.Len(t, got, 2)
	assert.Equal(t, Point{Time: "2024-01-03", Value: 101.5}, got[0])
	assert.Equal(t, Point{Time: "2024-01-05", Value: 102.25}, got[1])
}

func TestNormalize_PreservesOrder(t *testing.T) {
	points := []core.OverlayPoint{
		{Date: "2024-01-05", Value: ptr(3)},
		{Date: "2024-01-02", Value: ptr(1)},
		{Date: "2024-01-03", Value: ptr(2)},
	}

	got := Normalize(points)

	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-05", got[0].Time)
	assert.Equal(t, "2024-01-02", got[1].Time)
	assert.Equal(t, "2024-01-03", got[2].Time)
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize([]core.OverlayPoint{}))
	assert.Empty(t, Normalize([]core.OverlayPoint{{Date: "2024-01-02"}}))
}

func TestNormalize_Idempotent(t *testing.T) {
	points := []core.OverlayPoint{
		{Date: "2024-01-02", Value: ptr(1)},
		{Date: "2024-01-03", Value: nil},
		{Date: "2024-01-04", Value: ptr(2)},
	}

	once := Normalize(points)

	renormalized := make([]core.OverlayPoint, len(once))
	for i, p := range once {
		v := p.Value
		renormalized[i] = core.OverlayPoint{Date: p.Time, Value: &v}
	}

	assert.Equal(t, once, Normalize(renormalized))
}

func TestNormalizePrediction(t *testing.T) {
	points := []core.PredictionPoint{
		{Date: "2024-01-05", Value: 105},
		{Date: "2024-01-06", Value: 106},
	}

	got := NormalizePrediction(points)

	require.Len(t, got, 2)
	assert.Equal(t, Point{Time: "2024-01-05", Value: 105}, got[0])
	assert.Equal(t, Point{Time: "2024-01-06", Value: 106}, got[1])
}

func TestNormalizeOscillator_IndependentComponents(t *testing.T) {
	points := []core.OscillatorPoint{
		{Date: "2024-01-02", MACD: ptr(0.5)},
		{Date: "2024-01-03", MACD: ptr(0.6), Signal: ptr(0.55)},
		{Date: "2024-01-04", MACD: ptr(0.7), Signal: ptr(0.6), Histogram: ptr(0.1)},
	}

	lines := NormalizeOscillator(points)

	assert.Len(t, lines.Fast, 3)
	assert.Len(t, lines.Slow, 2)
	assert.Len(t, lines.Spread, 1)
	assert.Equal(t, Point{Time: "2024-01-04", Value: 0.1}, lines.Spread[0])
}
