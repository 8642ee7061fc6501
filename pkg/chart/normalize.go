package chart

import (
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/samber/lo"
)

// Point is one normalized time/value pair ready to attach to a series.
type Point struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Normalize filters an overlay sequence down to the points whose value is
// present, preserving input order. It never reorders and never fails:
// absent or empty input yields an empty sequence. Normalizing an already
// normalized sequence is a no-op.
func Normalize(points []core.OverlayPoint) []Point {
	return lo.FilterMap(points, func(p core.OverlayPoint, _ int) (Point, bool) {
		if p.Value == nil {
			return Point{}, false
		}
		return Point{Time: p.Date, Value: *p.Value}, true
	})
}

// NormalizePrediction converts prediction points, whose value is required,
// into normalized pairs.
func NormalizePrediction(points []core.PredictionPoint) []Point {
	return lo.Map(points, func(p core.PredictionPoint, _ int) Point {
		return Point{Time: p.Date, Value: p.Value}
	})
}

// OscillatorLines holds the three normalized component lines of the
// oscillator. Each line is filtered independently, so their lengths may
// differ during warm-up.
type OscillatorLines struct {
	Fast   []Point
	Slow   []Point
	Spread []Point
}

// NormalizeOscillator applies Normalize independently to each oscillator
// component.
func NormalizeOscillator(points []core.OscillatorPoint) OscillatorLines {
	lines := OscillatorLines{}

	for _, p := range points {
		if p.MACD != nil {
			lines.Fast = append(lines.Fast, Point{Time: p.Date, Value: *p.MACD})
		}
		if p.Signal != nil {
			lines.Slow = append(lines.Slow, Point{Time: p.Date, Value: *p.Signal})
		}
		if p.Histogram != nil {
			lines.Spread = append(lines.Spread, Point{Time: p.Date, Value: *p.Histogram})
		}
	}

	return lines
}
