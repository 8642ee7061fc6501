package chart

import (
	"sort"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
)

// Stitch anchors a normalized forecast sequence to the last observed bar so
// the rendered line is a continuous extension of the price series.
//
// The result starts with a synthetic point at the last bar's time key and
// close, followed by every prediction point whose key differs from the
// anchor key, sorted ascending with adjacent duplicate keys collapsed
// (first occurrence wins). The forecast generator is not guaranteed to
// start exactly one tick after the last bar or to avoid overlapping it at
// the boundary; stitching makes the output monotonic regardless. Forecast
// points that leave a gap after the last bar are kept as-is and the line
// spans the gap.
//
// An empty forecast stitches to the single anchor point; callers omit the
// series in that case since a one-point line renders nothing.
func Stitch(prediction []Point, last core.Bar) []Point {
	out := make([]Point, 0, len(prediction)+1)
	out = append(out, Point{Time: last.Date, Value: last.Close})

	for _, p := range prediction {
		if p.Time != last.Date {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return core.CompareTimeKeys(out[i].Time, out[j].Time) < 0
	})

	stitched := out[:1]
	for _, p := range out[1:] {
		if p.Time == stitched[len(stitched)-1].Time {
			continue
		}
		stitched = append(stitched, p)
	}

	return stitched
}
