package chart

import "github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"

// PaneKind identifies the role of a pane on the dashboard.
type PaneKind string

const (
	PanePrice      PaneKind = "price"
	PaneOscillator PaneKind = "oscillator"
)

// TimeDisplay selects how the time axis renders keys for one payload:
// calendar-date labels for daily data, time-of-day labels for intraday.
type TimeDisplay string

const (
	DisplayDate      TimeDisplay = "date"
	DisplayTimeOfDay TimeDisplay = "time-of-day"
)

// SeriesStyle is the visual style of a single series.
type SeriesStyle string

const (
	StyleCandlestick SeriesStyle = "candlestick"
	StyleLine        SeriesStyle = "line"
	StyleDashed      SeriesStyle = "dashed"
	StyleDots        SeriesStyle = "dots"
	StyleHistogram   SeriesStyle = "histogram"
)

// Series is a single styled visual trace attached to a pane. Exactly one of
// Points or Candles is populated depending on style; Colors carries the
// per-bar colors of a direction-colored histogram.
type Series struct {
	Name    string      `json:"name"`
	Style   SeriesStyle `json:"style"`
	Color   string      `json:"color"`
	Points  []Point     `json:"points,omitempty"`
	Candles []core.Bar  `json:"candles,omitempty"`
	Colors  []string    `json:"colors,omitempty"`
}

// PaneSpec fully describes one pane: its role, time display mode, series
// and the trailing bar count of its default visible window.
type PaneSpec struct {
	Kind    PaneKind    `json:"kind"`
	Display TimeDisplay `json:"display"`
	Series  []Series    `json:"series"`
	Window  int         `json:"window"`
	Width   int         `json:"width"`
}

// Handle identifies one live pane resource on a surface. The zero value is
// never a valid handle.
type Handle int64

// Surface owns native rendering resources. CreatePane allocates one pane,
// DestroyPane releases it, ResizePane adjusts its width without a rebuild.
// Ready reports whether the underlying container is mounted and sized;
// rendering is skipped until it is.
type Surface interface {
	CreatePane(spec PaneSpec) (Handle, error)
	DestroyPane(handle Handle)
	ResizePane(handle Handle, width int)
	Ready() bool
}
