package chart

import (
	"fmt"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
	"github.com/samber/lo"
)

// Default trailing window, in bars, applied to a freshly built pane.
const defaultWindow = 120

// Series colors. Styling beyond series identity is the browser's concern.
const (
	colorVolumeUp   = "rgba(38,166,154,0.5)"
	colorVolumeDown = "rgba(239,83,80,0.5)"
	colorSMAShort   = "#2962ff"
	colorSMALong    = "#f57c00"
	colorSAR        = "#ab47bc"
	colorPrediction = "#ffd54f"
	colorFastLine   = "#26a69a"
	colorSlowLine   = "#ef5350"
	colorSpread     = "#90a4ae"
)

// PaneSynchronizer owns the two correlated rendering surfaces of the
// dashboard: the price pane and the oscillator pane. It rebuilds both from
// scratch on every render (destroy-then-recreate, never incremental patch)
// so a surface can never hold a reference to a stale series object.
type PaneSynchronizer struct {
	surface Surface
	log     logger.Logger
	window  int
	width   int

	price      *ownedPane
	oscillator *ownedPane
}

type ownedPane struct {
	handle Handle
	spec   PaneSpec
}

// Option configures a PaneSynchronizer.
type Option func(*PaneSynchronizer)

// WithWindow overrides the default trailing window size in bars.
func WithWindow(bars int) Option {
	return func(s *PaneSynchronizer) {
		s.window = bars
	}
}

// WithWidth sets the initial container width.
func WithWidth(width int) Option {
	return func(s *PaneSynchronizer) {
		s.width = width
	}
}

// NewPaneSynchronizer creates a synchronizer bound to one surface.
func NewPaneSynchronizer(surface Surface, log logger.Logger, options ...Option) *PaneSynchronizer {
	sync := &PaneSynchronizer{
		surface: surface,
		log:     log,
		window:  defaultWindow,
	}

	for _, option := range options {
		option(sync)
	}

	return sync
}

// Render validates the payload, tears down any previously owned panes and
// rebuilds both from the given inputs. Validation happens before teardown
// so a malformed payload leaves the previous panes fully intact; once
// validation passes, teardown is unconditional even when inputs did not
// change. If the surface is not ready the render is skipped silently: a
// missing container is a transient precondition, not an error.
func (s *PaneSynchronizer) Render(bars []core.Bar, overlays *core.Overlays, visibility Visibility) error {
	if !s.surface.Ready() {
		s.log.Debug("render surface unavailable, skipping render")
		return nil
	}

	if err := core.ValidateBars(bars); err != nil {
		return err
	}

	s.teardown()

	display := DisplayDate
	if len(bars) > 0 && core.IsIntradayKey(bars[0].Date) {
		display = DisplayTimeOfDay
	}

	priceSpec := PaneSpec{
		Kind:    PanePrice,
		Display: display,
		Series:  s.priceSeries(bars, overlays, visibility),
		Window:  min(s.window, len(bars)),
		Width:   s.width,
	}

	handle, err := s.surface.CreatePane(priceSpec)
	if err != nil {
		return fmt.Errorf("failed to create price pane: %w", err)
	}
	s.price = &ownedPane{handle: handle, spec: priceSpec}

	if overlays == nil || !visibility[OverlayOscillator] {
		return nil
	}

	lines := NormalizeOscillator(overlays.MACD)
	if len(lines.Fast) == 0 {
		return nil
	}

	oscSpec := PaneSpec{
		Kind:    PaneOscillator,
		Display: display,
		Series:  oscillatorSeries(lines),
		Window:  min(s.window, len(lines.Fast)),
		Width:   s.width,
	}

	handle, err = s.surface.CreatePane(oscSpec)
	if err != nil {
		s.teardown()
		return fmt.Errorf("failed to create oscillator pane: %w", err)
	}
	s.oscillator = &ownedPane{handle: handle, spec: oscSpec}

	return nil
}

// priceSeries assembles the price pane: candlesticks, a direction-colored
// volume histogram, and the visibility-gated overlay lines.
func (s *PaneSynchronizer) priceSeries(bars []core.Bar, overlays *core.Overlays, visibility Visibility) []Series {
	volumeColors := lo.Map(bars, func(b core.Bar, _ int) string {
		if b.IsBullish() {
			return colorVolumeUp
		}
		return colorVolumeDown
	})

	volumePoints := lo.Map(bars, func(b core.Bar, _ int) Point {
		return Point{Time: b.Date, Value: b.Volume}
	})

	series := []Series{
		{Name: "price", Style: StyleCandlestick, Candles: bars},
		{Name: "volume", Style: StyleHistogram, Points: volumePoints, Colors: volumeColors},
	}

	if overlays == nil {
		return series
	}

	overlayLines := []struct {
		key   OverlayKey
		name  string
		style SeriesStyle
		color string
		raw   []core.OverlayPoint
	}{
		{OverlaySMAShort, "sma-short", StyleLine, colorSMAShort, overlays.SMAShort},
		{OverlaySMALong, "sma-long", StyleLine, colorSMALong, overlays.SMALong},
		{OverlaySAR, "sar", StyleDots, colorSAR, overlays.SAR},
	}

	for _, line := range overlayLines {
		if !visibility[line.key] {
			continue
		}
		points := Normalize(line.raw)
		if len(points) == 0 {
			continue
		}
		series = append(series, Series{
			Name:   line.name,
			Style:  line.style,
			Color:  line.color,
			Points: points,
		})
	}

	if visibility[OverlayPrediction] && len(bars) > 0 {
		stitched := Stitch(NormalizePrediction(overlays.Prediction), bars[len(bars)-1])
		// A one-point line renders nothing, omit it.
		if len(stitched) > 1 {
			series = append(series, Series{
				Name:   "prediction",
				Style:  StyleDashed,
				Color:  colorPrediction,
				Points: stitched,
			})
		}
	}

	return series
}

func oscillatorSeries(lines OscillatorLines) []Series {
	series := []Series{
		{Name: "macd", Style: StyleLine, Color: colorFastLine, Points: lines.Fast},
	}

	if len(lines.Slow) > 0 {
		series = append(series, Series{
			Name:   "signal",
			Style:  StyleLine,
			Color:  colorSlowLine,
			Points: lines.Slow,
		})
	}

	if len(lines.Spread) > 0 {
		series = append(series, Series{
			Name:   "histogram",
			Style:  StyleHistogram,
			Color:  colorSpread,
			Points: lines.Spread,
		})
	}

	return series
}

// Resize adjusts the rendered width of both panes to the new container
// width. This is the cheap path: no series are rebuilt and no handles are
// recreated.
func (s *PaneSynchronizer) Resize(width int) {
	s.width = width

	if s.price != nil {
		s.price.spec.Width = width
		s.surface.ResizePane(s.price.handle, width)
	}
	if s.oscillator != nil {
		s.oscillator.spec.Width = width
		s.surface.ResizePane(s.oscillator.handle, width)
	}
}

// Panes returns the specs of the currently rendered panes, price first.
// The oscillator entry is nil when no oscillator pane exists.
func (s *PaneSynchronizer) Panes() (price, oscillator *PaneSpec) {
	if s.price != nil {
		spec := s.price.spec
		price = &spec
	}
	if s.oscillator != nil {
		spec := s.oscillator.spec
		oscillator = &spec
	}
	return price, oscillator
}

// Close releases all surface resources. Safe to call repeatedly.
func (s *PaneSynchronizer) Close() {
	s.teardown()
}

func (s *PaneSynchronizer) teardown() {
	if s.price != nil {
		s.surface.DestroyPane(s.price.handle)
		s.price = nil
	}
	if s.oscillator != nil {
		s.surface.DestroyPane(s.oscillator.handle)
		s.oscillator = nil
	}
}
