package chart

import (
	"fmt"
	"testing"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface counts pane lifecycle calls and tracks live handles.
type fakeSurface struct {
	ready     bool
	next      Handle
	live      map[Handle]PaneSpec
	created   int
	destroyed int
	resized   int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{ready: true, live: make(map[Handle]PaneSpec)}
}

func (f *fakeSurface) CreatePane(spec PaneSpec) (Handle, error) {
	f.next++
	f.created++
	f.live[f.next] = spec
	return f.next, nil
}

func (f *fakeSurface) DestroyPane(handle Handle) {
	f.destroyed++
	delete(f.live, handle)
}

func (f *fakeSurface) ResizePane(handle Handle, width int) {
	f.resized++
	if spec, ok := f.live[handle]; ok {
		spec.Width = width
		f.live[handle] = spec
	}
}

func (f *fakeSurface) Ready() bool { return f.ready }

func (f *fakeSurface) liveByKind(kind PaneKind) []PaneSpec {
	var specs []PaneSpec
	for _, spec := range f.live {
		if spec.Kind == kind {
			specs = append(specs, spec)
		}
	}
	return specs
}

func genBars(n int) []core.Bar {
	bars := make([]core.Bar, n)
	for i := range bars {
		price := 100 + float64(i)
		bars[i] = core.Bar{
			Date:   fmt.Sprintf("%d", 1700000000+i*60),
			Open:   price,
			High:   price + 2,
			Low:    price - 1,
			Close:  price + 1,
			Volume: 1000,
		}
	}
	return bars
}

func genOverlays(bars []core.Bar) *core.Overlays {
	overlays := &core.Overlays{}
	for _, bar := range bars {
		v := bar.Close
		overlays.SMAShort = append(overlays.SMAShort, core.OverlayPoint{Date: bar.Date, Value: &v})
		overlays.SAR = append(overlays.SAR, core.OverlayPoint{Date: bar.Date, Value: &v})
		overlays.MACD = append(overlays.MACD, core.OscillatorPoint{Date: bar.Date, MACD: &v, Signal: &v, Histogram: &v})
	}
	overlays.Prediction = []core.PredictionPoint{
		{Date: fmt.Sprintf("%d", 1700000000+len(bars)*60), Value: 150},
	}
	return overlays
}

func seriesNames(spec PaneSpec) []string {
	names := make([]string, 0, len(spec.Series))
	for _, s := range spec.Series {
		names = append(names, s.Name)
	}
	return names
}

func TestPaneSynchronizer_RenderCreatesBothPanes(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	bars := genBars(30)

	err := sync.Render(bars, genOverlays(bars), NewVisibilityStore().Snapshot())
	require.NoError(t, err)

	assert.Len(t, surface.liveByKind(PanePrice), 1)
	assert.Len(t, surface.liveByKind(PaneOscillator), 1)
}

func TestPaneSynchronizer_RerenderNeverAccumulatesPanes(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	bars := genBars(30)
	visibility := NewVisibilityStore().Snapshot()

	for i := 0; i < 5; i++ {
		require.NoError(t, sync.Render(bars, genOverlays(bars), visibility))
	}

	// Each pane kind has at most one live handle regardless of render count.
	assert.Len(t, surface.liveByKind(PanePrice), 1)
	assert.Len(t, surface.liveByKind(PaneOscillator), 1)
	assert.Equal(t, 10, surface.created)
	assert.Equal(t, 8, surface.destroyed)
}

func TestPaneSynchronizer_AllOverlaysHidden(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	bars := genBars(30)

	store := NewVisibilityStore()
	for _, key := range OverlayKeys() {
		store.Toggle(key)
	}

	require.NoError(t, sync.Render(bars, genOverlays(bars), store.Snapshot()))

	price := surface.liveByKind(PanePrice)
	require.Len(t, price, 1)
	assert.Equal(t, []string{"price", "volume"}, seriesNames(price[0]))
	assert.Empty(t, surface.liveByKind(PaneOscillator))
}

func TestPaneSynchronizer_ToggleIsolation(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	bars := genBars(30)

	store := NewVisibilityStore()
	store.Toggle(OverlaySAR)

	require.NoError(t, sync.Render(bars, genOverlays(bars), store.Snapshot()))

	price := surface.liveByKind(PanePrice)
	require.Len(t, price, 1)
	names := seriesNames(price[0])
	assert.NotContains(t, names, "sar")
	assert.Contains(t, names, "sma-short")
	assert.Contains(t, names, "prediction")
	assert.Len(t, surface.liveByKind(PaneOscillator), 1)
}

func TestPaneSynchronizer_WindowCapping(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	visibility := NewVisibilityStore().Snapshot()

	require.NoError(t, sync.Render(genBars(130), nil, visibility))
	price := surface.liveByKind(PanePrice)
	require.Len(t, price, 1)
	assert.Equal(t, 120, price[0].Window)

	require.NoError(t, sync.Render(genBars(40), nil, visibility))
	price = surface.liveByKind(PanePrice)
	require.Len(t, price, 1)
	assert.Equal(t, 40, price[0].Window)
}

func TestPaneSynchronizer_MalformedPayloadKeepsPanes(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	visibility := NewVisibilityStore().Snapshot()

	require.NoError(t, sync.Render(genBars(30), nil, visibility))
	createdBefore := surface.created
	destroyedBefore := surface.destroyed

	bad := genBars(10)
	bad[5].Date = ""

	err := sync.Render(bad, nil, visibility)
	require.ErrorIs(t, err, core.ErrMalformedPayload)

	// No teardown, no rebuild: the previous pane is still live.
	assert.Equal(t, createdBefore, surface.created)
	assert.Equal(t, destroyedBefore, surface.destroyed)
	assert.Len(t, surface.liveByKind(PanePrice), 1)
}

func TestPaneSynchronizer_ResizeSkipsRebuild(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	bars := genBars(30)

	require.NoError(t, sync.Render(bars, genOverlays(bars), NewVisibilityStore().Snapshot()))
	createdBefore := surface.created

	sync.Resize(900)

	assert.Equal(t, createdBefore, surface.created)
	assert.Equal(t, 2, surface.resized)

	price, oscillator := sync.Panes()
	require.NotNil(t, price)
	require.NotNil(t, oscillator)
	assert.Equal(t, 900, price.Width)
	assert.Equal(t, 900, oscillator.Width)
}

func TestPaneSynchronizer_NotReadySkipsSilently(t *testing.T) {
	surface := newFakeSurface()
	surface.ready = false
	sync := NewPaneSynchronizer(surface, logger.NewNoop())

	err := sync.Render(genBars(30), nil, NewVisibilityStore().Snapshot())
	require.NoError(t, err)
	assert.Zero(t, surface.created)
}

func TestPaneSynchronizer_OnePointPredictionOmitted(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	bars := genBars(10)

	// No forecast points: the stitched line would be the lone anchor.
	overlays := &core.Overlays{}

	require.NoError(t, sync.Render(bars, overlays, NewVisibilityStore().Snapshot()))

	price := surface.liveByKind(PanePrice)
	require.Len(t, price, 1)
	assert.NotContains(t, seriesNames(price[0]), "prediction")
}

func TestPaneSynchronizer_Close(t *testing.T) {
	surface := newFakeSurface()
	sync := NewPaneSynchronizer(surface, logger.NewNoop())
	bars := genBars(10)

	require.NoError(t, sync.Render(bars, genOverlays(bars), NewVisibilityStore().Snapshot()))
	sync.Close()
	sync.Close()

	assert.Empty(t, surface.live)
}
