package dashboard

import (
	"sync"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/chart"
)

// wsSurface implements chart.Surface by pushing pane lifecycle events to
// the connected browser clients over WebSocket. The browser owns the actual
// rendering widgets; this side only tracks handles and forwards specs.
//
// Ready is false until a client has reported its viewport width: creating
// panes for an unmounted container would orphan browser-side resources.
type wsSurface struct {
	mu    sync.Mutex
	ws    *WebSocketManager
	next  chart.Handle
	panes map[chart.Handle]chart.PaneSpec
	width int
}

func newWSSurface(ws *WebSocketManager) *wsSurface {
	return &wsSurface{
		ws:    ws,
		panes: make(map[chart.Handle]chart.PaneSpec),
	}
}

// SetWidth records the client-reported viewport width. The first report
// makes the surface ready.
func (s *wsSurface) SetWidth(width int) {
	s.mu.Lock()
	s.width = width
	s.mu.Unlock()
}

// Ready implements chart.Surface.
func (s *wsSurface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width > 0
}

// CreatePane implements chart.Surface.
func (s *wsSurface) CreatePane(spec chart.PaneSpec) (chart.Handle, error) {
	s.mu.Lock()
	s.next++
	handle := s.next
	if spec.Width == 0 {
		spec.Width = s.width
	}
	s.panes[handle] = spec
	s.mu.Unlock()

	s.ws.Broadcast("paneCreated", map[string]any{
		"handle": handle,
		"spec":   spec,
	})

	return handle, nil
}

// DestroyPane implements chart.Surface.
func (s *wsSurface) DestroyPane(handle chart.Handle) {
	s.mu.Lock()
	_, ok := s.panes[handle]
	delete(s.panes, handle)
	s.mu.Unlock()

	if !ok {
		return
	}

	s.ws.Broadcast("paneDestroyed", map[string]any{
		"handle": handle,
	})
}

// ResizePane implements chart.Surface.
func (s *wsSurface) ResizePane(handle chart.Handle, width int) {
	s.mu.Lock()
	spec, ok := s.panes[handle]
	if ok {
		spec.Width = width
		s.panes[handle] = spec
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	s.ws.Broadcast("paneResized", map[string]any{
		"handle": handle,
		"width":  width,
	})
}

// Panes returns a copy of the live pane specs, used to replay state to a
// freshly connected client.
func (s *wsSurface) Panes() map[chart.Handle]chart.PaneSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	panes := make(map[chart.Handle]chart.PaneSpec, len(s.panes))
	for handle, spec := range s.panes {
		panes[handle] = spec
	}
	return panes
}
