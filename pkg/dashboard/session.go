package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/auth"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/chart"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/refresh"
)

// Session binds one viewer's dashboard state together: the active symbol,
// the overlay toggles, the pane synchronizer and the refresh scheduler.
//
// First loads and background refreshes differ deliberately: a failed Load
// returns its error to the caller so it can be shown, a failed refresh is
// swallowed and the previous data stays on screen.
type Session struct {
	mu         sync.Mutex
	fetcher    core.AnalysisFetcher
	panes      *chart.PaneSynchronizer
	visibility *chart.VisibilityStore
	scheduler  *refresh.Scheduler
	storage    core.SnapshotStorage
	notifier   core.Notifier
	identity   auth.Provider
	log        logger.Logger
	onUpdate   func(analysis *core.Analysis, status refresh.Status)

	params  refresh.Params
	current *core.Analysis
	loadSeq uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStorage persists the latest good snapshot per symbol.
func WithStorage(storage core.SnapshotStorage) SessionOption {
	return func(s *Session) {
		s.storage = storage
	}
}

// WithNotifier raises an alert when the composite signal flips between
// consecutive payloads of the same symbol.
func WithNotifier(notifier core.Notifier) SessionOption {
	return func(s *Session) {
		s.notifier = notifier
	}
}

// WithAuthProvider gates data loading on a signed-in identity.
func WithAuthProvider(provider auth.Provider) SessionOption {
	return func(s *Session) {
		s.identity = provider
	}
}

// WithOnUpdate registers a callback invoked after every successful load or
// refresh, with the applied payload and the current refresh status.
func WithOnUpdate(onUpdate func(analysis *core.Analysis, status refresh.Status)) SessionOption {
	return func(s *Session) {
		s.onUpdate = onUpdate
	}
}

// NewSession creates a session rendering onto the given surface.
func NewSession(
	fetcher core.AnalysisFetcher,
	surface chart.Surface,
	log logger.Logger,
	schedulerOptions []refresh.Option,
	options ...SessionOption,
) *Session {
	session := &Session{
		fetcher:    fetcher,
		panes:      chart.NewPaneSynchronizer(surface, log),
		visibility: chart.NewVisibilityStore(),
		log:        log,
	}

	for _, option := range options {
		option(session)
	}

	session.scheduler = refresh.NewScheduler(
		session.fetch,
		session.applyRefresh,
		log,
		schedulerOptions...,
	)

	return session
}

// Load performs the first fetch-and-render for a symbol. Unlike background
// refreshes, any failure is returned to the caller. On success the refresh
// scheduler is (re)started for the new triple.
//
// Staleness is decided at completion time: a load whose fetch finishes after
// a newer Load has been issued is dropped without rendering, even on
// success.
func (s *Session) Load(ctx context.Context, symbol, period, interval string) error {
	if s.identity != nil {
		identity, err := s.identity.Identity(ctx)
		if err != nil {
			return err
		}
		if identity == nil {
			return core.ErrNoIdentity
		}
	}

	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	analysis, err := s.fetcher.Analyze(ctx, symbol, period, interval)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if seq != s.loadSeq {
		s.mu.Unlock()
		s.log.WithField("symbol", symbol).Debug("superseded load dropped")
		return nil
	}

	if err := s.render(analysis); err != nil {
		s.mu.Unlock()
		return err
	}

	p := refresh.Params{Symbol: symbol, Period: period, Interval: interval}
	previous := s.swapCurrent(p, analysis)
	s.mu.Unlock()

	s.scheduler.Start(p)
	s.afterApply(ctx, p, previous, analysis)

	return nil
}

// fetch adapts the analysis client to the scheduler's Fetcher signature.
func (s *Session) fetch(ctx context.Context, p refresh.Params) (*core.Analysis, error) {
	return s.fetcher.Analyze(ctx, p.Symbol, p.Period, p.Interval)
}

// applyRefresh consumes a successful background refresh. Render errors are
// swallowed here: the payload was fetched for the still-active symbol, and
// a malformed refresh must leave the previous panes in place.
func (s *Session) applyRefresh(p refresh.Params, analysis *core.Analysis) {
	s.mu.Lock()
	if p.Symbol != s.params.Symbol {
		s.mu.Unlock()
		return
	}

	if err := s.render(analysis); err != nil {
		s.mu.Unlock()
		s.log.WithError(err).WithField("symbol", p.Symbol).Warn("refresh payload rejected, keeping previous panes")
		return
	}

	previous := s.swapCurrent(p, analysis)
	s.mu.Unlock()

	s.afterApply(context.Background(), p, previous, analysis)
}

// render rebuilds the panes from a payload. Caller holds the lock.
func (s *Session) render(analysis *core.Analysis) error {
	return s.panes.Render(analysis.Bars, analysis.Overlays, s.visibility.Snapshot())
}

// swapCurrent installs a new payload and returns the one it replaced.
// Caller holds the lock.
func (s *Session) swapCurrent(p refresh.Params, analysis *core.Analysis) *core.Analysis {
	previous := s.current
	s.params = p
	s.current = analysis
	return previous
}

// afterApply runs the post-render side effects: snapshot persistence,
// signal-change notification and the update callback.
func (s *Session) afterApply(ctx context.Context, p refresh.Params, previous, analysis *core.Analysis) {
	if s.storage != nil {
		snapshot := &core.Snapshot{
			Symbol:      p.Symbol,
			Period:      p.Period,
			Interval:    p.Interval,
			Analysis:    analysis,
			RefreshedAt: time.Now(),
		}
		if err := s.storage.SaveSnapshot(snapshot); err != nil {
			s.log.WithError(err).Warn("failed to persist snapshot")
		}
	}

	s.notifySignalChange(ctx, previous, analysis)

	if s.onUpdate != nil {
		s.onUpdate(analysis, s.scheduler.Status())
	}
}

func (s *Session) notifySignalChange(ctx context.Context, previous, current *core.Analysis) {
	if s.notifier == nil || previous == nil {
		return
	}
	if previous.Ticker != current.Ticker {
		return
	}
	if previous.Indicators.CompositeSignal == current.Indicators.CompositeSignal {
		return
	}

	change := core.SignalChange{
		Symbol:     current.Ticker,
		Previous:   previous.Indicators.CompositeSignal,
		Current:    current.Indicators.CompositeSignal,
		Confidence: current.Indicators.Confidence,
		Price:      current.CurrentPrice,
	}

	if err := s.notifier.SignalChanged(ctx, change); err != nil {
		s.log.WithError(err).WithField("symbol", change.Symbol).Warn("failed to send signal change alert")
	}
}

// ToggleOverlay flips one overlay and re-renders the current payload with
// the new visibility. Toggling with no data loaded only flips the stored
// preference.
func (s *Session) ToggleOverlay(key chart.OverlayKey) bool {
	visible := s.visibility.Toggle(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		if err := s.render(s.current); err != nil {
			s.log.WithError(err).Warn("re-render after toggle failed")
		}
	}

	return visible
}

// Resize propagates a new container width to the panes without rebuilding
// them.
func (s *Session) Resize(width int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panes.Resize(width)
}

// SetAutoRefresh enables or disables the background refresh loop.
func (s *Session) SetAutoRefresh(enabled bool) {
	if enabled {
		s.scheduler.Enable()
		return
	}
	s.scheduler.Disable()
}

// RefreshNow issues a manual refresh. Returns whether a fetch was issued.
func (s *Session) RefreshNow() bool {
	return s.scheduler.TriggerNow()
}

// Params returns the active symbol triple.
func (s *Session) Params() refresh.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Current returns the most recently applied payload, or nil before the
// first successful load.
func (s *Session) Current() *core.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Visibility returns a snapshot of the overlay toggles.
func (s *Session) Visibility() chart.Visibility {
	return s.visibility.Snapshot()
}

// RefreshStatus returns the scheduler's read-only state.
func (s *Session) RefreshStatus() refresh.Status {
	return s.scheduler.Status()
}

// Close stops the refresh loop and releases the pane resources.
func (s *Session) Close() {
	s.scheduler.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.panes.Close()
	s.current = nil
	s.params = refresh.Params{}
}
