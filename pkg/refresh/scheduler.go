package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
)

// Default interval between background refreshes.
const defaultInterval = 60 * time.Second

// Params is the active symbol/period/interval triple a refresh is issued
// for.
type Params struct {
	Symbol   string
	Period   string
	Interval string
}

// Status is the read-only refresh state exposed to the surrounding UI.
type Status struct {
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
	InFlight        bool      `json:"in_flight"`
}

// Fetcher issues one analysis fetch for the given params.
type Fetcher func(ctx context.Context, p Params) (*core.Analysis, error)

// Apply consumes a successfully fetched payload. It is called without the
// scheduler lock held.
type Apply func(p Params, analysis *core.Analysis)

// Metrics receives scheduler events.
type Metrics interface {
	RecordRefresh(symbol, trigger string)
	RecordFailure(symbol string)
	RecordSkip(symbol string)
	RecordStaleDrop(symbol string)
	SetInFlight(inFlight bool)
	ObserveFetchDuration(symbol string, seconds float64)
}

// token identifies one issued fetch. Completions whose token no longer
// matches the scheduler's current epoch and active symbol are dropped
// unconditionally, success included: in-flight requests are never aborted,
// their results are filtered at completion time.
type token struct {
	epoch  int64
	params Params
}

// Scheduler drives the recurring background re-fetch of the active symbol.
//
// It is a state machine over {idle, scheduled, in-flight}: arming the timer
// moves idle to scheduled, a timer fire moves scheduled to in-flight, and a
// completion re-arms while auto-refresh stays enabled. Manual and automatic
// refreshes share one in-flight flag, so a tick that fires mid-fetch is
// skipped rather than queued: at most one refresh per symbol is in flight
// at any time.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	fetch    Fetcher
	apply    Apply
	log      logger.Logger
	metrics  Metrics

	enabled         bool
	active          Params
	hasData         bool
	inFlight        bool
	lastRefreshedAt time.Time
	timer           *time.Timer
	epoch           int64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval overrides the default refresh interval.
func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = interval
	}
}

// WithMetrics attaches a metrics recorder to the scheduler.
func WithMetrics(metrics Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = metrics
	}
}

// NewScheduler creates a scheduler. Auto-refresh starts enabled; nothing is
// armed until Start records a successfully loaded symbol.
func NewScheduler(fetch Fetcher, apply Apply, log logger.Logger, options ...Option) *Scheduler {
	scheduler := &Scheduler{
		interval: defaultInterval,
		fetch:    fetch,
		apply:    apply,
		log:      log,
		enabled:  true,
	}

	for _, option := range options {
		option(scheduler)
	}

	return scheduler
}

// Start begins auto-refreshing the given triple. The caller invokes it
// after the first successful fetch for the symbol has been rendered; the
// call atomically resets any previous symbol's state, so a pending tick for
// the old symbol can never fire and an in-flight fetch for it is dropped at
// completion.
func (s *Scheduler) Start(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.active = p
	s.hasData = true
	s.lastRefreshedAt = time.Now()

	if s.enabled {
		s.arm()
	}
}

// Stop cancels any pending tick and resets the refresh state. In-flight
// fetches are not aborted; their completions are dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.active = Params{}
	s.hasData = false
	s.lastRefreshedAt = time.Time{}
}

// Enable turns auto-refresh on. Enabling with no prior successful fetch is
// a no-op: there is nothing to refresh.
func (s *Scheduler) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = true
	if s.hasData && !s.inFlight && s.timer == nil {
		s.arm()
	}
}

// Disable turns auto-refresh off and cancels the pending tick. A refresh
// already in flight is allowed to complete and apply.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = false
	s.stopTimer()
}

// TriggerNow issues a manual refresh with the current active params. It is
// a no-op while a refresh is already in flight or when no symbol has been
// loaded. Returns whether a fetch was issued.
func (s *Scheduler) TriggerNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight || !s.hasData {
		return false
	}

	s.launch("manual")
	return true
}

// Status returns the read-only refresh state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		LastRefreshedAt: s.lastRefreshedAt,
		InFlight:        s.inFlight,
	}
}

// tick runs when the armed timer fires. The active params are read here, at
// fire time, never captured at arm time: the user may have switched symbols
// in between. A stale epoch means the arm was canceled after the timer had
// already fired.
func (s *Scheduler) tick(epoch int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return
	}
	s.timer = nil

	if !s.enabled || !s.hasData {
		return
	}

	if s.inFlight {
		// Skipped, not queued. The in-flight completion re-arms.
		if s.metrics != nil {
			s.metrics.RecordSkip(s.active.Symbol)
		}
		s.log.WithField("symbol", s.active.Symbol).Debug("refresh tick skipped, fetch in flight")
		return
	}

	s.launch("auto")
}

// launch issues a fetch for the current active params. Caller holds the
// lock.
func (s *Scheduler) launch(trigger string) {
	s.inFlight = true
	tok := token{epoch: s.epoch, params: s.active}

	if s.metrics != nil {
		s.metrics.RecordRefresh(tok.params.Symbol, trigger)
		s.metrics.SetInFlight(true)
	}

	go s.run(tok)
}

func (s *Scheduler) run(tok token) {
	started := time.Now()
	analysis, err := s.fetch(context.Background(), tok.params)
	elapsed := time.Since(started)

	if s.metrics != nil {
		s.metrics.ObserveFetchDuration(tok.params.Symbol, elapsed.Seconds())
	}

	s.complete(tok, analysis, err)
}

func (s *Scheduler) complete(tok token, analysis *core.Analysis, err error) {
	s.mu.Lock()

	if tok.epoch != s.epoch || tok.params.Symbol != s.active.Symbol {
		// The symbol changed or the scheduler was reset mid-flight. The
		// result is dropped unconditionally, success included; the new
		// state's flags are left untouched.
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.RecordStaleDrop(tok.params.Symbol)
		}
		s.log.WithField("symbol", tok.params.Symbol).Debug("dropped stale refresh result")
		return
	}

	s.inFlight = false
	if s.metrics != nil {
		s.metrics.SetInFlight(false)
	}

	var apply Apply
	if err != nil {
		// Silent failure policy: previously rendered data and the last
		// refreshed timestamp stay untouched.
		if s.metrics != nil {
			s.metrics.RecordFailure(tok.params.Symbol)
		}
		s.log.WithError(err).WithField("symbol", tok.params.Symbol).Warn("refresh failed, keeping previous data")
	} else {
		s.lastRefreshedAt = time.Now()
		apply = s.apply
	}

	if s.enabled {
		s.arm()
	}
	s.mu.Unlock()

	if apply != nil {
		apply(tok.params, analysis)
	}
}

// arm schedules the next tick. Caller holds the lock.
func (s *Scheduler) arm() {
	s.stopTimer()
	epoch := s.epoch
	s.timer = time.AfterFunc(s.interval, func() {
		s.tick(epoch)
	})
}

// reset bumps the epoch so pending timers and in-flight completions become
// stale, and clears the transient flags. Caller holds the lock.
func (s *Scheduler) reset() {
	s.epoch++
	s.stopTimer()
	s.inFlight = false
	if s.metrics != nil {
		s.metrics.SetInFlight(false)
	}
}

func (s *Scheduler) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
