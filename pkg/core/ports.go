package core

import (
	"context"
	"time"
)

// AnalysisFetcher issues one analysis fetch against the upstream API.
type AnalysisFetcher interface {
	Analyze(ctx context.Context, symbol, period, interval string) (*Analysis, error)
}

// Snapshot is the last successfully fetched analysis for a symbol, kept so
// the dashboard can warm-start after a reconnect or restart.
type Snapshot struct {
	Symbol      string    `json:"symbol"`
	Period      string    `json:"period"`
	Interval    string    `json:"interval"`
	Analysis    *Analysis `json:"analysis"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// SnapshotFilter selects snapshots during iteration.
type SnapshotFilter func(Snapshot) bool

// SnapshotStorage persists the latest good analysis per symbol.
type SnapshotStorage interface {
	SaveSnapshot(snapshot *Snapshot) error
	LastSnapshot(symbol string) (*Snapshot, error)
	Snapshots(filters ...SnapshotFilter) ([]*Snapshot, error)
	Close() error
}

// SignalChange describes a composite-signal transition observed between two
// consecutive payloads for the same symbol.
type SignalChange struct {
	Symbol     string
	Previous   string
	Current    string
	Confidence float64
	Price      float64
}

// Notifier receives signal-change events raised by refreshes.
type Notifier interface {
	SignalChanged(ctx context.Context, change SignalChange) error
}
