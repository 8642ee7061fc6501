package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/vantage"
	"github.com/StudioSol/set"
	"github.com/robfig/cron/v3"
)

// WatchlistSource fetches quotes for one watchlist category.
type WatchlistSource interface {
	WatchlistCategory(ctx context.Context, category string) ([]vantage.WatchItem, error)
}

// Watchboard periodically polls the curated watchlist and broadcasts the
// quotes to all connected clients. It is independent of the active symbol:
// the sidebar keeps updating while the main panes sit on one ticker.
type Watchboard struct {
	cron       *cron.Cron
	source     WatchlistSource
	ws         *WebSocketManager
	categories []string
	known      *set.LinkedHashSetString
	log        logger.Logger
}

// NewWatchboard creates a watchboard polling the given categories on the
// cron spec.
func NewWatchboard(
	source WatchlistSource,
	ws *WebSocketManager,
	spec string,
	categories []string,
	log logger.Logger,
) (*Watchboard, error) {
	board := &Watchboard{
		cron:       cron.New(),
		source:     source,
		ws:         ws,
		categories: categories,
		known:      set.NewLinkedHashSetString(),
		log:        log,
	}

	if _, err := board.cron.AddFunc(spec, board.poll); err != nil {
		return nil, fmt.Errorf("failed to register watchboard poll: %w", err)
	}

	return board, nil
}

// Start begins the polling loop with one immediate poll so clients do not
// wait a full cron period for the first board.
func (b *Watchboard) Start() {
	go b.poll()
	b.cron.Start()
	b.log.Info("watchboard started")
}

// Stop stops the polling loop.
func (b *Watchboard) Stop() {
	b.cron.Stop()
}

// poll fetches every category and broadcasts the combined board. Failed
// categories are skipped; the board ships with whatever succeeded.
func (b *Watchboard) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	board := make(map[string][]vantage.WatchItem, len(b.categories))
	for _, category := range b.categories {
		items, err := b.source.WatchlistCategory(ctx, category)
		if err != nil {
			b.log.WithError(err).WithField("category", category).Warn("watchboard poll failed for category")
			continue
		}
		board[category] = items

		for _, item := range items {
			b.known.Add(item.Ticker)
		}
	}

	if len(board) == 0 {
		return
	}

	b.ws.Broadcast("watchboard", map[string]any{
		"categories": board,
		"tickers":    b.Tickers(),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// Tickers returns every ticker seen on the board since startup, in first
// seen order.
func (b *Watchboard) Tickers() []string {
	var tickers []string
	for ticker := range b.known.Iter() {
		tickers = append(tickers, ticker)
	}
	return tickers
}
