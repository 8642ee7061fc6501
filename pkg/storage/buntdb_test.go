package storage

import (
	"testing"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(symbol string, refreshedAt time.Time) *core.Snapshot {
	return &core.Snapshot{
		Symbol:   symbol,
		Period:   "1y",
		Interval: "1d",
		Analysis: &core.Analysis{
			Ticker:       symbol,
			CurrentPrice: 100,
			Bars: []core.Bar{
				{Date: "2024-01-02", Open: 99, High: 101, Low: 98, Close: 100, Volume: 1000},
			},
			Indicators: core.IndicatorSignals{CompositeSignal: "HOLD", Confidence: 50},
		},
		RefreshedAt: refreshedAt,
	}
}

func TestBuntStorage_SaveAndLoad(t *testing.T) {
	store, err := FromMemory()
	require.NoError(t, err)
	defer store.Close()

	snapshot := testSnapshot("AAPL", time.Now().UTC())
	require.NoError(t, store.SaveSnapshot(snapshot))

	got, err := store.LastSnapshot("AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, "1y", got.Period)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, 100.0, got.Analysis.CurrentPrice)
	require.Len(t, got.Analysis.Bars, 1)
}

func TestBuntStorage_SaveReplacesPrevious(t *testing.T) {
	store, err := FromMemory()
	require.NoError(t, err)
	defer store.Close()

	first := testSnapshot("AAPL", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, store.SaveSnapshot(first))

	second := testSnapshot("AAPL", time.Now().UTC())
	second.Analysis.CurrentPrice = 105
	require.NoError(t, store.SaveSnapshot(second))

	got, err := store.LastSnapshot("AAPL")
	require.NoError(t, err)
	assert.Equal(t, 105.0, got.Analysis.CurrentPrice)

	all, err := store.Snapshots()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBuntStorage_NotFound(t *testing.T) {
	store, err := FromMemory()
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LastSnapshot("UNKNOWN")
	require.ErrorIs(t, err, core.ErrSnapshotNotFound)
}

func TestBuntStorage_SnapshotsOrderedAndFiltered(t *testing.T) {
	store, err := FromMemory()
	require.NoError(t, err)
	defer store.Close()

	now := time.Now().UTC()
	require.NoError(t, store.SaveSnapshot(testSnapshot("MSFT", now.Add(-2*time.Hour))))
	require.NoError(t, store.SaveSnapshot(testSnapshot("AAPL", now.Add(-time.Hour))))
	require.NoError(t, store.SaveSnapshot(testSnapshot("TSLA", now)))

	all, err := store.Snapshots()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "MSFT", all[0].Symbol)
	assert.Equal(t, "TSLA", all[2].Symbol)

	recent, err := store.Snapshots(func(s core.Snapshot) bool {
		return s.RefreshedAt.After(now.Add(-90 * time.Minute))
	})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "AAPL", recent[0].Symbol)
	assert.Equal(t, "TSLA", recent[1].Symbol)
}
