package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/tidwall/buntdb"
)

// BuntStorage implements core.SnapshotStorage using BuntDB. One key per
// symbol holds the latest good snapshot.
type BuntStorage struct {
	db *buntdb.DB
}

// FromMemory creates an in-memory storage
func FromMemory() (core.SnapshotStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage
func FromFile(file string) (core.SnapshotStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage creates a new BuntDB storage instance
func NewBuntStorage(sourceFile string) (core.SnapshotStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex("refreshed_index", "*", buntdb.IndexJSON("refreshed_at"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BuntStorage{db: db}, nil
}

// SaveSnapshot stores the latest good snapshot for its symbol, replacing
// any previous one.
func (b *BuntStorage) SaveSnapshot(snapshot *core.Snapshot) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		content, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}

		_, _, err = tx.Set(snapshot.Symbol, string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store snapshot: %w", err)
		}

		return nil
	})
}

// LastSnapshot returns the latest stored snapshot for a symbol.
func (b *BuntStorage) LastSnapshot(symbol string) (*core.Snapshot, error) {
	var snapshot core.Snapshot

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(symbol)
		if err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return core.ErrSnapshotNotFound
			}
			return fmt.Errorf("failed to read snapshot: %w", err)
		}

		return json.Unmarshal([]byte(value), &snapshot)
	})
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// Snapshots retrieves stored snapshots ordered by refresh time, filtered by
// the provided predicates.
func (b *BuntStorage) Snapshots(filters ...core.SnapshotFilter) ([]*core.Snapshot, error) {
	snapshots := make([]*core.Snapshot, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		err := tx.Ascend("refreshed_index", func(_, value string) bool {
			var snapshot core.Snapshot
			if err := json.Unmarshal([]byte(value), &snapshot); err != nil {
				return true // Skip unreadable entries and continue
			}

			for _, filter := range filters {
				if !filter(snapshot) {
					return true
				}
			}

			snapshots = append(snapshots, &snapshot)
			return true
		})

		if err != nil {
			return fmt.Errorf("failed to iterate over snapshots: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return snapshots, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
