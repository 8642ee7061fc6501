package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// snapshotRecord is the GORM row shape; the payload travels as JSON so the
// schema stays stable across payload changes.
type snapshotRecord struct {
	ID          uint   `gorm:"primaryKey"`
	Symbol      string `gorm:"uniqueIndex"`
	Period      string
	Interval    string
	Payload     []byte
	RefreshedAt time.Time
}

// SQLStorage implements core.SnapshotStorage using a SQL database via GORM.
// The dialector is injected by the embedding application; this package
// carries no driver.
type SQLStorage struct {
	db *gorm.DB
}

// FromSQL creates a new SQL storage instance
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (core.SnapshotStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&snapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// SaveSnapshot upserts the latest good snapshot for its symbol.
func (s *SQLStorage) SaveSnapshot(snapshot *core.Snapshot) error {
	payload, err := json.Marshal(snapshot.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	record := snapshotRecord{
		Symbol:      snapshot.Symbol,
		Period:      snapshot.Period,
		Interval:    snapshot.Interval,
		Payload:     payload,
		RefreshedAt: snapshot.RefreshedAt,
	}

	var existing snapshotRecord
	result := s.db.Where("symbol = ?", snapshot.Symbol).First(&existing)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up snapshot: %w", result.Error)
		}
		if result := s.db.Create(&record); result.Error != nil {
			return fmt.Errorf("failed to create snapshot: %w", result.Error)
		}
		return nil
	}

	record.ID = existing.ID
	if result := s.db.Save(&record); result.Error != nil {
		return fmt.Errorf("failed to update snapshot: %w", result.Error)
	}

	return nil
}

// LastSnapshot returns the latest stored snapshot for a symbol.
func (s *SQLStorage) LastSnapshot(symbol string) (*core.Snapshot, error) {
	var record snapshotRecord

	result := s.db.Where("symbol = ?", symbol).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, core.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to fetch snapshot: %w", result.Error)
	}

	return record.toSnapshot()
}

// Snapshots retrieves stored snapshots ordered by refresh time, filtered in
// memory by the provided predicates.
func (s *SQLStorage) Snapshots(filters ...core.SnapshotFilter) ([]*core.Snapshot, error) {
	var records []snapshotRecord

	result := s.db.Order("refreshed_at").Find(&records)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch snapshots: %w", result.Error)
	}

	snapshots := make([]*core.Snapshot, 0, len(records))
	for _, record := range records {
		snapshot, err := record.toSnapshot()
		if err != nil {
			continue // Skip unreadable rows
		}
		snapshots = append(snapshots, snapshot)
	}

	filtered := lo.Filter(snapshots, func(snapshot *core.Snapshot, _ int) bool {
		for _, filter := range filters {
			if !filter(*snapshot) {
				return false
			}
		}
		return true
	})

	return filtered, nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}

func (r snapshotRecord) toSnapshot() (*core.Snapshot, error) {
	var analysis core.Analysis
	if err := json.Unmarshal(r.Payload, &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot payload: %w", err)
	}

	return &core.Snapshot{
		Symbol:      r.Symbol,
		Period:      r.Period,
		Interval:    r.Interval,
		Analysis:    &analysis,
		RefreshedAt: r.RefreshedAt,
	}, nil
}
