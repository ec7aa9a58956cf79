package store

import (
	"context"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/benz9527/idxbench/lib/infra"
)

const batchSize = 128

// Store persists result rows into SQLite. Every Store instance is one run.
type Store struct {
	db    *gorm.DB
	runID string
	seq   int
}

// Open opens (or creates) the SQLite file and migrates the results table.
func Open(path string, logger glogger.Interface) (*Store, error) {
	if len(path) == 0 {
		return nil, infra.NewErrorStack("[store] empty sqlite path")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger,
	})
	if err != nil {
		return nil, infra.WrapErrorStack(err, "[store] open "+path)
	}
	if err = db.AutoMigrate(&Result{}); err != nil {
		sqlDB, _err := db.DB()
		if _err == nil {
			err = multierr.Append(err, sqlDB.Close())
		}
		return nil, infra.WrapErrorStack(err, "[store] migrate results")
	}
	return New(db), nil
}

// New uses an already opened and migrated connection.
func New(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		runID: uuid.NewString(),
	}
}

func (s *Store) RunID() string {
	return s.runID
}

// SaveRows stamps the rows with the run id, a fresh row id and the run
// sequence, then inserts them in a single transaction.
func (s *Store) SaveRows(ctx context.Context, seed uint64, rows ...Result) error {
	if len(rows) == 0 {
		return nil
	}
	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		row.ID = uuid.NewString()
		row.RunID = s.runID
		row.Seed = seed
		row.Seq = s.seq + len(results)
		results = append(results, row)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(results, batchSize).Error
	})
	if err != nil {
		return infra.WrapErrorStack(err, "[store] save rows")
	}
	s.seq += len(results)
	return nil
}

// ListRun returns the rows of a run in insertion order.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Result, error) {
	var results []Result
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("seq").
		Find(&results).Error
	if err != nil {
		return nil, infra.WrapErrorStack(err, "[store] list run "+runID)
	}
	return results, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return infra.WrapErrorStack(err, "[store] close")
	}
	return sqlDB.Close()
}
