// Package history keeps a local ledger of library actions in SQLite.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/modkeeper/modkeeper/internal/library"
)

// Ledger implements library.Recorder.
type Ledger struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (or creates) the ledger database at path and migrates it.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}

	// GORM writes through the application logger, warnings and up.
	newLogger := gormlogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(gormlite.Open(path), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&ActionRecord{}); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	return &Ledger{db: db, logger: logger}, nil
}

func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores one action outcome.
func (l *Ledger) Record(o library.Outcome) error {
	rec := ActionRecord{
		Op:         o.Op,
		LibraryID:  o.LibraryID,
		OK:         o.Err == nil,
		DurationMS: o.Duration.Milliseconds(),
		At:         o.At,
	}
	if o.Err != nil {
		rec.Message = o.Err.Error()
		var aerr *library.ActionError
		if errors.As(o.Err, &aerr) {
			rec.ErrorKind = string(aerr.Kind())
		}
	}
	if err := l.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record %s: %w", o.Op, err)
	}
	return nil
}

// Filter narrows List results. Zero values mean no restriction.
type Filter struct {
	Limit      int
	FailedOnly bool
	Op         string
	LibraryID  string
}

// List returns matching records, newest first.
func (l *Ledger) List(ctx context.Context, f Filter) ([]ActionRecord, error) {
	q := l.db.WithContext(ctx).Model(&ActionRecord{})
	if f.FailedOnly {
		q = q.Where("ok = ?", false)
	}
	if f.Op != "" {
		q = q.Where("op = ?", f.Op)
	}
	if f.LibraryID != "" {
		q = q.Where("library_id = ?", f.LibraryID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var recs []ActionRecord
	if err := q.Order("at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return recs, nil
}

// Prune deletes records older than before and returns how many were removed.
func (l *Ledger) Prune(ctx context.Context, before time.Time) (int64, error) {
	res := l.db.WithContext(ctx).Unscoped().Where("at < ?", before).Delete(&ActionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune history: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		l.logger.Info("pruned action history", "removed", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

var _ library.Recorder = (*Ledger)(nil)
