// Package archive mirrors inventory change events into a relational
// table for ad hoc querying. It is an optional secondary sink: the
// JSONL change log remains the canonical record, and archive failures
// never block event handling.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kasuganosora/craftmirror/config"
	"github.com/kasuganosora/craftmirror/gamestate"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// Open returns a migrated *gorm.DB for the configured archive mode.
func Open(cfg config.ArchiveConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error
	switch cfg.Mode {
	case ModeSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	case ModeMySQL:
		db, err = gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, err
		}
		sqlDB, derr := db.DB()
		if derr != nil {
			return nil, derr
		}
		sqlDB.SetMaxOpenConns(cfg.MySQLMaxOpen)
		sqlDB.SetMaxIdleConns(cfg.MySQLMaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.MySQLMaxLife)
	default:
		return nil, fmt.Errorf("archive: unknown mode %q", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&ChangeEventRecord{}); err != nil {
		return nil, fmt.Errorf("archive migrate: %w", err)
	}
	return db, nil
}

// Service writes archive records asynchronously in batches.
type Service struct {
	db            *gorm.DB
	ch            chan *ChangeEventRecord
	stopCh        chan struct{}
	wg            sync.WaitGroup
	logger        *zap.Logger
	batchSize     int
	flushInterval time.Duration
}

// New creates a Service and starts its background worker.
func New(db *gorm.DB, batchSize int, flushInterval time.Duration, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	svc := &Service{
		db:            db,
		ch:            make(chan *ChangeEventRecord, 1024),
		stopCh:        make(chan struct{}),
		logger:        logger,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Record enqueues one change event for async write. A full queue drops
// the record with a warning rather than blocking the feed.
func (svc *Service) Record(event gamestate.InventoryChange) {
	payload, _ := json.Marshal(event)
	record := &ChangeEventRecord{
		EventID:     event.EventID,
		InventoryID: event.InventoryID,
		Identity:    event.Identity,
		PlayerID:    event.PlayerEntityID,
		PlayerName:  event.PlayerName,
		Kind:        eventKind(event),
		Timestamp:   event.Timestamp,
		Payload:     datatypes.JSON(payload),
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("archive queue full, dropping record",
			zap.Int64("inventory_id", event.InventoryID))
	}
}

func eventKind(event gamestate.InventoryChange) string {
	switch {
	case event.Created != nil:
		return KindCreated
	case event.Deleted != nil:
		return KindDeleted
	default:
		return KindDiff
	}
}

// Stop flushes remaining records and shuts down the worker. It blocks
// until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(svc.flushInterval)
	defer ticker.Stop()

	batch := make([]*ChangeEventRecord, 0, svc.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("archive batch write failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case record := <-svc.ch:
			batch = append(batch, record)
			if len(batch) >= svc.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			// Drain remaining records.
			for {
				select {
				case record := <-svc.ch:
					batch = append(batch, record)
				default:
					flush()
					return
				}
			}
		}
	}
}
