// Package changelog persists inventory change events as per-inventory
// JSONL files: one file per inventory entity, one JSON object per
// line, append-only. The log is the durable record; downstream readers
// treat lines as idempotent by content.
package changelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/kasuganosora/craftmirror/gamestate"
	"go.uber.org/zap"
)

// Writer appends change events under <dir>/Inventory/. A single mutex
// sequences appends so two events never interleave half-written lines.
type Writer struct {
	dir    string
	debug  bool
	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter creates a Writer rooted at dir. With debug enabled, every
// append also overwrites <id>_latest.json with a pretty-printed copy
// of the newest event for quick inspection.
func NewWriter(dir string, debug bool, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, debug: debug, logger: logger}
}

// Path returns the log file for one inventory.
func (w *Writer) Path(inventoryID int64) string {
	return filepath.Join(w.dir, "Inventory", strconv.FormatInt(inventoryID, 10)+".json")
}

// EnsureFile creates the file and its parent directory if absent.
// Calling it on an existing file changes nothing.
func EnsureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure dir for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ensure %s: %w", path, err)
	}
	return f.Close()
}

// Append writes one event as a single JSON line to its inventory's
// log. A failed append is retried once; if the retry also fails the
// event is logged and dropped, and the error returned for the caller's
// accounting. Appends are ordered across the whole writer.
func (w *Writer) Append(event gamestate.InventoryChange) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.Path(event.InventoryID)
	if err := w.appendLine(path, line); err != nil {
		w.logger.Warn("append failed, retrying once",
			zap.String("path", path),
			zap.Error(err))
		if err = w.appendLine(path, line); err != nil {
			w.logger.Error("append failed twice, dropping event",
				zap.String("path", path),
				zap.Int64("inventory_id", event.InventoryID),
				zap.Error(err))
			return err
		}
	}

	if w.debug {
		w.writeLatest(event)
	}
	return nil
}

func (w *Writer) appendLine(path string, line []byte) error {
	if err := EnsureFile(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}
	return f.Close()
}

// writeLatest overwrites the <id>_latest.json debug mirror; failures
// only log, the canonical append already succeeded.
func (w *Writer) writeLatest(event gamestate.InventoryChange) {
	pretty, err := json.MarshalIndent(event, "", "   ")
	if err != nil {
		return
	}
	path := filepath.Join(w.dir, "Inventory", strconv.FormatInt(event.InventoryID, 10)+"_latest.json")
	if err := os.WriteFile(path, pretty, 0o644); err != nil {
		w.logger.Warn("latest-event mirror write failed",
			zap.String("path", path),
			zap.Error(err))
	}
}

// Read loads every event logged for one inventory, oldest first. A
// missing file is an empty history, not an error. Unparseable lines
// are skipped.
func (w *Writer) Read(inventoryID int64) ([]gamestate.InventoryChange, error) {
	f, err := os.Open(w.Path(inventoryID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open change log: %w", err)
	}
	defer f.Close()

	var out []gamestate.InventoryChange
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var event gamestate.InventoryChange
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			w.logger.Warn("skipping corrupt change log line",
				zap.Int64("inventory_id", inventoryID),
				zap.Error(err))
			continue
		}
		out = append(out, event)
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("scan change log: %w", err)
	}
	return out, nil
}
