package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pricewatch/models"
)

// Header is the fixed ledger column order. It is written exactly once, when
// the file is first created.
var Header = []string{
	"timestamp_iso", "product_name", "page_title", "url",
	"price", "target_price", "screenshot_path",
}

// Ledger is the append-only CSV history of price observations. Rows are
// never rewritten; each Append opens the file in append mode, writes one
// row and syncs it to disk. Concurrent runs against the same path are not
// supported — there is no file locking.
type Ledger struct {
	path        string
	snapshotDir string
}

// NewLedger creates a Ledger rooted at path with snapshots under snapshotDir.
func NewLedger(path, snapshotDir string) *Ledger {
	return &Ledger{path: path, snapshotDir: snapshotDir}
}

// Path returns the ledger file path.
func (l *Ledger) Path() string { return l.path }

// SnapshotDir returns the directory snapshots are written into.
func (l *Ledger) SnapshotDir() string { return l.snapshotDir }

// EnsureInitialized creates the storage directories and the ledger file with
// its header row if absent. Safe to call every run; an existing file is left
// untouched.
func (l *Ledger) EnsureInitialized() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return models.NewWatchError(models.ErrCodePersistence, "create data dir", err)
	}
	if err := os.MkdirAll(l.snapshotDir, 0755); err != nil {
		return models.NewWatchError(models.ErrCodePersistence, "create snapshot dir", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return models.NewWatchError(models.ErrCodePersistence,
			fmt.Sprintf("create ledger %q", l.path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return models.NewWatchError(models.ErrCodePersistence, "write ledger header", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return models.NewWatchError(models.ErrCodePersistence, "flush ledger header", err)
	}
	return f.Sync()
}

// Append writes one observation row and flushes it durably before returning.
// Prices are recorded with exactly two decimal digits.
func (l *Ledger) Append(obs models.Observation) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return models.NewWatchError(models.ErrCodePersistence,
			fmt.Sprintf("open ledger %q for append", l.path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		obs.Timestamp.UTC().Format(time.RFC3339),
		obs.ProductName,
		obs.PageTitle,
		obs.URL,
		fmt.Sprintf("%.2f", obs.Price),
		fmt.Sprintf("%.2f", obs.TargetPrice),
		obs.SnapshotPath,
	}
	if err := w.Write(row); err != nil {
		return models.NewWatchError(models.ErrCodePersistence, "write ledger row", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return models.NewWatchError(models.ErrCodePersistence, "flush ledger row", err)
	}
	if err := f.Sync(); err != nil {
		return models.NewWatchError(models.ErrCodePersistence, "sync ledger", err)
	}
	return nil
}

// Tail returns the last n observation rows (excluding the header) in file
// order. A ledger that does not exist yet yields no rows and no error.
func (l *Ledger) Tail(n int) ([][]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, models.NewWatchError(models.ErrCodePersistence,
			fmt.Sprintf("open ledger %q", l.path), err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, models.NewWatchError(models.ErrCodePersistence, "read ledger", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := records[1:]
	if len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return rows, nil
}

// Close is a no-op; each Append owns its own file handle.
func (l *Ledger) Close() error { return nil }
