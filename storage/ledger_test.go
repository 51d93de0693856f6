package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pricewatch/models"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	dir := t.TempDir()
	return NewLedger(filepath.Join(dir, "prices.csv"), filepath.Join(dir, "snapshots"))
}

func testObservation(price float64) models.Observation {
	return models.Observation{
		Timestamp:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		ProductName:  "A Light in the Attic",
		PageTitle:    "A Light in the Attic",
		URL:          "https://books.toscrape.com/catalogue/a-light-in-the-attic_1000/index.html",
		Price:        price,
		TargetPrice:  52,
		SnapshotPath: "snapshots/1709294400_books_to_scrape.png",
	}
}

func TestEnsureInitializedCreatesHeaderAndDirs(t *testing.T) {
	l := newTestLedger(t)
	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	if _, err := os.Stat(l.SnapshotDir()); err != nil {
		t.Errorf("snapshot dir not created: %v", err)
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != strings.Join(Header, ",") {
		t.Errorf("unexpected header line: %q", got)
	}
}

func TestEnsureInitializedIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := l.Append(testObservation(51.7)); err != nil {
		t.Fatalf("append: %v", err)
	}

	// A second init must neither duplicate the header nor truncate rows.
	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("second init: %v", err)
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if strings.Count(string(data), "timestamp_iso") != 1 {
		t.Error("header was duplicated")
	}
}

func TestAppendFormatsPricesToTwoDecimals(t *testing.T) {
	l := newTestLedger(t)
	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := l.Append(testObservation(51.7)); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows, err := l.Tail(1)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][4] != "51.70" {
		t.Errorf("price column = %q; want 51.70", rows[0][4])
	}
	if rows[0][5] != "52.00" {
		t.Errorf("target_price column = %q; want 52.00", rows[0][5])
	}
	if rows[0][0] != "2024-03-01T12:00:00Z" {
		t.Errorf("timestamp column = %q", rows[0][0])
	}
}

func TestAppendPreservesEarlierRows(t *testing.T) {
	l := newTestLedger(t)
	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, price := range []float64{10, 20, 30} {
		if err := l.Append(testObservation(price)); err != nil {
			t.Fatalf("append %.2f: %v", price, err)
		}
	}

	rows, err := l.Tail(100)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][4] != "10.00" || rows[2][4] != "30.00" {
		t.Errorf("rows out of append order: %v", rows)
	}
}

func TestTailLimitsAndOrders(t *testing.T) {
	l := newTestLedger(t)
	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, price := range []float64{1, 2, 3, 4, 5} {
		if err := l.Append(testObservation(price)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rows, err := l.Tail(2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][4] != "4.00" || rows[1][4] != "5.00" {
		t.Errorf("expected the last two rows, got %v", rows)
	}
}

func TestTailOnMissingLedger(t *testing.T) {
	l := newTestLedger(t)
	rows, err := l.Tail(10)
	if err != nil {
		t.Fatalf("tail on missing file: %v", err)
	}
	if rows != nil {
		t.Errorf("expected no rows, got %v", rows)
	}
}
