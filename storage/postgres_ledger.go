package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"pricewatch/models"
)

// PostgresLedger mirrors observations into PostgreSQL for querying. The CSV
// ledger stays the record of truth; this backend is optional and, like the
// CSV file, strictly append-only.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresLedger.
func NewPostgresLedger(dsn string) (*PostgresLedger, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pl := &PostgresLedger{db: db}
	if err := pl.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pl, nil
}

func (pl *PostgresLedger) migrate() error {
	_, err := pl.db.Exec(`
		CREATE TABLE IF NOT EXISTS observations (
			id            SERIAL PRIMARY KEY,
			observed_at   TIMESTAMPTZ   NOT NULL,
			product_name  TEXT          NOT NULL,
			page_title    TEXT          NOT NULL DEFAULT '',
			url           TEXT          NOT NULL,
			price         NUMERIC(10,2) NOT NULL,
			target_price  NUMERIC(10,2) NOT NULL,
			snapshot_path TEXT          NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_observations_product  ON observations(product_name);
		CREATE INDEX IF NOT EXISTS idx_observations_observed ON observations(observed_at);
	`)
	return err
}

// Append inserts one observation row.
func (pl *PostgresLedger) Append(obs models.Observation) error {
	_, err := pl.db.Exec(`
		INSERT INTO observations
			(observed_at, product_name, page_title, url, price, target_price, snapshot_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		obs.Timestamp.UTC(), obs.ProductName, obs.PageTitle, obs.URL,
		obs.Price, obs.TargetPrice, obs.SnapshotPath,
	)
	if err != nil {
		return models.NewWatchError(models.ErrCodePersistence, "postgres insert", err)
	}
	return nil
}

// FetchRecent retrieves the n most recent observations, oldest first.
func (pl *PostgresLedger) FetchRecent(n int) ([]*models.Observation, error) {
	rows, err := pl.db.Query(`
		SELECT observed_at, product_name, page_title, url, price, target_price, snapshot_path
		FROM observations
		ORDER BY id DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch recent: %w", err)
	}
	defer rows.Close()

	var obs []*models.Observation
	for rows.Next() {
		o := &models.Observation{}
		if err := rows.Scan(
			&o.Timestamp, &o.ProductName, &o.PageTitle, &o.URL,
			&o.Price, &o.TargetPrice, &o.SnapshotPath,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(obs)-1; i < j; i, j = i+1, j-1 {
		obs[i], obs[j] = obs[j], obs[i]
	}
	return obs, nil
}

func (pl *PostgresLedger) Close() error {
	return pl.db.Close()
}
