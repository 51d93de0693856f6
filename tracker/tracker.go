package tracker

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/config"
	"pricewatch/extractor"
	"pricewatch/models"
	"pricewatch/storage"
	"pricewatch/utils"
)

// Page is the live browser tab the tracker drives. scraper.ChromePage is the
// real implementation; tests substitute a fake.
type Page interface {
	Navigate(url string) error
	Document() (*goquery.Document, error)
	Screenshot(path string) error
}

// Notifier evaluates the threshold rule for a recorded observation and
// dispatches the alert when it holds.
type Notifier interface {
	NotifyIfNeeded(obs models.Observation)
}

// Tracker runs the per-product pipeline: navigate, extract with retry,
// snapshot, persist, notify. Products are processed strictly in catalog
// order on a single tab; one product's failure never aborts the run.
type Tracker struct {
	logger   *utils.Logger
	registry extractor.Registry
	ledger   *storage.Ledger
	mirror   storage.ObservationAppender
	notifier Notifier
	retry    *utils.RetryConfig
	now      func() time.Time
}

// New creates a Tracker. mirror may be nil when no PostgreSQL mirror is
// configured.
func New(cfg *config.Config, logger *utils.Logger, registry extractor.Registry,
	ledger *storage.Ledger, mirror storage.ObservationAppender, notifier Notifier) *Tracker {
	return &Tracker{
		logger:   logger,
		registry: registry,
		ledger:   ledger,
		mirror:   mirror,
		notifier: notifier,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
			Logger:      logger,
		},
		now: time.Now,
	}
}

// Run visits every catalog product in order and returns the number of
// products that were skipped or failed. It always attempts the full catalog.
func (t *Tracker) Run(page Page, products []models.Product) int {
	skipped := 0
	for _, product := range products {
		ex, ok := t.registry.Lookup(product.Site)
		if !ok {
			t.logger.Warn("[skip] No extractor for site %q (%s)", product.Site, product.Name)
			skipped++
			continue
		}

		if err := t.trackProduct(page, ex, product); err != nil {
			t.logger.Error("[tracker] %s: %v", product.Name, err)
			skipped++
		}
	}
	return skipped
}

func (t *Tracker) trackProduct(page Page, ex extractor.Extractor, product models.Product) error {
	t.logger.Info("[tracker] Visiting: %s", product.URL)

	if err := page.Navigate(product.URL); err != nil {
		return err
	}

	result, err := t.extractWithRetry(page, ex, product)
	if err != nil {
		return err
	}

	snapshotPath := filepath.Join(t.ledger.SnapshotDir(),
		fmt.Sprintf("%d_%s.png", t.now().Unix(), product.Site))
	if err := page.Screenshot(snapshotPath); err != nil {
		return err
	}

	obs := models.Observation{
		Timestamp:    t.now().UTC().Truncate(time.Second),
		ProductName:  product.Name,
		PageTitle:    result.Title,
		URL:          product.URL,
		Price:        result.Price,
		TargetPrice:  product.TargetPrice,
		SnapshotPath: snapshotPath,
	}

	if err := t.ledger.Append(obs); err != nil {
		return err
	}
	if t.mirror != nil {
		// The CSV row is already durable; a mirror failure only loses the
		// queryable copy.
		if err := t.mirror.Append(obs); err != nil {
			t.logger.Warn("[tracker] Postgres mirror append failed for %s: %v", product.Name, err)
		}
	}

	t.logger.Info("[ok] %s | %.2f (target %.2f)", product.Name, result.Price, product.TargetPrice)

	t.notifier.NotifyIfNeeded(obs)
	return nil
}

// extractWithRetry re-reads the still-loaded page on each attempt. It
// tolerates flaky selector resolution, not flaky navigation — the page is
// not reloaded between attempts.
func (t *Tracker) extractWithRetry(page Page, ex extractor.Extractor, product models.Product) (models.ExtractionResult, error) {
	var result models.ExtractionResult
	err := t.retry.Do(fmt.Sprintf("extract-%s", product.Site), func() error {
		doc, err := page.Document()
		if err != nil {
			return err
		}
		r, err := ex.Extract(doc)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}
