package main

import (
	"context"
	"os"
	"time"

	"pricewatch/browser"
	"pricewatch/catalog"
	"pricewatch/config"
	"pricewatch/extractor"
	"pricewatch/scraper"
	"pricewatch/services"
	"pricewatch/storage"
	"pricewatch/tracker"
	"pricewatch/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== pricewatch starting ===")
	logger.Info("Config — catalog: %s | ledger: %s | retries: %d | nav timeout: %dms",
		cfg.CatalogPath, cfg.LedgerPath, cfg.RetryAttempts, cfg.NavTimeoutMs)

	products, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("Failed to load product catalog: %v", err)
		os.Exit(1)
	}
	logger.Info("Catalog loaded — %d products", len(products))

	ledger := storage.NewLedger(cfg.LedgerPath, cfg.SnapshotDir)
	if err := ledger.EnsureInitialized(); err != nil {
		logger.Error("Failed to initialize ledger storage: %v", err)
		os.Exit(1)
	}

	var mirror storage.ObservationAppender
	if cfg.PostgresEnabled {
		pg, err := storage.NewPostgresLedger(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pg.Close()
		mirror = pg
		logger.Info("PostgreSQL mirror enabled (table: observations)")
	}

	session, err := browser.Provision(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Browser session acquisition failed: %v", err)
		os.Exit(1)
	}
	defer session.Close()

	notifier := services.NewNotifier(cfg.WebhookURL,
		time.Duration(cfg.WebhookTimeoutMs)*time.Millisecond, logger)
	if notifier.Enabled() {
		logger.Info("Price alerts enabled — webhook configured")
	} else {
		logger.Info("Price alerts disabled — no webhook configured")
	}

	page := scraper.NewPage(session, cfg, logger)
	t := tracker.New(cfg, logger, extractor.NewRegistry(), ledger, mirror, notifier)

	skipped := t.Run(page, products)
	if skipped > 0 {
		logger.Warn("Run finished — %d of %d products skipped or failed", skipped, len(products))
	} else {
		logger.Info("Run finished — all %d products recorded", len(products))
	}

	services.NewSummaryService(logger).PrintRecent(ledger, cfg.SummaryRows)
}
