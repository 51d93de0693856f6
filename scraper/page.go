package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"pricewatch/browser"
	"pricewatch/config"
	"pricewatch/models"
	"pricewatch/utils"
)

// ChromePage is the single live tab the tracker drives over chromedp.
// Every operation is bounded by a timeout so nothing can hang the run.
type ChromePage struct {
	ctx        context.Context
	navTimeout time.Duration
	settle     time.Duration
	domTimeout time.Duration
	logger     *utils.Logger
}

// NewPage creates the run's tab inside the given session.
func NewPage(session *browser.Session, cfg *config.Config, logger *utils.Logger) *ChromePage {
	return &ChromePage{
		ctx:        session.Context(),
		navTimeout: time.Duration(cfg.NavTimeoutMs) * time.Millisecond,
		settle:     time.Duration(cfg.SettleMs) * time.Millisecond,
		domTimeout: time.Duration(cfg.DOMTimeoutMs) * time.Millisecond,
		logger:     logger,
	}
}

// Navigate loads url, waits for the document to be ready, then gives the
// page a fixed settle window for late-rendering content. A deadline hit
// surfaces as a navigation timeout, which the tracker treats as a
// per-product failure.
func (p *ChromePage) Navigate(url string) error {
	p.logger.Debug("[page] Navigating to %s", url)

	runCtx, cancel := context.WithTimeout(p.ctx, p.navTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(p.settle),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.NewWatchError(models.ErrCodeNavTimeout,
				fmt.Sprintf("navigate %s", url), err)
		}
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Document captures the current DOM and parses it for the extractors.
// Repeated calls re-read the same loaded page; navigation state is not
// reset between retry attempts.
func (p *ChromePage) Document() (*goquery.Document, error) {
	runCtx, cancel := context.WithTimeout(p.ctx, p.domTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, models.NewWatchError(models.ErrCodeExtraction, "capture page DOM", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, models.NewWatchError(models.ErrCodeExtraction, "parse page DOM", err)
	}
	return doc, nil
}

// Screenshot writes a full-page PNG capture to path.
func (p *ChromePage) Screenshot(path string) error {
	runCtx, cancel := context.WithTimeout(p.ctx, p.domTimeout)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(runCtx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return models.NewWatchError(models.ErrCodePersistence,
			fmt.Sprintf("write screenshot %q", path), err)
	}
	return nil
}
