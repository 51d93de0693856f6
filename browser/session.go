package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"pricewatch/config"
	"pricewatch/models"
	"pricewatch/utils"
)

// Session is the one browser acquired for a whole run. The tracker's
// sequential loop is the only thing that touches it; Close must be called on
// every exit path.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// Context returns the chromedp browser context pages run against.
func (s *Session) Context() context.Context { return s.ctx }

// Close tears down the browser and its allocator.
func (s *Session) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
}

// provisionResponse is the payload returned by the provisioning service.
// cdp_ws_url is the only field this system reads; everything else the
// provider sends is ignored here so no caller ever inspects its shape.
type provisionResponse struct {
	CDPWSURL string `json:"cdp_ws_url"`
}

// requestEndpoint asks the provisioning service for a fresh browser instance
// and returns its remote-debugging websocket URL.
func requestEndpoint(ctx context.Context, provisionerURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, provisionerURL, strings.NewReader("{}"))
	if err != nil {
		return "", fmt.Errorf("build provision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call provisioner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("provisioner returned status %d", resp.StatusCode)
	}

	var payload provisionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode provisioner response: %w", err)
	}
	if payload.CDPWSURL == "" {
		return "", fmt.Errorf("provisioner response missing cdp_ws_url")
	}
	return payload.CDPWSURL, nil
}

// Provision acquires exactly one browser session for the run. Preference
// order: an explicitly configured websocket URL, then a freshly provisioned
// remote instance, then a locally launched Chrome.
func Provision(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*Session, error) {
	wsURL := cfg.BrowserWSURL
	if wsURL == "" && cfg.ProvisionerURL != "" {
		var err error
		wsURL, err = requestEndpoint(ctx, cfg.ProvisionerURL)
		if err != nil {
			return nil, models.NewWatchError(models.ErrCodeSession, "provision remote browser", err)
		}
		logger.Info("[browser] Provisioned remote instance")
	}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc

	if wsURL != "" {
		logger.Info("[browser] Connecting over CDP")
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, wsURL)
	} else {
		chromeBin := findChromeBinary(cfg.ChromeBin)
		logger.Info("[browser] Launching local browser: %s", chromeBin)

		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1280, 800),
			chromedp.UserAgent("Mozilla/5.0 (compatible; PriceTracker/1.0)"),
		)
		if chromeBin != "" {
			opts = append(opts, chromedp.ExecPath(chromeBin))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	}

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so acquisition failures surface here rather than
	// on the first product.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, models.NewWatchError(models.ErrCodeSession, "connect browser", err)
	}

	return &Session{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelAlloc, cancelBrowser},
	}, nil
}

// findChromeBinary locates a Chrome/Chromium binary for the local fallback.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
