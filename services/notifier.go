package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pricewatch/models"
	"pricewatch/utils"
)

// Notifier dispatches price alerts to an optional webhook endpoint. An empty
// endpoint means alerts are disabled — NotifyIfNeeded becomes a no-op rather
// than an error.
type Notifier struct {
	endpoint string
	client   *http.Client
	logger   *utils.Logger
}

// NewNotifier creates a Notifier for the given endpoint. Pass an empty
// endpoint to disable alerting.
func NewNotifier(endpoint string, timeout time.Duration, logger *utils.Logger) *Notifier {
	return &Notifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Enabled reports whether an alert endpoint is configured.
func (n *Notifier) Enabled() bool { return n.endpoint != "" }

// NotifyIfNeeded sends an alert if and only if the observed price is at or
// below the target and an endpoint is configured. Delivery failures are
// logged as warnings and never propagated — a lost alert must not look like
// a failed extraction.
func (n *Notifier) NotifyIfNeeded(obs models.Observation) {
	if n.endpoint == "" || obs.Price > obs.TargetPrice {
		return
	}

	message := fmt.Sprintf("Price alert: %s is %.2f (target %.2f)\n%s",
		obs.ProductName, obs.Price, obs.TargetPrice, obs.URL)

	if err := n.deliver(message); err != nil {
		n.logger.Warn("[notify] Alert delivery failed for %s: %v", obs.ProductName, err)
		return
	}
	n.logger.Info("[notify] Alert sent for %s", obs.ProductName)
}

func (n *Notifier) deliver(message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return models.NewWatchError(models.ErrCodeNotify, "marshal payload", err)
	}

	resp, err := n.client.Post(n.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return models.NewWatchError(models.ErrCodeNotify, "post webhook", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.NewWatchError(models.ErrCodeNotify,
			fmt.Sprintf("webhook returned status %d", resp.StatusCode), nil)
	}
	return nil
}
