// Package delivery implements the SubmissionDispatcher port as a signed
// webhook POST to the warehouse integration endpoint.
package delivery

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

// maxResponseSize caps how much of the endpoint's reply is read (1MB)
const maxResponseSize = 1 * 1024 * 1024

// Webhook headers.
const (
	headerTopic     = "X-Webhook-Topic"
	headerSignature = "X-Webhook-Signature"
)

// submitTopic identifies the hand-off payload to the receiving endpoint.
const submitTopic = "order.submit"

// Errors for webhook configuration
var (
	ErrWebhookMissingURL    = errors.New("delivery: webhook URL is required")
	ErrWebhookMissingSecret = errors.New("delivery: webhook secret is required")
)

// WebhookConfig holds configuration for the hand-off webhook.
type WebhookConfig struct {
	// URL is the warehouse integration endpoint orders are posted to
	URL string
	// Secret signs each payload so the receiver can verify the sender
	Secret string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Validate validates the webhook configuration.
func (c *WebhookConfig) Validate() error {
	if c.URL == "" {
		return ErrWebhookMissingURL
	}
	if c.Secret == "" {
		return ErrWebhookMissingSecret
	}
	return nil
}

// WebhookDispatcher posts submission payloads to the configured endpoint.
// Dispatch is synchronous: the hand-off is acknowledged only when the
// endpoint answers 200.
type WebhookDispatcher struct {
	config     *WebhookConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookDispatcher creates a webhook dispatcher with the given
// configuration.
func NewWebhookDispatcher(config *WebhookConfig, logger *zap.Logger) (*WebhookDispatcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := config.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return &WebhookDispatcher{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		logger: logger,
	}, nil
}

// Dispatch delivers the hand-off payload. Any answer other than HTTP 200
// counts as a failed submission.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, payload fulfillment.SubmissionPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("delivery: failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("delivery: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerTopic, submitTopic)
	req.Header.Set(headerSignature, d.sign(body))

	d.logger.Debug("dispatching submission",
		zap.Int64("order_id", payload.OrderID),
		zap.Int("item_count", payload.ItemCount))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", fulfillment.ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d", fulfillment.ErrSubmissionFailed, resp.StatusCode)
	}
	return nil
}

// sign computes the base64 HMAC-SHA256 signature of the payload body.
func (d *WebhookDispatcher) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(d.config.Secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Ensure WebhookDispatcher implements the SubmissionDispatcher port
var _ fulfillment.SubmissionDispatcher = (*WebhookDispatcher)(nil)
