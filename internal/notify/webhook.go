package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	webhookRetryCount   = 2
	webhookRetryWait    = 200 * time.Millisecond
	webhookRetryMaxWait = time.Second
)

// errWebhookStatus is returned for non-2xx webhook responses.
var errWebhookStatus = errors.New("webhook responded with an error status")

// WebhookSink POSTs every event as JSON to a URL.
type WebhookSink struct {
	client *resty.Client
	url    string
}

// NewWebhookSink creates a sink for the URL with a per-attempt timeout.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(webhookRetryCount).
		SetRetryWaitTime(webhookRetryWait).
		SetRetryMaxWaitTime(webhookRetryMaxWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &WebhookSink{
		client: client,
		url:    url,
	}
}

// Publish delivers the event.
func (s *WebhookSink) Publish(ctx context.Context, event Event) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Alarm-Event", string(event.Kind)).
		SetBody(event).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("%w: %s", errWebhookStatus, resp.Status())
	}

	return nil
}
