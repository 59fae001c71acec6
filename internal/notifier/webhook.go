// Package notifier delivers scan findings to an external webhook.
package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/scan-io-git/xray-worker/internal/httpclient"
)

const (
	// EventAfterDownloadError is the event name sent in every payload.
	EventAfterDownloadError = "AFTER_DOWNLOAD_ERROR"
	// DefaultTimeout bounds a single delivery.
	DefaultTimeout = 10 * time.Second

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Payload is the body posted to the webhook.
type Payload struct {
	Event       string      `json:"event"`
	Repo        string      `json:"repo"`
	Path        string      `json:"path"`
	User        string      `json:"user,omitempty"`
	Timestamp   string      `json:"timestamp"`
	XraySummary interface{} `json:"xray_summary"`
}

// NewPayload builds the notification for one artifact with the raw scan summary attached.
func NewPayload(repo, path, user string, summary interface{}, now time.Time) Payload {
	return Payload{
		Event:       EventAfterDownloadError,
		Repo:        repo,
		Path:        path,
		User:        user,
		Timestamp:   now.UTC().Format(timestampLayout),
		XraySummary: summary,
	}
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("webhook url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("webhook url has no host")
	}
	return nil
}

// Notifier posts payloads to a webhook in a single attempt.
type Notifier struct {
	transport httpclient.Transport
	timeout   time.Duration
}

// New creates a Notifier. A zero or larger than default timeout is clamped to DefaultTimeout.
func New(transport httpclient.Transport, d time.Duration) *Notifier {
	if d <= 0 || d > DefaultTimeout {
		d = DefaultTimeout
	}
	return &Notifier{transport: transport, timeout: d}
}

// Notify posts the payload to webhookURL. A non-empty token is sent as a bearer credential.
// The transport error is returned unchanged.
func (n *Notifier) Notify(ctx context.Context, webhookURL, token string, payload Payload) (*httpclient.Response, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	t := timeout.New[*httpclient.Response](timeout.Config{
		DefaultTimeout: n.timeout,
	})
	return t.Execute(ctx, n.timeout, func(ctx context.Context) (*httpclient.Response, error) {
		return n.transport.Send(ctx, &httpclient.Request{
			Op:      "webhook",
			Method:  http.MethodPost,
			URL:     webhookURL,
			Headers: headers,
			Body:    payload,
			Timeout: n.timeout,
		})
	})
}
