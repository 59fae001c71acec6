// Package worker implements the AFTER_DOWNLOAD_ERROR handler and its host endpoint.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	werrors "github.com/scan-io-git/xray-worker/internal/errors"
	"github.com/scan-io-git/xray-worker/internal/httpclient"
	"github.com/scan-io-git/xray-worker/internal/notifier"
	"github.com/scan-io-git/xray-worker/internal/secrets"
	"github.com/scan-io-git/xray-worker/internal/xray"
)

// Scanner fetches the raw scan summary of one artifact.
type Scanner interface {
	Summary(ctx context.Context, artifactPath string) (interface{}, error)
}

// Notifier delivers a payload to a webhook.
type Notifier interface {
	Notify(ctx context.Context, webhookURL, token string, payload notifier.Payload) (*httpclient.Response, error)
}

// Handler checks a failed download against Xray and reports findings to a webhook.
// It never changes the outcome of the download: every path ends in Proceed.
type Handler struct {
	scanner    Scanner
	notifier   Notifier
	secrets    secrets.Store
	logger     hclog.Logger
	workerName string
	now        func() time.Time
}

// NewHandler creates a Handler. workerName is used in remediation hints.
func NewHandler(scanner Scanner, n Notifier, store secrets.Store, logger hclog.Logger, workerName string) *Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handler{
		scanner:    scanner,
		notifier:   n,
		secrets:    store,
		logger:     logger,
		workerName: workerName,
		now:        time.Now,
	}
}

// Handle processes one AFTER_DOWNLOAD_ERROR event.
func (h *Handler) Handle(ctx context.Context, req *AfterDownloadErrorRequest) (resp AfterDownloadErrorResponse) {
	logger := h.logger.With("invocation_id", uuid.New().String())
	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker panicked", "panic", r)
		}
		resp = Proceed()
	}()

	repo, path, ok := req.artifact()
	if !ok {
		logger.Debug("event has no repository path, skipping")
		return Proceed()
	}
	artifactPath := repo + "/" + path
	logger = logger.With("artifact", artifactPath)

	summary, err := h.scanner.Summary(ctx, artifactPath)
	if err != nil {
		logger.Warn("xray summary request failed", "error", err)
		return Proceed()
	}

	if !xray.HasIssues(summary) {
		logger.Debug("no issues reported")
		return Proceed()
	}

	h.notify(ctx, logger, notifier.NewPayload(repo, path, req.userID(), summary, h.now()))
	return Proceed()
}

// notify resolves the webhook secrets and sends the payload. Failures are only logged.
func (h *Handler) notify(ctx context.Context, logger hclog.Logger, payload notifier.Payload) {
	webhookURL, ok := h.secrets.Lookup(ctx, secrets.WebhookURL)
	if !ok {
		logger.Error(fmt.Sprintf("missing secret: %s", secrets.WebhookURL),
			"hint", fmt.Sprintf("jf worker add-secret %s %s <url>", h.workerName, secrets.WebhookURL))
		return
	}

	if err := notifier.ValidateURL(webhookURL); err != nil {
		logger.Error(fmt.Sprintf("%s must be a valid HTTP(S) URL", secrets.WebhookURL), "error", err)
		return
	}

	token, _ := h.secrets.Lookup(ctx, secrets.WebhookAuth)

	_, err := h.notifier.Notify(ctx, webhookURL, token, payload)

	var (
		statusErr  *werrors.StatusError
		networkErr *werrors.NetworkError
	)
	switch {
	case err == nil:
		logger.Info("webhook triggered: package scanned and has issues")
	case errors.As(err, &statusErr):
		logger.Warn("webhook returned non-success status", "status", statusErr.StatusCode)
	case errors.As(err, &networkErr) && networkErr.StatusCode != 0:
		logger.Error("webhook request failed", "error", networkErr.Err, "response", networkErr.StatusCode)
	default:
		logger.Error("webhook request failed", "error", err)
	}
}
