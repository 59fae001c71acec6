package worker

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/xray-worker/internal/config"
	"github.com/scan-io-git/xray-worker/internal/httpclient"
	"github.com/scan-io-git/xray-worker/internal/notifier"
	"github.com/scan-io-git/xray-worker/internal/secrets"
	"github.com/scan-io-git/xray-worker/internal/xray"
)

// NewFromConfig assembles a Handler with the transports and secret store described by cfg.
func NewFromConfig(cfg *config.Config, logger hclog.Logger) (*Handler, error) {
	if cfg.Platform.URL == "" {
		return nil, fmt.Errorf("platform url is not configured, set platform.url or JF_URL")
	}

	store, err := secrets.FromConfig(&cfg.Secrets, logger)
	if err != nil {
		return nil, err
	}

	transport := httpclient.New(logger.Named("http"), cfg)
	return NewHandler(
		xray.New(transport, cfg.Platform.URL, cfg.Platform.AccessToken),
		notifier.New(transport, cfg.Webhook.Timeout),
		store,
		logger,
		cfg.Worker.Name,
	), nil
}
