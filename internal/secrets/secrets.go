// Package secrets resolves named credentials from a host-managed secret store.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/xray-worker/internal/config"
	werrors "github.com/scan-io-git/xray-worker/internal/errors"
)

const (
	// WebhookURL holds the notification endpoint. Required.
	WebhookURL = "WEBHOOK_URL"
	// WebhookAuth holds an optional bearer token for the notification endpoint.
	WebhookAuth = "WEBHOOK_AUTH"
)

// ErrNotFound is returned by a Backend when the named secret does not exist.
var ErrNotFound = errors.New("secret not found")

// Store resolves a secret to a present or absent value.
// Missing keys and backend failures are both reported as absent.
type Store interface {
	Lookup(ctx context.Context, name string) (string, bool)
}

// Backend reads a single secret value. Absent secrets are reported with ErrNotFound.
type Backend interface {
	Get(ctx context.Context, name string) (string, error)
}

type store struct {
	backend Backend
	logger  hclog.Logger
}

// NewStore wraps a backend so that every failure collapses to an absent value.
func NewStore(backend Backend, logger hclog.Logger) Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &store{backend: backend, logger: logger}
}

// Lookup returns the secret value and whether it was present. Empty values count as absent.
func (s *store) Lookup(ctx context.Context, name string) (string, bool) {
	value, err := s.backend.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Debug("secret lookup failed", "secret", name, "error", err)
		}
		return "", false
	}
	if value == "" {
		return "", false
	}
	return value, true
}

// Static is an in-memory backend.
type Static map[string]string

// Get implements Backend.
func (s Static) Get(_ context.Context, name string) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// EnvBackend reads secrets from environment variables, optionally prefixed.
type EnvBackend struct {
	Prefix string
	Lookup func(string) (string, bool)
}

// Get implements Backend.
func (e EnvBackend) Get(_ context.Context, name string) (string, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(e.Prefix + name)
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// FileBackend reads secrets from a flat YAML map. The file is read on every call.
type FileBackend struct {
	Path string
}

// Get implements Backend.
func (f FileBackend) Get(_ context.Context, name string) (string, error) {
	values := map[string]string{}
	if err := config.LoadYAML(f.Path, &values); err != nil {
		return "", fmt.Errorf("failed to read secrets file %q: %w", f.Path, err)
	}
	v, ok := values[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// FromConfig builds the store selected by the secrets configuration.
func FromConfig(cfg *config.Secrets, logger hclog.Logger) (Store, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var (
		backend Backend
		err     error
	)

	switch strings.ToLower(cfg.Backend) {
	case "", config.SecretsBackendEnv:
		backend = EnvBackend{Prefix: cfg.EnvPrefix}
	case config.SecretsBackendFile:
		backend = FileBackend{Path: cfg.FilePath}
	case config.SecretsBackendKubernetes:
		backend, err = NewKubernetesBackendFromConfig(&cfg.Kubernetes)
	case config.SecretsBackendAWS:
		backend, err = NewAWSBackendFromConfig(&cfg.AWS)
	default:
		return nil, werrors.NewNotImplementedError(cfg.Backend, "secrets backend")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s secrets backend: %w", cfg.Backend, err)
	}

	return NewStore(backend, logger.Named("secrets")), nil
}
