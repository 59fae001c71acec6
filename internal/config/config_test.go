package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
logger:
  level: debug
  json_format: true
http_client:
  timeout: 20s
  proxy:
    host: proxy.example.com
    port: 3128
platform:
  url: https://acme.jfrog.io/
secrets:
  backend: FILE
  file_path: /etc/worker/secrets.yml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, GetBoolValue(cfg, "Logger.JSONFormat", false))
	assert.True(t, GetBoolValue(cfg, "Logger.DisableTime", true))
	assert.Equal(t, 20*time.Second, cfg.HTTPClient.Timeout)
	assert.Equal(t, 3128, cfg.HTTPClient.Proxy.Port)
	assert.Equal(t, "https://acme.jfrog.io", cfg.Platform.URL)
	assert.Equal(t, SecretsBackendFile, cfg.Secrets.Backend)
	assert.Equal(t, DefaultWebhookTimeout, cfg.Webhook.Timeout)
	assert.Equal(t, DefaultWorkerName, cfg.Worker.Name)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, SecretsBackendEnv, cfg.Secrets.Backend)
}

func TestLoadConfigDirectory(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestApplyDefaultsFromEnvironment(t *testing.T) {
	env := map[string]string{
		"JF_URL":          "https://env.jfrog.io/",
		"JF_ACCESS_TOKEN": "token",
	}
	cfg := &Config{}
	ApplyDefaults(cfg, func(key string) string { return env[key] })

	assert.Equal(t, "https://env.jfrog.io", cfg.Platform.URL)
	assert.Equal(t, "token", cfg.Platform.AccessToken)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DefaultServerWriteTimeout, cfg.Server.WriteTimeout)
	assert.Greater(t, cfg.Server.WriteTimeout, DefaultHTTPTimeout+DefaultWebhookTimeout)
	assert.Equal(t, "default", cfg.Secrets.Kubernetes.Namespace)

	cfg = &Config{Platform: Platform{URL: "https://file.jfrog.io"}}
	ApplyDefaults(cfg, func(key string) string { return env[key] })
	assert.Equal(t, "https://file.jfrog.io", cfg.Platform.URL)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg, nil)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "retries are rejected",
			mutate:  func(c *Config) { c.HTTPClient.RetryCount = 3 },
			wantErr: "retry_count must be 0",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.HTTPClient.Timeout = -time.Second },
			wantErr: "cannot be negative",
		},
		{
			name:    "webhook timeout above bound",
			mutate:  func(c *Config) { c.Webhook.Timeout = time.Minute },
			wantErr: "webhook directive is invalid",
		},
		{
			name:    "platform url without scheme",
			mutate:  func(c *Config) { c.Platform.URL = "acme.jfrog.io" },
			wantErr: "platform url must be an absolute http(s) URL",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Secrets.Backend = "vault" },
			wantErr: "unsupported secrets backend",
		},
		{
			name:    "file backend without path",
			mutate:  func(c *Config) { c.Secrets.Backend = SecretsBackendFile },
			wantErr: "file_path must be set",
		},
		{
			name:    "kubernetes backend without secret name",
			mutate:  func(c *Config) { c.Secrets.Backend = SecretsBackendKubernetes },
			wantErr: "kubernetes.secret_name must be set",
		},
		{
			name:    "aws backend without region",
			mutate:  func(c *Config) { c.Secrets.Backend = SecretsBackendAWS },
			wantErr: "aws.region must be set",
		},
		{
			name:    "write timeout shorter than an invocation",
			mutate:  func(c *Config) { c.Server.WriteTimeout = 30 * time.Second },
			wantErr: "write_timeout 30s must exceed http_client.timeout plus webhook.timeout (40s)",
		},
		{
			name: "write timeout follows a shorter client timeout",
			mutate: func(c *Config) {
				c.HTTPClient.Timeout = 5 * time.Second
				c.Server.WriteTimeout = 20 * time.Second
			},
		},
		{
			name:    "client timeout above bound",
			mutate:  func(c *Config) { c.HTTPClient.Timeout = 2 * time.Minute },
			wantErr: "Timeout duration is too long",
		},
		{
			name:    "invalid proxy port",
			mutate:  func(c *Config) { c.HTTPClient.Proxy = Proxy{Host: "proxy", Port: 70000} },
			wantErr: "port must be between 1 and 65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, "b", SetThen("", "b"))
	assert.Equal(t, "a", SetThen("a", "b"))
	assert.Equal(t, 5*time.Second, SetThen(time.Duration(0), 5*time.Second))
}
