package config

import (
	"crypto/tls"
	"reflect"
	"strings"
	"time"
)

const (
	// DefaultWorkerName is the name the worker is registered under on the platform.
	DefaultWorkerName = "download-error-webhook-worker"
	// DefaultWebhookTimeout bounds the outbound webhook call.
	DefaultWebhookTimeout = 10 * time.Second
	// DefaultHTTPTimeout bounds a single outbound request, the Xray summary call included.
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultServerWriteTimeout leaves room for a full Xray call followed by the webhook.
	DefaultServerWriteTimeout = 45 * time.Second

	SecretsBackendEnv        = "env"
	SecretsBackendFile       = "file"
	SecretsBackendKubernetes = "kubernetes"
	SecretsBackendAWS        = "aws"
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount      int           // Number of retries for failed requests
	Timeout         time.Duration // Timeout for requests
	TLSClientConfig *tls.Config   // TLS configuration
	Proxy           string        // Proxy address
}

// RestyHTTPClientConfig holds additional configuration settings for the Resty HTTP client.
type RestyHTTPClientConfig struct {
	BaseHTTPConfig
	Debug bool // Flag to enable Resty debug mode
}

// DefaultHTTPConfig returns a base configuration for HTTP clients with default values.
// Retries are disabled: every outbound call is a single attempt.
func DefaultHTTPConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount: 0,
		Timeout:    DefaultHTTPTimeout,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: false,
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns a default configuration for the Resty HTTP client, extending the base HTTP configuration.
func DefaultRestyConfig() RestyHTTPClientConfig {
	return RestyHTTPClientConfig{
		BaseHTTPConfig: DefaultHTTPConfig(),
		Debug:          false,
	}
}

// ApplyDefaults fills values that were left empty in the YAML file.
// Platform coordinates fall back to the JF_URL and JF_ACCESS_TOKEN variables.
func ApplyDefaults(cfg *Config, lookup LookupFunc) {
	if lookup == nil {
		lookup = func(string) string { return "" }
	}

	cfg.Platform.URL = strings.TrimRight(SetThen(cfg.Platform.URL, lookup("JF_URL")), "/")
	cfg.Platform.AccessToken = SetThen(cfg.Platform.AccessToken, lookup("JF_ACCESS_TOKEN"))

	cfg.Secrets.Backend = strings.ToLower(SetThen(cfg.Secrets.Backend, SecretsBackendEnv))
	cfg.Webhook.Timeout = SetThen(cfg.Webhook.Timeout, DefaultWebhookTimeout)
	cfg.Worker.Name = SetThen(cfg.Worker.Name, DefaultWorkerName)

	cfg.Server.Addr = SetThen(cfg.Server.Addr, ":8080")
	cfg.Server.ReadTimeout = SetThen(cfg.Server.ReadTimeout, 15*time.Second)
	cfg.Server.WriteTimeout = SetThen(cfg.Server.WriteTimeout, DefaultServerWriteTimeout)

	if cfg.Secrets.Kubernetes.Namespace == "" {
		cfg.Secrets.Kubernetes.Namespace = "default"
	}
}

// GetBoolValue retrieves a boolean value from a nested struct based on a dot-separated path.
// It returns the provided defaultValue if the specified field is not explicitly set or is nil.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	val := reflect.ValueOf(config)
	for _, field := range strings.Split(fieldPath, ".") {
		if val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return defaultValue
			}
			val = val.Elem()
		}
		if val.Kind() != reflect.Struct {
			return defaultValue
		}

		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Bool()
	} else if val.Kind() == reflect.Bool {
		return val.Bool()
	}

	return defaultValue
}

// SetThen provides a utility to select the first value if set, otherwise defaults.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(&value).Elem().IsZero() {
		return defaultValue
	}
	return value
}
