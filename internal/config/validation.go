package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidatePlatformConfig(&cfg.Platform); err != nil {
		return fmt.Errorf("YAML global config: platform directive is invalid: %w", err)
	}
	if err := ValidateSecretsConfig(&cfg.Secrets); err != nil {
		return fmt.Errorf("YAML global config: secrets directive is invalid: %w", err)
	}
	if err := validateDuration(cfg.Webhook.Timeout, "webhook timeout", DefaultWebhookTimeout); err != nil {
		return fmt.Errorf("YAML global config: webhook directive is invalid: %w", err)
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: server directive is invalid: %w", err)
	}
	return nil
}

// ValidateServerConfig checks that a response can still be written after the slowest invocation:
// one Xray call bounded by http_client.timeout followed by one webhook call.
func ValidateServerConfig(cfg *Config) error {
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}
	if cfg.Server.WriteTimeout == 0 {
		return nil
	}

	invocation := SetThen(cfg.HTTPClient.Timeout, DefaultHTTPTimeout) + SetThen(cfg.Webhook.Timeout, DefaultWebhookTimeout)
	if cfg.Server.WriteTimeout <= invocation {
		return fmt.Errorf("write_timeout %v must exceed http_client.timeout plus webhook.timeout (%v)", cfg.Server.WriteTimeout, invocation)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount != 0 {
		return fmt.Errorf("retry_count must be 0, the worker never retries: %d", httpConfig.RetryCount)
	}

	if err := validateDuration(httpConfig.Timeout, "Timeout", 100*time.Second); err != nil {
		return err
	}

	if err := validateProxy(&httpConfig.Proxy); err != nil {
		return err
	}

	return nil
}

// ValidatePlatformConfig checks that the platform URL, when set, is an absolute HTTP(S) URL.
func ValidatePlatformConfig(platform *Platform) error {
	if platform == nil {
		return fmt.Errorf("platform configuration is nil")
	}
	if platform.URL == "" {
		return nil
	}

	u, err := url.Parse(platform.URL)
	if err != nil {
		return fmt.Errorf("invalid platform url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("platform url must be an absolute http(s) URL: %q", platform.URL)
	}
	return nil
}

// ValidateSecretsConfig checks the selected backend and its required settings.
func ValidateSecretsConfig(secrets *Secrets) error {
	if secrets == nil {
		return fmt.Errorf("secrets configuration is nil")
	}

	switch secrets.Backend {
	case SecretsBackendEnv:
		return nil
	case SecretsBackendFile:
		if secrets.FilePath == "" {
			return fmt.Errorf("file_path must be set for the %q backend", SecretsBackendFile)
		}
	case SecretsBackendKubernetes:
		if secrets.Kubernetes.SecretName == "" {
			return fmt.Errorf("kubernetes.secret_name must be set for the %q backend", SecretsBackendKubernetes)
		}
	case SecretsBackendAWS:
		if secrets.AWS.Region == "" {
			return fmt.Errorf("aws.region must be set for the %q backend", SecretsBackendAWS)
		}
	default:
		return fmt.Errorf("unsupported secrets backend %q", secrets.Backend)
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %s: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%s duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	if err := validatePort(proxy.Port); err != nil {
		return err
	}

	return nil
}

// validateHost checks if the host part of the proxy configuration is valid.
// It ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	if _, err := url.Parse(*host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

// validatePort checks if the port part of the proxy configuration is valid.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
