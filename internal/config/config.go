package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is the root of the worker YAML configuration.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Platform   Platform   `yaml:"platform"`
	Secrets    Secrets    `yaml:"secrets"`
	Webhook    Webhook    `yaml:"webhook"`
	Server     Server     `yaml:"server"`
	Worker     Worker     `yaml:"worker"`
}

// Logger holds logging settings.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// HTTPClient holds settings shared by every outbound HTTP client.
type HTTPClient struct {
	Debug           *bool           `yaml:"debug"`
	RetryCount      int             `yaml:"retry_count"`
	Timeout         time.Duration   `yaml:"timeout"`
	TLSClientConfig TLSClientConfig `yaml:"tls_client_config"`
	Proxy           Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Platform describes how to reach the JFrog platform that hosts Xray.
type Platform struct {
	URL         string `yaml:"url"`
	AccessToken string `yaml:"access_token"`
}

// Secrets selects and configures the secret store backend.
type Secrets struct {
	Backend    string     `yaml:"backend"`
	EnvPrefix  string     `yaml:"env_prefix"`
	FilePath   string     `yaml:"file_path"`
	Kubernetes Kubernetes `yaml:"kubernetes"`
	AWS        AWS        `yaml:"aws"`
}

type Kubernetes struct {
	Namespace  string `yaml:"namespace"`
	SecretName string `yaml:"secret_name"`
	Kubeconfig string `yaml:"kubeconfig"`
}

type AWS struct {
	Region   string `yaml:"region"`
	SecretID string `yaml:"secret_id"`
	Prefix   string `yaml:"prefix"`
}

// Webhook holds settings for the outbound notification.
type Webhook struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Server holds settings for the HTTP endpoint the host invokes.
type Server struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type Worker struct {
	Name string `yaml:"name"`
}

// ValidateConfigPath checks that the path exists and points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the configuration file and fills unset values from the environment and defaults.
// A missing file is not an error: the worker can run from environment variables alone.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		if err := LoadYAML(configPath, cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
			}
		}
	}

	ApplyDefaults(cfg, os.Getenv)
	return cfg, nil
}
