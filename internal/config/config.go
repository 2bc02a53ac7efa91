package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AuthNone   = "none"
	AuthToken  = "token"
	AuthGoogle = "google"
)

// Valid configuration values
var (
	validAuthModes = map[string]bool{
		AuthNone: true, AuthToken: true, AuthGoogle: true,
	}
	validOutputFormats = map[string]bool{
		"table": true, "json": true, "yaml": true,
	}
	validLogLevels = map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
)

type Config struct {
	Host         string
	Namespace    string
	ExperimentID string
	Auth         string
	Token        string
	Timeout      time.Duration
	Output       string
	LogLevel     string
	PollInterval time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioSecure    bool

	DataprocEndpoint string
}

func New() *Config {
	return &Config{
		Host:             viper.GetString("host"),
		Namespace:        viper.GetString("namespace"),
		ExperimentID:     viper.GetString("experiment_id"),
		Auth:             viper.GetString("auth"),
		Token:            viper.GetString("token"),
		Timeout:          viper.GetDuration("timeout"),
		Output:           viper.GetString("output"),
		LogLevel:         viper.GetString("log_level"),
		PollInterval:     viper.GetDuration("poll_interval"),
		MinioEndpoint:    viper.GetString("minio_endpoint"),
		MinioAccessKey:   viper.GetString("minio_access_key"),
		MinioSecretKey:   viper.GetString("minio_secret_key"),
		MinioSecure:      viper.GetBool("minio_secure"),
		DataprocEndpoint: viper.GetString("dataproc_endpoint"),
	}
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "http://localhost:8888")
	v.SetDefault("auth", AuthNone)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("output", "table")
	v.SetDefault("log_level", "info")
	v.SetDefault("poll_interval", 20*time.Second)
	v.SetDefault("minio_endpoint", "minio-service.kubeflow:9000")
	v.SetDefault("minio_access_key", "minio")
	v.SetDefault("minio_secret_key", "minio123")
	v.SetDefault("minio_secure", false)
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	u, err := url.Parse(c.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid host: %s (expected http(s)://host[:port])", c.Host)
	}

	if !validAuthModes[c.Auth] {
		return fmt.Errorf("invalid auth mode: %s (valid: none, token, google)", c.Auth)
	}
	if c.Auth == AuthToken && c.Token == "" {
		return fmt.Errorf("token is required when auth is %q", AuthToken)
	}

	if !validOutputFormats[c.Output] {
		return fmt.Errorf("invalid output format: %s (valid: table, json, yaml)", c.Output)
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval: %s", c.PollInterval)
	}

	return nil
}

// BaseURL returns the host without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimSuffix(c.Host, "/")
}
