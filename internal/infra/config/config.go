package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env       string          `yaml:"env"       validate:"omitempty,oneof=dev prod"`
	Server    ServerConfig    `yaml:"server"    validate:"required"`
	Database  DatabaseConfig  `yaml:"database"  validate:"required"`
	Auth      AuthConfig      `yaml:"auth"      validate:"required"`
	Webhooks  WebhooksConfig  `yaml:"webhooks"`
	Tenants   []TenantConfig  `yaml:"tenants"   validate:"dive"`
	Payments  PaymentsConfig  `yaml:"payments"`
	Retention RetentionConfig `yaml:"retention"`
	Events    EventsConfig    `yaml:"events"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host" validate:"omitempty,ip|hostname"`
	Port int    `yaml:"port" validate:"required,min=1,max=65535"`
}

type DatabaseConfig struct {
	Driver    string `yaml:"driver"    validate:"required,oneof=sqlite postgres"`
	DSN       string `yaml:"dsn"       validate:"required"`
	Namespace string `yaml:"namespace" validate:"omitempty,alphanum"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key" validate:"required"`
}

type LogConfig struct {
	Level  string `yaml:"level"  validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

type MetricsConfig struct {
	Enable    bool   `yaml:"enable"`
	GoMetrics bool   `yaml:"go_metrics"`
	Path      string `yaml:"path"       validate:"omitempty,startswith=/"`
}

// WebhooksConfig controls outbound delivery: retry policy, per-attempt
// timeout, throttling and the job queue that carries retries.
type WebhooksConfig struct {
	MaxAttempts     int             `yaml:"max_attempts"     validate:"min=1,max=50"`
	BaseDelay       time.Duration   `yaml:"base_delay"       validate:"gt=0"`
	MaxDelay        time.Duration   `yaml:"max_delay"        validate:"gtefield=BaseDelay"`
	Jitter          bool            `yaml:"jitter"`
	RequestTimeout  time.Duration   `yaml:"request_timeout"  validate:"gt=0"`
	SignatureHeader string          `yaml:"signature_header" validate:"required"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	Queue           QueueConfig     `yaml:"queue"`
}

// RateLimitConfig throttles sends per endpoint. RPS 0 disables throttling.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"   validate:"min=0"`
	Burst int     `yaml:"burst" validate:"min=0"`
}

type QueueConfig struct {
	Name         string        `yaml:"name"          validate:"required"`
	Concurrency  int           `yaml:"concurrency"   validate:"min=1"`
	PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
	// Visibility timeout before a received job is handed out again.
	Timeout    time.Duration `yaml:"timeout"     validate:"gt=0"`
	MaxReceive int           `yaml:"max_receive" validate:"min=1"`
}

// TenantConfig seeds the outbound endpoints of one tenant.
type TenantConfig struct {
	ID        string           `yaml:"id"        validate:"required"`
	Endpoints []EndpointConfig `yaml:"endpoints" validate:"dive"`
}

// EndpointConfig defines a single outgoing webhook destination.
type EndpointConfig struct {
	ID         string   `yaml:"id"          validate:"required"`
	URL        string   `yaml:"url"         validate:"required,url"`
	Secret     string   `yaml:"secret"      validate:"required"`
	Active     *bool    `yaml:"active"`
	EventTypes []string `yaml:"event_types"`
}

// IsActive defaults to true when the flag is omitted.
func (e EndpointConfig) IsActive() bool {
	return e.Active == nil || *e.Active
}

// PaymentsConfig configures incoming payment provider webhooks.
type PaymentsConfig struct {
	Providers []ProviderConfig `yaml:"providers" validate:"dive"`
}

type ProviderConfig struct {
	Name    string         `yaml:"name"    validate:"required,oneof=gateway lemonsqueezy standard"`
	Secrets []TenantSecret `yaml:"secrets" validate:"dive"`
}

type TenantSecret struct {
	TenantID string `yaml:"tenant_id" validate:"required"`
	Secret   string `yaml:"secret"    validate:"required"`
}

// RetentionConfig decides how long events and their delivery history live.
type RetentionConfig struct {
	Period   time.Duration `yaml:"period"   validate:"gt=0"`
	Interval time.Duration `yaml:"interval" validate:"gt=0"`
}

// EventsConfig configures where delivery outcomes are published besides the log.
type EventsConfig struct {
	RedisURL string `yaml:"redis_url" validate:"omitempty,url"`
	Channel  string `yaml:"channel"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML document. Environment variables
// referenced as ${VAR} are expanded first.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse yaml: %w", err)
	}

	applyDefaults(&cfg)

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Env == "" {
		cfg.Env = "prod"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	wh := &cfg.Webhooks
	if wh.MaxAttempts == 0 {
		wh.MaxAttempts = 5
	}
	if wh.BaseDelay == 0 {
		wh.BaseDelay = time.Second
	}
	if wh.MaxDelay == 0 {
		wh.MaxDelay = time.Hour
	}
	if wh.RequestTimeout == 0 {
		wh.RequestTimeout = 10 * time.Second
	}
	if wh.SignatureHeader == "" {
		wh.SignatureHeader = "X-Webhook-Signature"
	}
	if wh.RateLimit.RPS > 0 && wh.RateLimit.Burst == 0 {
		wh.RateLimit.Burst = 1
	}
	if wh.Queue.Name == "" {
		wh.Queue.Name = "webhooks"
	}
	if wh.Queue.Concurrency == 0 {
		wh.Queue.Concurrency = 10
	}
	if wh.Queue.PollInterval == 0 {
		wh.Queue.PollInterval = time.Second
	}
	if wh.Queue.Timeout == 0 {
		wh.Queue.Timeout = wh.RequestTimeout + 5*time.Second
	}
	if wh.Queue.MaxReceive == 0 {
		wh.Queue.MaxReceive = 3
	}

	if cfg.Retention.Period == 0 {
		cfg.Retention.Period = 30 * 24 * time.Hour
	}
	if cfg.Retention.Interval == 0 {
		cfg.Retention.Interval = time.Hour
	}
	if cfg.Events.Channel == "" {
		cfg.Events.Channel = "fleetwire:deliveries"
	}
}
