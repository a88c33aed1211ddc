package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Push     PushConfig     `yaml:"push"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
	AdminIDHeader   string  `yaml:"admin_id_header"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the settings for the push gateway integration.
//
// CredentialsPath points at the service account JSON supplied as a deployment
// secret. VAPIDPublicKey is the published application server key browsers use
// when requesting a device token; the matching private half lives with the
// push platform, never here.
type PushConfig struct {
	CredentialsPath     string `yaml:"credentials_path"`
	VAPIDPublicKey      string `yaml:"vapid_public_key"`
	TokenURL            string `yaml:"token_url"`
	SendEndpoint        string `yaml:"send_endpoint"`
	Scope               string `yaml:"scope"`
	AssertionTTLSeconds int    `yaml:"assertion_ttl_seconds"`
	SendTimeoutSeconds  int    `yaml:"send_timeout_seconds"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	if cfg.Server.AdminIDHeader == "" {
		cfg.Server.AdminIDHeader = "X-Admin-ID"
	}

	if cfg.Push.TokenURL == "" {
		cfg.Push.TokenURL = "https://oauth2.googleapis.com/token"
	}
	if cfg.Push.Scope == "" {
		cfg.Push.Scope = "https://www.googleapis.com/auth/cloud-platform"
	}
	if cfg.Push.AssertionTTLSeconds <= 0 {
		cfg.Push.AssertionTTLSeconds = 3600
	}
	if cfg.Push.SendTimeoutSeconds <= 0 {
		log.Printf("push.send_timeout_seconds is not set or invalid; defaulting to 10")
		cfg.Push.SendTimeoutSeconds = 10
	}

	return &cfg, nil
}
