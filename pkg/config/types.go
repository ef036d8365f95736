package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the full YAML-backed service configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Security    SecurityConfig    `yaml:"security"`
	Logging     LoggingConfig     `yaml:"logging"`
	Compression CompressionConfig `yaml:"compression"`
	Limits      LimitsConfig      `yaml:"limits"`
	Retention   RetentionConfig   `yaml:"retention"`
	Usecases    []UsecaseConfig   `yaml:"usecases"`
}

// ServerConfig holds listener and storage settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	DBPath  string `yaml:"db_path"`
	// Store selects the persistence driver: "pebble" (default) or
	// "memory" for dev mode.
	Store string `yaml:"store"`
	TLS   struct {
		CertFile string `yaml:"cert_file"`
		KeyFile  string `yaml:"key_file"`
	} `yaml:"tls"`
	Ops OpsConfig `yaml:"ops"`
}

// OpsConfig describes the optional separate health/readiness listener.
type OpsConfig struct {
	Address string `yaml:"address"`
	// Engine selects the listener implementation: "fasthttp" (default)
	// or "nethttp".
	Engine string `yaml:"engine"`
}

// SecurityConfig drives the gateway middleware.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	IPWhitelist []string `yaml:"ip_whitelist"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	AuditDir string `yaml:"audit_dir"`
}

// CompressionConfig controls the response compression negotiator. The
// decision to compress is capability-driven (client Accept-Encoding);
// Enabled gates the feature globally and Level tunes the encoder.
type CompressionConfig struct {
	Enabled bool `yaml:"enabled"`
	Level   int  `yaml:"level"`
}

// LimitsConfig caps request shapes before any store traffic.
type LimitsConfig struct {
	MaxKeysPerUpload      int       `yaml:"max_keys_per_upload"`
	MaxKeyBytes           SizeBytes `yaml:"max_key_bytes"`
	MaxUsecasesPerRequest int       `yaml:"max_usecases_per_request"`
}

// RetentionConfig holds configuration for the evaluation-key sweeper.
type RetentionConfig struct {
	Enabled bool     `yaml:"enabled"`
	Cron    string   `yaml:"cron"`
	MaxAge  Duration `yaml:"max_age"`
	DryRun  bool     `yaml:"dry_run"`
}

// UsecaseConfig declares a usecase to register at startup. Only the
// cleartext dev provider is constructible from config; real PIR backends
// register programmatically.
type UsecaseConfig struct {
	Name      string `yaml:"name"`
	Mode      string `yaml:"mode"`
	Rows      int    `yaml:"rows"`
	ShardSize int    `yaml:"shard_size"`
}

// Addr returns the host:port the server should listen on.
func (c *Config) Addr() string {
	host := c.Server.Address
	port := c.Server.Port
	if host == "" && port == 0 {
		return ""
	}
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// SizeBytes represents a number of bytes, unmarshaled from human-friendly
// strings like "64MB" or plain integers.
type SizeBytes int64

func (s *SizeBytes) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*s = 0
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*s = 0
		return nil
	}
	if v, err := humanize.ParseBytes(raw); err == nil {
		*s = SizeBytes(v)
		return nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*s = SizeBytes(i)
		return nil
	}
	return fmt.Errorf("invalid size value: %q", node.Value)
}

func (s SizeBytes) Int64() int64 { return int64(s) }

// Duration wraps time.Duration with YAML parsing from strings like "720h"
// or plain numbers (interpreted as seconds).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = Duration(0)
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = Duration(0)
		return nil
	}
	if td, err := time.ParseDuration(raw); err == nil {
		*d = Duration(td)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*d = Duration(time.Duration(f * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration value: %q", node.Value)
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }
