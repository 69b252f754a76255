// Package common provides shared utilities for Intrinsic
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Intrinsic
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Clients     ClientsConfig   `toml:"clients"`
	Valuation   ValuationConfig `toml:"valuation"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds market-data cache configuration.
// Backend selects the store implementation: "file" (default) or "surreal".
type StorageConfig struct {
	Backend string        `toml:"backend"`
	File    FileConfig    `toml:"file"`
	Surreal SurrealConfig `toml:"surreal"`
}

// FileConfig holds path configuration for the file-based store.
type FileConfig struct {
	Path string `toml:"path"`
}

// SurrealConfig holds SurrealDB connection configuration.
type SurrealConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	// DataPath is where raw artifacts (charts, CSV exports) land even when
	// structured data lives in SurrealDB.
	DataPath string `toml:"data_path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD EODHDConfig `toml:"eodhd"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ValuationConfig holds default assumptions applied when a request omits them.
// All rates are decimal fractions (0.10 = 10%).
type ValuationConfig struct {
	DiscountRate   float64 `toml:"discount_rate"`
	TerminalGrowth float64 `toml:"terminal_growth"`
	FCFMargin      float64 `toml:"fcf_margin"`
	Horizon        int     `toml:"horizon"`
	// GrowthRamp is the default per-year revenue growth schedule. When shorter
	// than Horizon, the last rate repeats for the remaining years.
	GrowthRamp []float64 `toml:"growth_ramp"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend: "file",
			File:    FileConfig{Path: "data/market"},
			Surreal: SurrealConfig{
				Address:   "ws://localhost:8000/rpc",
				Namespace: "intrinsic",
				Database:  "intrinsic",
				Username:  "root",
				Password:  "root",
				DataPath:  "data/market",
			},
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Valuation: ValuationConfig{
			DiscountRate:   0.10,
			TerminalGrowth: 0.03,
			FCFMargin:      0.35,
			Horizon:        5,
			GrowthRamp:     []float64{0.25, 0.20, 0.15, 0.10, 0.08},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "./logs/intrinsic.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("INTRINSIC_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("INTRINSIC_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("INTRINSIC_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("INTRINSIC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Comma-separated list, e.g. "console,file". The MCP binary sets this to
	// "file" so stdout stays clean for the JSON-RPC stream.
	if outputs := os.Getenv("INTRINSIC_LOG_OUTPUTS"); outputs != "" {
		var parsed []string
		for _, o := range strings.Split(outputs, ",") {
			if o = strings.TrimSpace(o); o != "" {
				parsed = append(parsed, o)
			}
		}
		if len(parsed) > 0 {
			config.Logging.Outputs = parsed
		}
	}

	if backend := os.Getenv("INTRINSIC_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if path := os.Getenv("INTRINSIC_DATA_PATH"); path != "" {
		config.Storage.File.Path = filepath.Join(path, "market")
		config.Storage.Surreal.DataPath = filepath.Join(path, "market")
	}

	if addr := os.Getenv("INTRINSIC_SURREAL_ADDRESS"); addr != "" {
		config.Storage.Surreal.Address = addr
	}

	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	} else if key := os.Getenv("INTRINSIC_EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}
}

// validate rejects configurations that cannot produce a working app.
func validate(config *Config) error {
	switch config.Storage.Backend {
	case "file", "surreal":
	default:
		return fmt.Errorf("unknown storage backend: %s (supported: file, surreal)", config.Storage.Backend)
	}

	v := config.Valuation
	if v.Horizon <= 0 {
		return fmt.Errorf("valuation horizon must be positive, got %d", v.Horizon)
	}
	if v.DiscountRate <= v.TerminalGrowth {
		return fmt.Errorf("default discount rate (%.4f) must exceed default terminal growth (%.4f)",
			v.DiscountRate, v.TerminalGrowth)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
