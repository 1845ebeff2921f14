// Package config loads service settings from an optional YAML file, then
// KIDS_NUTRITION_* environment variables, then built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "KIDS_NUTRITION"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Explain  ExplainConfig  `mapstructure:"explain"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
}

// Addr is the host:port the HTTP listener binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// UpstreamConfig points at the text-generation gateway. When Enabled is false
// the service answers from canned demo responses.
type UpstreamConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ProxyURL    string        `mapstructure:"proxy_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ExplainConfig struct {
	PreviewLength int `mapstructure:"preview_length"`
	MaxKeyFactors int `mapstructure:"max_key_factors"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]interface{}{
	"server.transport":        "http",
	"server.host":             "0.0.0.0",
	"server.port":             8012,
	"storage.db_path":         "/data/kids-nutrition.db",
	"upstream.enabled":        false,
	"upstream.proxy_url":      "http://mcp-compose-http-proxy:9876",
	"upstream.api_key":        "",
	"upstream.model":          "anthropic/claude-3.5-sonnet",
	"upstream.max_tokens":     800,
	"upstream.temperature":    0.3,
	"upstream.timeout":        60 * time.Second,
	"explain.preview_length":  200,
	"explain.max_key_factors": 10,
	"log.level":               "info",
	"log.format":              "json",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Load reads configPath when it is non-empty and layers environment overrides
// and defaults underneath.
func Load(configPath string) (*Config, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Server.Transport != "http" {
		return fmt.Errorf("config: unsupported transport %q", c.Server.Transport)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("config: storage.db_path is required")
	}
	if c.Upstream.Enabled && c.Upstream.ProxyURL == "" {
		return fmt.Errorf("config: upstream.proxy_url is required when upstream is enabled")
	}
	if c.Explain.PreviewLength <= 0 {
		return fmt.Errorf("config: explain.preview_length must be positive")
	}
	return nil
}
