package session

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/avtools/resolvectl/pkg/resolve"
	"gopkg.in/yaml.v3"
)

// Config is the tool configuration.
type Config struct {
	GatewayURL           string   `yaml:"gateway_url"`
	ConnectTimeout       string   `yaml:"connect_timeout"` // Duration string (e.g. "10s").
	ExportDir            string   `yaml:"export_dir"`      // Where exports land; default current directory.
	ExtraMediaExtensions []string `yaml:"extra_media_extensions"`
	LogLevel             string   `yaml:"log_level"` // trace/debug/info/warn/error; default "warn".
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		GatewayURL:     resolve.DefaultGatewayURL,
		ConnectTimeout: "10s",
		LogLevel:       "warn",
	}
}

// LoadConfig reads a YAML config file. Environment variables referenced as
// ${VAR} or $VAR are expanded before parsing, so machine-specific paths can
// stay out of the file. Unset fields fall back to defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("session: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("session: parse config: %w", err)
	}

	if cfg.GatewayURL == "" {
		cfg.GatewayURL = resolve.DefaultGatewayURL
	}
	if cfg.ConnectTimeout == "" {
		cfg.ConnectTimeout = "10s"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.GatewayURL)
	if err != nil {
		return fmt.Errorf("session: config: gateway_url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("session: config: gateway_url must use ws:// or wss://, got %q", c.GatewayURL)
	}

	if _, err := time.ParseDuration(c.ConnectTimeout); err != nil {
		return fmt.Errorf("session: config: connect_timeout: %w", err)
	}

	return nil
}

// Timeout returns the parsed connect timeout. Validate first.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.ConnectTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
