// Package config loads and validates monitor configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pagewatch/internal/watch"
)

// Config captures all monitor configuration knobs loaded via Viper.
type Config struct {
	Targets  []watch.Target `mapstructure:"targets"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	State    StateConfig    `mapstructure:"state"`
	Digest   DigestConfig   `mapstructure:"digest"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// FetchConfig governs the retrieval tiers.
type FetchConfig struct {
	Retries            int           `mapstructure:"retries"`
	BackoffBaseSeconds int           `mapstructure:"backoff_base_seconds"`
	TimeoutSeconds     int           `mapstructure:"timeout_seconds"`
	HostileHosts       []string      `mapstructure:"hostile_hosts"`
	ReaderEndpoint     string        `mapstructure:"reader_endpoint"`
	Browser            BrowserConfig `mapstructure:"browser"`
}

// BrowserConfig configures the headless rendering tier.
type BrowserConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
}

// StateConfig sets where fingerprints and content snapshots live.
type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// DigestConfig shapes the notification digest.
type DigestConfig struct {
	ChunkLimit      int  `mapstructure:"chunk_limit"`
	MaxDiffLines    int  `mapstructure:"max_diff_lines"`
	MaxLineWidth    int  `mapstructure:"max_line_width"`
	NotifyFirstSeen bool `mapstructure:"notify_first_seen"`
	SendWhenEmpty   bool `mapstructure:"send_when_empty"`
}

// TelegramConfig holds delivery credentials. Both values may come from the
// environment; when either is missing the run completes without sending.
type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID string `mapstructure:"chat_id"`
}

// MetricsConfig controls the optional run-metrics textfile.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

// LoggingConfig toggles zap level and development features.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load builds a Config from disk and environment. An explicit path must
// exist; without one the default locations are searched and a missing file
// just means defaults plus environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAGEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials keep working under the names the first deployments used.
	_ = v.BindEnv("telegram.token", "PAGEWATCH_TELEGRAM_TOKEN", "TG_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "PAGEWATCH_TELEGRAM_CHAT_ID", "TG_CHAT_ID")

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("pagewatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.retries", 3)
	v.SetDefault("fetch.backoff_base_seconds", 1)
	v.SetDefault("fetch.timeout_seconds", 60)
	v.SetDefault("fetch.hostile_hosts", []string{"docs.ozon.ru", "seller.ozon.ru"})
	v.SetDefault("fetch.reader_endpoint", "https://r.jina.ai")
	v.SetDefault("fetch.browser.enabled", false)
	v.SetDefault("fetch.browser.nav_timeout_seconds", 45)
	v.SetDefault("state.dir", "state")
	v.SetDefault("digest.chunk_limit", 4000)
	v.SetDefault("digest.max_diff_lines", 12)
	v.SetDefault("digest.max_line_width", 160)
	v.SetDefault("digest.notify_first_seen", true)
	v.SetDefault("digest.send_when_empty", false)
	v.SetDefault("metrics.textfile_path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Targets))
	for i, target := range c.Targets {
		if strings.TrimSpace(target.Name) == "" {
			return fmt.Errorf("targets[%d].name must be set", i)
		}
		if err := validateTargetURL(target.URL); err != nil {
			return fmt.Errorf("targets[%d] (%s): %w", i, target.Name, err)
		}
		if _, dup := seen[target.URL]; dup {
			return fmt.Errorf("targets[%d] (%s): duplicate url %s", i, target.Name, target.URL)
		}
		seen[target.URL] = struct{}{}
	}
	if c.Fetch.Retries <= 0 {
		return fmt.Errorf("fetch.retries must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.Browser.Enabled && c.Fetch.Browser.NavTimeoutSec <= 0 {
		return fmt.Errorf("fetch.browser.nav_timeout_seconds must be > 0 when the browser tier is enabled")
	}
	if c.State.Dir == "" {
		return fmt.Errorf("state.dir must be set")
	}
	if c.Digest.ChunkLimit <= 0 || c.Digest.ChunkLimit > 4096 {
		return fmt.Errorf("digest.chunk_limit must be within (0, 4096]")
	}
	if c.Digest.MaxDiffLines <= 0 {
		return fmt.Errorf("digest.max_diff_lines must be > 0")
	}
	if c.Digest.MaxLineWidth <= 0 {
		return fmt.Errorf("digest.max_line_width must be > 0")
	}
	return nil
}

func validateTargetURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("url must be set")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q must be absolute", raw)
	}
	return nil
}

// Timeout is the per-request budget for the plain HTTP tier.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BackoffBase is the first retry delay; later delays grow linearly.
func (c FetchConfig) BackoffBase() time.Duration {
	return time.Duration(c.BackoffBaseSeconds) * time.Second
}

// NavigationTimeout bounds a single headless page load.
func (c BrowserConfig) NavigationTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSec) * time.Second
}

// HasCredentials reports whether delivery is configured.
func (c TelegramConfig) HasCredentials() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.ChatID) != ""
}
