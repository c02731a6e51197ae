package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/botdetector/internal/common"
	"github.com/spf13/viper"
)

// AutoSendMinimumMinutes is the shortest allowed automatic upload interval.
const AutoSendMinimumMinutes = 5

// DefaultBaseURL is the public detector API.
const DefaultBaseURL = "https://www.osrsbotdetector.com/api"

// Font types accepted for panel.font_type.
const (
	FontSmall  = "small"
	FontNormal = "normal"
	FontLarge  = "large"
)

// Config is the fully resolved application configuration.
type Config struct {
	Detector  DetectorConfig
	Player    PlayerConfig
	Panel     PanelConfig
	Storage   StorageConfig
	Logging   LoggingConfig
	Upload    UploadConfig
	Reporting ReportingConfig
}

// DetectorConfig configures the detector HTTP client.
type DetectorConfig struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

// PlayerConfig identifies the local player.
type PlayerConfig struct {
	Name string
}

// ReportingConfig mirrors the plugin's reporting options.
type ReportingConfig struct {
	Anonymous          bool
	ChatStatusMessages bool
	AddPredictOption   bool
}

// UploadConfig controls name uploads.
type UploadConfig struct {
	AutoSendMinutes int
	BatchSize       int
	OnlyAtLogout    bool
}

// AutoSendInterval returns the automatic upload interval.
func (u UploadConfig) AutoSendInterval() time.Duration {
	return time.Duration(u.AutoSendMinutes) * time.Minute
}

// PanelConfig holds presentation options for the terminal panel.
type PanelConfig struct {
	FontType     string
	Palette      string
	StatsRefresh time.Duration
}

// StorageConfig locates the lookup history database.
type StorageConfig struct {
	Path string
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("detector.base_url", DefaultBaseURL)
	v.SetDefault("detector.timeout", 30*time.Second)
	v.SetDefault("reporting.anonymous", true)
	v.SetDefault("reporting.chat_status_messages", false)
	v.SetDefault("reporting.add_predict_option", false)
	v.SetDefault("upload.only_at_logout", false)
	v.SetDefault("upload.auto_send_minutes", AutoSendMinimumMinutes)
	v.SetDefault("upload.batch_size", 100)
	v.SetDefault("panel.font_type", FontNormal)
	v.SetDefault("panel.palette", "default")
	v.SetDefault("panel.stats_refresh", 5*time.Minute)
	v.SetDefault("storage.path", "~/.config/botdetector/history.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "~/.config/botdetector/botdetector.log")
}

// Load resolves configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Detector: DetectorConfig{
			BaseURL:   strings.TrimRight(v.GetString("detector.base_url"), "/"),
			AuthToken: v.GetString("detector.auth_token"),
			Timeout:   v.GetDuration("detector.timeout"),
		},
		Player: PlayerConfig{
			Name: v.GetString("player.name"),
		},
		Reporting: ReportingConfig{
			Anonymous:          v.GetBool("reporting.anonymous"),
			ChatStatusMessages: v.GetBool("reporting.chat_status_messages"),
			AddPredictOption:   v.GetBool("reporting.add_predict_option"),
		},
		Upload: UploadConfig{
			OnlyAtLogout:    v.GetBool("upload.only_at_logout"),
			AutoSendMinutes: v.GetInt("upload.auto_send_minutes"),
			BatchSize:       v.GetInt("upload.batch_size"),
		},
		Panel: PanelConfig{
			FontType:     strings.ToLower(v.GetString("panel.font_type")),
			Palette:      strings.ToLower(v.GetString("panel.palette")),
			StatsRefresh: v.GetDuration("panel.stats_refresh"),
		},
		Storage: StorageConfig{
			Path: ExpandPath(v.GetString("storage.path")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	// The plugin clamps the interval rather than rejecting it.
	if cfg.Upload.AutoSendMinutes < AutoSendMinimumMinutes {
		cfg.Upload.AutoSendMinutes = AutoSendMinimumMinutes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	if c.Detector.BaseURL == "" {
		return fmt.Errorf("%w: detector.base_url is required", common.ErrMissingConfig)
	}
	u, err := url.Parse(c.Detector.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: detector.base_url must be an http(s) URL, got %q", common.ErrInvalidConfig, c.Detector.BaseURL)
	}
	if c.Detector.Timeout <= 0 {
		return fmt.Errorf("%w: detector.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.Upload.BatchSize <= 0 {
		return fmt.Errorf("%w: upload.batch_size must be positive", common.ErrInvalidConfig)
	}
	switch c.Panel.FontType {
	case FontSmall, FontNormal, FontLarge:
	default:
		return fmt.Errorf("%w: panel.font_type must be small, normal or large, got %q", common.ErrInvalidConfig, c.Panel.FontType)
	}
	if c.Panel.StatsRefresh <= 0 {
		return fmt.Errorf("%w: panel.stats_refresh must be positive", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
