package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

// AgentVersion is reported in every delivery envelope.
const AgentVersion = "v1.3.0"

// ErrMissingToken means no delivery credential was found in the environment
// or the config file. The agent refuses to start without one.
var ErrMissingToken = errors.New("SERVER_TOKEN not found (set the env var or api_key in config.json)")

type Config struct {
	Token           string
	BaseURL         string
	PingHost        string
	Interval        time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	RequestTimeout  time.Duration
	MetadataTimeout time.Duration
	DiskPath        string
	HealthPort      string
	LogLevel        string
	LogFormat       string
}

// Load resolves configuration from the environment and an optional JSON
// config file at path. Environment values always win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.BindEnv("server_token", "SERVER_TOKEN")
	v.BindEnv("base_url", "BASE_URL")
	v.BindEnv("ping_host", "MONTIME_PING_HOST")
	v.BindEnv("interval_seconds", "MONTIME_INTERVAL_SECONDS")
	v.BindEnv("max_retries", "MONTIME_MAX_RETRIES")
	v.BindEnv("retry_delay_seconds", "MONTIME_RETRY_DELAY_SECONDS")
	v.BindEnv("timeout_seconds", "MONTIME_TIMEOUT_SECONDS")
	v.BindEnv("metadata_timeout_seconds", "MONTIME_METADATA_TIMEOUT_SECONDS")
	v.BindEnv("disk_path", "MONTIME_DISK_PATH")
	v.BindEnv("health_port", "MONTIME_HEALTH_PORT")
	v.BindEnv("log_level", "MONTIME_LOG_LEVEL")
	v.BindEnv("log_format", "MONTIME_LOG_FORMAT")

	// Defaults
	v.SetDefault("base_url", "https://www.montime.io")
	v.SetDefault("ping_host", "8.8.8.8")
	v.SetDefault("interval_seconds", 60)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay_seconds", 5)
	v.SetDefault("timeout_seconds", 10)
	v.SetDefault("metadata_timeout_seconds", 1)
	v.SetDefault("disk_path", "/")
	v.SetDefault("health_port", "8086")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// The config file is optional; a missing file is not an error.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	token := v.GetString("server_token")
	if token == "" {
		// Installer-written config.json carries the token as api_key.
		token = v.GetString("api_key")
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := &Config{
		Token:           token,
		BaseURL:         v.GetString("base_url"),
		PingHost:        v.GetString("ping_host"),
		Interval:        time.Duration(v.GetInt("interval_seconds")) * time.Second,
		MaxRetries:      v.GetInt("max_retries"),
		RetryDelay:      time.Duration(v.GetInt("retry_delay_seconds")) * time.Second,
		RequestTimeout:  time.Duration(v.GetInt("timeout_seconds")) * time.Second,
		MetadataTimeout: time.Duration(v.GetInt("metadata_timeout_seconds")) * time.Second,
		DiskPath:        v.GetString("disk_path"),
		HealthPort:      v.GetString("health_port"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
	}

	// quick sanity checks
	if cfg.Interval < time.Second {
		cfg.Interval = 60 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	return cfg, nil
}
