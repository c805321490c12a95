package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/egubrno/svr-dashboard-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// If not assigned, the server will serve embedded files.
	// If assigned, the server will serve files from the directory,
	// that must contain a "static" and "templates" directory.
	// This is useful for development.
	WwwDir *string `mapstructure:"www_dir"`
}

type AppConfigEntsoe struct {
	// Personal API token for the Transparency Platform, requested by mail
	Token string
	// Override for the API endpoint, default: the public platform URL
	BaseUrl *string `mapstructure:"base_url"`
}

func (e AppConfigEntsoe) GetBaseUrl() string {
	if e.BaseUrl == nil {
		return ""
	}
	return *e.BaseUrl
}

type AppConfigCache struct {
	// How long fetched datasets stay fresh in minutes, default: 60
	TtlMinutes *int `mapstructure:"ttl_minutes"`
	// Cron expression for sweeping out expired entries, default: every 10 minutes
	PurgeAt *string `mapstructure:"purge_at"`
}

func (c AppConfigCache) GetTtlMinutes() int {
	if c.TtlMinutes == nil {
		return 60
	}
	return *c.TtlMinutes
}

func (c AppConfigCache) GetPurgeAt() string {
	if c.PurgeAt == nil {
		return "*/10 * * * *"
	}
	return *c.PurgeAt
}

type AppConfigGui struct {
	// Timezone for displaying times in the GUI, default: UTC
	Timezone *string `mapstructure:"timezone"`
	// Country whose market data pages open with, default: "cz"
	DefaultCountry *string `mapstructure:"default_country"`
}

func (g AppConfigGui) GetTimezone() string {
	if g.Timezone == nil {
		return "UTC"
	}
	return *g.Timezone
}

func (g AppConfigGui) GetDefaultCountry() string {
	if g.DefaultCountry == nil {
		return "cz"
	}
	return *g.DefaultCountry
}

type AppConfigLogging struct {
	// Min log level for the in-memory log buffer: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	MemoryLevel *string `mapstructure:"memory_level"`
	// Log attributes format for the buffer: "TEXT", "JSON", default: "JSON"
	MemoryAttrsFormat *string `mapstructure:"memory_attrs_format"`
	// Maximum number of log entries held in memory, default: 10000
	MemoryMaxEntries *int `mapstructure:"memory_max_entries"`
	// Min log level for the console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetMemoryLevel() slog.Level {
	return logging.LevelFromString(l.MemoryLevel)
}

func (l AppConfigLogging) GetMemoryAttrsFormat() logging.LogAttrFormat {
	if l.MemoryAttrsFormat == nil {
		return "JSON"
	}
	if strings.EqualFold(*l.MemoryAttrsFormat, "text") {
		return "TEXT"
	}
	return "JSON"
}

func (l AppConfigLogging) GetMemoryMaxEntries() int {
	if l.MemoryMaxEntries == nil {
		return 10000
	}
	return *l.MemoryMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api     AppConfigApi
	Entsoe  AppConfigEntsoe
	Cache   AppConfigCache
	Gui     AppConfigGui
	Logging AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
