package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string         `mapstructure:"port" yaml:"port"`
	Rip      RipConfig      `mapstructure:"rip" yaml:"rip"`
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
}

// RipConfig describes how the external streamrip CLI is invoked.
type RipConfig struct {
	Binary         string `mapstructure:"binary" yaml:"binary"`
	ConfigPath     string `mapstructure:"config_path" yaml:"config_path"`
	DefaultQuality int    `mapstructure:"default_quality" yaml:"default_quality"`
}

type DownloadConfig struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Workers int    `mapstructure:"workers" yaml:"workers"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// Load reads the yaml config at path, falling back to defaults for anything
// unset. Every key can be overridden through RIPWEB_* environment variables,
// e.g. RIPWEB_DOWNLOAD_WORKERS=4.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set Defaults
	v.SetDefault("port", "8080")
	v.SetDefault("rip.binary", "rip")
	v.SetDefault("rip.config_path", "/config/config.toml")
	v.SetDefault("rip.default_quality", 3)
	v.SetDefault("download.dir", "/music")
	v.SetDefault("download.workers", 2)
	v.SetDefault("history.limit", 20)
	v.SetDefault("log.path", "ripweb.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("store.sqlite_path", "./data/ripweb.db")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}

		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// Support Environment Variables
	v.SetEnvPrefix("RIPWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Rip.Binary == "" {
		c.Rip.Binary = "rip"
	}

	if c.Rip.DefaultQuality < 0 || c.Rip.DefaultQuality > 4 {
		return fmt.Errorf("rip.default_quality must be between 0 and 4, got %d", c.Rip.DefaultQuality)
	}

	if c.Download.Workers <= 0 {
		// Default to a sane value
		c.Download.Workers = 2
	}

	if c.Download.Dir == "" {
		c.Download.Dir = "/music"
	}

	if c.History.Limit <= 0 {
		c.History.Limit = 20
	}

	return nil
}
