package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Bot        BotConfig                  `toml:"bot"`
	Storage    StorageConfig              `toml:"storage"`
	Platforms  map[string]PlatformConfig  `toml:"platforms"`
	Sources    map[string]SourceConfig    `toml:"sources"`
	Processors map[string]ProcessorConfig `toml:"processors"`
	Reporter   ReporterConfig             `toml:"reporter"`
	Server     ServerConfig               `toml:"server"`
}

type BotConfig struct {
	Name           string `toml:"name"`
	Interval       string `toml:"interval"`
	RunOnce        bool   `toml:"run_once"`
	Sleep          string `toml:"sleep"`
	AlertThreshold int    `toml:"alert_threshold"`
}

type StorageConfig struct {
	Type string `toml:"type"`
	Path string `toml:"path"`
	Addr string `toml:"addr"`
}

type PlatformConfig struct {
	Type     string                 `toml:"type"`
	Settings map[string]interface{} `toml:"settings"`
}

type SourceConfig struct {
	Type     string                 `toml:"type"`
	Enabled  bool                   `toml:"enabled"`
	Settings map[string]interface{} `toml:"settings"`
}

type ProcessorConfig struct {
	Type     string                 `toml:"type"`
	Enabled  bool                   `toml:"enabled"`
	Settings map[string]interface{} `toml:"settings"`
}

type ReporterConfig struct {
	Type     string                 `toml:"type"`
	Enabled  bool                   `toml:"enabled"`
	Settings map[string]interface{} `toml:"settings"`
}

type ServerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Port     string `toml:"port"`
	FeedSize int    `toml:"feed_size"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Bot.Name == "" {
		config.Bot.Name = "heraldo"
	}

	if config.Bot.Interval == "" {
		config.Bot.Interval = "5m"
	}

	if _, err := time.ParseDuration(config.Bot.Interval); err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}

	if config.Bot.Sleep == "" {
		config.Bot.Sleep = "2s"
	}

	if _, err := time.ParseDuration(config.Bot.Sleep); err != nil {
		return fmt.Errorf("invalid sleep duration: %w", err)
	}

	if config.Bot.AlertThreshold == 0 {
		config.Bot.AlertThreshold = 3
	}

	if config.Storage.Type == "" {
		config.Storage.Type = "sqlite"
	}

	if config.Storage.Type == "sqlite" && config.Storage.Path == "" {
		config.Storage.Path = "./heraldo.db"
	}

	if config.Storage.Type == "redis" && config.Storage.Addr == "" {
		config.Storage.Addr = "localhost:6379"
	}

	enabledSources := 0
	for _, src := range config.Sources {
		if src.Enabled {
			enabledSources++
		}
	}
	if enabledSources == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if len(config.Platforms) == 0 {
		return fmt.Errorf("at least one platform must be configured")
	}

	if config.Server.Enabled {
		if config.Server.Port == "" {
			config.Server.Port = "8080"
		}
		if config.Server.FeedSize == 0 {
			config.Server.FeedSize = 50
		}
	}

	return nil
}

func GetString(settings map[string]interface{}, key string, defaultValue string) string {
	if val, ok := settings[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultValue
}

func GetInt(settings map[string]interface{}, key string, defaultValue int) int {
	if val, ok := settings[key]; ok {
		if i, ok := val.(int64); ok {
			return int(i)
		}
		if i, ok := val.(int); ok {
			return i
		}
	}
	return defaultValue
}

func GetBool(settings map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := settings[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return defaultValue
}

func GetStringSlice(settings map[string]interface{}, key string) []string {
	if val, ok := settings[key]; ok {
		if arr, ok := val.([]interface{}); ok {
			result := make([]string, 0, len(arr))
			for _, item := range arr {
				if str, ok := item.(string); ok {
					result = append(result, str)
				}
			}
			return result
		}
	}
	return []string{}
}

func GetDuration(settings map[string]interface{}, key string, defaultValue time.Duration) time.Duration {
	if val, ok := settings[key]; ok {
		if str, ok := val.(string); ok {
			if d, err := time.ParseDuration(str); err == nil {
				return d
			}
		}
	}
	return defaultValue
}
