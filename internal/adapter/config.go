package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "modkeeper"

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
	History HistoryConfig `mapstructure:"history"`
}

// BackendConfig holds native backend connection settings
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // per command; syncs can be slow
}

// UIConfig holds UI configuration
type UIConfig struct {
	Locale         string   `mapstructure:"locale"`           // empty: from LANG
	UnknownModName string   `mapstructure:"unknown_mod_name"` // name for archives without a manifest
	OpenCommand    string   `mapstructure:"open_command"`     // empty: xdg-open/open/rundll32
	OpenArgs       []string `mapstructure:"open_args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// CacheConfig holds offline snapshot settings
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// HistoryConfig holds action ledger settings
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:7878",
			Timeout: 5 * time.Minute,
		},
		UI: UIConfig{
			UnknownModName: "Unknown Mod",
		},
		Logging: LoggingConfig{
			File:   defaultLogPath(),
			Level:  "INFO",
			Format: "json",
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		History: HistoryConfig{
			Enabled:       true,
			Path:          filepath.Join(defaultDataPath(), "history.db"),
			RetentionDays: 90,
		},
	}
}

// defaultDataPath returns the per-user data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	return filepath.Join(defaultDataPath(), appName+".log")
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".cache", appName)
	}
}

func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Defaults double as the key list AutomaticEnv can override.
	v.SetDefault("backend.url", cfg.Backend.URL)
	v.SetDefault("backend.timeout", cfg.Backend.Timeout)
	v.SetDefault("ui.locale", cfg.UI.Locale)
	v.SetDefault("ui.unknown_mod_name", cfg.UI.UnknownModName)
	v.SetDefault("ui.open_command", cfg.UI.OpenCommand)
	v.SetDefault("ui.open_args", cfg.UI.OpenArgs)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("history.retention_days", cfg.History.RetentionDays)

	// Environment variable overrides: MODKEEPER_BACKEND_URL, ...
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from file and environment. An empty
// configFile searches the default config directory and the working directory.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.History.Path = expandHome(cfg.History.Path)

	return cfg, nil
}

// SaveConfig writes cfg as YAML. An empty path writes to the default location.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("backend.url", cfg.Backend.URL)
	v.Set("backend.timeout", cfg.Backend.Timeout.String())
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.unknown_mod_name", cfg.UI.UnknownModName)
	v.Set("ui.open_command", cfg.UI.OpenCommand)
	v.Set("ui.open_args", cfg.UI.OpenArgs)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.format", cfg.Logging.Format)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("history.path", cfg.History.Path)
	v.Set("history.retention_days", cfg.History.RetentionDays)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// ClearCache removes the offline snapshot cache
func ClearCache(cfg *Config) error {
	if cfg.Cache.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(cfg.Cache.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
