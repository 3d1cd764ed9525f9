package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database    DatabaseConfig
	UI          UIConfig
	Log         LogConfig
	Keybindings []KeybindingConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path     string
	SeedDemo bool `mapstructure:"seed_demo"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DefaultView    string `mapstructure:"default_view"`
	ToastSeconds   int    `mapstructure:"toast_seconds"`
}

// LogConfig controls the file logger. The terminal belongs to the TUI, so
// nothing is ever written to stdout.
type LogConfig struct {
	Path  string
	Level string
}

// KeybindingConfig overrides the keys for one action in one scope.
type KeybindingConfig struct {
	Scope  string
	Action string
	Keys   []string
}

var validViews = []string{"overview", "accounts", "analytics", "settings"}

var validLevels = []string{"trace", "debug", "info", "warn", "warning", "error"}

// Load reads configuration from file and env. Env var overrides use prefix ORBIT_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ORBIT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "orbit"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ORBIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine on first run; a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := homeDir()
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "orbit", "orbit.db"))
	v.SetDefault("database.seed_demo", true)
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.default_view", "overview")
	v.SetDefault("ui.toast_seconds", 3)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "orbit", "orbit.log"))
	v.SetDefault("log.level", "info")
}

// Validate reports the first setting that cannot be used as-is.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.UI.ToastSeconds < 1 {
		return fmt.Errorf("ui.toast_seconds must be at least 1, got %d", c.UI.ToastSeconds)
	}
	if !contains(validLevels, strings.ToLower(strings.TrimSpace(c.Log.Level))) {
		return fmt.Errorf("log.level %q: want one of %s", c.Log.Level, strings.Join(validLevels, ", "))
	}
	return nil
}

// KnownDefaultView reports whether ui.default_view names a view. Unknown
// values are not fatal; the dashboard opens on the overview instead.
func (c Config) KnownDefaultView() bool {
	v := strings.ToLower(strings.TrimSpace(c.UI.DefaultView))
	return v == "" || v == "dashboard" || contains(validViews, v)
}

// Path returns the file Save writes to.
func Path() string {
	if p := os.Getenv("ORBIT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "orbit", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
// The settings view uses it to persist the default view.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.seed_demo", cfg.Database.SeedDemo)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.default_view", cfg.UI.DefaultView)
	v.Set("ui.toast_seconds", cfg.UI.ToastSeconds)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	if len(cfg.Keybindings) > 0 {
		items := make([]map[string]any, 0, len(cfg.Keybindings))
		for _, kb := range cfg.Keybindings {
			items = append(items, map[string]any{"scope": kb.Scope, "action": kb.Action, "keys": kb.Keys})
		}
		v.Set("keybindings", items)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
