// Package config loads the shell configuration from a TOML file and
// VIBESHELL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/chrisuehlinger/vibeshell/geometry"
)

// Config holds application configuration.
type Config struct {
	// Host selects the window host: "fyne" or "headless".
	Host    string        `mapstructure:"host"`
	Window  WindowConfig  `mapstructure:"window"`
	Tabs    TabsConfig    `mapstructure:"tabs"`
	Session SessionConfig `mapstructure:"session"`
	Storage StorageConfig `mapstructure:"storage"`
	Content ContentConfig `mapstructure:"content"`
	Log     LogConfig     `mapstructure:"log"`
}

// WindowConfig describes the first window.
type WindowConfig struct {
	Title           string       `mapstructure:"title"`
	Width           int          `mapstructure:"width"`
	Height          int          `mapstructure:"height"`
	BackgroundColor string       `mapstructure:"background_color"`
	WaitForLoad     bool         `mapstructure:"wait_for_load"`
	ChromeURL       string       `mapstructure:"chrome_url"`
	ChromeFile      string       `mapstructure:"chrome_file"`
	Offset          OffsetConfig `mapstructure:"offset"`
}

// OffsetConfig is the space reserved around the tab area for the chrome.
type OffsetConfig struct {
	Top    int `mapstructure:"top"`
	Bottom int `mapstructure:"bottom"`
	Left   int `mapstructure:"left"`
	Right  int `mapstructure:"right"`
}

// Geometry converts c to a geometry.Offset.
func (c OffsetConfig) Geometry() geometry.Offset {
	return geometry.Offset{Top: c.Top, Bottom: c.Bottom, Left: c.Left, Right: c.Right}
}

// TabsConfig holds settings for new tabs.
type TabsConfig struct {
	StartURL        string `mapstructure:"start_url"`
	BackgroundColor string `mapstructure:"background_color"`
}

// SessionConfig selects the default session.
type SessionConfig struct {
	ID      string `mapstructure:"id"`
	Persist bool   `mapstructure:"persist"`
	Cache   bool   `mapstructure:"cache"`
}

// StorageConfig selects where session state is kept.
type StorageConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// ContentConfig tunes page loading.
type ContentConfig struct {
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ScriptTimeout time.Duration `mapstructure:"script_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(configHome(), "vibeshell", "config.toml")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "fyne")
	v.SetDefault("window.title", "Vibeshell")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("window.background_color", "#ffffff")
	v.SetDefault("window.wait_for_load", true)
	v.SetDefault("window.chrome_url", "")
	v.SetDefault("window.chrome_file", "")
	v.SetDefault("window.offset.top", 80)
	v.SetDefault("window.offset.bottom", 0)
	v.SetDefault("window.offset.left", 0)
	v.SetDefault("window.offset.right", 0)
	v.SetDefault("tabs.start_url", "about:blank")
	v.SetDefault("tabs.background_color", "#ffffff")
	v.SetDefault("session.id", "main")
	v.SetDefault("session.persist", true)
	v.SetDefault("session.cache", true)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", filepath.Join(dataHome(), "vibeshell", "state.db"))
	v.SetDefault("content.user_agent", "")
	v.SetDefault("content.timeout", 30*time.Second)
	v.SetDefault("content.script_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
}

// Load reads configuration from path and the environment. With an empty
// path it reads VIBESHELL_CONFIG or DefaultPath, and a missing file only
// means defaults. Env var overrides use prefix VIBESHELL_.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv("VIBESHELL_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("VIBESHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
		if explicit || !missing {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Host {
	case "fyne", "headless":
	default:
		return fmt.Errorf("config: unknown host %q", c.Host)
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("config: sqlite storage needs a path")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.ChromeURL != "" && c.Window.ChromeFile != "" {
		return errors.New("config: window chrome_url and chrome_file are mutually exclusive")
	}
	if c.Session.ID == "" {
		return errors.New("config: session id is required")
	}
	return nil
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("host", cfg.Host)
	v.Set("window.title", cfg.Window.Title)
	v.Set("window.width", cfg.Window.Width)
	v.Set("window.height", cfg.Window.Height)
	v.Set("window.background_color", cfg.Window.BackgroundColor)
	v.Set("window.wait_for_load", cfg.Window.WaitForLoad)
	v.Set("window.chrome_url", cfg.Window.ChromeURL)
	v.Set("window.chrome_file", cfg.Window.ChromeFile)
	v.Set("window.offset.top", cfg.Window.Offset.Top)
	v.Set("window.offset.bottom", cfg.Window.Offset.Bottom)
	v.Set("window.offset.left", cfg.Window.Offset.Left)
	v.Set("window.offset.right", cfg.Window.Offset.Right)
	v.Set("tabs.start_url", cfg.Tabs.StartURL)
	v.Set("tabs.background_color", cfg.Tabs.BackgroundColor)
	v.Set("session.id", cfg.Session.ID)
	v.Set("session.persist", cfg.Session.Persist)
	v.Set("session.cache", cfg.Session.Cache)
	v.Set("storage.driver", cfg.Storage.Driver)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("content.user_agent", cfg.Content.UserAgent)
	v.Set("content.timeout", cfg.Content.Timeout.String())
	v.Set("content.script_timeout", cfg.Content.ScriptTimeout.String())
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
