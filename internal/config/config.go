package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultThreshold is the fraction of the scrollable extent that must be
// consumed before the next page is requested.
const DefaultThreshold = 0.75

// Animation holds the timing knobs for the list; all values are milliseconds.
type Animation struct {
	EnterMS           int `toml:"enter_ms"`
	ExitMS            int `toml:"exit_ms"`
	LoadingRevealMS   int `toml:"loading_reveal_ms"`
	LoadingHideMS     int `toml:"loading_hide_ms"`
	AutoScrollDelayMS int `toml:"auto_scroll_delay_ms"`
	AutoScrollMS      int `toml:"auto_scroll_ms"`
	FrameMS           int `toml:"frame_ms"`
}

// Config is the only persisted config file schema.
type Config struct {
	UserID      string `toml:"user_id"`
	UserName    string `toml:"user_name"`
	HistoryPath string `toml:"history_path"`
	PageSize    int    `toml:"page_size"`
	LogPath     string `toml:"log_path"`
	LogLevel    string `toml:"log_level"`

	// IsLastPage disables pagination entirely when true; nil means "ask the store".
	IsLastPage *bool   `toml:"is_last_page,omitempty"`
	Threshold  float64 `toml:"on_end_reached_threshold"`

	// Pass-through options for the rendering layer.
	KeyboardDismissBehavior string `toml:"keyboard_dismiss_behavior"`
	ScrollPhysics           string `toml:"scroll_physics"`

	Animation Animation `toml:"animation"`
	Source    string    `toml:"-"`
}

func Default() Config {
	return Config{
		UserID:                  "local",
		UserName:                "me",
		PageSize:                20,
		LogLevel:                "info",
		Threshold:               DefaultThreshold,
		KeyboardDismissBehavior: "manual",
		ScrollPhysics:           "clamping",
		Animation: Animation{
			EnterMS:           250,
			ExitMS:            250,
			LoadingRevealMS:   0,
			LoadingHideMS:     300,
			AutoScrollDelayMS: 100,
			AutoScrollMS:      200,
			FrameMS:           16,
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chatlist", "config.toml")
}

// DefaultHistoryPath is where messages live when the config does not say.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chatlist", "history.jsonl")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, cfg.Validate()
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("CHATLIST_USER")); env != "" {
		cfg.UserID = env
	}
	if env := strings.TrimSpace(os.Getenv("CHATLIST_HISTORY")); env != "" {
		cfg.HistoryPath = env
	}
}

// Validate clamps soft values into range and rejects values the list cannot
// work with.
func (c *Config) Validate() error {
	if c.Threshold < 0 {
		c.Threshold = 0
	}
	if c.Threshold > 1 {
		c.Threshold = 1
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is empty")
	}
	if c.Animation.FrameMS <= 0 {
		c.Animation.FrameMS = Default().Animation.FrameMS
	}
	if c.HistoryPath == "" {
		c.HistoryPath = DefaultHistoryPath()
	}
	return nil
}

// LastPage reports whether pagination is switched off by configuration.
func (c Config) LastPage() bool {
	return c.IsLastPage != nil && *c.IsLastPage
}

func ms(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Millisecond
}

func (a Animation) Enter() time.Duration           { return ms(a.EnterMS) }
func (a Animation) Exit() time.Duration            { return ms(a.ExitMS) }
func (a Animation) LoadingReveal() time.Duration   { return ms(a.LoadingRevealMS) }
func (a Animation) LoadingHide() time.Duration     { return ms(a.LoadingHideMS) }
func (a Animation) AutoScrollDelay() time.Duration { return ms(a.AutoScrollDelayMS) }
func (a Animation) AutoScroll() time.Duration      { return ms(a.AutoScrollMS) }
func (a Animation) Frame() time.Duration           { return ms(a.FrameMS) }
