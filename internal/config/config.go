package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/llehouerou/odeon/internal/icons"
)

const appName = "odeon"

const (
	defaultLogLevel           = "info"
	defaultIcons              = "none"
	defaultMostRatedLimit     = 5
	defaultRecentlyAddedLimit = 25
	defaultWindowSize         = 10
	defaultRewindThresholdMS  = 3000
	defaultWatchDebounceMS    = 250
)

type Config struct {
	LibraryDB string `koanf:"library_db"` // SQLite library file
	StateDB   string `koanf:"state_db"`   // SQLite last played session file
	LogLevel  string `koanf:"log_level"`  // zerolog level name
	Icons     string `koanf:"icons"`      // "nerd", "unicode", or "none"

	Browse BrowseConfig `koanf:"browse"`
	Queue  QueueConfig  `koanf:"queue"`
	Watch  WatchConfig  `koanf:"watch"`
}

// BrowseConfig holds the sizes of the computed track categories.
type BrowseConfig struct {
	MostRatedLimit     int `koanf:"most_rated_limit"`     // default: 5
	RecentlyAddedLimit int `koanf:"recently_added_limit"` // default: 25
}

// QueueConfig holds floating queue settings.
type QueueConfig struct {
	WindowSize        int `koanf:"window_size"`         // default: 10
	RewindThresholdMS int `koanf:"rewind_threshold_ms"` // default: 3000
}

// WatchConfig holds library watch settings.
type WatchConfig struct {
	DebounceMS int `koanf:"debounce_ms"` // default: 250
}

// Load reads the user config file and then ./config.toml, the latter taking
// precedence. Missing files are skipped.
func Load() (*Config, error) {
	return load(getConfigPaths())
}

// LoadFile reads only the given config file.
func LoadFile(path string) (*Config, error) {
	return load([]string{path})
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	// Zero is a valid threshold, so only a missing key gets the default.
	if !k.Exists("queue.rewind_threshold_ms") {
		cfg.Queue.RewindThresholdMS = defaultRewindThresholdMS
	}

	cfg.LibraryDB = expandPath(cfg.LibraryDB)
	cfg.StateDB = expandPath(cfg.StateDB)

	if cfg.LibraryDB == "" {
		path, err := xdg.DataFile(filepath.Join(appName, "library.db"))
		if err != nil {
			return nil, err
		}
		cfg.LibraryDB = path
	}
	// An empty state path lets the state package pick its default location.

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if !icons.Valid(c.Icons) {
		c.Icons = defaultIcons
	}
	if c.Browse.MostRatedLimit <= 0 {
		c.Browse.MostRatedLimit = defaultMostRatedLimit
	}
	if c.Browse.RecentlyAddedLimit <= 0 {
		c.Browse.RecentlyAddedLimit = defaultRecentlyAddedLimit
	}
	if c.Queue.WindowSize <= 0 {
		c.Queue.WindowSize = defaultWindowSize
	}
	if c.Queue.RewindThresholdMS < 0 {
		c.Queue.RewindThresholdMS = defaultRewindThresholdMS
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = defaultWatchDebounceMS
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/odeon/config.toml
	paths = append(paths, filepath.Join(xdg.ConfigHome, appName, "config.toml"))

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// RewindThreshold returns the queue rewind threshold as a duration.
func (c *Config) RewindThreshold() time.Duration {
	return time.Duration(c.Queue.RewindThresholdMS) * time.Millisecond
}

// WatchDebounce returns the library watch debounce as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
