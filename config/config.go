package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "DEVCHECK_"

// Config holds user-configurable defaults. Values are expressed in
// milliseconds in the file so the JSON stays integer-only.
type Config struct {
	ProbeTimeoutMs int  `json:"probe_timeout_ms"`
	RevealDelayMs  int  `json:"reveal_delay_ms"`
	NoColor        bool `json:"no_color"`
	Debug          bool `json:"debug"`
}

// Default returns a config with sensible defaults.
func Default() Config {
	return Config{
		ProbeTimeoutMs: 5000,
		RevealDelayMs:  7000,
	}
}

// ProbeTimeout returns the per-probe budget as a duration.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMs) * time.Millisecond
}

// RevealDelay returns the minimum time results stay hidden after startup.
func (c Config) RevealDelay() time.Duration {
	return time.Duration(c.RevealDelayMs) * time.Millisecond
}

// Path returns ~/.config/devcheck/config.json (or XDG_CONFIG_HOME).
// Returns empty string if home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "devcheck", "config.json")
}

// Load loads config from disk; returns defaults on error. A file that
// fails to parse is ignored rather than aborting startup.
func Load() Config {
	return loadFrom(Path())
}

func loadFrom(path string) Config {
	cfg := Default()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	if cfg.ProbeTimeoutMs <= 0 {
		cfg.ProbeTimeoutMs = Default().ProbeTimeoutMs
	}
	if cfg.RevealDelayMs < 0 {
		cfg.RevealDelayMs = Default().RevealDelayMs
	}
	return cfg
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// envOverride maps one environment key (without prefix) to the flag
// name it mirrors and a function that applies the value.
type envOverride struct {
	envKey string
	flag   string
	apply  func(*Config, string)
}

var envOverrides = []envOverride{
	{"TIMEOUT", "timeout", func(c *Config, v string) {
		if ms, ok := parseMillis(v); ok && ms > 0 {
			c.ProbeTimeoutMs = ms
		}
	}},
	{"REVEAL", "reveal", func(c *Config, v string) {
		if ms, ok := parseMillis(v); ok && ms >= 0 {
			c.RevealDelayMs = ms
		}
	}},
	{"NO_COLOR", "no-color", func(c *Config, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"DEBUG", "debug", func(c *Config, v string) {
		c.Debug = parseBoolEnv(v, c.Debug)
	}},
}

// ApplyEnv applies environment overrides for any flag the user did not
// set explicitly, giving the priority: flags > environment > file.
func ApplyEnv(cfg *Config, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSet(fs, o.flag) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(cfg, val)
		}
	}
}

// parseMillis accepts either a duration string ("7s", "500ms") or a bare
// integer meaning milliseconds.
func parseMillis(v string) (int, bool) {
	if d, err := time.ParseDuration(v); err == nil {
		return int(d.Milliseconds()), true
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	return 0, false
}

// parseBoolEnv accepts "true", "1", "yes" and "false", "0", "no",
// case-insensitive. Unrecognized values keep the default.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
