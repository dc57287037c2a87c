// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package config

import (
	_ "embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

//go:embed sample_config.toml
var sampleConfig string

// Credentials configures where session cookies are imported from.
type Credentials struct {
	// Browsers are searched in order. Empty means every supported browser.
	Browsers []string `toml:"browsers,omitempty"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Sweep contains configuration for the channel sweep.
type Sweep struct {
	PageDelayMS int `toml:"page_delay_ms"`
	PageLimit   int `toml:"page_limit"`
}

// Config encapsulates all configuration values for slacksort.
type Config struct {
	Subdomain      string `toml:"subdomain"`
	SessionCookie  string `toml:"session_cookie"`
	SectionName    string `toml:"section_name"`
	SectionEmoji   string `toml:"section_emoji"`
	ChannelPattern string `toml:"channel_pattern"`

	Credentials Credentials `toml:"credentials"`
	Logging     Logging     `toml:"logging"`
	Sweep       Sweep       `toml:"sweep"`
}

// PageDelay returns the pause between pages of the sweep. A negative
// page_delay_ms disables pacing.
func (c *Config) PageDelay() time.Duration {
	if c.Sweep.PageDelayMS < 0 {
		return -1
	}

	return time.Duration(c.Sweep.PageDelayMS) * time.Millisecond
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Read locates and parses a configuration file, applying environment
// fallbacks and normalization but not validation. A missing file isn't an
// error: the defaults are returned and exists is false.
func Read(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, errors.Wrap(err, "open config")
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, errors.Wrapf(err, "parse config %s", resolvedPath)
		}
	}

	cfg.normalize()

	return &cfg, resolvedPath, exists, nil
}

// Load is Read followed by Validate. Validation failures are returned as a
// *ConfigError, along with the config so callers can offer to fix it.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := Read(path)
	if err != nil {
		return nil, "", false, err
	}

	return cfg, resolvedPath, exists, cfg.Validate()
}

// IsUnconfigured reports whether err means the configuration is missing
// values, rather than being unreadable.
func IsUnconfigured(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, errors.Wrap(err, "stat config")
	}

	if info.IsDir() {
		return "", false, errors.Errorf("config path %s is a directory", expanded)
	}

	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}

	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home directory")
		}

		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}

	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", errors.Wrapf(err, "resolve absolute path for %q", pathValue)
	}

	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the sample configuration file to path. It refuses to
// overwrite an existing file.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "create config directory")
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return errors.Wrap(err, "create sample config")
	}

	if _, err := f.WriteString(sampleConfig); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "write sample config")
	}

	return errors.Wrap(f.Close(), "write sample config")
}
