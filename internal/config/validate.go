// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package config

import (
	"fmt"
	"strings"

	"github.com/steipete/sweetcookie"

	"github.com/theckman/slacksort"
)

// ConfigError is a configuration value that is missing or invalid.
type ConfigError struct {
	// Field is the TOML key of the value, like "subdomain" or "logging.level".
	Field string

	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// Validate ensures the configuration is usable. It returns a *ConfigError
// for the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateWorkspace,
		c.validateSection,
		c.validateCredentials,
		c.validateLogging,
	}

	for _, fn := range validators {
		if err := fn(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSubdomain checks a normalized workspace subdomain.
func ValidateSubdomain(v string) error {
	switch {
	case v == "":
		return &ConfigError{Field: "subdomain", Reason: "is required (e.g., 'foo' in 'foo.slack.com')"}
	case strings.ContainsAny(v, "./ "):
		return &ConfigError{Field: "subdomain", Reason: fmt.Sprintf("%q must not contain '.', '/', or spaces", v)}
	}

	return nil
}

// ValidateSectionName checks a normalized section name.
func ValidateSectionName(v string) error {
	if v == "" || strings.Contains(v, " ") {
		return &ConfigError{Field: "section_name", Reason: fmt.Sprintf("%q must be a non-empty name without spaces", v)}
	}

	return nil
}

// ValidateSectionEmoji checks a normalized section emoji name.
func ValidateSectionEmoji(v string) error {
	if v == "" || strings.Contains(v, " ") {
		return &ConfigError{Field: "section_emoji", Reason: fmt.Sprintf("%q must be an emoji name without spaces, like 'fire'", v)}
	}

	return nil
}

// ValidateChannelPattern checks that a channel name pattern compiles.
func ValidateChannelPattern(v string) error {
	if _, err := slacksort.CompilePattern(v); err != nil {
		return &ConfigError{Field: "channel_pattern", Reason: err.Error()}
	}

	return nil
}

func (c *Config) validateWorkspace() error {
	if err := ValidateSubdomain(c.Subdomain); err != nil {
		return err
	}

	if c.SessionCookie == "" {
		return &ConfigError{Field: "session_cookie", Reason: "is required; run 'slacksort auth' or set SLACK_D_COOKIE"}
	}

	return nil
}

func (c *Config) validateSection() error {
	if err := ValidateSectionName(c.SectionName); err != nil {
		return err
	}

	if err := ValidateSectionEmoji(c.SectionEmoji); err != nil {
		return err
	}

	return ValidateChannelPattern(c.ChannelPattern)
}

func (c *Config) validateCredentials() error {
	known := make(map[string]struct{})
	for _, b := range sweetcookie.DefaultBrowsers() {
		known[string(b)] = struct{}{}
	}

	for _, b := range c.Credentials.Browsers {
		if _, ok := known[b]; !ok {
			return &ConfigError{Field: "credentials.browsers", Reason: fmt.Sprintf("%q is not a supported browser", b)}
		}
	}

	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return &ConfigError{Field: "logging.format", Reason: fmt.Sprintf("%q must be 'auto', 'console', or 'json'", c.Logging.Format)}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Reason: fmt.Sprintf("%q must be one of debug, info, warn, error", c.Logging.Level)}
	}

	return nil
}
