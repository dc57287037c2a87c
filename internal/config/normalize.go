// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeWorkspace()
	c.normalizeSection()
	c.normalizeCredentials()
	c.normalizeLogging()
	c.normalizeSweep()
}

func (c *Config) normalizeWorkspace() {
	if strings.TrimSpace(c.Subdomain) == "" {
		if value, ok := os.LookupEnv("SLACK_SUBDOMAIN"); ok {
			c.Subdomain = value
		}
	}
	c.Subdomain = NormalizeSubdomain(c.Subdomain)

	c.SessionCookie = strings.TrimSpace(c.SessionCookie)
	if c.SessionCookie == "" {
		if value, ok := os.LookupEnv("SLACK_D_COOKIE"); ok {
			c.SessionCookie = strings.TrimSpace(value)
		}
	}
}

// NormalizeSubdomain lowercases and trims a workspace subdomain. A pasted
// workspace URL, like https://gophers.slack.com/, is reduced to its subdomain.
func NormalizeSubdomain(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.TrimPrefix(v, "https://")
	v = strings.TrimPrefix(v, "http://")
	v = strings.TrimSuffix(v, "/")
	return strings.TrimSuffix(v, ".slack.com")
}

// NormalizeSectionName lowercases and trims a section name.
func NormalizeSectionName(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// NormalizeSectionEmoji lowercases and trims an emoji name, dropping any
// surrounding colons.
func NormalizeSectionEmoji(v string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(v), ":"))
}

func (c *Config) normalizeSection() {
	c.SectionName = NormalizeSectionName(c.SectionName)
	if c.SectionName == "" {
		c.SectionName = defaultSectionName
	}

	c.SectionEmoji = NormalizeSectionEmoji(c.SectionEmoji)
	if c.SectionEmoji == "" {
		c.SectionEmoji = defaultSectionEmoji
	}

	if strings.TrimSpace(c.ChannelPattern) == "" {
		c.ChannelPattern = defaultChannelPattern
	}
}

func (c *Config) normalizeCredentials() {
	browsers := c.Credentials.Browsers[:0]

	for _, b := range c.Credentials.Browsers {
		b = strings.ToLower(strings.TrimSpace(b))
		if b != "" {
			browsers = append(browsers, b)
		}
	}

	if len(browsers) == 0 {
		browsers = nil
	}

	c.Credentials.Browsers = browsers
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeSweep() {
	if c.Sweep.PageLimit <= 0 || c.Sweep.PageLimit > defaultPageLimit {
		c.Sweep.PageLimit = defaultPageLimit
	}
}
