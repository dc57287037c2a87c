// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package config

const (
	defaultConfigPath     = "~/.config/slacksort/config.toml"
	defaultSectionName    = "incidents"
	defaultSectionEmoji   = "fire"
	defaultChannelPattern = "^inc-"
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
	defaultPageDelayMS    = 250
	defaultPageLimit      = 1000
)

// Default returns a Config populated with the defaults. The workspace and
// session cookie have no defaults.
func Default() Config {
	return Config{
		SectionName:    defaultSectionName,
		SectionEmoji:   defaultSectionEmoji,
		ChannelPattern: defaultChannelPattern,
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Sweep: Sweep{
			PageDelayMS: defaultPageDelayMS,
			PageLimit:   defaultPageLimit,
		},
	}
}
