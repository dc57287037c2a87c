// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

// Package config loads, normalizes, validates, and saves slacksort
// configuration.
//
// The configuration lives in a TOML file, by default
// ~/.config/slacksort/config.toml. SLACK_SUBDOMAIN and SLACK_D_COOKIE fill in
// the workspace and session cookie when the file leaves them empty. The file
// holds the session cookie, so it's written with mode 0600.
package config
