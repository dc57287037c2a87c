// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

// Package logging builds the slog loggers used by slacksort.
//
// Two formats are supported: a compact console format for people, and JSON
// for machines. The "auto" format picks console when the output is a
// terminal.
package logging
