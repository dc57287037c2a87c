// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

// Command slacksort moves the Slack channels you're in, whose names match a
// pattern, in to a sidebar section.
//
// Run 'slacksort configure' once to choose the workspace, section, and
// pattern, and to import your Slack session from a browser. After that,
// 'slacksort sort' does the sorting; run it as often as you like.
package main
