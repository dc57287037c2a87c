// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

// Package slacksort is a package for sorting Slack channels in to sidebar
// sections, based on the names of the channels. Sidebar sections can only be
// managed by the user they belong to, so this package acts as that user: it
// exchanges the Slack web session cookie ("d") for the API token the web
// client uses, and calls the same undocumented API methods the web client
// does.
//
// The sort itself is simple. The named section is found (or created), and then
// every page of the workspace's public channels is examined. Channels the user
// is a member of, that are not already in the section, and whose names match a
// regular expression are moved in to the section, with one request per page.
// The sort paces itself between pages, as Slack is not expecting a high rate
// of automated calls.
//
// Sorting is idempotent. Slack treats moving a channel in to the section it is
// already in as a no-op, so if a sort fails part way through it can be run
// again from the start.
//
// The behaviors and functions relied on by this package are largely
// undocumented, and the usage of them fall outside of any compatibility
// guarantees provided by Slack. It's reasonable to assume it may break
// unexpectedly in the future.
package slacksort
