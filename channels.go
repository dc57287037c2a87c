// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"context"
	"net/url"
	"strconv"

	"github.com/slack-go/slack"
)

const conversationsListPath = "/api/conversations.list"

// DefaultPageLimit is the page size requested from conversations.list. Slack
// caps it at 1000.
const DefaultPageLimit = 1000

type conversationsListResponse struct {
	Channels []slack.Channel `json:"channels"`
}

// ChannelPager iterates over the pages of public, non-archived channels in the
// workspace. See Pager for how to use it.
type ChannelPager struct {
	p        *Pager
	channels []slack.Channel
	err      error
}

// ListChannels returns a *ChannelPager over the public channels of the
// workspace, excluding archived ones. limit is the page size; values outside of
// 1 through DefaultPageLimit use DefaultPageLimit.
func (c *Client) ListChannels(limit int) *ChannelPager {
	if limit < 1 || limit > DefaultPageLimit {
		limit = DefaultPageLimit
	}

	v := url.Values{
		"exclude_archived": []string{"true"},
		"types":            []string{"public_channel"},
		"limit":            []string{strconv.Itoa(limit)},
	}

	return &ChannelPager{p: c.Paginate(conversationsListPath, v)}
}

// Next fetches and decodes the next page of channels.
func (cp *ChannelPager) Next(ctx context.Context) bool {
	if cp.err != nil {
		return false
	}

	cp.channels = nil

	if !cp.p.Next(ctx) {
		return false
	}

	var resp conversationsListResponse

	if err := cp.p.Decode(&resp); err != nil {
		cp.err = err
		return false
	}

	cp.channels = resp.Channels

	return true
}

// Channels returns the channels on the current page.
func (cp *ChannelPager) Channels() []slack.Channel { return cp.channels }

// Fetched returns the number of pages fetched so far.
func (cp *ChannelPager) Fetched() int { return cp.p.Fetched() }

// Err returns the error that stopped iteration, if any.
func (cp *ChannelPager) Err() error {
	if cp.err != nil {
		return cp.err
	}

	return cp.p.Err()
}
