// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Pager iterates over the pages of a cursor-paginated Slack API method. It's
// used like a bufio.Scanner:
//
//	p := client.Paginate("/api/conversations.list", v)
//
//	for p.Next(ctx) {
//		// use p.Page() or p.Decode()
//	}
//
//	if err := p.Err(); err != nil {
//		// handle error
//	}
//
// Every page fetched is delivered, including the final one (the one with no
// next_cursor). After the final page, Next returns false without making another
// request. Pages are not restartable; to start over, call Paginate again.
type Pager struct {
	c      *Client
	path   string
	params url.Values

	cursor  string
	fetched int
	page    []byte
	done    bool
	err     error
}

// Next fetches the next page, returning false once there are no more pages or
// a request fails. The context is checked before each request, so canceling it
// stops iteration at the next page boundary.
func (p *Pager) Next(ctx context.Context) bool {
	if p.done || p.err != nil {
		return false
	}

	if err := ctx.Err(); err != nil {
		p.err = err
		p.page = nil
		return false
	}

	val := cloneValues(p.params)

	if p.fetched > 0 {
		val.Set("cursor", p.cursor)
	}

	body, env, err := p.c.call(ctx, http.MethodGet, p.path, val)
	if err != nil {
		p.err = errors.Wrapf(err, "failed to fetch page %d of %q", p.fetched+1, p.path)
		p.page = nil
		return false
	}

	p.fetched++
	p.page = body
	p.cursor = env.ResponseMetadata.Cursor

	// the page is still delivered, we just won't ask for another
	if len(p.cursor) == 0 {
		p.done = true
	}

	return true
}

// Page returns the raw body of the current page.
func (p *Pager) Page() []byte { return p.page }

// Decode unmarshals the current page in to v.
func (p *Pager) Decode(v interface{}) error {
	if p.page == nil {
		return errors.New("no current page")
	}

	return errors.Wrapf(json.Unmarshal(p.page, v), "failed to decode page %d of %q", p.fetched, p.path)
}

// Fetched returns the number of pages fetched so far.
func (p *Pager) Fetched() int { return p.fetched }

// Err returns the error, if any, that stopped iteration. It returns nil if
// iteration finished because there were no more pages.
func (p *Pager) Err() error { return p.err }
