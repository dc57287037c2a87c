// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"
)

const (
	tdSubdomain = "gophers"
	tdCookie    = "xoxd-REDACTED%2Bcookie%3D"
	tdToken     = "xoxc-334538486097-REDACTED" /* #nosec */

	tdWorkspace             = "./testdata/workspace.html"
	tdWorkspaceInlineToken  = "./testdata/workspace_inline_token.html"
	tdWorkspaceMissingToken = "./testdata/workspace_missing_token.html"
	tdSignIn                = "./testdata/signin.html"
)

// fakeSlack is an httptest handler that imitates the parts of Slack this
// package talks to, recording what it's asked to do.
type fakeSlack struct {
	t *testing.T

	// sections is the JSON value of "channel_sections"
	sections string

	// createID is the ID returned when a section is created
	createID string

	// pages are the JSON values of "channels" for each page of
	// conversations.list, in order
	pages []string

	// failBulk, if not empty, is the error code returned by bulkUpdate
	failBulk string

	// membership, when set, is kept up to date by create and bulkUpdate and
	// is listed in place of sections
	membership *fakeMembership

	mu           sync.Mutex
	tokenFetches int
	cursors      []string
	limits       []string
	creates      []url.Values
	inserts      [][]sectionInsert
}

func (f *fakeSlack) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		f.mu.Lock()
		f.tokenFetches++
		f.mu.Unlock()

		fn := tdSignIn

		if c, err := r.Cookie(sessionCookieName); err == nil && c.Value == tdCookie {
			fn = tdWorkspace
		}

		writeFile(f.t, w, fn)
	})

	mux.HandleFunc("/api/users.channelSections.list", f.authmw(getmw(func(w http.ResponseWriter, r *http.Request) {
		if f.membership != nil {
			f.mu.Lock()
			p, err := json.Marshal(f.membership.list())
			f.mu.Unlock()

			if err != nil {
				f.t.Errorf("failed to encode sections: %s", err)
			}

			fmt.Fprintf(w, `{"ok":true,"channel_sections":%s}`, p)
			return
		}

		fmt.Fprintf(w, `{"ok":true,"channel_sections":%s,"last_updated":1700000000}`, orEmpty(f.sections))
	})))

	mux.HandleFunc("/api/users.channelSections.create", f.authmw(postmw(f.t, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.creates = append(f.creates, r.PostForm)
		if f.membership != nil {
			f.membership.create(f.createID, r.PostForm.Get("name"), r.PostForm.Get("emoji"))
		}
		f.mu.Unlock()

		fmt.Fprintf(w, `{"ok":true,"channel_section_id":%q}`, f.createID)
	})))

	mux.HandleFunc("/api/users.channelSections.channels.bulkUpdate", f.authmw(postmw(f.t, func(w http.ResponseWriter, r *http.Request) {
		if f.failBulk != "" {
			fmt.Fprintf(w, `{"ok":false,"error":%q}`, f.failBulk)
			return
		}

		var insert []sectionInsert

		if err := json.Unmarshal([]byte(r.PostForm.Get("insert")), &insert); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"ok":false,"error":"invalid_arguments"}`)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		f.inserts = append(f.inserts, insert)

		if f.membership != nil {
			for _, in := range insert {
				if !f.membership.insert(in.SectionID, in.ChannelIDs) {
					io.WriteString(w, `{"ok":false,"error":"channel_section_not_found"}`)
					return
				}
			}
		}

		io.WriteString(w, `{"ok":true}`)
	})))

	mux.HandleFunc("/api/conversations.list", f.authmw(getmw(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		cursor := q.Get("cursor")

		f.mu.Lock()
		f.cursors = append(f.cursors, cursor)
		f.limits = append(f.limits, q.Get("limit"))
		f.mu.Unlock()

		if q.Get("exclude_archived") != "true" || q.Get("types") != "public_channel" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"ok":false,"error":"invalid_arguments"}`)
			return
		}

		// page n is requested with cursor "c<n>"; the first page has no cursor
		n := 0

		if cursor != "" {
			var err error

			if n, err = strconv.Atoi(cursor[1:]); err != nil || n >= len(f.pages) {
				io.WriteString(w, `{"ok":false,"error":"invalid_cursor"}`)
				return
			}
		}

		if len(f.pages) == 0 {
			io.WriteString(w, `{"ok":true,"channels":[],"response_metadata":{"next_cursor":""}}`)
			return
		}

		next := ""
		if n+1 < len(f.pages) {
			next = "c" + strconv.Itoa(n+1)
		}

		fmt.Fprintf(w, `{"ok":true,"channels":%s,"response_metadata":{"next_cursor":%q}}`, f.pages[n], next)
	})))

	mux.HandleFunc("/api/users.profile.get", f.authmw(getmw(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"profile":{"real_name":"Gopher","display_name":"gopher","display_name_normalized":"gopher","email":"gopher@example.org"}}`)
	})))

	return httptest.NewServer(mux)
}

// fakeMembership is sidebar state. Like Slack, a listed section only carries
// the first pageSize of its channels, and moving a channel in to a section
// it's already in succeeds without changing anything.
type fakeMembership struct {
	pageSize  int
	sections  []Section
	reinserts int
}

func (m *fakeMembership) list() []Section {
	out := make([]Section, 0, len(m.sections))

	for _, s := range m.sections {
		ids := s.ChannelIDsPage.ChannelIDs

		first := append([]string{}, ids...)
		if m.pageSize > 0 && len(first) > m.pageSize {
			first = first[:m.pageSize]
		}

		s.ChannelIDsPage = ChannelIDsPage{ChannelIDs: first, Count: len(ids)}
		out = append(out, s)
	}

	return out
}

func (m *fakeMembership) create(id, name, emoji string) {
	m.sections = append(m.sections, Section{ID: id, Name: name, Emoji: emoji, Type: "standard"})
}

func (m *fakeMembership) insert(sectionID string, channelIDs []string) bool {
	for i := range m.sections {
		s := &m.sections[i]
		if s.ID != sectionID {
			continue
		}

	channels:
		for _, id := range channelIDs {
			for _, have := range s.ChannelIDsPage.ChannelIDs {
				if have == id {
					m.reinserts++
					continue channels
				}
			}

			s.ChannelIDsPage.ChannelIDs = append(s.ChannelIDsPage.ChannelIDs, id)
		}

		return true
	}

	return false
}

// sectionChannels returns every channel in the section, not only the first
// page of them.
func (f *fakeSlack) sectionChannels(sectionID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.membership.sections {
		if s.ID == sectionID {
			return append([]string(nil), s.ChannelIDsPage.ChannelIDs...)
		}
	}

	return nil
}

// authmw rejects API calls that aren't authenticated the way Slack expects: the
// bearer token and the session cookie.
func (f *fakeSlack) authmw(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookieName)

		if err != nil || c.Value != tdCookie || r.Header.Get("Authorization") != "Bearer "+tdToken {
			io.WriteString(w, `{"ok":false,"error":"invalid_auth"}`)
			return
		}

		next(w, r)
	}
}

func (f *fakeSlack) insertCalls() [][]sectionInsert {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([][]sectionInsert(nil), f.inserts...)
}

func (f *fakeSlack) listCursors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.cursors...)
}

func (f *fakeSlack) listLimits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.limits...)
}

func (f *fakeSlack) createCalls() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]url.Values(nil), f.creates...)
}

// newTestClient returns a *Client pointed at server, authenticated with the
// test cookie.
func newTestClient(server *httptest.Server) *Client {
	httpc := newTestHTTPClient(nil)

	ts := &TokenSource{
		c:         httpc,
		endpoint:  server.URL,
		subdomain: tdSubdomain,
		cookie:    tdCookie,
	}

	return &Client{c: httpc, endpoint: server.URL, tokens: ts}
}

func writeFile(t *testing.T, w io.Writer, fn string) {
	f, err := os.Open(fn)
	if err != nil {
		t.Errorf("failed to open %q: %s", fn, err)
		return
	}

	defer f.Close()

	if _, err = io.Copy(w, f); err != nil {
		t.Errorf("failed to write body: %s", err)
	}
}

func orEmpty(s string) string {
	if s == "" {
		return "[]"
	}

	return s
}

func postmw(t *testing.T, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			fmt.Fprintf(w, "%q method not allowed, want %q", r.Method, http.MethodPost)
			return
		}

		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form for request to %q: %s", r.URL.Path, err)
		}

		next(w, r)
	}
}

func getmw(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			fmt.Fprintf(w, "%q method not allowed, want %q", r.Method, http.MethodGet)
			return
		}

		next(w, r)
	}
}
