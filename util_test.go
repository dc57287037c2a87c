// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_setUA(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://locahost", nil)
	if err != nil {
		t.Fatalf("unexpected http.NewRequest() error: %s", err)
	}

	if ua := req.Header.Get("User-Agent"); ua == userAgent {
		t.Fatal("User-Agent was already set to the expected value")
	}

	setUA(req)

	if ua := req.Header.Get("User-Agent"); ua != userAgent {
		t.Fatalf(`req.Header.Get("User-Agent") = %q, want %q`, ua, userAgent)
	}
}

func Test_setSessionCookie(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://locahost", nil)
	if err != nil {
		t.Fatalf("unexpected http.NewRequest() error: %s", err)
	}

	setSessionCookie(req, tdCookie)

	c, err := req.Cookie("d")
	if err != nil {
		t.Fatalf(`req.Cookie("d") unexpected error: %s`, err)
	}

	if c.Value != tdCookie {
		t.Fatalf("cookie value = %q, want %q", c.Value, tdCookie)
	}
}

func Test_getReq(t *testing.T) {
	tests := []struct {
		n string
		u string
		v url.Values
		e bool
	}{
		{n: "invalid_url", u: "kjnas\\://lkamds-(#U&@(#$))", e: true},
		{n: "valid_url_no_values", u: "http://localhost"},
		{n: "valid_url_values", u: "http://localhost", v: url.Values{"q": []string{"test"}}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.n, func(t *testing.T) {
			r, err := getReq(context.Background(), tt.u, tt.v)
			if err != nil {
				if tt.e {
					return // no failure
				}

				t.Fatalf("getReq(%q, %v) unexpected error: %s", tt.u, tt.v, err)
			}

			if tt.e {
				t.Fatal("expected error did not occur")
			}

			if r.Method != http.MethodGet {
				t.Fatalf("r.Method = %q, want %q", r.Method, http.MethodGet)
			}

			if q := r.URL.RawQuery; q != tt.v.Encode() {
				t.Fatalf("r.URL.RawQuery = %q, want %q", q, tt.v.Encode())
			}

			if ua := r.Header.Get("User-Agent"); ua != userAgent {
				t.Fatalf(`r.Header.Get("User-Agent") = %q, want %q`, ua, userAgent)
			}
		})
	}
}

func Test_postFormReq(t *testing.T) {
	tests := []struct {
		n string
		u string
		v url.Values
		e bool
	}{
		{n: "invalid_url", u: "kjnas\\://lkamds-(#U&@(#$))", e: true},
		{n: "valid_url_no_values", u: "http://localhost"},
		{n: "valid_url_values", u: "http://localhost", v: url.Values{"q": []string{"test"}}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.n, func(t *testing.T) {
			r, err := postFormReq(context.Background(), tt.u, tt.v)
			if err != nil {
				if tt.e {
					return // no failure
				}

				t.Fatalf("postFormReq(%q, %v) unexpected error: %s", tt.u, tt.v, err)
			}

			if tt.e {
				t.Fatal("expected error did not occur")
			}

			if r.Method != http.MethodPost {
				t.Fatalf("r.Method = %q, want %q", r.Method, http.MethodPost)
			}

			if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Fatalf(`r.Header.Get("Content-Type") = %q, want "application/x-www-form-urlencoded"`, ct)
			}

			p, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("failed to read body: %s", err)
			}

			if string(p) != tt.v.Encode() {
				t.Fatalf("body = %q, want %q", string(p), tt.v.Encode())
			}
		})
	}
}

func Test_cloneValues(t *testing.T) {
	orig := url.Values{"a": []string{"1", "2"}}

	c := cloneValues(orig)
	c.Set("cursor", "c1")
	c["a"][0] = "changed"

	if diff := cmp.Diff(url.Values{"a": []string{"1", "2"}}, orig); diff != "" {
		t.Fatalf("original values modified: (-want +got)\n%s", diff)
	}

	if n := cloneValues(nil); n == nil {
		t.Fatal("cloneValues(nil) = <nil>, want empty values")
	}
}
