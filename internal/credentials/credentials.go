// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

// Package credentials finds the Slack web session cookie ("d") that slacksort
// authenticates with. It can read the cookie from the local browsers a user
// signed in to Slack with, or accept one the user pasted or exported.
package credentials

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/steipete/sweetcookie"
)

// CookieName is the name of the Slack web session cookie.
const CookieName = "d"

// ErrCookieNotFound is returned when no session cookie for the workspace
// could be found.
var ErrCookieNotFound = errors.New("no Slack session cookie found")

// Cookie is a session cookie and where it came from.
type Cookie struct {
	Value string

	// Source names the browser (and profile, if known) the cookie was read
	// from, or "inline".
	Source string

	// Expires is nil for session cookies.
	Expires *time.Time

	// Warnings are the problems reading cookie stores that didn't prevent
	// finding the cookie, such as a browser that isn't installed.
	Warnings []string
}

// getCookies is replaced in tests.
var getCookies = sweetcookie.Get

// WorkspaceURL returns the URL of the Slack workspace.
func WorkspaceURL(subdomain string) string {
	return "https://" + subdomain + ".slack.com/"
}

// ParseBrowsers converts browser names to sweetcookie browsers. An empty list
// means every supported browser.
func ParseBrowsers(names []string) ([]sweetcookie.Browser, error) {
	if len(names) == 0 {
		return sweetcookie.DefaultBrowsers(), nil
	}

	known := make(map[sweetcookie.Browser]struct{})
	for _, b := range sweetcookie.DefaultBrowsers() {
		known[b] = struct{}{}
	}

	browsers := make([]sweetcookie.Browser, 0, len(names))

	for _, name := range names {
		b := sweetcookie.Browser(strings.ToLower(strings.TrimSpace(name)))

		if _, ok := known[b]; !ok {
			return nil, errors.Errorf("unsupported browser %q", name)
		}

		browsers = append(browsers, b)
	}

	return browsers, nil
}

// FromBrowser reads the session cookie for the workspace from the local
// browser profiles, trying browsers in order and stopping at the first one
// that has it. This may cause the OS to prompt for access to the keychain.
func FromBrowser(ctx context.Context, subdomain string, browsers []string) (Cookie, error) {
	if len(subdomain) == 0 {
		return Cookie{}, errors.New("must provide a workspace subdomain")
	}

	bs, err := ParseBrowsers(browsers)
	if err != nil {
		return Cookie{}, err
	}

	return find(ctx, subdomain, sweetcookie.Options{Browsers: bs})
}

// FromInline accepts a cookie the user provided. The value may be the cookie
// value itself, a JSON cookie export (an array of cookies, or an object with a
// "cookies" array), or the path to a file containing such an export.
func FromInline(ctx context.Context, subdomain, value string) (Cookie, error) {
	if len(subdomain) == 0 {
		return Cookie{}, errors.New("must provide a workspace subdomain")
	}

	value = strings.TrimSpace(value)

	var inline sweetcookie.InlineCookies

	switch {
	case value == "":
		return Cookie{}, errors.New("must provide a cookie value")
	case strings.HasPrefix(value, "[") || strings.HasPrefix(value, "{"):
		inline.JSON = []byte(value)
	case isFile(value):
		inline.File = value
	default:
		return Cookie{Value: value, Source: string(sweetcookie.BrowserInline)}, nil
	}

	// inline is always read first; listing only it keeps browsers out of it
	return find(ctx, subdomain, sweetcookie.Options{
		Browsers: []sweetcookie.Browser{sweetcookie.BrowserInline},
		Inline:   inline,
	})
}

func find(ctx context.Context, subdomain string, opts sweetcookie.Options) (Cookie, error) {
	opts.URL = WorkspaceURL(subdomain)
	opts.Names = []string{CookieName}
	opts.Mode = sweetcookie.ModeFirst

	res, err := getCookies(ctx, opts)
	if err != nil {
		return Cookie{}, errors.Wrap(err, "failed to read cookies")
	}

	for _, c := range res.Cookies {
		if c.Name != CookieName || len(c.Value) == 0 {
			continue
		}

		return Cookie{
			Value:    c.Value,
			Source:   sourceName(c.Source),
			Expires:  c.Expires,
			Warnings: res.Warnings,
		}, nil
	}

	if len(res.Warnings) > 0 {
		return Cookie{Warnings: res.Warnings}, errors.Wrapf(ErrCookieNotFound, "%s (%s)", opts.URL, strings.Join(res.Warnings, "; "))
	}

	return Cookie{}, errors.Wrap(ErrCookieNotFound, opts.URL)
}

func sourceName(s sweetcookie.Source) string {
	if s.Profile == "" {
		return string(s.Browser)
	}

	return string(s.Browser) + " (" + s.Profile + ")"
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
