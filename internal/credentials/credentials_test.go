// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package credentials

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/steipete/sweetcookie"
)

const tdExport = `[
	{"name":"b","value":"browser-id","domain":".slack.com","path":"/","secure":true},
	{"name":"d","value":"xoxd-other","domain":".example.org","path":"/","secure":true},
	{"name":"d","value":"xoxd-REDACTED","domain":".slack.com","path":"/","secure":true,"httpOnly":true}
]`

func TestFromInline(t *testing.T) {
	dir := t.TempDir()

	exportFile := filepath.Join(dir, "cookies.json")
	if err := os.WriteFile(exportFile, []byte(`{"cookies":`+tdExport+`}`), 0o600); err != nil {
		t.Fatalf("failed to write export: %s", err)
	}

	tests := []struct {
		n   string
		sub string
		v   string
		o   string
		e   string
	}{
		{n: "no_subdomain", v: "xoxd-abc", e: "must provide a workspace subdomain"},
		{n: "empty", sub: "gophers", v: "  ", e: "must provide a cookie value"},
		{n: "raw_value", sub: "gophers", v: " xoxd-abc%2Bdef \n", o: "xoxd-abc%2Bdef"},
		{n: "json_export", sub: "gophers", v: tdExport, o: "xoxd-REDACTED"},
		{n: "file_export", sub: "gophers", v: exportFile, o: "xoxd-REDACTED"},
		{n: "wrong_workspace_domain", sub: "gophers", v: `[{"name":"d","value":"x","domain":"gophers.example.org","path":"/"}]`, e: "no Slack session cookie found"},
		{n: "malformed_json", sub: "gophers", v: `[{"name":`, e: "no Slack session cookie found"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.n, func(t *testing.T) {
			c, err := FromInline(context.Background(), tt.sub, tt.v)
			if err != nil {
				if len(tt.e) > 0 {
					if strings.Contains(err.Error(), tt.e) {
						return
					}
					t.Fatalf("did not find %q in error %q", tt.e, err)
				}
				t.Fatalf("FromInline() unexpected error: %s", err)
			}

			if len(tt.e) > 0 {
				t.Fatalf("error %q did not occur as expected", tt.e)
			}

			if c.Value != tt.o {
				t.Fatalf("c.Value = %q, want %q", c.Value, tt.o)
			}

			if c.Source != "inline" {
				t.Fatalf("c.Source = %q, want inline", c.Source)
			}
		})
	}
}

func TestFromBrowser(t *testing.T) {
	var got sweetcookie.Options

	getCookies = func(ctx context.Context, opts sweetcookie.Options) (sweetcookie.Result, error) {
		got = opts

		return sweetcookie.Result{
			Cookies: []sweetcookie.Cookie{
				{Name: "d", Value: "xoxd-REDACTED", Domain: "slack.com", Source: sweetcookie.Source{Browser: sweetcookie.BrowserFirefox, Profile: "default-release"}},
			},
			Warnings: []string{"chrome: cookie store not found"},
		}, nil
	}
	defer func() { getCookies = sweetcookie.Get }()

	c, err := FromBrowser(context.Background(), "gophers", []string{"Chrome", "firefox"})
	if err != nil {
		t.Fatalf("FromBrowser() unexpected error: %s", err)
	}

	want := Cookie{
		Value:    "xoxd-REDACTED",
		Source:   "firefox (default-release)",
		Warnings: []string{"chrome: cookie store not found"},
	}

	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("cookie differs: (-want +got)\n%s", diff)
	}

	wantOpts := sweetcookie.Options{
		URL:      "https://gophers.slack.com/",
		Names:    []string{"d"},
		Browsers: []sweetcookie.Browser{sweetcookie.BrowserChrome, sweetcookie.BrowserFirefox},
		Mode:     sweetcookie.ModeFirst,
	}

	if diff := cmp.Diff(wantOpts, got); diff != "" {
		t.Fatalf("options differ: (-want +got)\n%s", diff)
	}
}

func TestFromBrowser_errors(t *testing.T) {
	defer func() { getCookies = sweetcookie.Get }()

	t.Run("not_found", func(t *testing.T) {
		getCookies = func(context.Context, sweetcookie.Options) (sweetcookie.Result, error) {
			return sweetcookie.Result{Warnings: []string{"safari: permission denied"}}, nil
		}

		_, err := FromBrowser(context.Background(), "gophers", nil)
		if !errors.Is(err, ErrCookieNotFound) {
			t.Fatalf("FromBrowser() error = %v, want ErrCookieNotFound", err)
		}

		if !strings.Contains(err.Error(), "safari: permission denied") {
			t.Fatalf("warnings missing from error %q", err)
		}
	})

	t.Run("read_failure", func(t *testing.T) {
		getCookies = func(context.Context, sweetcookie.Options) (sweetcookie.Result, error) {
			return sweetcookie.Result{}, sweetcookie.ErrNoOrigin
		}

		_, err := FromBrowser(context.Background(), "gophers", nil)
		if !errors.Is(err, sweetcookie.ErrNoOrigin) {
			t.Fatalf("FromBrowser() error = %v, want ErrNoOrigin", err)
		}
	})

	t.Run("unsupported_browser", func(t *testing.T) {
		getCookies = func(context.Context, sweetcookie.Options) (sweetcookie.Result, error) {
			t.Fatal("cookies read with an unsupported browser")
			return sweetcookie.Result{}, nil
		}

		if _, err := FromBrowser(context.Background(), "gophers", []string{"lynx"}); err == nil {
			t.Fatal("expected error did not occur")
		}
	})

	t.Run("no_subdomain", func(t *testing.T) {
		if _, err := FromBrowser(context.Background(), "", nil); err == nil {
			t.Fatal("expected error did not occur")
		}
	})
}

func TestParseBrowsers(t *testing.T) {
	all, err := ParseBrowsers(nil)
	if err != nil {
		t.Fatalf("ParseBrowsers(nil) unexpected error: %s", err)
	}

	if diff := cmp.Diff(sweetcookie.DefaultBrowsers(), all); diff != "" {
		t.Fatalf("default browsers differ: (-want +got)\n%s", diff)
	}

	got, err := ParseBrowsers([]string{" SAFARI", "edge"})
	if err != nil {
		t.Fatalf("ParseBrowsers() unexpected error: %s", err)
	}

	if diff := cmp.Diff([]sweetcookie.Browser{sweetcookie.BrowserSafari, sweetcookie.BrowserEdge}, got); diff != "" {
		t.Fatalf("browsers differ: (-want +got)\n%s", diff)
	}

	if _, err := ParseBrowsers([]string{"inline"}); err == nil {
		t.Fatal("inline accepted as a browser")
	}
}
