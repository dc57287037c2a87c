// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"os"
	"strings"
	"testing"
)

func Test_isSignInPage(t *testing.T) {
	tests := []struct {
		n  string
		fn string
		i  string
		o  bool
	}{
		{n: "sign_in_page", fn: tdSignIn, o: true},
		{n: "workspace", fn: tdWorkspace},
		{n: "workspace_missing_token", fn: tdWorkspaceMissingToken},
		{n: "empty", i: ""},
		{n: "crumb_not_hidden", i: `<form><input type="text" name="crumb" value="x"></form>`},
		{n: "self_closing_crumb", i: `<form><input type="hidden" name="crumb" value="x"/></form>`, o: true},
		{n: "not_html", i: `{"ok":false,"error":"invalid_auth"}`},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.n, func(t *testing.T) {
			if tt.fn != "" {
				f, err := os.Open(tt.fn)
				if err != nil {
					t.Fatalf("failed to open %q: %s", tt.fn, err)
				}

				defer f.Close()

				if got := isSignInPage(f); got != tt.o {
					t.Fatalf("isSignInPage(%s) = %t, want %t", tt.fn, got, tt.o)
				}

				return
			}

			if got := isSignInPage(strings.NewReader(tt.i)); got != tt.o {
				t.Fatalf("isSignInPage(%q) = %t, want %t", tt.i, got, tt.o)
			}
		})
	}
}
