// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// isSignInPage reports whether the HTML in r is the workspace sign in page.
// Slack serves this, with a 200, in place of the web client when the session
// cookie isn't valid. The sign in form always carries a hidden "crumb" input
// (a CSRF token), which nothing on the logged in page does.
func isSignInPage(r io.Reader) bool {
	t := html.NewTokenizer(r)

	for {
		tt := t.Next()

		// if this is an error token we've reached the end
		if tt == html.ErrorToken {
			return false
		}

		// we are looking for either the start or self-closing "input" tag
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		token := t.Token()

		if token.DataAtom != atom.Input {
			continue
		}

		var name, typ string

		for _, attr := range token.Attr {
			switch attr.Key {
			case "name":
				name = attr.Val
			case "type":
				typ = attr.Val
			}
		}

		if name == "crumb" && typ == "hidden" {
			return true
		}
	}
}
