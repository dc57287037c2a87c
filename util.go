// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// userAgent is presented on every request. Slack renders different (and less
// useful) pages for clients it doesn't recognize as a browser.
const userAgent = `Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:128.0) Gecko/20100101 Firefox/128.0`

// sessionCookieName is the name of Slack's long-lived session cookie.
const sessionCookieName = "d"

func setUA(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
}

func setSessionCookie(req *http.Request, cookie string) {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie})
}

func getReq(ctx context.Context, url string, val url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	if len(val) > 0 {
		req.URL.RawQuery = val.Encode()
	}

	setUA(req)

	return req, nil
}

func postFormReq(ctx context.Context, url string, val url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(val.Encode()))
	if err != nil {
		return nil, err
	}

	setUA(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req, nil
}

// cloneValues returns a deep copy of v, never nil.
func cloneValues(v url.Values) url.Values {
	c := make(url.Values, len(v)+1)

	for k, vals := range v {
		c[k] = append([]string(nil), vals...)
	}

	return c
}
