// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// maxPageSize limits how much of the workspace page is read looking for the
// token. The boot data sits well within the first few hundred KB.
const maxPageSize = 8 * 1024 * 1024

// apiTokenMarkers are the forms the api_token has taken in the boot data of the
// workspace page. The JSON form is what Slack currently serves, the inline
// JavaScript form is what it used to serve.
var apiTokenMarkers = []string{
	`"api_token":"`, /* #nosec */
	`api_token: "`,  /* #nosec */
}

// DeriveToken exchanges the long-lived session cookie ("d") for the API token
// the Slack web client uses. It fetches https://<subdomain>.slack.com/ with the
// cookie attached and pulls the api_token out of the HTML boot data.
//
// A failed request results in an *AuthError. A page without a token results in
// a *TokenNotFoundError, which indicates the cookie needs to be replaced.
func DeriveToken(ctx context.Context, c HTTPClient, subdomain, cookie string) (string, error) {
	if c == nil {
		return "", errors.New("must provide an http client")
	}

	if len(subdomain) == 0 {
		return "", errors.New("must provide the Slack workspace subdomain")
	}

	if len(cookie) == 0 {
		return "", errors.New("must provide the session cookie")
	}

	return deriveToken(ctx, c, workspaceEndpoint(subdomain), subdomain, cookie)
}

func deriveToken(ctx context.Context, c HTTPClient, endpoint, subdomain, cookie string) (string, error) {
	req, err := getReq(ctx, endpoint+"/", nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to build request for %q", endpoint)
	}

	setSessionCookie(req, cookie)

	resp, err := c.Do(req)
	if err != nil {
		return "", &AuthError{Subdomain: subdomain, Err: err}
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Subdomain: subdomain, StatusCode: resp.StatusCode}
	}

	p, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", &AuthError{Subdomain: subdomain, Err: errors.Wrap(err, "failed to read response")}
	}

	token, ok := parseAPIToken(p)
	if !ok {
		return "", &TokenNotFoundError{
			Subdomain: subdomain,
			SignedOut: isSignInPage(bytes.NewReader(p)),
		}
	}

	return token, nil
}

// parseAPIToken looks for the api_token in any of the known boot data forms.
func parseAPIToken(p []byte) (string, bool) {
	for _, marker := range apiTokenMarkers {
		token, err := parseInlineJsValue(p, marker, '"')
		if err == nil && len(token) > 0 {
			return token, true
		}
	}

	return "", false
}

// parseInlineJsValue assumes you're pulling a string value from a byte slice that
// contains JavaScript objects. The search string would be something like
// `"api_token":"` to search for the beginning of the value we want to parse out.
//
// This function then finds the location of the end byte, relative to the end of
// the search string. This effectively will extract whatever is between the last
// byte of `search` and the `end` byte, returning it to the caller as a string.
func parseInlineJsValue(p []byte, search string, end byte) (string, error) {
	// get the index of the search value
	i := bytes.Index(p, []byte(search))
	if i < 0 {
		return "", errors.Errorf("%q not found in byte slice", search)
	}

	// b is the index of the beginning of the value we want
	b := i + len(search)

	// get the index of the terminating byte, starting from b
	ii := bytes.IndexByte(p[b:], end)
	if ii < 0 {
		return "", errors.Errorf("did not find terminating byte (%q) in input", end)
	}

	return string(p[b : b+ii]), nil
}

// TokenSource derives the API token from a session cookie on first use and
// caches it for its own lifetime. Nothing is shared between TokenSources, so a
// new process (or a new TokenSource) always derives a fresh token.
//
// A TokenSource is not safe for concurrent use.
type TokenSource struct {
	c         HTTPClient
	endpoint  string
	subdomain string
	cookie    string
	token     string
}

// NewTokenSource returns a *TokenSource for the workspace.
func NewTokenSource(c HTTPClient, subdomain, cookie string) (*TokenSource, error) {
	if c == nil {
		return nil, errors.New("must provide an http client")
	}

	if len(subdomain) == 0 {
		return nil, errors.New("must provide the Slack workspace subdomain")
	}

	if len(cookie) == 0 {
		return nil, errors.New("must provide the session cookie")
	}

	ts := &TokenSource{
		c:         c,
		endpoint:  workspaceEndpoint(subdomain),
		subdomain: subdomain,
		cookie:    cookie,
	}

	return ts, nil
}

// Token returns the cached API token, deriving it if needed.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if len(ts.token) > 0 {
		return ts.token, nil
	}

	token, err := deriveToken(ctx, ts.c, ts.endpoint, ts.subdomain, ts.cookie)
	if err != nil {
		return "", err
	}

	ts.token = token

	return token, nil
}

// Cookie returns the session cookie the token is derived from.
func (ts *TokenSource) Cookie() string { return ts.cookie }

// Subdomain returns the workspace subdomain.
func (ts *TokenSource) Subdomain() string { return ts.subdomain }

// SetCookie replaces the session cookie, dropping any cached token.
func (ts *TokenSource) SetCookie(cookie string) {
	if cookie == ts.cookie {
		return
	}

	ts.cookie = cookie
	ts.Invalidate()
}

// Invalidate drops the cached token so the next call to Token derives it again.
func (ts *TokenSource) Invalidate() { ts.token = "" }

// Refresh derives the token again, replacing the cached one.
func (ts *TokenSource) Refresh(ctx context.Context) (string, error) {
	ts.Invalidate()
	return ts.Token(ctx)
}

// SetEndpoint replaces the workspace base URL, https://{subdomain}.slack.com,
// dropping any cached token. Clients copy the endpoint when they're created, so
// set it before calling New.
func (ts *TokenSource) SetEndpoint(endpoint string) {
	ts.endpoint = strings.TrimSuffix(endpoint, "/")
	ts.Invalidate()
}

func workspaceEndpoint(subdomain string) string {
	return "https://" + subdomain + ".slack.com"
}
