// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"golang.org/x/net/publicsuffix"
)

// Version is the version of this package.
const Version = "0.2.0"

// maxResponseSize caps how much of an API response body is read.
const maxResponseSize = 32 * 1024 * 1024

// HTTPClient represents the functionality we need from an *http.Client, or
// similar.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// NewHTTPClient returns an *http.Client suitable for use with this package. It
// has a cookie jar so that any cookies Slack sets alongside the session cookie
// are presented back, as a browser would. The session cookie itself is never
// stored in the jar; it's attached to each request from the *TokenSource.
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build cookie jar")
	}

	c := &http.Client{
		Jar:     sessionlessJar{jar},
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          4,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConnsPerHost:   4,
		},
	}

	return c, nil
}

// sessionlessJar drops the session cookie from anything Slack sets, so a
// rotated "d" is never sent alongside the one the TokenSource holds.
type sessionlessJar struct {
	http.CookieJar
}

func (j sessionlessJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	kept := make([]*http.Cookie, 0, len(cookies))

	for _, c := range cookies {
		if c.Name != sessionCookieName {
			kept = append(kept, c)
		}
	}

	if len(kept) > 0 {
		j.CookieJar.SetCookies(u, kept)
	}
}

// Client is a client for the Slack web API, authenticated the way the Slack web
// client is: with the API token scraped from the workspace page, plus the
// session cookie that token was derived from. Many of the calls it's used for
// are undocumented, and Slack is not expecting a high rate of automated calls.
// Please keep that in mind.
//
// Every call enforces Slack's response envelope: a response is only successful
// if it's a 2xx and its JSON body has "ok": true.
type Client struct {
	c        HTTPClient
	endpoint string
	tokens   *TokenSource
}

// New returns a new *Client for the workspace the *TokenSource is for. The
// token is derived on the first API call, not here.
func New(c HTTPClient, ts *TokenSource) (*Client, error) {
	if c == nil {
		return nil, errors.New("must provide an http client")
	}

	if ts == nil {
		return nil, errors.New("must provide a token source")
	}

	client := &Client{
		c:        c,
		endpoint: ts.endpoint,
		tokens:   ts,
	}

	return client, nil
}

// Tokens returns the *TokenSource the client authenticates with. Replacing the
// session cookie on it invalidates the cached token.
func (c *Client) Tokens() *TokenSource { return c.tokens }

// Get makes a GET request for the API method at path with the query values in
// val, and decodes the response body in to out (if not nil).
func (c *Client) Get(ctx context.Context, path string, val url.Values, out interface{}) error {
	p, _, err := c.call(ctx, http.MethodGet, path, val)
	if err != nil {
		return err
	}

	return decodeBody(path, p, out)
}

// Post makes a form-encoded POST request to the API method at path, and decodes
// the response body in to out (if not nil).
func (c *Client) Post(ctx context.Context, path string, val url.Values, out interface{}) error {
	p, _, err := c.call(ctx, http.MethodPost, path, val)
	if err != nil {
		return err
	}

	return decodeBody(path, p, out)
}

// Paginate returns a *Pager over the cursor-paginated API method at path. No
// request is made until the first call to Next.
func (c *Client) Paginate(path string, val url.Values) *Pager {
	return &Pager{c: c, path: path, params: cloneValues(val)}
}

// call makes the request, and returns the body of the response along with its
// decoded envelope. Any response that isn't a success is returned as an
// *APIError.
func (c *Client) call(ctx context.Context, method, path string, val url.Values) ([]byte, slack.SlackResponse, error) {
	var env slack.SlackResponse

	if len(path) == 0 || path[0] != '/' {
		return nil, env, errors.Errorf("API path %q must begin with '/'", path)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, env, err
	}

	var req *http.Request

	switch method {
	case http.MethodGet:
		req, err = getReq(ctx, c.endpoint+path, val)
	case http.MethodPost:
		req, err = postFormReq(ctx, c.endpoint+path, val)
	default:
		return nil, env, errors.Errorf("unsupported HTTP method %q", method)
	}

	if err != nil {
		return nil, env, errors.Wrapf(err, "failed to build request for %q", path)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	setSessionCookie(req, c.tokens.Cookie())

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, env, &APIError{Method: method, Path: path, Err: err}
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	p, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, env, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        errors.Wrap(err, "failed to read response body"),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, env, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       truncateBody(p),
		}
	}

	if err := json.Unmarshal(p, &env); err != nil {
		return nil, env, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(p),
			Err:        errors.Wrap(err, "failed to decode response envelope"),
		}
	}

	if !env.Ok {
		return nil, env, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			NotOK:      true,
			Code:       env.Error,
			Body:       truncateBody(p),
		}
	}

	return p, env, nil
}

func decodeBody(path string, p []byte, out interface{}) error {
	if out == nil {
		return nil
	}

	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], p...)
		return nil
	}

	return errors.Wrapf(json.Unmarshal(p, out), "failed to decode %q response", path)
}
