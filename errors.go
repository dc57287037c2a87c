// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// maxErrorBody is how much of a response body is kept on an *APIError for
// diagnostics.
const maxErrorBody = 4 * 1024

// AuthError is returned when the session cookie could not be exchanged for an
// API token because the request to Slack failed. The cookie may well be valid;
// retrying the whole operation later is reasonable.
type AuthError struct {
	Subdomain  string
	StatusCode int // zero if no response was received
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to derive API token for %q: unexpected HTTP status %d", e.Subdomain, e.StatusCode)
	}

	return fmt.Sprintf("failed to derive API token for %q: %s", e.Subdomain, e.Err)
}

// Unwrap supports errors.Is and errors.As.
func (e *AuthError) Unwrap() error { return e.Err }

// TokenNotFoundError is returned when Slack served a page that does not carry
// an API token. This almost always means the session cookie is invalid or has
// expired, and the user needs to authenticate again.
type TokenNotFoundError struct {
	Subdomain string

	// SignedOut is true if the page served was the workspace sign in form.
	SignedOut bool
}

func (e *TokenNotFoundError) Error() string {
	if e.SignedOut {
		return fmt.Sprintf("no api_token for %q: Slack presented the sign in page, the session cookie is invalid or expired", e.Subdomain)
	}

	return fmt.Sprintf("no api_token for %q found in response body", e.Subdomain)
}

// APIError is returned for any failed Slack API call. Slack can fail a call at
// the transport level (no response, or a non-2xx status) or at the application
// level, where it responds with HTTP 200 and an envelope of {"ok": false}.
type APIError struct {
	Method string
	Path   string

	// StatusCode is the HTTP status code, zero when no response was received.
	StatusCode int

	// NotOK is set when the transport succeeded but the envelope's "ok" field
	// was false. Code then carries the envelope's "error" value.
	NotOK bool
	Code  string

	// RetryAfter is populated from the Retry-After header of rate limited
	// responses.
	RetryAfter time.Duration

	// Body is the (possibly truncated) response body.
	Body []byte

	// Err is the underlying transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s failed: %s", e.Method, e.Path, e.Err)
	case e.NotOK:
		return fmt.Sprintf("%s %s returned ok=false: %s", e.Method, e.Path, e.Code)
	case e.StatusCode == http.StatusTooManyRequests:
		return fmt.Sprintf("%s %s rate limited (retry after %s)", e.Method, e.Path, e.RetryAfter)
	default:
		return fmt.Sprintf("%s %s unexpected HTTP status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
}

// Unwrap supports errors.Is and errors.As.
func (e *APIError) Unwrap() error { return e.Err }

// authCodes are envelope error codes that mean the credentials were rejected.
var authCodes = map[string]struct{}{
	"invalid_auth":     {},
	"not_authed":       {},
	"token_expired":    {},
	"token_revoked":    {},
	"account_inactive": {},
}

// NeedsReauth reports whether err indicates that the session cookie is no
// longer usable, meaning the caller should obtain a new one rather than retry.
func NeedsReauth(err error) bool {
	var tnf *TokenNotFoundError
	if errors.As(err, &tnf) {
		return true
	}

	var ae *APIError
	if errors.As(err, &ae) {
		if ae.StatusCode == http.StatusUnauthorized {
			return true
		}

		if ae.NotOK {
			_, ok := authCodes[ae.Code]
			return ok
		}
	}

	return false
}

// IsRetryable reports whether err is the kind of failure that may succeed if
// the whole operation is attempted again later: transport errors, rate
// limiting, and server side errors.
func IsRetryable(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode == 0 || authErr.StatusCode >= 500
	}

	var ae *APIError
	if errors.As(err, &ae) {
		if ae.NotOK {
			return ae.Code == "ratelimited"
		}

		// a decode failure on a response usually means an HTML page, not a blip
		if ae.StatusCode == 0 {
			return ae.Err != nil
		}

		return ae.StatusCode == http.StatusTooManyRequests || ae.StatusCode >= 500
	}

	return false
}

func truncateBody(p []byte) []byte {
	if len(p) <= maxErrorBody {
		return p
	}

	return p[:maxErrorBody]
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}

	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}

	return time.Duration(secs) * time.Second
}
