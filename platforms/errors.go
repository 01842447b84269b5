// Package platforms holds the plumbing shared by the provider adapters: the
// error taxonomy, progress reporting, identity backfill, weekly starts
// reconstruction and trade detection.
package platforms

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnauthorized means the provider refused the credentials, usually
	// because the league is private.
	ErrUnauthorized = errors.New("league is private")
	// ErrTokenExpired means the OAuth token could not be refreshed.
	ErrTokenExpired = errors.New("oauth token expired")
	ErrNotFound     = errors.New("league not found")
	ErrNetwork      = errors.New("provider unreachable")
	// ErrInvalidRequest means a request failed validation before being sent.
	ErrInvalidRequest = errors.New("invalid provider request")
	ErrProvider       = errors.New("unexpected provider response")
)

// StatusError classifies a non 200 response from a provider.
func StatusError(platform string, status int, url string) error {
	err := errors.Newf("%s returned status %d for %s", platform, status, url)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.WithHint(errors.Mark(err, ErrUnauthorized),
			"This league is private. Provide credentials for it.")
	case status == http.StatusNotFound:
		return errors.WithHint(errors.Mark(err, ErrNotFound),
			"League not found. Verify the league id and season.")
	case status == http.StatusTooManyRequests || status >= 500:
		return errors.WithHint(errors.Mark(err, ErrNetwork),
			fmt.Sprintf("%s is having trouble right now. Try again in a few minutes.", platform))
	default:
		return errors.Mark(err, ErrProvider)
	}
}

// NetworkError wraps a transport failure.
func NetworkError(platform string, err error) error {
	return errors.WithHint(errors.Mark(errors.Wrapf(err, "error sending %s request", platform), ErrNetwork),
		"Could not reach the provider. Check the connection and try again.")
}

func TokenExpiredError(err error) error {
	if err == nil {
		err = errors.New("token rejected after refresh")
	}
	return errors.WithHint(errors.Mark(errors.Wrap(err, "yahoo authorization failed"), ErrTokenExpired),
		"Your Yahoo session expired. Sign in with Yahoo again.")
}

func InvalidRequest(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidRequest)
}
