package model

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenExpiryBuffer is how long before its real expiry a stored token is
// treated as expired.
const TokenExpiryBuffer = 5 * time.Minute

// TokenExpired reports whether t should be refreshed before use at now.
func TokenExpired(t *oauth2.Token, now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Add(TokenExpiryBuffer).Before(t.Expiry)
}
