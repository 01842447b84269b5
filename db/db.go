// Package db persists provider credentials. League data itself is never
// stored, every load reads it fresh from the provider.
package db

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2"
)

var ErrTokenNotFound = errors.New("oauth token not found")

type TokenStore interface {
	// SaveToken inserts or replaces the token of a session.
	SaveToken(ctx context.Context, sessionKey string, t *oauth2.Token) error
	GetToken(ctx context.Context, sessionKey string) (*oauth2.Token, error)
	DeleteToken(ctx context.Context, sessionKey string) error
}
