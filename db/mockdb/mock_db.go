package mockdb

import (
	"context"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

type DB struct {
	mock.Mock
}

func (db *DB) SaveToken(ctx context.Context, sessionKey string, t *oauth2.Token) error {
	args := db.Called(ctx, sessionKey, t)
	return args.Error(0)
}

func (db *DB) GetToken(ctx context.Context, sessionKey string) (*oauth2.Token, error) {
	args := db.Called(ctx, sessionKey)

	var t *oauth2.Token
	if args.Get(0) != nil {
		t = args.Get(0).(*oauth2.Token)
	}

	return t, args.Error(1)
}

func (db *DB) DeleteToken(ctx context.Context, sessionKey string) error {
	args := db.Called(ctx, sessionKey)
	return args.Error(0)
}
