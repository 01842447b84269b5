package db

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mww/league_insights/model"
	"golang.org/x/oauth2"
)

func New(ctx context.Context, connString string, clock clock.Clock) (TokenStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func (db *postgresDB) SaveToken(ctx context.Context, sessionKey string, t *oauth2.Token) error {
	if t == nil {
		return errors.New("cannot save a nil token")
	}
	const query = `INSERT INTO oauth_tokens (session_key, platform, access_token, refresh_token, token_type, expiry, created, updated)
				   VALUES (@key, @platform, @access, @refresh, @type, @expiry, @now, @now)
				   ON CONFLICT (session_key) DO UPDATE SET
						access_token = EXCLUDED.access_token,
						refresh_token = CASE WHEN EXCLUDED.refresh_token = '' THEN oauth_tokens.refresh_token ELSE EXCLUDED.refresh_token END,
						token_type = EXCLUDED.token_type,
						expiry = EXCLUDED.expiry,
						updated = EXCLUDED.updated`

	args := pgx.NamedArgs{
		"key":      sessionKey,
		"platform": string(model.PlatformYahoo),
		"access":   t.AccessToken,
		"refresh":  t.RefreshToken,
		"type":     t.TokenType,
		"expiry":   t.Expiry,
		"now":      db.clock.Now(),
	}
	if _, err := db.pool.Exec(ctx, query, args); err != nil {
		return errors.Wrapf(err, "error saving token for session %s", sessionKey)
	}
	return nil
}

func (db *postgresDB) GetToken(ctx context.Context, sessionKey string) (*oauth2.Token, error) {
	const query = `SELECT access_token, refresh_token, token_type, expiry
				   FROM oauth_tokens WHERE session_key=@key`

	var t oauth2.Token
	var expiry time.Time
	err := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"key": sessionKey}).
		Scan(&t.AccessToken, &t.RefreshToken, &t.TokenType, &expiry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, errors.Wrapf(err, "error reading token for session %s", sessionKey)
	}
	t.Expiry = expiry
	return &t, nil
}

func (db *postgresDB) DeleteToken(ctx context.Context, sessionKey string) error {
	const query = `DELETE FROM oauth_tokens WHERE session_key=@key`
	tag, err := db.pool.Exec(ctx, query, pgx.NamedArgs{"key": sessionKey})
	if err != nil {
		return errors.Wrapf(err, "error deleting token for session %s", sessionKey)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}
