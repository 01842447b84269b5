package controller

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mww/league_insights/db"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	oauthStateExpiry = 5 * time.Minute
	// refreshReuseWindow lets concurrent weekly fetches that were all
	// rejected share one refresh.
	refreshReuseWindow = 30 * time.Second
)

var (
	ErrInvalidState          = errors.New("state is not valid")
	ErrOAuthNotConfigured    = errors.New("yahoo oauth client is not configured")
	errUnsupportedOAuthLogin = errors.New("yahoo is the only supported oauth platform")
)

type oauthState struct {
	expiry time.Time
}

func (c *controller) OAuthStart(platform string) (string, error) {
	if model.Platform(platform) != model.PlatformYahoo {
		return "", errUnsupportedOAuthLogin
	}

	if c.yahooConfig == nil {
		return "", ErrOAuthNotConfigured
	}

	now := c.clock.Now()
	state := uuid.NewString()

	c.oauthMu.Lock()
	defer c.oauthMu.Unlock()
	for k, s := range c.oauthStates {
		if now.After(s.expiry) {
			delete(c.oauthStates, k)
		}
	}
	c.oauthStates[state] = &oauthState{expiry: now.Add(oauthStateExpiry)}
	return c.yahooConfig.AuthCodeURL(state), nil
}

func (c *controller) OAuthExchange(ctx context.Context, state, code string) (string, error) {
	// a state can only be used once
	c.oauthMu.Lock()
	s, ok := c.oauthStates[state]
	delete(c.oauthStates, state)
	c.oauthMu.Unlock()

	if !ok || c.clock.Now().After(s.expiry) {
		return "", ErrInvalidState
	}

	if c.yahooConfig == nil {
		return "", ErrOAuthNotConfigured
	}

	token, err := c.yahooConfig.Exchange(ctx, code)
	if err != nil {
		return "", errors.Wrap(err, "error exchanging code")
	}

	sessionKey := uuid.NewString()
	if err := c.store.SaveToken(ctx, sessionKey, token); err != nil {
		return "", errors.Wrap(err, "error saving oauth token")
	}
	c.logger.Info("stored yahoo token", zap.String("session", sessionKey), zap.Time("expiry", token.Expiry))
	return sessionKey, nil
}

func (c *controller) SignOut(ctx context.Context, sessionKey string) error {
	c.tokenMu.Lock()
	delete(c.tokenSource, sessionKey)
	c.tokenMu.Unlock()

	if err := c.store.DeleteToken(ctx, sessionKey); err != nil && !errors.Is(err, db.ErrTokenNotFound) {
		return err
	}
	return nil
}

// tokens returns the token provider of a session. Loads of the same session
// share one provider so a refresh is seen by all of them.
func (c *controller) tokens(sessionKey string) platforms.TokenProvider {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if p, ok := c.tokenSource[sessionKey]; ok {
		return p
	}
	p := &storedTokens{c: c, sessionKey: sessionKey}
	c.tokenSource[sessionKey] = p
	return p
}

// storedTokens reads a session's token from the store and writes refreshed
// tokens back to it.
type storedTokens struct {
	c          *controller
	sessionKey string

	mu          sync.Mutex
	token       *oauth2.Token
	refreshedAt time.Time
}

func (p *storedTokens) Token(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == nil {
		t, err := p.c.store.GetToken(ctx, p.sessionKey)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading token for session %s", p.sessionKey)
		}
		p.token = t
	}
	if model.TokenExpired(p.token, p.c.clock.Now()) {
		return p.refreshLocked(ctx)
	}
	return p.token, nil
}

func (p *storedTokens) Refresh(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != nil && !p.refreshedAt.IsZero() &&
		p.c.clock.Now().Sub(p.refreshedAt) < refreshReuseWindow {
		return p.token, nil
	}
	if p.token == nil {
		t, err := p.c.store.GetToken(ctx, p.sessionKey)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading token for session %s", p.sessionKey)
		}
		p.token = t
	}
	return p.refreshLocked(ctx)
}

func (p *storedTokens) refreshLocked(ctx context.Context) (*oauth2.Token, error) {
	if p.c.yahooConfig == nil {
		return nil, ErrOAuthNotConfigured
	}

	// We must manually refresh the token in order to be able to save it
	// back. The oauth2 http client refreshes in the background but never
	// hands out the new token. Clearing the expiry forces the refresh even
	// when the provider rejected a token that looked valid.
	stale := *p.token
	stale.Expiry = time.Unix(1, 0)
	stale.AccessToken = ""

	p.c.logger.Info("refreshing yahoo token", zap.String("session", p.sessionKey))
	t, err := p.c.yahooConfig.TokenSource(ctx, &stale).Token()
	if err != nil {
		return nil, errors.Wrapf(err, "error refreshing token for session %s", p.sessionKey)
	}
	if t.RefreshToken == "" {
		t.RefreshToken = p.token.RefreshToken
	}

	if err := p.c.store.SaveToken(ctx, p.sessionKey, t); err != nil {
		return nil, errors.Wrapf(err, "error saving refreshed token for session %s", p.sessionKey)
	}
	p.token = t
	p.refreshedAt = p.c.clock.Now()
	return t, nil
}
