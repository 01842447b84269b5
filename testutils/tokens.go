package testutils

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// FakeTokens serves a fixed access token. Refresh swaps in the next token, or
// fails when told to.
type FakeTokens struct {
	mu         sync.Mutex
	current    string
	next       string
	refreshErr error
	refreshes  int
}

func NewFakeTokens(current, next string) *FakeTokens {
	return &FakeTokens{current: current, next: next}
}

func (t *FakeTokens) FailRefresh(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshErr = err
}

func (t *FakeTokens) Token(ctx context.Context) (*oauth2.Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &oauth2.Token{AccessToken: t.current, TokenType: "Bearer"}, nil
}

func (t *FakeTokens) Refresh(ctx context.Context) (*oauth2.Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshes++
	if t.refreshErr != nil {
		return nil, t.refreshErr
	}
	t.current = t.next
	return &oauth2.Token{AccessToken: t.current, TokenType: "Bearer"}, nil
}

func (t *FakeTokens) Refreshes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refreshes
}
