package db

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// NewMemoryStore keeps tokens for the life of the process. It backs the CLI
// and deployments without a database.
func NewMemoryStore() TokenStore {
	return &memoryStore{tokens: make(map[string]oauth2.Token)}
}

type memoryStore struct {
	mu     sync.RWMutex
	tokens map[string]oauth2.Token
}

func (m *memoryStore) SaveToken(ctx context.Context, sessionKey string, t *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *t
	if c.RefreshToken == "" {
		c.RefreshToken = m.tokens[sessionKey].RefreshToken
	}
	m.tokens[sessionKey] = c
	return nil
}

func (m *memoryStore) GetToken(ctx context.Context, sessionKey string) (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tokens[sessionKey]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return &t, nil
}

func (m *memoryStore) DeleteToken(ctx context.Context, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[sessionKey]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, sessionKey)
	return nil
}
