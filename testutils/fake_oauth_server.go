package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

const (
	OAuthRefreshToken = "refresh_token"
	// OAuthBadCode is an authorization code the fake server rejects.
	OAuthBadCode = "bad-code"
)

// FakeOAuthServer issues YahooAccessToken for any code except OAuthBadCode
// and for any refresh of OAuthRefreshToken.
type FakeOAuthServer struct {
	s *httptest.Server

	mu        sync.Mutex
	exchanges int
	refreshes int
}

func NewFakeOAuthServer() *FakeOAuthServer {
	f := &FakeOAuthServer{}

	r := chi.NewRouter()
	r.Get("/auth", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/token", f.tokenHandler)

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeOAuthServer) Close() {
	f.s.Close()
}

// Config returns a client config pointing at the fake server.
func (f *FakeOAuthServer) Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "fakeClientID",
		ClientSecret: "fakeClientSecret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   fmt.Sprintf("%s/auth", f.s.URL),
			TokenURL:  fmt.Sprintf("%s/token", f.s.URL),
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: fmt.Sprintf("%s/redirect", f.s.URL),
	}
}

func (f *FakeOAuthServer) Exchanges() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exchanges
}

func (f *FakeOAuthServer) Refreshes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func (f *FakeOAuthServer) tokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	var ok bool
	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		f.exchanges++
		ok = r.PostForm.Get("code") != OAuthBadCode
	case "refresh_token":
		f.refreshes++
		ok = r.PostForm.Get("refresh_token") == OAuthRefreshToken
	}
	f.mu.Unlock()

	w.Header().Add("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"access_token": %q,
		"refresh_token": %q,
		"token_type": "bearer",
		"expires_in": 3600
	}`, YahooAccessToken, OAuthRefreshToken)
}
