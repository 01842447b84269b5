package controller

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mww/league_insights/config"
	"github.com/mww/league_insights/db"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/testutils"
	"golang.org/x/oauth2"
)

func TestOAuthFlow(t *testing.T) {
	ctx := context.Background()

	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	authURL, err := ctrl.OAuthStart(string(model.PlatformYahoo))
	state := validateOAuthStart(t, authURL, err)

	session, err := ctrl.OAuthExchange(ctx, state, "code")
	if err != nil {
		t.Fatalf("unexpected error in OAuthExchange: %v", err)
	}
	if _, err := uuid.Parse(session); err != nil {
		t.Errorf("session key is not a uuid: %s", session)
	}

	token, err := testCtrl.Store.GetToken(ctx, session)
	if err != nil {
		t.Fatalf("error getting token: %v", err)
	}
	if token.AccessToken != testutils.YahooAccessToken {
		t.Errorf("access token value not as expected, got: %s", token.AccessToken)
	}
	if token.RefreshToken != testutils.OAuthRefreshToken {
		t.Errorf("refresh token value not as expected, got: %s", token.RefreshToken)
	}
	if token.Expiry.IsZero() || token.Expiry.Before(time.Now()) {
		t.Error("token expiry time is not in the future!")
	}

	report, err := ctrl.LoadLeague(ctx, LoadRequest{
		Platform:     "yahoo",
		LeagueID:     testutils.YahooLeagueID,
		Season:       2024,
		YahooSession: session,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error loading yahoo league: %v", err)
	}
	if report.League.Name != "Yahoo Insight League" {
		t.Errorf("unexpected league name: %s", report.League.Name)
	}
	if testCtrl.OAuth.Refreshes() != 0 {
		t.Errorf("a fresh token should not be refreshed, got %d refreshes", testCtrl.OAuth.Refreshes())
	}

	// states are single use
	if _, err := ctrl.OAuthExchange(ctx, state, "code"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected a reused state to be rejected, got: %v", err)
	}
}

func TestOAuthServerStart_unsupportedPlatform(t *testing.T) {
	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	_, err := ctrl.OAuthStart("espn")
	if err == nil {
		t.Fatal("expected an error but did not get one")
	}
}

func TestOAuth_notConfigured(t *testing.T) {
	testCtrl := testutils.NewTestController()
	defer testCtrl.Close()

	ctrl, err := New(testCtrl.Clock, testCtrl.Store, Adapters{}, nil, config.DefaultPolicy(), nil)
	if err != nil {
		t.Fatalf("error creating controller: %v", err)
	}
	if _, err := ctrl.OAuthStart(string(model.PlatformYahoo)); !errors.Is(err, ErrOAuthNotConfigured) {
		t.Errorf("expected not configured error, got: %v", err)
	}
}

func TestOAuth_stateExpired(t *testing.T) {
	ctx := context.Background()

	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	authURL, err := ctrl.OAuthStart(string(model.PlatformYahoo))
	state := validateOAuthStart(t, authURL, err)

	testCtrl.Clock.Add(6 * time.Minute)
	_, err = ctrl.OAuthExchange(ctx, state, "code")
	if err == nil || err.Error() != "state is not valid" {
		t.Errorf("expected error but got wrong value: %v", err)
	}
	if testCtrl.OAuth.Exchanges() != 0 {
		t.Errorf("an expired state must not reach the token endpoint")
	}
}

func TestOAuth_badCode(t *testing.T) {
	ctx := context.Background()

	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	authURL, err := ctrl.OAuthStart(string(model.PlatformYahoo))
	state := validateOAuthStart(t, authURL, err)

	if _, err := ctrl.OAuthExchange(ctx, state, testutils.OAuthBadCode); err == nil {
		t.Error("expected the exchange to fail")
	}
}

func saveSession(t *testing.T, store db.TokenStore, tok *oauth2.Token) string {
	t.Helper()
	session := uuid.NewString()
	if err := store.SaveToken(context.Background(), session, tok); err != nil {
		t.Fatalf("error saving token: %v", err)
	}
	return session
}

func TestYahooLoad_refreshOnRejectedToken(t *testing.T) {
	ctx := context.Background()

	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	// looks valid but the provider no longer accepts it
	session := saveSession(t, testCtrl.Store, &oauth2.Token{
		AccessToken:  "revoked",
		RefreshToken: testutils.OAuthRefreshToken,
		TokenType:    "bearer",
		Expiry:       testCtrl.Clock.Now().Add(time.Hour),
	})

	_, err := ctrl.LoadLeague(ctx, LoadRequest{Platform: "yahoo", LeagueID: testutils.YahooLeagueID, Season: 2024, YahooSession: session}, nil)
	if err != nil {
		t.Fatalf("expected the load to succeed after a refresh, got: %v", err)
	}
	if testCtrl.OAuth.Refreshes() != 1 {
		t.Errorf("expected 1 refresh, got %d", testCtrl.OAuth.Refreshes())
	}

	stored, err := testCtrl.Store.GetToken(ctx, session)
	if err != nil {
		t.Fatalf("error reading stored token: %v", err)
	}
	if stored.AccessToken != testutils.YahooAccessToken {
		t.Errorf("refreshed token was not saved, got: %s", stored.AccessToken)
	}
}

func TestYahooLoad_expiredTokenRefreshedFirst(t *testing.T) {
	ctx := context.Background()

	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	// inside the expiry buffer
	session := saveSession(t, testCtrl.Store, &oauth2.Token{
		AccessToken:  "about-to-expire",
		RefreshToken: testutils.OAuthRefreshToken,
		TokenType:    "bearer",
		Expiry:       testCtrl.Clock.Now().Add(2 * time.Minute),
	})

	_, err := ctrl.LoadLeague(ctx, LoadRequest{Platform: "yahoo", LeagueID: testutils.YahooLeagueID, Season: 2024, YahooSession: session}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if testCtrl.OAuth.Refreshes() != 1 {
		t.Errorf("expected 1 refresh, got %d", testCtrl.OAuth.Refreshes())
	}
	if testCtrl.Yahoo.Unauthorized() != 0 {
		t.Errorf("the expiring token should never have been sent, got %d rejections", testCtrl.Yahoo.Unauthorized())
	}
}

func TestYahooLoad_sessionErrors(t *testing.T) {
	tests := []struct {
		name    string
		token   *oauth2.Token
		wantErr FailureKind
	}{
		{
			name:    "unknown session",
			wantErr: FailureTokenExpired,
		},
		{
			name: "refresh rejected",
			token: &oauth2.Token{
				AccessToken:  "revoked",
				RefreshToken: "revoked-refresh",
				TokenType:    "bearer",
				Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			wantErr: FailureTokenExpired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, testCtrl := controllerForTest(t)
			defer testCtrl.Close()

			session := uuid.NewString()
			if tc.token != nil {
				session = saveSession(t, testCtrl.Store, tc.token)
			}
			_, err := ctrl.LoadLeague(context.Background(),
				LoadRequest{Platform: "yahoo", LeagueID: testutils.YahooLeagueID, Season: 2024, YahooSession: session}, nil)
			if got := ClassifyError(err).Kind; got != tc.wantErr {
				t.Errorf("expected %s, got %s (%v)", tc.wantErr, got, err)
			}
		})
	}
}

func TestYahooLoad_noSession(t *testing.T) {
	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	_, err := ctrl.LoadLeague(context.Background(), LoadRequest{Platform: "yahoo", LeagueID: testutils.YahooLeagueID, Season: 2024}, nil)
	f := ClassifyError(err)
	if f.Kind != FailurePrivateLeague {
		t.Errorf("expected private league, got: %+v", f)
	}
	if f.Message != "Sign in with Yahoo to load this league." {
		t.Errorf("unexpected message: %s", f.Message)
	}
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()

	ctrl, testCtrl := controllerForTest(t)
	defer testCtrl.Close()

	session := saveSession(t, testCtrl.Store, &oauth2.Token{AccessToken: "a", RefreshToken: "r"})
	if err := ctrl.SignOut(ctx, session); err != nil {
		t.Fatalf("unexpected error signing out: %v", err)
	}
	if _, err := testCtrl.Store.GetToken(ctx, session); !errors.Is(err, db.ErrTokenNotFound) {
		t.Errorf("expected the token to be deleted, got: %v", err)
	}

	// signing out twice is fine
	if err := ctrl.SignOut(ctx, session); err != nil {
		t.Errorf("unexpected error signing out again: %v", err)
	}
}

func validateOAuthStart(t *testing.T, auth string, err error) string {
	if err != nil {
		t.Fatalf("unexpected error in OAuthStart: %v", err)
	}
	if !strings.Contains(auth, "/auth") {
		t.Errorf("expected url to have a specific prefix, got: %s", auth)
	}

	u, err := url.Parse(auth)
	if err != nil {
		t.Fatalf("error parsing authURL: %v", err)
	}
	state := u.Query().Get("state")
	if state == "" {
		t.Fatalf("no state encoded in authURL: %s", auth)
	}

	return state
}
