package db

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/itbasis/go-clock"
	"github.com/mww/league_insights/containers"
	"golang.org/x/oauth2"
)

// A shared store for the postgres tests. It stays nil under -short or when
// docker is unavailable.
var testDB TokenStore

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := containers.NewDBContainer(ctx)
	if err != nil {
		fmt.Printf("skipping postgres tests, error starting container: %v\n", err)
		os.Exit(m.Run())
	}

	defer func() {
		// Catch all panics to make sure the shutdown is successfully run
		if r := recover(); r != nil {
			container.Shutdown()
			fmt.Println("panic")
		}
	}()

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		container.Shutdown()
		fmt.Printf("error getting connection string: %v", err)
		os.Exit(-1)
	}
	testDB, err = New(ctx, connStr, clock.New())
	if err != nil {
		container.Shutdown()
		fmt.Printf("error connecting to db: %v", err)
		os.Exit(-1)
	}

	code := m.Run()
	container.Shutdown()
	os.Exit(code)
}

func stores() map[string]TokenStore {
	s := map[string]TokenStore{"memory": NewMemoryStore()}
	if testDB != nil {
		s["postgres"] = testDB
	}
	return s
}

func newToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  gofakeit.UUID(),
		RefreshToken: gofakeit.UUID(),
		TokenType:    "bearer",
		Expiry:       time.Date(2024, 9, 12, 17, 30, 0, 0, time.UTC),
	}
}

func TestTokenStore_saveAndLoad(t *testing.T) {
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := gofakeit.UUID()
			tok := newToken()

			err := s.SaveToken(ctx, key, tok)
			assertFatalf(t, err == nil, "error saving token: %v", err)

			res, err := s.GetToken(ctx, key)
			assertFatalf(t, err == nil, "error retreiving token: %v", err)

			assertEquals(t, "AccessToken", tok.AccessToken, res.AccessToken)
			assertEquals(t, "RefreshToken", tok.RefreshToken, res.RefreshToken)
			assertEquals(t, "TokenType", tok.TokenType, res.TokenType)
			assertTrue(t, "Expiry", tok.Expiry.Equal(res.Expiry))
		})
	}
}

func TestTokenStore_update(t *testing.T) {
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := gofakeit.UUID()
			first := newToken()
			assertFatalf(t, s.SaveToken(ctx, key, first) == nil, "error saving first token")

			// a refresh response may omit the refresh token
			second := &oauth2.Token{
				AccessToken: gofakeit.UUID(),
				TokenType:   "bearer",
				Expiry:      first.Expiry.Add(time.Hour),
			}
			assertFatalf(t, s.SaveToken(ctx, key, second) == nil, "error saving second token")

			res, err := s.GetToken(ctx, key)
			assertFatalf(t, err == nil, "error retreiving token: %v", err)
			assertEquals(t, "AccessToken", second.AccessToken, res.AccessToken)
			assertEquals(t, "RefreshToken", first.RefreshToken, res.RefreshToken)
			assertTrue(t, "Expiry", second.Expiry.Equal(res.Expiry))
		})
	}
}

func TestTokenStore_notFound(t *testing.T) {
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.GetToken(ctx, "no-such-session")
			assertError(t, "GetToken", ErrTokenNotFound, err)

			err = s.DeleteToken(ctx, "no-such-session")
			assertError(t, "DeleteToken", ErrTokenNotFound, err)
		})
	}
}

func TestTokenStore_delete(t *testing.T) {
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := gofakeit.UUID()
			assertFatalf(t, s.SaveToken(ctx, key, newToken()) == nil, "error saving token")

			err := s.DeleteToken(ctx, key)
			assertFatalf(t, err == nil, "error deleting token: %v", err)

			_, err = s.GetToken(ctx, key)
			assertError(t, "GetToken after delete", ErrTokenNotFound, err)
		})
	}
}

func TestPostgres_nilToken(t *testing.T) {
	if testDB == nil {
		t.Skip("postgres is not available")
	}
	if err := testDB.SaveToken(context.Background(), "nil-token", nil); err == nil {
		t.Errorf("expected an error saving a nil token")
	}
}

func assertFatalf(t *testing.T, c bool, f string, args ...any) {
	if !c {
		t.Fatalf(f, args...)
	}
}

func assertEquals(t *testing.T, field string, expected, actual any) {
	if expected != actual {
		t.Errorf("%s - expected: '%v', got: '%v'", field, expected, actual)
	}
}

func assertTrue(t *testing.T, field string, cond bool) {
	if !cond {
		t.Errorf("%s - expected to be true but it was false", field)
	}
}

func assertError(t *testing.T, tcName string, e1, e2 error) {
	if e1 == nil && e2 == nil {
		return
	}
	if (e1 != nil && e2 == nil) || (e1 == nil && e2 != nil) {
		t.Errorf("unexpected error in %s, expected: %v, got: %v", tcName, e1, e2)
		return
	}
	if e1.Error() != e2.Error() {
		t.Errorf("errors are not equal in %s, expected: %v, got: %v", tcName, e1, e2)
	}
}
