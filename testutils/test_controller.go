package testutils

import (
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/league_insights/db"
	"golang.org/x/oauth2"
)

// TestController bundles the collaborators a controller needs in tests: a
// mock clock, an in-memory token store and fake provider and OAuth servers.
type TestController struct {
	Clock       *clock.Mock
	Store       db.TokenStore
	YahooConfig *oauth2.Config
	ESPN        *FakeESPNServer
	Sleeper     *FakeSleeperServer
	Yahoo       *FakeYahooServer
	OAuth       *FakeOAuthServer
}

func NewTestController() *TestController {
	c := clock.NewMock()
	c.Set(time.Date(2024, 9, 18, 12, 0, 0, 0, time.UTC))

	oauth := NewFakeOAuthServer()
	return &TestController{
		Clock:       c,
		Store:       db.NewMemoryStore(),
		YahooConfig: oauth.Config(),
		ESPN:        NewFakeESPNServer(),
		Sleeper:     NewFakeSleeperServer(),
		Yahoo:       NewFakeYahooServer(),
		OAuth:       oauth,
	}
}

func (c *TestController) Close() {
	c.ESPN.Close()
	c.Sleeper.Close()
	c.Yahoo.Close()
	c.OAuth.Close()
}
