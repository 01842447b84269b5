package mocksleeper

import (
	"context"

	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms/sleeper/internal"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (c *Client) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	args := c.Called(ctx)

	var res []model.Player
	if args.Get(0) != nil {
		res = args.Get(0).([]model.Player)
	}

	return res, args.Error(1)
}

func (c *Client) GetLeague(ctx context.Context, leagueID string) (*internal.League, error) {
	args := c.Called(ctx, leagueID)

	var res *internal.League
	if args.Get(0) != nil {
		res = args.Get(0).(*internal.League)
	}

	return res, args.Error(1)
}

func (c *Client) GetUsers(ctx context.Context, leagueID string) ([]internal.User, error) {
	args := c.Called(ctx, leagueID)

	var res []internal.User
	if args.Get(0) != nil {
		res = args.Get(0).([]internal.User)
	}

	return res, args.Error(1)
}

func (c *Client) GetRosters(ctx context.Context, leagueID string) ([]internal.Roster, error) {
	args := c.Called(ctx, leagueID)

	var res []internal.Roster
	if args.Get(0) != nil {
		res = args.Get(0).([]internal.Roster)
	}

	return res, args.Error(1)
}

func (c *Client) GetMatchups(ctx context.Context, leagueID string, week int) ([]internal.Matchup, error) {
	args := c.Called(ctx, leagueID, week)

	var res []internal.Matchup
	if args.Get(0) != nil {
		res = args.Get(0).([]internal.Matchup)
	}

	return res, args.Error(1)
}

func (c *Client) GetTransactions(ctx context.Context, leagueID string, week int) ([]internal.Transaction, error) {
	args := c.Called(ctx, leagueID, week)

	var res []internal.Transaction
	if args.Get(0) != nil {
		res = args.Get(0).([]internal.Transaction)
	}

	return res, args.Error(1)
}

func (c *Client) GetDrafts(ctx context.Context, leagueID string) ([]internal.Draft, error) {
	args := c.Called(ctx, leagueID)

	var res []internal.Draft
	if args.Get(0) != nil {
		res = args.Get(0).([]internal.Draft)
	}

	return res, args.Error(1)
}

func (c *Client) GetDraftPicks(ctx context.Context, draftID string) ([]internal.DraftPick, error) {
	args := c.Called(ctx, draftID)

	var res []internal.DraftPick
	if args.Get(0) != nil {
		res = args.Get(0).([]internal.DraftPick)
	}

	return res, args.Error(1)
}

func (c *Client) GetState(ctx context.Context) (*internal.State, error) {
	args := c.Called(ctx)

	var res *internal.State
	if args.Get(0) != nil {
		res = args.Get(0).(*internal.State)
	}

	return res, args.Error(1)
}
