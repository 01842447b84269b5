package mockcontroller

import (
	"context"

	"github.com/mww/league_insights/controller"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) LoadLeague(ctx context.Context, req controller.LoadRequest, progress platforms.ProgressFunc) (*model.LeagueReport, error) {
	args := c.Called(ctx, req, progress)

	var r *model.LeagueReport
	if args.Get(0) != nil {
		r = args.Get(0).(*model.LeagueReport)
	}

	return r, args.Error(1)
}

func (c *C) Current() (*model.LeagueReport, error) {
	args := c.Called()

	var r *model.LeagueReport
	if args.Get(0) != nil {
		r = args.Get(0).(*model.LeagueReport)
	}

	return r, args.Error(1)
}

func (c *C) Progress() model.Progress {
	args := c.Called()
	return args.Get(0).(model.Progress)
}

func (c *C) Awards() ([]model.Award, error) {
	args := c.Called()

	var res []model.Award
	if args.Get(0) != nil {
		res = args.Get(0).([]model.Award)
	}

	return res, args.Error(1)
}

func (c *C) OAuthStart(platform string) (string, error) {
	args := c.Called(platform)
	return args.String(0), args.Error(1)
}

func (c *C) OAuthExchange(ctx context.Context, state, code string) (string, error) {
	args := c.Called(ctx, state, code)
	return args.String(0), args.Error(1)
}

func (c *C) SignOut(ctx context.Context, sessionKey string) error {
	args := c.Called(ctx, sessionKey)
	return args.Error(0)
}
