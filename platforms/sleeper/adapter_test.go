package sleeper

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/sleeper/internal"
	"github.com/mww/league_insights/platforms/sleeper/mocksleeper"
	"github.com/mww/league_insights/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadLeague(t *testing.T) {
	fake := testutils.NewFakeSleeperServer()
	defer fake.Close()

	var events []model.Progress
	a := NewAdapter(NewForTest(fake.URL()), 2, zap.NewNop())
	l, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: testutils.SleeperLeagueID, Season: 2024},
		func(p model.Progress) { events = append(events, p) })
	require.NoError(t, err)

	assert.Equal(t, model.PlatformSleeper, l.Platform)
	assert.Equal(t, "Sleeper Insight League", l.Name)
	assert.Equal(t, 2024, l.Season)
	assert.Equal(t, 3, l.CurrentWeek)
	assert.Equal(t, 14, l.RegularSeasonEnd)
	assert.Equal(t, model.ScoringHalfPPR, l.ScoringType)
	assert.Equal(t, model.RosterSlots{QB: 1, RB: 1, WR: 1, Bench: 1}, l.RosterSlots)
	assert.Equal(t, 4, l.TotalTeams)
	assert.Len(t, l.Matchups, 6)
	assert.Empty(t, l.Incomplete)
	assert.Len(t, l.PlayerPool, 15)

	alpha := l.Team("1")
	require.NotNil(t, alpha)
	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, "alpha_mgr", alpha.OwnerName)
	assert.Equal(t, 3, alpha.Wins)
	assert.Equal(t, 400.0, alpha.PointsFor)
	assert.Len(t, alpha.Roster, 4)
	assert.Equal(t, "bravo_mgr", l.Team("2").Name)

	require.Len(t, l.Trades, 1)
	tr := l.Trades[0]
	assert.Equal(t, "trade-transactions", tr.Source)
	assert.Equal(t, "sl-1130000000000000003", tr.ID)
	assert.Equal(t, 2, tr.Week)
	side := tr.Side("1")
	require.NotNil(t, side)
	require.Len(t, side.PlayersReceived, 1)
	assert.Equal(t, "Kenneth Walker III", side.PlayersReceived[0].Name)
	assert.Equal(t, 80.0, side.PlayersReceived[0].PointsAfterTrade)
	assert.Equal(t, 2, side.PlayersReceived[0].GamesAfterTrade)
	assert.Equal(t, "Tyler Lockett", side.PlayersSent[0].Name)

	charlie := l.Team("3")
	require.Len(t, charlie.Transactions, 1)
	tx := charlie.Transactions[0]
	assert.Equal(t, model.TransactionWaiver, tx.Type)
	assert.Equal(t, 2, tx.Week)
	require.NotNil(t, tx.WaiverBudgetSpent)
	assert.Equal(t, 12, *tx.WaiverBudgetSpent)
	assert.Equal(t, 70.0, tx.Adds[0].PointsSincePickup)
	assert.Equal(t, 2, tx.Adds[0].GamesSincePickup)
	assert.Equal(t, "Zay Flowers", tx.Drops[0].Name)
	assert.Empty(t, l.Team("4").Transactions)

	picks := l.AllDraftPicks()
	require.Len(t, picks, 12)
	assert.Equal(t, model.DraftSnake, l.DraftType)
	assert.Equal(t, "Josh Allen", picks[0].Player.Name)
	assert.Equal(t, 160.0, picks[0].SeasonPoints)
	assert.Equal(t, "Alpha", picks[0].TeamName)

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, 8, last.Total)
	assert.Equal(t, 8, last.Current)
}

func TestLoadLeague_degraded(t *testing.T) {
	fake := testutils.NewFakeSleeperServer()
	defer fake.Close()
	fake.FailWeek(3)
	fake.FailPlayers()

	a := NewAdapter(NewForTest(fake.URL()), 2, zap.NewNop())
	l, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: testutils.SleeperLeagueID, Season: 2024}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"rosters week 3"}, l.Incomplete)
	assert.Len(t, l.Matchups, 4)

	// names come from the draft metadata when the directory is down
	picks := l.AllDraftPicks()
	assert.Equal(t, "Josh Allen", picks[0].Player.Name)

	charlie := l.Team("3")
	require.Len(t, charlie.Transactions, 1)
	assert.Equal(t, 40.0, charlie.Transactions[0].Adds[0].PointsSincePickup)
	assert.Equal(t, 1, charlie.Transactions[0].Adds[0].GamesSincePickup)
	assert.True(t, charlie.Transactions[0].Adds[0].IsPlaceholder())
}

func TestLoadLeague_notFound(t *testing.T) {
	fake := testutils.NewFakeSleeperServer()
	defer fake.Close()

	a := NewAdapter(NewForTest(fake.URL()), 2, zap.NewNop())
	_, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: "42", Season: 2024}, nil)
	assert.True(t, errors.Is(err, platforms.ErrNotFound), "expected not found, got: %v", err)
}

func TestLoadLeague_rosterDiffFallback(t *testing.T) {
	c := &mocksleeper.Client{}
	ctx := mock.Anything
	leagueID := "77"

	c.On("GetLeague", ctx, leagueID).Return(&internal.League{
		LeagueID: leagueID, Name: "Mock League", Season: "2023",
		RosterPositions: []string{"QB", "FLEX"},
		Settings:        &internal.LeagueSettings{LastScoredLeg: 2},
	}, nil)
	c.On("GetUsers", ctx, leagueID).Return([]internal.User{}, nil)
	c.On("GetRosters", ctx, leagueID).Return([]internal.Roster{
		{RosterID: 1, Players: []string{"b"}},
		{RosterID: 2, Players: []string{"a"}},
	}, nil)
	c.On("LoadPlayers", ctx).Return([]model.Player{
		{ID: "a", Name: "Player A", Position: model.POS_QB, Team: model.TEAM_KC},
		{ID: "b", Name: "Player B", Position: model.POS_RB, Team: model.TEAM_NE},
	}, nil)
	c.On("GetMatchups", ctx, leagueID, 1).Return([]internal.Matchup{
		{RosterID: 1, MatchupID: 1, Points: 10, Starters: []string{"a"}, Players: []string{"a"}, PlayersPoints: map[string]float64{"a": 10}},
		{RosterID: 2, MatchupID: 1, Points: 8, Starters: []string{"b"}, Players: []string{"b"}, PlayersPoints: map[string]float64{"b": 8}},
	}, nil)
	c.On("GetMatchups", ctx, leagueID, 2).Return([]internal.Matchup{
		{RosterID: 1, MatchupID: 1, Points: 12, Starters: []string{"b"}, Players: []string{"b"}, PlayersPoints: map[string]float64{"b": 12}},
		{RosterID: 2, MatchupID: 1, Points: 9, Starters: []string{"0"}, Players: []string{"a"}, PlayersPoints: map[string]float64{"a": 9}},
	}, nil)
	c.On("GetTransactions", ctx, leagueID, mock.AnythingOfType("int")).Return([]internal.Transaction{}, nil)
	c.On("GetDrafts", ctx, leagueID).Return([]internal.Draft{}, nil)

	a := NewAdapter(c, 1, zap.NewNop())
	l, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: leagueID, Season: 2023}, nil)
	require.NoError(t, err)
	c.AssertExpectations(t)

	assert.Equal(t, model.RosterSlots{QB: 1, Flex: 1}, l.RosterSlots)
	assert.Equal(t, "Team 1", l.Team("1").Name)
	require.Len(t, l.Trades, 1)
	tr := l.Trades[0]
	assert.Equal(t, "roster-diff", tr.Source)
	assert.Equal(t, 2, tr.Week)
	one := tr.Side("1")
	require.NotNil(t, one)
	assert.Equal(t, "Player B", one.PlayersReceived[0].Name)
	assert.Equal(t, 12.0, one.PlayersReceived[0].PointsAfterTrade)
	two := tr.Side("2")
	assert.Zero(t, two.PlayersReceived[0].GamesAfterTrade, "empty starting slot is not a start")

	// records are derived from matchups when the provider has none
	assert.Equal(t, 2, l.Team("1").Wins)
	assert.Equal(t, 2, l.Team("2").Losses)
}

func TestLoadLeague_weekInProgress(t *testing.T) {
	c := &mocksleeper.Client{}
	ctx := mock.Anything
	leagueID := "78"

	c.On("GetLeague", ctx, leagueID).Return(&internal.League{
		LeagueID: leagueID, Name: "Live League", Season: "2024",
		RosterPositions: []string{"QB"},
		Settings:        &internal.LeagueSettings{PlayoffWeekStart: 15},
	}, nil)
	c.On("GetState", ctx).Return(&internal.State{Week: 2, Season: "2024"}, nil)
	c.On("GetUsers", ctx, leagueID).Return([]internal.User{}, nil)
	c.On("GetRosters", ctx, leagueID).Return([]internal.Roster{{RosterID: 1}, {RosterID: 2}}, nil)
	c.On("LoadPlayers", ctx).Return([]model.Player{}, nil)
	c.On("GetMatchups", ctx, leagueID, 1).Return([]internal.Matchup{
		{RosterID: 1, MatchupID: 1, Points: 101},
		{RosterID: 2, MatchupID: 1, Points: 99},
	}, nil)
	// kickoff has not happened yet
	c.On("GetMatchups", ctx, leagueID, 2).Return([]internal.Matchup{
		{RosterID: 1, MatchupID: 1},
		{RosterID: 2, MatchupID: 1},
	}, nil)
	c.On("GetTransactions", ctx, leagueID, mock.AnythingOfType("int")).Return([]internal.Transaction{}, nil)
	c.On("GetDrafts", ctx, leagueID).Return([]internal.Draft{}, nil)

	a := NewAdapter(c, 1, zap.NewNop())
	l, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: leagueID, Season: 2024}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, l.CurrentWeek)
	assert.Equal(t, []model.Matchup{{Week: 1, HomeTeamID: "1", HomeScore: 101, AwayTeamID: "2", AwayScore: 99}}, l.Matchups)
	assert.Equal(t, 1, l.Team("1").Wins)
	assert.Zero(t, l.Team("1").Ties)
}

func TestScoredWeek(t *testing.T) {
	tests := []struct {
		name     string
		settings *internal.LeagueSettings
		current  int
		want     int
	}{
		{name: "last scored leg", settings: &internal.LeagueSettings{LastScoredLeg: 5}, current: 5, want: 5},
		{name: "capped at current week", settings: &internal.LeagueSettings{LastScoredLeg: 19}, current: 18, want: 18},
		{name: "week in progress", settings: &internal.LeagueSettings{}, current: 4, want: 3},
		{name: "no settings", current: 1, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoredWeek(&internal.League{Settings: tc.settings}, tc.current))
		})
	}
}

func TestMatchups(t *testing.T) {
	raw := []internal.Matchup{
		{RosterID: 4, MatchupID: 2, Points: 90},
		{RosterID: 1, MatchupID: 1, Points: 140},
		{RosterID: 3, MatchupID: 2, Points: 100},
		{RosterID: 2, MatchupID: 1, Points: 110},
		{RosterID: 5, MatchupID: 0, Points: 70},
	}
	got := matchups(1, raw)
	require.Len(t, got, 3)
	assert.True(t, got[0].IsBye())
	assert.Equal(t, "5", got[0].HomeTeamID)
	assert.Equal(t, model.Matchup{Week: 1, HomeTeamID: "1", HomeScore: 140, AwayTeamID: "2", AwayScore: 110}, got[1])
	assert.Equal(t, model.Matchup{Week: 1, HomeTeamID: "3", HomeScore: 100, AwayTeamID: "4", AwayScore: 90}, got[2])
}

func TestRosterSlots(t *testing.T) {
	got := rosterSlots([]string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "SUPER_FLEX", "WRRB_FLEX", "REC_FLEX", "K", "DEF", "BN", "BN", "IR", "TAXI"})
	want := model.RosterSlots{QB: 1, RB: 2, WR: 2, TE: 1, Flex: 1, SuperFlex: 1, RBWR: 1, WRTE: 1, K: 1, DST: 1, Bench: 2, IR: 1}
	assert.Equal(t, want, got)
}
