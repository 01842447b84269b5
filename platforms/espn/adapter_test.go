package espn

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/espn/internal"
	"github.com/mww/league_insights/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAdapter(url string) *Adapter {
	return NewAdapter(NewForTest(url), DefaultTables(), DefaultOptions(), zap.NewNop())
}

func TestLoadLeague(t *testing.T) {
	fake := testutils.NewFakeESPNServer()
	defer fake.Close()

	var events []model.Progress
	a := newTestAdapter(fake.URL())
	l, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: testutils.ESPNLeagueID, Season: 2024},
		func(p model.Progress) { events = append(events, p) })
	require.NoError(t, err)

	assert.Equal(t, model.PlatformESPN, l.Platform)
	assert.Equal(t, "Insight Test League", l.Name)
	assert.Equal(t, 2024, l.Season)
	assert.Equal(t, 3, l.CurrentWeek)
	assert.Equal(t, 14, l.RegularSeasonEnd)
	assert.Equal(t, 4, l.TotalTeams)
	assert.Equal(t, model.DraftSnake, l.DraftType)
	assert.Equal(t, model.ScoringPPR, l.ScoringType)
	assert.Equal(t, model.RosterSlots{QB: 1, RB: 1, WR: 1, Bench: 1}, l.RosterSlots)
	assert.Len(t, l.Matchups, 6)
	assert.Empty(t, l.Incomplete)

	alpha := l.Team("1")
	require.NotNil(t, alpha)
	assert.Equal(t, "Alpha Dogs", alpha.Name)
	assert.Equal(t, "Ann Alpha", alpha.OwnerName)
	assert.Equal(t, 3, alpha.Wins)
	assert.Len(t, alpha.Roster, 4)
	assert.Equal(t, "bravo_mgr", l.Team("2").OwnerName)

	// trades
	require.Len(t, l.Trades, 1)
	tr := l.Trades[0]
	assert.Equal(t, "roster-diff", tr.Source)
	assert.Equal(t, 2, tr.Week)
	side := tr.Side("1")
	require.NotNil(t, side)
	assert.Equal(t, "Alpha Dogs", side.TeamName)
	require.Len(t, side.PlayersReceived, 1)
	assert.Equal(t, "Kenneth Walker III", side.PlayersReceived[0].Name)
	assert.Equal(t, 80.0, side.PlayersReceived[0].PointsAfterTrade)
	assert.Equal(t, 2, side.PlayersReceived[0].GamesAfterTrade)
	require.Len(t, side.PlayersSent, 1)
	assert.Equal(t, "1004", side.PlayersSent[0].ID)
	assert.Zero(t, side.PlayersSent[0].GamesAfterTrade)
	assert.Len(t, alpha.Trades, 1)
	assert.Len(t, l.Team("3").Trades, 0)

	// transactions, the waiver shows up in two weekly windows
	charlie := l.Team("3")
	require.Len(t, charlie.Transactions, 1)
	tx := charlie.Transactions[0]
	assert.Equal(t, "w-5001", tx.ID)
	assert.Equal(t, model.TransactionWaiver, tx.Type)
	assert.Equal(t, 2, tx.Week)
	require.NotNil(t, tx.WaiverBudgetSpent)
	assert.Equal(t, 12, *tx.WaiverBudgetSpent)
	require.Len(t, tx.Adds, 1)
	assert.Equal(t, "Puka Nacua", tx.Adds[0].Name)
	assert.Equal(t, 70.0, tx.Adds[0].PointsSincePickup)
	assert.Equal(t, 2, tx.Adds[0].GamesSincePickup)
	require.Len(t, tx.Drops, 1)
	assert.Equal(t, "Zay Flowers", tx.Drops[0].Name)
	assert.Empty(t, l.Team("4").Transactions, "failed claims are not transactions")

	require.Len(t, alpha.Transactions, 1)
	assert.Equal(t, model.TransactionFreeAgent, alpha.Transactions[0].Type)
	assert.Nil(t, alpha.Transactions[0].WaiverBudgetSpent)

	// draft
	picks := l.AllDraftPicks()
	require.Len(t, picks, 12)
	assert.Equal(t, "Josh Allen", picks[0].Player.Name)
	assert.Equal(t, model.POS_QB, picks[0].Player.Position)
	assert.Equal(t, model.TEAM_BUF, picks[0].Player.Team)
	assert.Equal(t, 160.0, picks[0].SeasonPoints)
	assert.Equal(t, "Alpha Dogs", picks[0].TeamName)
	assert.Nil(t, picks[0].AuctionValue)
	assert.Len(t, alpha.DraftPicks, 3)

	assert.Len(t, l.PlayerPool, 15)

	// progress
	require.NotEmpty(t, events)
	prev := 0
	for _, e := range events {
		assert.Equal(t, 8, e.Total)
		assert.GreaterOrEqual(t, e.Current, prev)
		prev = e.Current
	}
	assert.Equal(t, 8, events[len(events)-1].Current)
}

func TestLoadLeague_missingWeek(t *testing.T) {
	fake := testutils.NewFakeESPNServer()
	defer fake.Close()
	fake.FailRosterWeek(2)

	a := newTestAdapter(fake.URL())
	l, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: testutils.ESPNLeagueID, Season: 2024}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"rosters week 2"}, l.Incomplete)

	// without week 2 the roster diff sees nothing and the activity feed is
	// used instead
	require.Len(t, l.Trades, 1)
	tr := l.Trades[0]
	assert.Equal(t, "communication", tr.Source)
	assert.Equal(t, "comm-topic-trade", tr.ID)
	assert.Equal(t, 2, tr.Week)
	side := tr.Side("1")
	require.NotNil(t, side)
	assert.Equal(t, "2004", side.PlayersReceived[0].ID)
	assert.Equal(t, 40.0, side.PlayersReceived[0].PointsAfterTrade)
	assert.Equal(t, 1, side.PlayersReceived[0].GamesAfterTrade)
}

func TestLoadLeague_private(t *testing.T) {
	fake := testutils.NewFakeESPNServer()
	defer fake.Close()
	a := newTestAdapter(fake.URL())

	_, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: testutils.ESPNPrivateLeagueID, Season: 2024}, nil)
	assert.True(t, errors.Is(err, platforms.ErrUnauthorized), "got %v", err)

	req := platforms.LoadRequest{
		LeagueID:    testutils.ESPNPrivateLeagueID,
		Season:      2024,
		Credentials: model.Credentials{ESPNS2: testutils.ESPNS2, SWID: testutils.ESPNSWID},
	}
	l, err := a.LoadLeague(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, testutils.ESPNPrivateLeagueID, l.ID)
}

func TestCurrentWeek(t *testing.T) {
	tests := []struct {
		league internal.League
		want   int
	}{
		{league: internal.League{ScoringPeriodID: 5}, want: 5},
		{league: internal.League{ScoringPeriodID: 5, Status: &internal.Status{LatestScoringPeriod: 7}}, want: 7},
		{league: internal.League{Status: &internal.Status{LatestScoringPeriod: 18, FinalScoringPeriod: 17}}, want: 17},
		{league: internal.League{}, want: 1},
	}
	for _, tc := range tests {
		if got := currentWeek(&tc.league); got != tc.want {
			t.Errorf("currentWeek(%+v) = %d, want %d", tc.league, got, tc.want)
		}
	}
}

func TestBaseLeague_seasonMatchups(t *testing.T) {
	game := func(period int, winner string, home, away float64) internal.ScheduleItem {
		return internal.ScheduleItem{
			MatchupPeriodID: period,
			Winner:          winner,
			Home:            &internal.TeamScore{TeamID: 1, TotalPoints: home},
			Away:            &internal.TeamScore{TeamID: 2, TotalPoints: away},
		}
	}
	raw := &internal.League{
		Settings: &internal.Settings{ScheduleSettings: &internal.ScheduleSettings{MatchupPeriodCount: 14}},
		Schedule: []internal.ScheduleItem{
			game(14, "HOME", 120, 100),
			game(15, "AWAY", 90, 130),
			game(16, "UNDECIDED", 40, 35),
		},
	}

	l := newTestAdapter("http://127.0.0.1:1").baseLeague(raw, platforms.LoadRequest{LeagueID: "1", Season: 2024}, 16)
	assert.Equal(t, 14, l.RegularSeasonEnd)
	require.Len(t, l.Matchups, 2, "undecided matchups are not results")
	assert.Equal(t, []model.Matchup{{Week: 14, HomeTeamID: "1", HomeScore: 120, AwayTeamID: "2", AwayScore: 100}}, l.SeasonMatchups())
}

func TestRosterSlots(t *testing.T) {
	tables := DefaultTables()
	got := tables.rosterSlots(map[string]int{"0": 1, "2": 2, "4": 2, "6": 1, "23": 1, "7": 1, "16": 1, "17": 1, "20": 6, "21": 1, "99": 4, "x": 1})
	want := model.RosterSlots{QB: 1, RB: 2, WR: 2, TE: 1, Flex: 1, SuperFlex: 1, DST: 1, K: 1, Bench: 6, IR: 1}
	assert.Equal(t, want, got)
}
