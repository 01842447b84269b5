package yahoo

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/yahoo/internal"
	"github.com/mww/league_insights/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadRequest(tokens platforms.TokenProvider) platforms.LoadRequest {
	return platforms.LoadRequest{LeagueID: testutils.YahooLeagueID, Season: 2024, Tokens: tokens}
}

func TestLoadLeague(t *testing.T) {
	fake := testutils.NewFakeYahooServer()
	defer fake.Close()

	var events []model.Progress
	a := NewAdapter(NewForTest(fake.URL()), 2, zap.NewNop())
	l, err := a.LoadLeague(context.Background(), loadRequest(validTokens()), func(p model.Progress) { events = append(events, p) })
	require.NoError(t, err)

	assert.Equal(t, model.PlatformYahoo, l.Platform)
	assert.Equal(t, "Yahoo Insight League", l.Name)
	assert.Equal(t, 2024, l.Season)
	assert.Equal(t, 2, l.CurrentWeek)
	assert.Equal(t, 14, l.RegularSeasonEnd)
	assert.Equal(t, model.ScoringPPR, l.ScoringType)
	assert.Equal(t, model.RosterSlots{QB: 1, WR: 1, Bench: 1}, l.RosterSlots)
	assert.Equal(t, 2, l.TotalTeams)
	assert.Empty(t, l.Incomplete)
	assert.Len(t, l.PlayerPool, 7)
	assert.Equal(t, []model.Matchup{
		{Week: 1, HomeTeamID: "1", HomeScore: 45, AwayTeamID: "2", AwayScore: 33},
		{Week: 2, HomeTeamID: "1", HomeScore: 46, AwayTeamID: "2", AwayScore: 28},
	}, l.Matchups)

	one := l.Team("1")
	require.NotNil(t, one)
	assert.Equal(t, "Burrow's Barrows", one.Name)
	assert.Equal(t, "ann", one.OwnerName)
	assert.Equal(t, 2, one.Wins)
	assert.Equal(t, 91.0, one.PointsFor)
	assert.Equal(t, 61.0, one.PointsAgainst)
	assert.Len(t, one.Roster, 3)
	assert.Empty(t, one.Transactions)

	require.Len(t, l.Trades, 1)
	tr := l.Trades[0]
	assert.Equal(t, "trade-transactions", tr.Source)
	assert.Equal(t, "449.l.431.tr.3", tr.ID)
	assert.Equal(t, 2, tr.Week)
	assert.False(t, tr.IsIncomplete)
	side := tr.Side("1")
	require.NotNil(t, side)
	require.Len(t, side.PlayersReceived, 1)
	assert.Equal(t, "Amon-Ra St. Brown", side.PlayersReceived[0].Name)
	assert.Equal(t, 24.0, side.PlayersReceived[0].PointsAfterTrade)
	assert.Equal(t, 1, side.PlayersReceived[0].GamesAfterTrade)
	assert.Equal(t, "Garrett Wilson", side.PlayersSent[0].Name)
	assert.Zero(t, tr.Side("2").PlayersReceived[0].GamesAfterTrade)
	assert.Len(t, one.Trades, 1)

	two := l.Team("2")
	require.Len(t, two.Transactions, 1)
	tx := two.Transactions[0]
	assert.Equal(t, model.TransactionWaiver, tx.Type)
	assert.Equal(t, 2, tx.Week)
	assert.Equal(t, "Detroit Rock City", tx.TeamName)
	require.NotNil(t, tx.WaiverBudgetSpent)
	assert.Equal(t, 7, *tx.WaiverBudgetSpent)
	require.Len(t, tx.Adds, 1)
	assert.Equal(t, "Jayden Reed", tx.Adds[0].Name)
	assert.Equal(t, model.TEAM_GB, tx.Adds[0].Team)
	assert.Equal(t, 12.0, tx.Adds[0].PointsSincePickup)
	assert.Equal(t, 1, tx.Adds[0].GamesSincePickup)
	assert.Equal(t, "Nico Collins", tx.Drops[0].Name)

	picks := l.AllDraftPicks()
	require.Len(t, picks, 6)
	assert.Equal(t, model.DraftSnake, l.DraftType)
	assert.Equal(t, "Joe Burrow", picks[0].Player.Name)
	assert.Equal(t, model.POS_QB, picks[0].Player.Position)
	assert.Equal(t, 42.0, picks[0].SeasonPoints)
	assert.Equal(t, "Burrow's Barrows", picks[0].TeamName)
	assert.Nil(t, picks[0].AuctionValue)

	require.NotEmpty(t, events)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Current, events[i-1].Current)
	}
	last := events[len(events)-1]
	assert.Equal(t, 6, last.Total)
	assert.Equal(t, 6, last.Current)
}

func TestLoadLeague_missingWeek(t *testing.T) {
	fake := testutils.NewFakeYahooServer()
	defer fake.Close()
	fake.FailRosterWeek(2)

	a := NewAdapter(NewForTest(fake.URL()), 2, zap.NewNop())
	l, err := a.LoadLeague(context.Background(), loadRequest(validTokens()), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"rosters week 2"}, l.Incomplete)
	assert.Len(t, l.Matchups, 2)
	require.Len(t, l.Trades, 1)
	assert.Equal(t, "trade-transactions", l.Trades[0].Source)
	assert.Zero(t, l.Trades[0].Side("1").PlayersReceived[0].PointsAfterTrade)
}

func TestLoadLeague_expiredSession(t *testing.T) {
	fake := testutils.NewFakeYahooServer()
	defer fake.Close()

	a := NewAdapter(NewForTest(fake.URL()), 2, zap.NewNop())
	_, err := a.LoadLeague(context.Background(), loadRequest(testutils.NewFakeTokens("stale", "still-stale")), nil)
	assert.True(t, errors.Is(err, platforms.ErrTokenExpired), "expected token expired, got: %v", err)
}

func TestLoadLeague_invalidLeague(t *testing.T) {
	a := NewAdapter(NewForTest("http://127.0.0.1:1"), 2, zap.NewNop())
	_, err := a.LoadLeague(context.Background(), platforms.LoadRequest{LeagueID: "431;drop", Season: 2024}, nil)
	assert.True(t, errors.Is(err, platforms.ErrInvalidRequest), "expected invalid request, got: %v", err)
}

func TestMatchups_onlyFinal(t *testing.T) {
	game := func(status string, home, away float64) internal.Matchup {
		return internal.Matchup{
			Status: status,
			Teams: &internal.Teams{Teams: []internal.Team{
				{Key: "449.l.431.t.1", TeamPoints: &internal.TeamPoints{Total: home}},
				{Key: "449.l.431.t.2", TeamPoints: &internal.TeamPoints{Total: away}},
			}},
		}
	}

	tests := []struct {
		status string
		want   int
	}{
		{status: "postevent", want: 1},
		{status: "midevent", want: 0},
		{status: "preevent", want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			got := matchups(3, []internal.Matchup{game(tc.status, 61.5, 40)})
			require.Len(t, got, tc.want)
			if tc.want > 0 {
				assert.Equal(t, model.Matchup{Week: 3, HomeTeamID: "1", HomeScore: 61.5, AwayTeamID: "2", AwayScore: 40}, got[0])
			}
		})
	}
}

func TestRegularSeasonEnd(t *testing.T) {
	positions := &internal.RosterPositions{}
	tests := []struct {
		name     string
		settings internal.Settings
		want     int
	}{
		{name: "playoffs", settings: internal.Settings{UsesPlayoff: 1, PlayoffStartWeek: 15}, want: 14},
		{name: "no playoffs", settings: internal.Settings{PlayoffStartWeek: 15}, want: 17},
		{name: "unknown start", settings: internal.Settings{UsesPlayoff: 1}, want: 17},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.settings.RosterPositions = positions
			l := baseLeague(&internal.League{Name: "x", EndWeek: 17}, &tc.settings, nil, loadRequest(nil), 3)
			assert.Equal(t, tc.want, l.RegularSeasonEnd)
		})
	}
}

func TestTransactionWeeks(t *testing.T) {
	var c platforms.WeekCalendar
	addWeek(&c, 1, []internal.Matchup{{WeekStart: "2024-09-05", WeekEnd: "2024-09-09"}})
	addWeek(&c, 2, []internal.Matchup{{WeekStart: "2024-09-12", WeekEnd: "2024-09-16"}})

	tests := []struct {
		ts   time.Time
		want int
	}{
		{ts: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), want: 1},
		{ts: time.Date(2024, 9, 8, 17, 0, 0, 0, time.UTC), want: 1},
		{ts: time.Date(2024, 9, 11, 8, 0, 0, 0, time.UTC), want: 2},
		{ts: time.Date(2024, 9, 15, 20, 0, 0, 0, time.UTC), want: 2},
		{ts: time.Date(2024, 9, 18, 8, 0, 0, 0, time.UTC), want: 3},
	}
	for _, tc := range tests {
		if got := c.Week(tc.ts); got != tc.want {
			t.Errorf("Week(%v) = %d, want %d", tc.ts, got, tc.want)
		}
	}
}

func TestToPlayer(t *testing.T) {
	tests := []struct {
		name string
		in   internal.Player
		want model.Player
	}{
		{
			name: "full name",
			in:   internal.Player{ID: "7", Name: &internal.PlayerName{Full: "Nico Collins"}, Position: "WR", EditorialTeamAbbr: "Hou"},
			want: model.Player{ID: "7", PlatformID: "7", Name: "Nico Collins", Position: model.POS_WR, Team: model.TEAM_HOU},
		},
		{
			name: "defense uses team name",
			in:   internal.Player{Key: "449.p.100017", Name: &internal.PlayerName{Full: "Seattle"}, Position: "DEF", TeamFullName: "Seattle Seahawks", EditorialTeamAbbr: "Sea"},
			want: model.Player{ID: "100017", PlatformID: "100017", Name: "Seattle Seahawks", Position: model.POS_DST, Team: model.TEAM_SEA},
		},
		{
			name: "defense without team name",
			in:   internal.Player{ID: "100008", Position: "DEF", EditorialTeamAbbr: "Det"},
			want: model.Player{ID: "100008", PlatformID: "100008", Name: "Detroit Lions", Position: model.POS_DST, Team: model.TEAM_DET},
		},
		{
			name: "display position fallback",
			in:   internal.Player{ID: "8", Name: &internal.PlayerName{First: "Taysom", Last: "Hill"}, DisplayPosition: "TE", EditorialTeamAbbr: "NO"},
			want: model.Player{ID: "8", PlatformID: "8", Name: "Taysom Hill", Position: model.POS_TE, Team: model.TEAM_NO},
		},
		{
			name: "no name",
			in:   internal.Player{ID: "9"},
			want: model.PlaceholderPlayer("9"),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, toPlayer(tc.in))
		})
	}
}
