package luck

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/mww/league_insights/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourTeams() []model.Team {
	return []model.Team{
		{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Bravo"},
		{ID: "3", Name: "Charlie"},
		{ID: "4", Name: "Delta"},
	}
}

// Weekly medians are 105, 125 and 95. Team 1 scores above all of them.
func threeWeeks() []model.Matchup {
	return []model.Matchup{
		{Week: 1, HomeTeamID: "1", HomeScore: 140, AwayTeamID: "2", AwayScore: 110},
		{Week: 1, HomeTeamID: "3", HomeScore: 100, AwayTeamID: "4", AwayScore: 90},
		{Week: 2, HomeTeamID: "1", HomeScore: 130, AwayTeamID: "3", AwayScore: 120},
		{Week: 2, HomeTeamID: "2", HomeScore: 140, AwayTeamID: "4", AwayScore: 100},
		{Week: 3, HomeTeamID: "1", HomeScore: 130, AwayTeamID: "4", AwayScore: 80},
		{Week: 3, HomeTeamID: "2", HomeScore: 100, AwayTeamID: "3", AwayScore: 90},
	}
}

func TestCalculate_scenario(t *testing.T) {
	got := Calculate(fourTeams(), threeWeeks(), DefaultOptions())
	require.Len(t, got, 4)

	alpha := got[0]
	assert.Equal(t, "1", alpha.TeamID)
	assert.Equal(t, 3.0, alpha.ExpectedWins)
	assert.Equal(t, 3.0, alpha.ActualWins)
	assert.Equal(t, 0.0, alpha.LuckScore)
	assert.Equal(t, model.Neutral, alpha.LuckRating)
	assert.Equal(t, 8, alpha.AllPlayWins)
	assert.Equal(t, 1, alpha.AllPlayLosses)
	assert.Equal(t, 1, alpha.ActualRank)
	assert.Equal(t, 400.0, alpha.PointsFor)
	assert.Equal(t, 310.0, alpha.PointsAgainst)
	assert.Equal(t, []float64{105, 125, 95}, medians(alpha))
	assert.Equal(t, 1, alpha.CloseWins, "130-120 in week 2 is a close win")
	assert.Equal(t, 50.0, alpha.BiggestWinMargin)
	assert.Equal(t, 1, alpha.BestWeek.Week)
	assert.Equal(t, 130.0, alpha.WorstWeek.Points)

	// Bravo beats the median every week but lost to Alpha in week 1
	bravo := got[1]
	assert.Equal(t, 3.0, bravo.ExpectedWins)
	assert.Equal(t, 2.0, bravo.ActualWins)
	assert.Equal(t, -1.0, bravo.LuckScore)
	assert.Equal(t, model.Unlucky, bravo.LuckRating)

	// Charlie: 100 (below 105), 120 (below 125), 90 (below 95) but won once
	charlie := got[2]
	assert.Equal(t, 0.0, charlie.ExpectedWins)
	assert.Equal(t, 1.0, charlie.ActualWins)
	assert.Equal(t, model.Lucky, charlie.LuckRating)
	assert.Equal(t, 1, charlie.CloseWins)
	assert.Equal(t, 2, charlie.CloseLosses)
}

func TestCalculate_luckScoreAndAllPlayInvariants(t *testing.T) {
	faker := gofakeit.New(3)
	const numTeams, numWeeks = 10, 14

	teams := make([]model.Team, numTeams)
	for i := range teams {
		teams[i] = model.Team{ID: fmt.Sprintf("%d", i+1), Name: faker.Name()}
	}
	matchups := make([]model.Matchup, 0, numTeams/2*numWeeks)
	for w := 1; w <= numWeeks; w++ {
		perm := faker.ShuffleInts
		order := make([]int, numTeams)
		for i := range order {
			order[i] = i
		}
		perm(order)
		for i := 0; i < numTeams; i += 2 {
			matchups = append(matchups, model.Matchup{
				Week:       w,
				HomeTeamID: teams[order[i]].ID,
				HomeScore:  float64(faker.IntRange(60, 160)),
				AwayTeamID: teams[order[i+1]].ID,
				AwayScore:  float64(faker.IntRange(60, 160)),
			})
		}
	}

	for _, m := range Calculate(teams, matchups, DefaultOptions()) {
		assert.Equal(t, m.ActualWins-m.ExpectedWins, m.LuckScore, "team %s", m.TeamID)
		assert.Equal(t, (numTeams-1)*numWeeks, m.AllPlayWins+m.AllPlayLosses+m.AllPlayTies, "team %s", m.TeamID)
		assert.Equal(t, numWeeks, m.Wins+m.Losses+m.Ties)
		assert.Len(t, m.WeeklyScores, numWeeks)
		for i := 1; i < len(m.WeeklyScores); i++ {
			assert.Less(t, m.WeeklyScores[i-1].Week, m.WeeklyScores[i].Week)
		}
	}
}

func TestCalculate_usesSeasonRecordWhenPresent(t *testing.T) {
	teams := fourTeams()
	teams[0].Wins, teams[0].Losses, teams[0].Ties = 1, 1, 1
	got := Calculate(teams, threeWeeks(), DefaultOptions())
	assert.Equal(t, 1.5, got[0].ActualWins)
	assert.Equal(t, -1.5, got[0].LuckScore)
	assert.Equal(t, model.Unlucky, got[0].LuckRating)
}

func TestCalculate_regularSeasonOnly(t *testing.T) {
	l := model.League{
		RegularSeasonEnd: 2,
		Teams: []model.Team{
			{ID: "a", Wins: 2},
			{ID: "b", Losses: 2},
		},
		Matchups: []model.Matchup{
			{Week: 1, HomeTeamID: "a", HomeScore: 120, AwayTeamID: "b", AwayScore: 100},
			{Week: 2, HomeTeamID: "a", HomeScore: 110, AwayTeamID: "b", AwayScore: 90},
			// playoffs
			{Week: 3, HomeTeamID: "a", HomeScore: 130, AwayTeamID: "b", AwayScore: 80},
		},
	}

	got := Calculate(l.Teams, l.SeasonMatchups(), DefaultOptions())
	assert.Equal(t, 2.0, got[0].ActualWins)
	assert.Equal(t, 2.0, got[0].ExpectedWins)
	assert.Equal(t, 0.0, got[0].LuckScore)
	assert.Equal(t, model.Neutral, got[0].LuckRating)
	assert.Len(t, got[0].WeeklyScores, 2)
}

func TestCalculate_skipsUnplayedWeek(t *testing.T) {
	teams := []model.Team{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	matchups := []model.Matchup{
		{Week: 1, HomeTeamID: "a", HomeScore: 120, AwayTeamID: "b", AwayScore: 100},
		{Week: 1, HomeTeamID: "c", HomeScore: 90, AwayTeamID: "d", AwayScore: 80},
		{Week: 2, HomeTeamID: "a", AwayTeamID: "c"},
		{Week: 2, HomeTeamID: "b", AwayTeamID: "d"},
	}

	got := Calculate(teams, matchups, DefaultOptions())
	a := got[0]
	assert.Equal(t, 1, a.Wins)
	assert.Zero(t, a.Ties)
	assert.Equal(t, 1.0, a.ExpectedWins)
	assert.Equal(t, 3, a.AllPlayWins)
	assert.Zero(t, a.AllPlayTies)
	assert.Len(t, a.WeeklyScores, 1)
	for _, m := range got {
		assert.Zero(t, m.Ties, "team %s", m.TeamID)
	}
}

func TestCalculate_medianTieIsHalfWin(t *testing.T) {
	teams := []model.Team{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	matchups := []model.Matchup{
		{Week: 1, HomeTeamID: "a", HomeScore: 100, AwayTeamID: "b", AwayScore: 90},
		{Week: 1, HomeTeamID: "c", HomeScore: 80}, // bye
	}
	got := Calculate(teams, matchups, DefaultOptions())
	assert.Equal(t, 1.0, got[0].ExpectedWins)
	assert.Equal(t, 0.5, got[1].ExpectedWins)
	assert.Equal(t, 0.0, got[2].ExpectedWins)
	assert.Equal(t, 0, got[2].Wins+got[2].Losses+got[2].Ties, "a bye is not a game")
	assert.Equal(t, 2, got[2].AllPlayLosses)
}

func TestCalculate_closeGameThreshold(t *testing.T) {
	teams := []model.Team{{ID: "a"}, {ID: "b"}}
	matchups := []model.Matchup{
		{Week: 1, HomeTeamID: "a", HomeScore: 100, AwayTeamID: "b", AwayScore: 85},
		{Week: 2, HomeTeamID: "a", HomeScore: 90, AwayTeamID: "b", AwayScore: 90},
	}

	got := Calculate(teams, matchups, Options{CloseGameMargin: 15})
	assert.Equal(t, 1, got[0].CloseWins)
	assert.Equal(t, 1, got[1].CloseLosses)
	assert.Equal(t, 1, got[0].Ties, "ties are never close games")

	got = Calculate(teams, matchups, Options{CloseGameMargin: 10})
	assert.Equal(t, 0, got[0].CloseWins)
}

func TestRating(t *testing.T) {
	tests := []struct {
		score float64
		want  model.LuckRating
	}{
		{score: 3, want: model.VeryLucky},
		{score: 2, want: model.VeryLucky},
		{score: 1.5, want: model.Lucky},
		{score: 1, want: model.Lucky},
		{score: 0.5, want: model.Neutral},
		{score: -0.5, want: model.Neutral},
		{score: -1, want: model.Unlucky},
		{score: -2, want: model.VeryUnlucky},
	}
	for _, tc := range tests {
		if got := Rating(tc.score); got != tc.want {
			t.Errorf("score %v: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 5.0, Median([]float64{9, 1, 5}))
	assert.Equal(t, 105.0, Median([]float64{140, 90, 110, 100}))
}

func medians(m model.LuckMetrics) []float64 {
	out := make([]float64, 0, len(m.WeeklyScores))
	for _, ws := range m.WeeklyScores {
		out = append(out, ws.Median)
	}
	return out
}
