// Package luck separates what a team scored from what its schedule gave it:
// expected wins against the weekly median, all-play records and close games.
package luck

import (
	"math"
	"slices"

	"github.com/mww/league_insights/model"
)

type Options struct {
	// CloseGameMargin is the largest margin, inclusive, that counts as a
	// close game.
	CloseGameMargin float64 `yaml:"close_game_margin"`
}

func DefaultOptions() Options {
	return Options{CloseGameMargin: 10}
}

type teamWeek struct {
	teamID   string
	week     int
	points   float64
	oppID    string
	oppScore float64
	bye      bool
}

// Calculate derives LuckMetrics for every team from the season's matchups.
// Pass only regular season weeks (League.SeasonMatchups): the provider record
// each team carries covers those alone. The result is ordered like teams.
func Calculate(teams []model.Team, matchups []model.Matchup, opts Options) []model.LuckMetrics {
	if opts.CloseGameMargin <= 0 {
		opts.CloseGameMargin = DefaultOptions().CloseGameMargin
	}

	weeks := make(map[int][]teamWeek)
	for _, m := range matchups {
		// not played yet
		if !m.IsBye() && m.HomeScore == 0 && m.AwayScore == 0 {
			continue
		}
		if m.HomeTeamID != "" {
			weeks[m.Week] = append(weeks[m.Week], teamWeek{
				teamID: m.HomeTeamID, week: m.Week, points: m.HomeScore,
				oppID: m.AwayTeamID, oppScore: m.AwayScore, bye: m.IsBye(),
			})
		}
		if m.AwayTeamID != "" {
			weeks[m.Week] = append(weeks[m.Week], teamWeek{
				teamID: m.AwayTeamID, week: m.Week, points: m.AwayScore,
				oppID: m.HomeTeamID, oppScore: m.HomeScore, bye: m.IsBye(),
			})
		}
	}

	weekNums := make([]int, 0, len(weeks))
	for w := range weeks {
		weekNums = append(weekNums, w)
	}
	slices.Sort(weekNums)

	byTeam := make(map[string]*model.LuckMetrics, len(teams))
	out := make([]model.LuckMetrics, len(teams))
	for i, t := range teams {
		out[i] = model.LuckMetrics{TeamID: t.ID, TeamName: t.Name, WeeklyScores: []model.WeeklyScore{}}
		byTeam[t.ID] = &out[i]
	}

	for _, w := range weekNums {
		scores := weeks[w]
		med := Median(pointsOf(scores))
		for _, s := range scores {
			m := byTeam[s.teamID]
			if m == nil {
				continue
			}
			ws := model.WeeklyScore{Week: w, Points: s.points, Median: med}
			if !s.bye {
				ws.OpponentID = s.oppID
				ws.OpponentPoints = s.oppScore
				ws.Result = result(s.points, s.oppScore)
			}

			for _, o := range scores {
				if o.teamID == s.teamID {
					continue
				}
				switch {
				case s.points > o.points:
					ws.AllPlayWins++
				case s.points < o.points:
					ws.AllPlayLosses++
				default:
					ws.AllPlayTies++
				}
			}

			switch {
			case s.points > med:
				m.ExpectedWins++
			case s.points == med:
				m.ExpectedWins += 0.5
			}
			m.WeeklyScores = append(m.WeeklyScores, ws)
		}
	}

	for i, t := range teams {
		finish(&out[i], t, opts)
	}
	rank(out)
	return out
}

func finish(m *model.LuckMetrics, t model.Team, opts Options) {
	var games int
	var wins, losses, ties int
	for _, ws := range m.WeeklyScores {
		m.AllPlayWins += ws.AllPlayWins
		m.AllPlayLosses += ws.AllPlayLosses
		m.AllPlayTies += ws.AllPlayTies
		m.PointsFor += ws.Points

		if ws.Result == "" {
			continue
		}
		games++
		m.PointsAgainst += ws.OpponentPoints
		margin := ws.Margin()
		switch ws.Result {
		case model.ResultWin:
			wins++
			m.BiggestWinMargin = math.Max(m.BiggestWinMargin, margin)
			if margin <= opts.CloseGameMargin {
				m.CloseWins++
			}
		case model.ResultLoss:
			losses++
			m.BiggestLossMargin = math.Max(m.BiggestLossMargin, -margin)
			if -margin <= opts.CloseGameMargin {
				m.CloseLosses++
			}
		default:
			ties++
		}
	}

	// Prefer the provider's season record when it has one.
	if t.GamesPlayed() > 0 {
		m.Wins, m.Losses, m.Ties = t.Wins, t.Losses, t.Ties
		if t.PointsFor > 0 {
			m.PointsFor = t.PointsFor
		}
		if t.PointsAgainst > 0 {
			m.PointsAgainst = t.PointsAgainst
		}
	} else {
		m.Wins, m.Losses, m.Ties = wins, losses, ties
	}

	m.ActualWins = float64(m.Wins) + 0.5*float64(m.Ties)
	m.ExpectedLosses = float64(len(m.WeeklyScores)) - m.ExpectedWins
	m.LuckScore = m.ActualWins - m.ExpectedWins
	m.LuckRating = Rating(m.LuckScore)

	if total := m.AllPlayWins + m.AllPlayLosses + m.AllPlayTies; total > 0 {
		m.AllPlayWinPct = (float64(m.AllPlayWins) + 0.5*float64(m.AllPlayTies)) / float64(total)
	}

	for i, ws := range m.WeeklyScores {
		if i == 0 || ws.Points > m.BestWeek.Points {
			m.BestWeek = ws
		}
		if i == 0 || ws.Points < m.WorstWeek.Points {
			m.WorstWeek = ws
		}
	}
}

func rank(out []model.LuckMetrics) {
	order := func(key func(model.LuckMetrics) float64, set func(*model.LuckMetrics, int)) {
		idx := make([]int, len(out))
		for i := range idx {
			idx[i] = i
		}
		slices.SortStableFunc(idx, func(a, b int) int {
			ka, kb := key(out[a]), key(out[b])
			switch {
			case ka > kb:
				return -1
			case ka < kb:
				return 1
			case out[a].PointsFor > out[b].PointsFor:
				return -1
			case out[a].PointsFor < out[b].PointsFor:
				return 1
			}
			return 0
		})
		for r, i := range idx {
			set(&out[i], r+1)
		}
	}

	order(func(m model.LuckMetrics) float64 { return m.ActualWins }, func(m *model.LuckMetrics, r int) { m.ActualRank = r })
	order(func(m model.LuckMetrics) float64 { return m.ExpectedWins }, func(m *model.LuckMetrics, r int) { m.ExpectedRank = r })
	order(func(m model.LuckMetrics) float64 { return m.AllPlayWinPct }, func(m *model.LuckMetrics, r int) { m.AllPlayRank = r })
}

func Rating(score float64) model.LuckRating {
	switch {
	case score >= 2:
		return model.VeryLucky
	case score >= 1:
		return model.Lucky
	case score <= -2:
		return model.VeryUnlucky
	case score <= -1:
		return model.Unlucky
	default:
		return model.Neutral
	}
}

// Median of the values; an even count averages the middle two.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := slices.Clone(values)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

func result(points, opp float64) model.MatchResult {
	switch {
	case points > opp:
		return model.ResultWin
	case points < opp:
		return model.ResultLoss
	default:
		return model.ResultTie
	}
}

func pointsOf(scores []teamWeek) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = s.points
	}
	return out
}
