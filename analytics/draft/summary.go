package draft

import (
	"slices"

	"github.com/mww/league_insights/model"
)

// TeamSummary rolls up one team's graded picks.
type TeamSummary struct {
	TeamID            string
	TeamName          string
	Picks             int
	Great             int
	Good              int
	Bad               int
	Terrible          int
	ValueOverExpected int
	SeasonPoints      float64
}

// Score weights grades so teams can be compared: great +3, good +1, bad -1,
// terrible -3.
func (s TeamSummary) Score() int {
	return 3*s.Great + s.Good - s.Bad - 3*s.Terrible
}

// Summaries groups graded picks by team, ordered by team id.
func Summaries(picks []model.DraftPick) []TeamSummary {
	byTeam := make(map[string]*TeamSummary)
	for _, p := range picks {
		s, ok := byTeam[p.TeamID]
		if !ok {
			s = &TeamSummary{TeamID: p.TeamID, TeamName: p.TeamName}
			byTeam[p.TeamID] = s
		}
		s.Picks++
		s.ValueOverExpected += p.ValueOverExpected
		s.SeasonPoints += p.SeasonPoints
		switch p.Grade {
		case model.GradeGreat:
			s.Great++
		case model.GradeGood:
			s.Good++
		case model.GradeBad:
			s.Bad++
		case model.GradeTerrible:
			s.Terrible++
		}
	}

	out := make([]TeamSummary, 0, len(byTeam))
	for _, s := range byTeam {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b TeamSummary) int {
		switch {
		case a.TeamID < b.TeamID:
			return -1
		case a.TeamID > b.TeamID:
			return 1
		}
		return 0
	})
	return out
}

// ApplyToLeague returns a copy of l whose teams carry the graded picks.
func ApplyToLeague(l *model.League, graded []model.DraftPick) *model.League {
	byTeam := make(map[string][]model.DraftPick)
	for _, p := range graded {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}
	e := *l
	e.Teams = make([]model.Team, len(l.Teams))
	for i, t := range l.Teams {
		t.DraftPicks = byTeam[t.ID]
		if t.DraftPicks == nil {
			t.DraftPicks = []model.DraftPick{}
		}
		e.Teams[i] = t
	}
	return &e
}
