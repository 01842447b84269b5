// Package awards hands out end of season superlatives. Every award is
// computed on its own and is simply left out when its inputs are missing.
package awards

import (
	"fmt"

	"github.com/mww/league_insights/analytics/draft"
	"github.com/mww/league_insights/model"
)

// TradeAddictMinimum is the number of trades a team needs for Trade Addict.
const TradeAddictMinimum = 3

type awardFunc func(l *model.League, luck []model.LuckMetrics) *model.Award

var all = []awardFunc{
	regularSeasonChamp,
	pointsMachine,
	cellarDweller,
	highestScoringWeek,
	punchingBag,

	luckiest,
	unluckiest,
	clutch,
	heartbreak,
	allPlayChampion,

	mostActive,
	setAndForget,

	draftGenius,
	bestValuePick,
	biggestBust,

	tradeAddict,
	tradeShark,
	fleeced,
	mostLopsided,

	waiverWizard,
	bestPickup,
	bigSpender,
}

// Compute scans the league and returns every award whose preconditions are
// met. luck may be nil.
func Compute(l *model.League, luck []model.LuckMetrics) []model.Award {
	out := make([]model.Award, 0, len(all))
	if l == nil || len(l.Teams) == 0 {
		return out
	}
	for _, f := range all {
		if a := f(l, luck); a != nil {
			out = append(out, *a)
		}
	}
	return out
}

func newAward(l *model.League, id, title, desc string, cat model.AwardCategory, teamID string, value float64, detail string) *model.Award {
	return &model.Award{
		ID:          id,
		Title:       title,
		Description: desc,
		Category:    cat,
		TeamID:      teamID,
		TeamName:    l.TeamName(teamID),
		Value:       value,
		Detail:      detail,
	}
}

// betterRecord orders by wins then points for.
func betterRecord(a, b model.Team) bool {
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	return a.PointsFor > b.PointsFor
}

// pickTeam returns the team no other team is better than. The earliest
// team wins ties.
func pickTeam(teams []model.Team, better func(a, b model.Team) bool) model.Team {
	best := teams[0]
	for _, t := range teams[1:] {
		if better(t, best) {
			best = t
		}
	}
	return best
}

func regularSeasonChamp(l *model.League, _ []model.LuckMetrics) *model.Award {
	t := pickTeam(l.Teams, betterRecord)
	if t.GamesPlayed() == 0 {
		return nil
	}
	return newAward(l, "regular-season-champ", "Regular Season Champ", "Best record in the league",
		model.AwardPerformance, t.ID, float64(t.Wins), fmt.Sprintf("%d-%d-%d", t.Wins, t.Losses, t.Ties))
}

func pointsMachine(l *model.League, _ []model.LuckMetrics) *model.Award {
	t := pickTeam(l.Teams, func(a, b model.Team) bool {
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		return a.Wins > b.Wins
	})
	if t.PointsFor <= 0 {
		return nil
	}
	return newAward(l, "points-machine", "Points Machine", "Most points scored",
		model.AwardPerformance, t.ID, t.PointsFor, fmt.Sprintf("%.1f points", t.PointsFor))
}

func cellarDweller(l *model.League, _ []model.LuckMetrics) *model.Award {
	if len(l.Teams) < 2 {
		return nil
	}
	t := pickTeam(l.Teams, func(a, b model.Team) bool { return betterRecord(b, a) })
	if t.GamesPlayed() == 0 {
		return nil
	}
	return newAward(l, "cellar-dweller", "Cellar Dweller", "Worst record in the league",
		model.AwardPerformance, t.ID, float64(t.Wins), fmt.Sprintf("%d-%d-%d", t.Wins, t.Losses, t.Ties))
}

func highestScoringWeek(l *model.League, _ []model.LuckMetrics) *model.Award {
	var best *model.Matchup
	var teamID string
	var points float64
	for i, m := range l.Matchups {
		if best == nil || m.HomeScore > points {
			best, teamID, points = &l.Matchups[i], m.HomeTeamID, m.HomeScore
		}
		if m.AwayTeamID != "" && m.AwayScore > points {
			best, teamID, points = &l.Matchups[i], m.AwayTeamID, m.AwayScore
		}
	}
	if best == nil || points <= 0 {
		return nil
	}
	return newAward(l, "highest-scoring-week", "Boom Week", "Highest single week score",
		model.AwardPerformance, teamID, points, fmt.Sprintf("%.1f points in week %d", points, best.Week))
}

func punchingBag(l *model.League, _ []model.LuckMetrics) *model.Award {
	t := pickTeam(l.Teams, func(a, b model.Team) bool { return a.PointsAgainst > b.PointsAgainst })
	if t.PointsAgainst <= 0 {
		return nil
	}
	return newAward(l, "punching-bag", "Punching Bag", "Most points scored against",
		model.AwardPerformance, t.ID, t.PointsAgainst, fmt.Sprintf("%.1f points against", t.PointsAgainst))
}

func mostActive(l *model.League, _ []model.LuckMetrics) *model.Award {
	t := pickTeam(l.Teams, func(a, b model.Team) bool { return len(a.Transactions) > len(b.Transactions) })
	if len(t.Transactions) == 0 {
		return nil
	}
	n := len(t.Transactions)
	return newAward(l, "most-active", "Most Active", "Most waiver and free agent moves",
		model.AwardActivity, t.ID, float64(n), fmt.Sprintf("%d moves", n))
}

func setAndForget(l *model.League, _ []model.LuckMetrics) *model.Award {
	if len(l.Teams) < 2 {
		return nil
	}
	t := pickTeam(l.Teams, func(a, b model.Team) bool { return len(a.Transactions) < len(b.Transactions) })
	n := len(t.Transactions)
	return newAward(l, "set-and-forget", "Set It and Forget It", "Fewest waiver and free agent moves",
		model.AwardActivity, t.ID, float64(n), fmt.Sprintf("%d moves", n))
}

func gradedPicks(l *model.League) []model.DraftPick {
	out := make([]model.DraftPick, 0)
	for _, p := range l.AllDraftPicks() {
		if p.Graded() {
			out = append(out, p)
		}
	}
	return out
}

func draftGenius(l *model.League, _ []model.LuckMetrics) *model.Award {
	summaries := draft.Summaries(gradedPicks(l))
	if len(summaries) == 0 {
		return nil
	}
	best := summaries[0]
	for _, s := range summaries[1:] {
		if s.Score() > best.Score() || (s.Score() == best.Score() && s.ValueOverExpected > best.ValueOverExpected) {
			best = s
		}
	}
	return newAward(l, "draft-genius", "Draft Day Genius", "Best graded draft",
		model.AwardDraft, best.TeamID, float64(best.Score()),
		fmt.Sprintf("%d great, %d good, %d bad, %d terrible", best.Great, best.Good, best.Bad, best.Terrible))
}

func bestValuePick(l *model.League, _ []model.LuckMetrics) *model.Award {
	picks := gradedPicks(l)
	if len(picks) == 0 {
		return nil
	}
	best := picks[0]
	for _, p := range picks[1:] {
		if p.ValueOverExpected > best.ValueOverExpected {
			best = p
		}
	}
	if best.ValueOverExpected <= 0 {
		return nil
	}
	return newAward(l, "best-value-pick", "Best Value Pick", "Draft pick that most outperformed its slot",
		model.AwardDraft, best.TeamID, float64(best.ValueOverExpected),
		fmt.Sprintf("%s drafted %s%d, finished %s%d", best.Player.Name, best.Player.Position, best.ExpectedRank, best.Player.Position, best.PositionRank))
}

// biggestBust only looks at the first three rounds.
func biggestBust(l *model.League, _ []model.LuckMetrics) *model.Award {
	var worst *model.DraftPick
	for _, p := range gradedPicks(l) {
		if p.Round > 3 {
			continue
		}
		if worst == nil || p.ValueOverExpected < worst.ValueOverExpected {
			worst = &p
		}
	}
	if worst == nil || worst.ValueOverExpected >= 0 {
		return nil
	}
	return newAward(l, "biggest-bust", "Biggest Bust", "Early pick that most underperformed its slot",
		model.AwardDraft, worst.TeamID, float64(worst.ValueOverExpected),
		fmt.Sprintf("%s drafted %s%d, finished %s%d", worst.Player.Name, worst.Player.Position, worst.ExpectedRank, worst.Player.Position, worst.PositionRank))
}

func waiverWizard(l *model.League, _ []model.LuckMetrics) *model.Award {
	var bestTeam string
	var bestPAR float64
	for _, t := range l.Teams {
		var total float64
		for _, tx := range t.Transactions {
			total += tx.TotalPAR
		}
		if total > bestPAR {
			bestTeam, bestPAR = t.ID, total
		}
	}
	if bestTeam == "" {
		return nil
	}
	return newAward(l, "waiver-wizard", "Waiver Wizard", "Most value above replacement from pickups",
		model.AwardWaivers, bestTeam, bestPAR, fmt.Sprintf("%.1f PAR from pickups", bestPAR))
}

func bestPickup(l *model.League, _ []model.LuckMetrics) *model.Award {
	var best *model.PickupPlayer
	var teamID string
	var week int
	for _, t := range l.Teams {
		for _, tx := range t.Transactions {
			for i, add := range tx.Adds {
				if best == nil || add.PointsAboveReplacement > best.PointsAboveReplacement {
					best, teamID, week = &tx.Adds[i], t.ID, tx.Week
				}
			}
		}
	}
	if best == nil || best.PointsAboveReplacement <= 0 {
		return nil
	}
	return newAward(l, "best-pickup", "Best Pickup", "Single most valuable waiver or free agent add",
		model.AwardWaivers, teamID, best.PointsAboveReplacement,
		fmt.Sprintf("%s in week %d: %.1f points in %d starts", best.Name, week, best.PointsSincePickup, best.GamesSincePickup))
}

func bigSpender(l *model.League, _ []model.LuckMetrics) *model.Award {
	var bestTeam string
	best := 0
	for _, t := range l.Teams {
		spent := 0
		for _, tx := range t.Transactions {
			if tx.WaiverBudgetSpent != nil {
				spent += *tx.WaiverBudgetSpent
			}
		}
		if spent > best {
			bestTeam, best = t.ID, spent
		}
	}
	if bestTeam == "" {
		return nil
	}
	return newAward(l, "big-spender", "Big Spender", "Most waiver budget spent",
		model.AwardWaivers, bestTeam, float64(best), fmt.Sprintf("$%d spent", best))
}
