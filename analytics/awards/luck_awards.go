package awards

import (
	"fmt"

	"github.com/mww/league_insights/model"
)

func pickLuck(luck []model.LuckMetrics, better func(a, b model.LuckMetrics) bool) *model.LuckMetrics {
	if len(luck) == 0 {
		return nil
	}
	best := luck[0]
	for _, m := range luck[1:] {
		if better(m, best) {
			best = m
		}
	}
	return &best
}

func luckiest(l *model.League, luck []model.LuckMetrics) *model.Award {
	m := pickLuck(luck, func(a, b model.LuckMetrics) bool { return a.LuckScore > b.LuckScore })
	if m == nil || m.LuckScore <= 0 {
		return nil
	}
	return newAward(l, "luckiest", "Horseshoe Award", "Most wins above expected",
		model.AwardLuck, m.TeamID, m.LuckScore, fmt.Sprintf("%.1f actual vs %.1f expected wins", m.ActualWins, m.ExpectedWins))
}

func unluckiest(l *model.League, luck []model.LuckMetrics) *model.Award {
	m := pickLuck(luck, func(a, b model.LuckMetrics) bool { return a.LuckScore < b.LuckScore })
	if m == nil || m.LuckScore >= 0 {
		return nil
	}
	return newAward(l, "unluckiest", "Black Cat Award", "Most wins below expected",
		model.AwardLuck, m.TeamID, m.LuckScore, fmt.Sprintf("%.1f actual vs %.1f expected wins", m.ActualWins, m.ExpectedWins))
}

func clutch(l *model.League, luck []model.LuckMetrics) *model.Award {
	m := pickLuck(luck, func(a, b model.LuckMetrics) bool { return a.CloseWins > b.CloseWins })
	if m == nil || m.CloseWins == 0 {
		return nil
	}
	return newAward(l, "clutch", "Ice in the Veins", "Most close wins",
		model.AwardLuck, m.TeamID, float64(m.CloseWins), fmt.Sprintf("%d-%d in close games", m.CloseWins, m.CloseLosses))
}

func heartbreak(l *model.League, luck []model.LuckMetrics) *model.Award {
	m := pickLuck(luck, func(a, b model.LuckMetrics) bool { return a.CloseLosses > b.CloseLosses })
	if m == nil || m.CloseLosses == 0 {
		return nil
	}
	return newAward(l, "heartbreak", "Heartbreak Kid", "Most close losses",
		model.AwardLuck, m.TeamID, float64(m.CloseLosses), fmt.Sprintf("%d-%d in close games", m.CloseWins, m.CloseLosses))
}

func allPlayChampion(l *model.League, luck []model.LuckMetrics) *model.Award {
	m := pickLuck(luck, func(a, b model.LuckMetrics) bool {
		if a.AllPlayWinPct != b.AllPlayWinPct {
			return a.AllPlayWinPct > b.AllPlayWinPct
		}
		return a.PointsFor > b.PointsFor
	})
	if m == nil || m.AllPlayWins+m.AllPlayLosses+m.AllPlayTies == 0 {
		return nil
	}
	return newAward(l, "all-play-champion", "All-Play Champion", "Best record against every team every week",
		model.AwardLuck, m.TeamID, m.AllPlayWinPct, fmt.Sprintf("%d-%d-%d all-play", m.AllPlayWins, m.AllPlayLosses, m.AllPlayTies))
}
