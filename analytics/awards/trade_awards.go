package awards

import (
	"fmt"

	"github.com/mww/league_insights/model"
)

type tradeTally struct {
	teamID string
	trades int
	netPAR float64
}

// tallyTrades aggregates complete trades per team in league team order.
func tallyTrades(l *model.League) []tradeTally {
	byTeam := make(map[string]*tradeTally)
	for _, tr := range l.Trades {
		for _, side := range tr.Teams {
			t, ok := byTeam[side.TeamID]
			if !ok {
				t = &tradeTally{teamID: side.TeamID}
				byTeam[side.TeamID] = t
			}
			t.trades++
			if !tr.IsIncomplete {
				t.netPAR += side.NetPAR
			}
		}
	}
	out := make([]tradeTally, 0, len(byTeam))
	for _, team := range l.Teams {
		if t, ok := byTeam[team.ID]; ok {
			out = append(out, *t)
		}
	}
	return out
}

func pickTally(l *model.League, better func(a, b tradeTally) bool) *tradeTally {
	tallies := tallyTrades(l)
	if len(tallies) == 0 {
		return nil
	}
	best := tallies[0]
	for _, t := range tallies[1:] {
		if better(t, best) {
			best = t
		}
	}
	return &best
}

func tradeAddict(l *model.League, _ []model.LuckMetrics) *model.Award {
	t := pickTally(l, func(a, b tradeTally) bool { return a.trades > b.trades })
	if t == nil || t.trades < TradeAddictMinimum {
		return nil
	}
	return newAward(l, "trade-addict", "Trade Addict", "Most trades made",
		model.AwardTrades, t.teamID, float64(t.trades), fmt.Sprintf("%d trades", t.trades))
}

func tradeShark(l *model.League, _ []model.LuckMetrics) *model.Award {
	t := pickTally(l, func(a, b tradeTally) bool { return a.netPAR > b.netPAR })
	if t == nil || t.netPAR <= 0 {
		return nil
	}
	return newAward(l, "trade-shark", "Trade Shark", "Most value gained through trades",
		model.AwardTrades, t.teamID, t.netPAR, fmt.Sprintf("%+.1f net PAR", t.netPAR))
}

func fleeced(l *model.League, _ []model.LuckMetrics) *model.Award {
	t := pickTally(l, func(a, b tradeTally) bool { return a.netPAR < b.netPAR })
	if t == nil || t.netPAR >= 0 {
		return nil
	}
	return newAward(l, "fleeced", "Fleeced", "Most value lost through trades",
		model.AwardTrades, t.teamID, t.netPAR, fmt.Sprintf("%+.1f net PAR", t.netPAR))
}

func mostLopsided(l *model.League, _ []model.LuckMetrics) *model.Award {
	var best *model.Trade
	for i, tr := range l.Trades {
		if tr.Winner == "" {
			continue
		}
		if best == nil || tr.WinnerMargin > best.WinnerMargin {
			best = &l.Trades[i]
		}
	}
	if best == nil {
		return nil
	}
	return newAward(l, "most-lopsided-trade", "Highway Robbery", "Most lopsided trade of the season",
		model.AwardTrades, best.Winner, best.WinnerMargin, fmt.Sprintf("won a week %d trade by %.1f PAR", best.Week, best.WinnerMargin))
}
