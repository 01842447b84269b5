package par

import (
	"math"
	"slices"

	"github.com/mww/league_insights/model"
)

// EnrichTransactions returns copies of txs with PAR attached to every added
// player and the transaction aggregates filled in. txs is not modified.
func (c *Calculator) EnrichTransactions(txs []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = c.EnrichTransaction(tx)
	}
	return out
}

func (c *Calculator) EnrichTransaction(tx model.Transaction) model.Transaction {
	e := tx.Clone()
	e.TotalPointsGenerated, e.GamesStarted, e.TotalPAR = 0, 0, 0
	for i, add := range e.Adds {
		add.PointsAboveReplacement = c.WaiverPAR(add.Position, add.PointsSincePickup, add.GamesSincePickup)
		e.Adds[i] = add

		e.TotalPointsGenerated += add.PointsSincePickup
		e.TotalPAR += add.PointsAboveReplacement
		// Games started is reported for the busiest pickup so it stays
		// bounded by the weeks since the transaction.
		e.GamesStarted = max(e.GamesStarted, add.GamesSincePickup)
	}
	return e
}

// EnrichTrades returns copies of trades with PAR attached to every side and
// the winner decided.
func (c *Calculator) EnrichTrades(trades []model.Trade, threshold float64) []model.Trade {
	out := make([]model.Trade, len(trades))
	for i, t := range trades {
		out[i] = c.EnrichTrade(t, threshold)
	}
	return out
}

func (c *Calculator) EnrichTrade(t model.Trade, threshold float64) model.Trade {
	e := t.Clone()
	e.Winner, e.WinnerMargin = "", 0
	for i := range e.Teams {
		side := &e.Teams[i]
		side.ParGained, side.ParLost, side.PointsGained, side.PointsLost = 0, 0, 0, 0
		for j, p := range side.PlayersReceived {
			p.PAR = c.GamesPAR(p.Position, p.PointsAfterTrade, p.GamesAfterTrade)
			side.PlayersReceived[j] = p
			side.ParGained += p.PAR
			side.PointsGained += p.PointsAfterTrade
		}
		for j, p := range side.PlayersSent {
			p.PAR = c.GamesPAR(p.Position, p.PointsAfterTrade, p.GamesAfterTrade)
			side.PlayersSent[j] = p
			side.ParLost += p.PAR
			side.PointsLost += p.PointsAfterTrade
		}
		side.NetPAR = side.ParGained - side.ParLost
		side.NetPoints = side.PointsGained - side.PointsLost
	}

	if e.IsIncomplete || len(e.Teams) < 2 {
		return e
	}

	ranked := slices.Clone(e.Teams)
	slices.SortStableFunc(ranked, func(a, b model.TradeSide) int {
		switch {
		case a.NetPAR > b.NetPAR:
			return -1
		case a.NetPAR < b.NetPAR:
			return 1
		}
		return 0
	})
	margin := ranked[0].NetPAR - ranked[1].NetPAR
	if math.Abs(margin) > threshold {
		e.Winner = ranked[0].TeamID
		e.WinnerMargin = margin
	}
	return e
}

// EnrichLeague returns a copy of l with every waiver pickup and trade valued.
// Team level trades are the league trades involving that team.
func (c *Calculator) EnrichLeague(l *model.League, threshold float64) *model.League {
	e := *l
	e.Trades = c.EnrichTrades(l.Trades, threshold)
	e.Teams = make([]model.Team, len(l.Teams))
	for i, t := range l.Teams {
		t.Transactions = c.EnrichTransactions(t.Transactions)
		t.Trades = make([]model.Trade, 0)
		for _, tr := range e.Trades {
			if tr.Involves(t.ID) {
				t.Trades = append(t.Trades, tr)
			}
		}
		e.Teams[i] = t
	}
	return &e
}
