package sleeper

import (
	"strconv"

	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/sleeper/internal"
	"go.uber.org/zap"
)

// explicitTrades reads completed trade transactions. Sleeper records the
// receiving roster of every player in adds and the sending roster in drops.
type explicitTrades struct {
	raw    []internal.Transaction
	book   *platforms.PlayerBook
	lookup func(string) model.Player
}

func (s *explicitTrades) Name() string {
	return "trade-transactions"
}

func (s *explicitTrades) Detect(sink platforms.DiagnosticSink) []model.Trade {
	seen := make(map[string]bool)
	trades := make([]model.Trade, 0)
	for _, t := range s.raw {
		if t.Type != txTrade || seen[t.TransactionID] {
			continue
		}
		seen[t.TransactionID] = true
		if t.Status != txComplete {
			platforms.Debug(sink, s.Name(), "skipping trade that did not complete",
				zap.String("transaction", t.TransactionID), zap.String("status", t.Status))
			continue
		}

		id := "sl-" + t.TransactionID
		week := max(t.Leg, 1)
		ts := millis(t.StatusUpdated, t.Created)

		moves := make([]platforms.Move, 0, len(t.Adds))
		for _, pid := range sortedKeys(t.Adds) {
			to, from := t.Adds[pid], t.Drops[pid]
			if from == 0 || from == to {
				continue
			}
			s.lookup(pid)
			moves = append(moves, platforms.Move{PlayerID: pid, From: strconv.Itoa(from), To: strconv.Itoa(to)})
		}
		if len(moves) == 0 {
			teams := make([]string, 0, len(t.RosterIDs))
			for _, r := range t.RosterIDs {
				teams = append(teams, strconv.Itoa(r))
			}
			platforms.Warn(sink, s.Name(), "trade without player moves", zap.String("transaction", t.TransactionID))
			trades = append(trades, platforms.IncompleteTrade(id, week, ts, teams))
			continue
		}
		trades = append(trades, platforms.BuildTrade(id, week, ts, moves, s.book))
	}
	return trades
}
