package yahoo

import (
	"time"

	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/yahoo/internal"
	"go.uber.org/zap"
)

// tradeTransactions reads accepted trades from the league transaction feed.
// Every traded player carries its source and destination team.
type tradeTransactions struct {
	raw      []internal.Transaction
	calendar *platforms.WeekCalendar
	book     *platforms.PlayerBook
}

func (s *tradeTransactions) Name() string {
	return "trade-transactions"
}

func (s *tradeTransactions) Detect(sink platforms.DiagnosticSink) []model.Trade {
	seen := make(map[string]bool)
	trades := make([]model.Trade, 0)
	for _, t := range s.raw {
		if t.Type != txTrade || seen[t.Key] {
			continue
		}
		seen[t.Key] = true
		if t.Status != txSuccessful {
			platforms.Debug(sink, s.Name(), "skipping trade that was not accepted",
				zap.String("transaction", t.Key), zap.String("status", t.Status))
			continue
		}

		ts := time.Unix(t.Timestamp, 0).UTC()
		week := s.calendar.Week(ts)

		moves := make([]platforms.Move, 0)
		if t.Players != nil {
			for _, p := range t.Players.Players {
				d := p.TransactionData
				if d == nil || d.Type != txTrade || d.SourceTeamKey == "" || d.DestinationTeamKey == "" {
					continue
				}
				player := toPlayer(p)
				s.book.Observe(player)
				moves = append(moves, platforms.Move{
					PlayerID: player.ID,
					From:     parseID(d.SourceTeamKey),
					To:       parseID(d.DestinationTeamKey),
				})
			}
		}
		if len(moves) == 0 {
			platforms.Warn(sink, s.Name(), "trade without player moves", zap.String("transaction", t.Key))
			teams := make([]string, 0, 2)
			for _, k := range []string{t.TraderTeamKey, t.TradeeTeamKey} {
				if k != "" {
					teams = append(teams, parseID(k))
				}
			}
			trades = append(trades, platforms.IncompleteTrade(t.Key, week, ts, teams))
			continue
		}
		trades = append(trades, platforms.BuildTrade(t.Key, week, ts, moves, s.book))
	}
	return trades
}
