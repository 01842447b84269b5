package espn

import (
	"slices"
	"strconv"
	"time"

	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/espn/internal"
	"go.uber.org/zap"
)

// communicationStrategy reads trades from the league activity feed. Item
// exchanges only count when a finalized event is close by, proposals show up
// in the feed too.
type communicationStrategy struct {
	topics   []internal.Topic
	tables   Tables
	window   time.Duration
	calendar *platforms.WeekCalendar
	book     *platforms.PlayerBook
}

func (s *communicationStrategy) Name() string {
	return "communication"
}

func (s *communicationStrategy) Detect(sink platforms.DiagnosticSink) []model.Trade {
	finalized := make([]time.Time, 0)
	for _, t := range s.topics {
		for _, m := range t.Messages {
			if m.MessageTypeID == s.tables.TradeFinalizedMessage {
				finalized = append(finalized, messageTime(t, m))
			}
		}
	}
	if len(finalized) == 0 {
		platforms.Debug(sink, s.Name(), "no finalized trade events in feed", zap.Int("topics", len(s.topics)))
		return nil
	}

	trades := make([]model.Trade, 0)
	for _, t := range s.topics {
		moves := make([]platforms.Move, 0)
		teams := make(map[string]bool)
		for _, m := range t.Messages {
			if m.MessageTypeID != s.tables.TradeItemMessage || m.From == m.To {
				continue
			}
			mv := platforms.Move{PlayerID: strconv.Itoa(m.TargetID), From: strconv.Itoa(m.From), To: strconv.Itoa(m.To)}
			moves = append(moves, mv)
			teams[mv.To] = true
		}
		if len(teams) < 2 {
			continue
		}

		ts := time.UnixMilli(t.Date).UTC()
		if !near(ts, finalized, s.window) {
			platforms.Debug(sink, s.Name(), "trade items without finalized event", zap.String("topic", t.ID), zap.Time("date", ts))
			continue
		}
		week := s.calendar.Week(ts)
		trades = append(trades, platforms.BuildTrade("comm-"+t.ID, week, ts, moves, s.book))
	}
	return trades
}

func messageTime(t internal.Topic, m internal.Message) time.Time {
	if m.Date != 0 {
		return time.UnixMilli(m.Date).UTC()
	}
	return time.UnixMilli(t.Date).UTC()
}

func near(ts time.Time, events []time.Time, window time.Duration) bool {
	for _, e := range events {
		d := e.Sub(ts)
		if d < 0 {
			d = -d
		}
		if d <= window {
			return true
		}
	}
	return false
}

// recordStrategy pairs accepted trade records with the proposal that carries
// their items. Pairing tries the accepted record's reference to the proposal,
// the proposal's reference to the accepted record, shared teams and finally
// the closest proposal in time. Accepted trades whose items can not be found
// are still reported, without players.
type recordStrategy struct {
	accepted  []internal.Transaction
	proposals []internal.Transaction
	tolerance time.Duration
	book      *platforms.PlayerBook
}

func newRecordStrategy(raw []internal.Transaction, tolerance time.Duration, book *platforms.PlayerBook) *recordStrategy {
	s := &recordStrategy{tolerance: tolerance, book: book}
	seen := make(map[string]bool)
	for _, t := range raw {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		switch t.Type {
		case txTradeAccept:
			s.accepted = append(s.accepted, t)
		case txTradeProposal:
			s.proposals = append(s.proposals, t)
		}
	}
	slices.SortFunc(s.accepted, func(a, b internal.Transaction) int { return timestamp(a).Compare(timestamp(b)) })
	return s
}

func (s *recordStrategy) Name() string {
	return "transaction-records"
}

func (s *recordStrategy) Detect(sink platforms.DiagnosticSink) []model.Trade {
	used := make(map[string]bool)
	trades := make([]model.Trade, 0, len(s.accepted))
	for _, acc := range s.accepted {
		ts := timestamp(acc)
		week := max(acc.ScoringPeriodID, 1)
		id := "tx-" + acc.ID

		moves := tradeMoves(acc)
		teams := tradeTeams(acc)
		if len(moves) == 0 {
			if p, how := s.match(acc, used); p != nil {
				used[p.ID] = true
				moves = tradeMoves(*p)
				teams = append(teams, tradeTeams(*p)...)
				platforms.Debug(sink, s.Name(), "matched accepted trade to proposal",
					zap.String("accepted", acc.ID), zap.String("proposal", p.ID), zap.String("by", how))
			}
		}

		if len(moves) == 0 {
			platforms.Warn(sink, s.Name(), "trade items could not be resolved", zap.String("accepted", acc.ID))
			trades = append(trades, platforms.IncompleteTrade(id, week, ts, teams))
			continue
		}
		trades = append(trades, platforms.BuildTrade(id, week, ts, moves, s.book))
	}
	return trades
}

func (s *recordStrategy) match(acc internal.Transaction, used map[string]bool) (*internal.Transaction, string) {
	available := func(p internal.Transaction) bool {
		return !used[p.ID] && len(tradeMoves(p)) > 0
	}

	if acc.RelatedTransactionID != "" {
		for i, p := range s.proposals {
			if p.ID == acc.RelatedTransactionID && available(p) {
				return &s.proposals[i], "direct id"
			}
		}
	}
	for i, p := range s.proposals {
		if p.RelatedTransactionID == acc.ID && available(p) {
			return &s.proposals[i], "reverse id"
		}
	}

	accTeams := tradeTeams(acc)
	if p := s.closest(acc, func(p internal.Transaction) bool {
		if !available(p) {
			return false
		}
		for _, t := range tradeTeams(p) {
			if slices.Contains(accTeams, t) {
				return true
			}
		}
		return false
	}); p != nil {
		return p, "team membership"
	}

	if p := s.closest(acc, available); p != nil {
		return p, "timestamp"
	}
	return nil, ""
}

// closest returns the proposal accepted by ok nearest in time to acc and
// within the tolerance.
func (s *recordStrategy) closest(acc internal.Transaction, ok func(internal.Transaction) bool) *internal.Transaction {
	ts := timestamp(acc)
	var (
		best     *internal.Transaction
		bestDiff time.Duration
	)
	for i, p := range s.proposals {
		if !ok(p) {
			continue
		}
		d := ts.Sub(timestamp(p))
		if d < 0 {
			d = -d
		}
		if d > s.tolerance {
			continue
		}
		if best == nil || d < bestDiff {
			best, bestDiff = &s.proposals[i], d
		}
	}
	return best
}

func tradeMoves(t internal.Transaction) []platforms.Move {
	moves := make([]platforms.Move, 0, len(t.Items))
	for _, item := range t.Items {
		if item.Type != itemTrade || item.FromTeamID == item.ToTeamID {
			continue
		}
		moves = append(moves, platforms.Move{
			PlayerID: strconv.Itoa(item.PlayerID),
			From:     strconv.Itoa(item.FromTeamID),
			To:       strconv.Itoa(item.ToTeamID),
		})
	}
	return moves
}

func tradeTeams(t internal.Transaction) []string {
	teams := make([]string, 0, 2)
	if t.TeamID > 0 {
		teams = append(teams, strconv.Itoa(t.TeamID))
	}
	for _, item := range t.Items {
		for _, id := range []int{item.FromTeamID, item.ToTeamID} {
			if id > 0 {
				teams = append(teams, strconv.Itoa(id))
			}
		}
	}
	slices.Sort(teams)
	return slices.Compact(teams)
}

