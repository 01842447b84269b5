package platforms

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mww/league_insights/model"
	"go.uber.org/zap"
)

// Strategy is one way of reconstructing the trades of a league. Strategies
// hold their own raw input and must not have side effects beyond
// diagnostics.
type Strategy interface {
	Name() string
	Detect(sink DiagnosticSink) []model.Trade
}

// DetectTrades tries each strategy in order and returns the result of the
// first one that finds any trades, with that strategy's name. Mixing
// strategies would count the same trade twice.
func DetectTrades(sink DiagnosticSink, strategies ...Strategy) ([]model.Trade, string) {
	for _, s := range strategies {
		trades := s.Detect(sink)
		if len(trades) > 0 {
			Info(sink, s.Name(), "trades detected", zap.Int("count", len(trades)))
			for i := range trades {
				trades[i].Source = s.Name()
			}
			return trades, s.Name()
		}
		Debug(sink, s.Name(), "strategy found no trades")
	}
	return []model.Trade{}, ""
}

// Move is a player changing fantasy teams.
type Move struct {
	PlayerID string
	From     string
	To       string
}

// BuildTrade assembles a trade from player moves. Sides are ordered by team
// id and each side lists what it received and what it sent.
func BuildTrade(id string, week int, ts time.Time, moves []Move, book *PlayerBook) model.Trade {
	sides := make(map[string]*model.TradeSide)
	side := func(teamID string) *model.TradeSide {
		s, ok := sides[teamID]
		if !ok {
			s = &model.TradeSide{TeamID: teamID, PlayersReceived: []model.TradePlayer{}, PlayersSent: []model.TradePlayer{}}
			sides[teamID] = s
		}
		return s
	}
	for _, m := range moves {
		p := model.TradePlayer{Player: book.Resolve(m.PlayerID)}
		if m.To != "" {
			to := side(m.To)
			to.PlayersReceived = append(to.PlayersReceived, p)
		}
		if m.From != "" {
			from := side(m.From)
			from.PlayersSent = append(from.PlayersSent, p)
		}
	}

	t := model.Trade{ID: id, Week: week, Timestamp: ts, Teams: make([]model.TradeSide, 0, len(sides))}
	for _, s := range sides {
		t.Teams = append(t.Teams, *s)
	}
	slices.SortFunc(t.Teams, func(a, b model.TradeSide) int { return strings.Compare(a.TeamID, b.TeamID) })
	return t
}

// IncompleteTrade records a trade whose players could not be resolved.
func IncompleteTrade(id string, week int, ts time.Time, teamIDs []string) model.Trade {
	ids := slices.Clone(teamIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	t := model.Trade{ID: id, Week: week, Timestamp: ts, IsIncomplete: true, Teams: make([]model.TradeSide, 0, len(ids))}
	for _, id := range ids {
		t.Teams = append(t.Teams, model.TradeSide{TeamID: id, PlayersReceived: []model.TradePlayer{}, PlayersSent: []model.TradePlayer{}})
	}
	return t
}

// AddKey identifies a waiver or free agent add of a player by a team.
type AddKey struct {
	TeamID   string
	PlayerID string
}

// RosterDiff finds trades by comparing rosters of consecutive weeks: when
// players move directly from A to B and from B to A in the same transition
// it is a trade in the later week. Moves explained by a waiver or free agent
// add are ignored.
type RosterDiff struct {
	Snapshots []WeekRosters
	// Adds holds, per week, the waiver and free agent adds of that week.
	Adds map[int]map[AddKey]bool
	Book *PlayerBook
}

func (r *RosterDiff) Name() string {
	return "roster-diff"
}

type teamPair struct {
	a, b string
}

func (r *RosterDiff) Detect(sink DiagnosticSink) []model.Trade {
	snaps := SortSnapshots(r.Snapshots)
	trades := make([]model.Trade, 0)
	for i := 1; i < len(snaps); i++ {
		prev, next := snaps[i-1], snaps[i]
		if next.Week != prev.Week+1 {
			Debug(sink, r.Name(), "skipping non consecutive snapshots", zap.Int("from", prev.Week), zap.Int("to", next.Week))
			continue
		}

		before, after := prev.Owners(), next.Owners()
		moves := make(map[teamPair][]Move)
		for playerID, from := range before {
			to, ok := after[playerID]
			if !ok || to == from {
				continue
			}
			if r.explained(next.Week, to, playerID) || r.explained(prev.Week, to, playerID) {
				Debug(sink, r.Name(), "move explained by a pickup", zap.String("player", playerID), zap.String("team", to))
				continue
			}
			pair := teamPair{a: min(from, to), b: max(from, to)}
			moves[pair] = append(moves[pair], Move{PlayerID: playerID, From: from, To: to})
		}

		pairs := make([]teamPair, 0, len(moves))
		for p := range moves {
			pairs = append(pairs, p)
		}
		slices.SortFunc(pairs, func(x, y teamPair) int {
			if c := strings.Compare(x.a, y.a); c != 0 {
				return c
			}
			return strings.Compare(x.b, y.b)
		})

		for _, pair := range pairs {
			ms := moves[pair]
			var toA, toB int
			for _, m := range ms {
				if m.To == pair.a {
					toA++
				} else {
					toB++
				}
			}
			if toA == 0 || toB == 0 {
				Debug(sink, r.Name(), "one way move is not a trade",
					zap.String("teamA", pair.a), zap.String("teamB", pair.b), zap.Int("week", next.Week))
				continue
			}
			slices.SortFunc(ms, func(x, y Move) int { return strings.Compare(x.PlayerID, y.PlayerID) })
			id := fmt.Sprintf("roster-diff-%d-%s-%s", next.Week, pair.a, pair.b)
			trades = append(trades, BuildTrade(id, next.Week, time.Time{}, ms, r.Book))
		}
	}
	return trades
}

func (r *RosterDiff) explained(week int, teamID, playerID string) bool {
	return r.Adds[week][AddKey{TeamID: teamID, PlayerID: playerID}]
}

// PickupIndex builds the per week add index RosterDiff uses from normalized
// transactions.
func PickupIndex(txs []model.Transaction) map[int]map[AddKey]bool {
	idx := make(map[int]map[AddKey]bool)
	for _, tx := range txs {
		w, ok := idx[tx.Week]
		if !ok {
			w = make(map[AddKey]bool)
			idx[tx.Week] = w
		}
		for _, a := range tx.Adds {
			w[AddKey{TeamID: tx.TeamID, PlayerID: a.ID}] = true
		}
	}
	return idx
}

// TeamTrades returns the trades involving teamID.
func TeamTrades(trades []model.Trade, teamID string) []model.Trade {
	out := make([]model.Trade, 0)
	for _, t := range trades {
		if t.Involves(teamID) {
			out = append(out, t)
		}
	}
	return out
}
