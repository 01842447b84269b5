package platforms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mww/league_insights/model"
)

// Season is what an adapter collected for one league before assembly. League
// carries the settings, teams with their records and the matchups.
type Season struct {
	League       *model.League
	Snapshots    []WeekRosters
	Transactions []model.Transaction
	Picks        []model.DraftPick
	Trades       []model.Trade
	Book         *PlayerBook
	Ledger       model.StartLedger
}

// Assemble builds the final league: transactions are deduplicated and carry
// the starts of every added player, trades carry the production of every
// traded player, picks carry season points and everything is distributed to
// the owning teams. The base league in s is not modified.
func Assemble(s Season) *model.League {
	l := *s.League
	l.Teams = slices.Clone(s.League.Teams)
	l.TotalTeams = len(l.Teams)
	l.ScoringType = model.ScoringTypeFromReception(l.ReceptionPoints)
	if l.Matchups == nil {
		l.Matchups = []model.Matchup{}
	}

	txs := model.DedupeTransactions(s.Transactions)
	for i := range txs {
		tx := txs[i].Clone()
		tx.TeamName = l.TeamName(tx.TeamID)
		for j, add := range tx.Adds {
			p := Pickup(s.Ledger, s.Book, tx.TeamID, add.ID, tx.Week, l.CurrentWeek)
			if p.IsPlaceholder() && !add.IsPlaceholder() {
				p.Player = add.Player
			}
			tx.Adds[j] = p
		}
		for j, d := range tx.Drops {
			if d.IsPlaceholder() {
				tx.Drops[j] = s.Book.Resolve(d.ID)
			}
		}
		txs[i] = tx
	}

	trades := FillTradeStats(s.Trades, s.Ledger, s.Book, l.CurrentWeek)
	for i := range trades {
		for k := range trades[i].Teams {
			trades[i].Teams[k].TeamName = l.TeamName(trades[i].Teams[k].TeamID)
		}
	}
	slices.SortStableFunc(trades, func(a, b model.Trade) int {
		if a.Week != b.Week {
			return a.Week - b.Week
		}
		return strings.Compare(a.ID, b.ID)
	})
	l.Trades = trades

	picks := make([]model.DraftPick, len(s.Picks))
	for i, p := range s.Picks {
		if p.Player.IsPlaceholder() || !p.Player.Position.Known() {
			if s.Book.Known(p.Player.ID) {
				p.Player = s.Book.Resolve(p.Player.ID)
			}
		} else {
			s.Book.Observe(p.Player)
		}
		p.SeasonPoints, _ = s.Book.SeasonPoints(p.Player.ID)
		p.TeamName = l.TeamName(p.TeamID)
		picks[i] = p
	}
	model.SortPicks(picks)

	var last WeekRosters
	if snaps := SortSnapshots(s.Snapshots); len(snaps) > 0 {
		last = snaps[len(snaps)-1]
	}

	for i := range l.Teams {
		t := &l.Teams[i]
		if len(t.Roster) == 0 {
			t.Roster = make([]model.Player, 0, len(last.Teams[t.ID]))
			for _, e := range last.Teams[t.ID] {
				t.Roster = append(t.Roster, s.Book.Resolve(e.Player.ID))
			}
		}
		t.DraftPicks = []model.DraftPick{}
		for _, p := range picks {
			if p.TeamID == t.ID {
				t.DraftPicks = append(t.DraftPicks, p)
			}
		}
		t.Transactions = []model.Transaction{}
		for _, tx := range txs {
			if tx.TeamID == t.ID {
				t.Transactions = append(t.Transactions, tx)
			}
		}
		t.Trades = TeamTrades(trades, t.ID)
	}

	l.PlayerPool = s.Book.SeasonPool()
	return &l
}

// MissingWeeks lists the weeks 1 through lastWeek with no result.
func MissingWeeks[T any](res []WeekResult[T], lastWeek int) []int {
	have := make(map[int]bool, len(res))
	for _, r := range res {
		have[r.Week] = true
	}
	missing := make([]int, 0)
	for w := 1; w <= lastWeek; w++ {
		if !have[w] {
			missing = append(missing, w)
		}
	}
	return missing
}

// MarkIncomplete appends one marker per missing week of a stage.
func MarkIncomplete(l *model.League, stage string, weeks []int) {
	for _, w := range weeks {
		l.Incomplete = append(l.Incomplete, fmt.Sprintf("%s week %d", stage, w))
	}
}

// ApplyRecords fills season records from regular season matchups for teams
// whose provider did not report one.
func ApplyRecords(l *model.League) {
	for i := range l.Teams {
		t := &l.Teams[i]
		if t.GamesPlayed() > 0 {
			continue
		}
		for _, m := range l.SeasonMatchups() {
			if m.IsBye() || (m.HomeScore == 0 && m.AwayScore == 0) {
				continue
			}
			var us, them float64
			switch t.ID {
			case m.HomeTeamID:
				us, them = m.HomeScore, m.AwayScore
			case m.AwayTeamID:
				us, them = m.AwayScore, m.HomeScore
			default:
				continue
			}
			t.PointsFor += us
			t.PointsAgainst += them
			switch {
			case us > them:
				t.Wins++
			case us < them:
				t.Losses++
			default:
				t.Ties++
			}
		}
	}
}
