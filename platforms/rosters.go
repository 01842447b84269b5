package platforms

import (
	"slices"

	"github.com/mww/league_insights/model"
)

// RosterEntry is one player on a fantasy roster in one week.
type RosterEntry struct {
	Player   model.Player
	Starting bool
	Points   float64
}

// WeekRosters is a snapshot of every roster in the league for one week,
// keyed by fantasy team id.
type WeekRosters struct {
	Week  int
	Teams map[string][]RosterEntry
}

// Owners maps player id to the team rostering them that week.
func (w WeekRosters) Owners() map[string]string {
	owners := make(map[string]string)
	for teamID, entries := range w.Teams {
		for _, e := range entries {
			owners[e.Player.ID] = teamID
		}
	}
	return owners
}

// SortSnapshots orders snapshots by week and drops duplicates of a week.
func SortSnapshots(snaps []WeekRosters) []WeekRosters {
	out := slices.Clone(snaps)
	slices.SortStableFunc(out, func(a, b WeekRosters) int { return a.Week - b.Week })
	return slices.CompactFunc(out, func(a, b WeekRosters) bool { return a.Week == b.Week })
}

// ReconstructStarts walks every weekly snapshot, backfills player identity
// and records the points of every player in a starting slot.
func ReconstructStarts(snaps []WeekRosters, book *PlayerBook) model.StartLedger {
	ledger := model.NewStartLedger()
	for _, snap := range SortSnapshots(snaps) {
		for teamID, entries := range snap.Teams {
			for _, e := range entries {
				book.Observe(e.Player)
				book.ObserveWeek(e.Player.ID, snap.Week, e.Points)
				if e.Starting {
					ledger.Record(teamID, e.Player.ID, snap.Week, e.Points)
				}
			}
		}
	}
	return ledger
}

// Pickup builds the added player of a transaction with the production it gave
// the acquiring team from the pickup week through currentWeek.
func Pickup(ledger model.StartLedger, book *PlayerBook, teamID, playerID string, week, currentWeek int) model.PickupPlayer {
	pts, games := ledger.Since(teamID, playerID, week, currentWeek)
	return model.PickupPlayer{
		Player:            book.Resolve(playerID),
		PointsSincePickup: pts,
		GamesSincePickup:  games,
	}
}

// FillTradeStats returns copies of trades where every traded player carries
// the points and starts they produced for the receiving team.
func FillTradeStats(trades []model.Trade, ledger model.StartLedger, book *PlayerBook, currentWeek int) []model.Trade {
	out := make([]model.Trade, len(trades))
	for i, t := range trades {
		c := t.Clone()
		receiver := make(map[string]string)
		for _, side := range c.Teams {
			for _, p := range side.PlayersReceived {
				receiver[p.ID] = side.TeamID
			}
		}
		fill := func(players []model.TradePlayer, teamFor func(id string) string) {
			for j, p := range players {
				team := teamFor(p.ID)
				pts, games := ledger.Since(team, p.ID, c.Week, currentWeek)
				resolved := book.Resolve(p.ID)
				if p.IsPlaceholder() || !p.Position.Known() {
					p.Player = resolved
				}
				p.PointsAfterTrade, p.GamesAfterTrade = pts, games
				players[j] = p
			}
		}
		for k := range c.Teams {
			side := &c.Teams[k]
			fill(side.PlayersReceived, func(string) string { return side.TeamID })
			fill(side.PlayersSent, func(id string) string { return receiver[id] })
		}
		out[i] = c
	}
	return out
}
