package model

import "slices"

// StartLedger records the points a player scored in the weeks they occupied a
// starting lineup slot, per fantasy team: team id -> player id -> week -> points.
type StartLedger map[string]map[string]map[int]float64

func NewStartLedger() StartLedger {
	return make(StartLedger)
}

func (l StartLedger) Record(teamID, playerID string, week int, points float64) {
	players, ok := l[teamID]
	if !ok {
		players = make(map[string]map[int]float64)
		l[teamID] = players
	}
	weeks, ok := players[playerID]
	if !ok {
		weeks = make(map[int]float64)
		players[playerID] = weeks
	}
	weeks[week] = points
}

// Since sums the starts of a player for a team from week fromWeek through
// toWeek inclusive. A toWeek of zero means no upper bound.
func (l StartLedger) Since(teamID, playerID string, fromWeek, toWeek int) (points float64, games int) {
	for week, pts := range l[teamID][playerID] {
		if week < fromWeek || (toWeek > 0 && week > toWeek) {
			continue
		}
		points += pts
		games++
	}
	return points, games
}

// Weeks lists the weeks a player started for a team in ascending order.
func (l StartLedger) Weeks(teamID, playerID string) []int {
	weeks := make([]int, 0, len(l[teamID][playerID]))
	for w := range l[teamID][playerID] {
		weeks = append(weeks, w)
	}
	slices.Sort(weeks)
	return weeks
}

func (l StartLedger) Started(teamID, playerID string, week int) bool {
	_, ok := l[teamID][playerID][week]
	return ok
}
