package model

import "fmt"

// Player is the cross-provider identity of an NFL player. ID is the provider
// native id as a string so consumers can join on it across rosters, picks and
// transactions of the same league.
type Player struct {
	ID         string   `json:"id"`
	PlatformID string   `json:"platformId"`
	Name       string   `json:"name"`
	Position   Position `json:"position"`
	Team       *NFLTeam `json:"team"`
}

const placeholderPrefix = "Player "

// PlaceholderPlayer is what adapters emit when a player's identity could not
// be resolved.
func PlaceholderPlayer(id string) Player {
	return Player{
		ID:         id,
		PlatformID: id,
		Name:       placeholderPrefix + id,
		Position:   POS_UNKNOWN,
		Team:       TEAM_FA,
	}
}

func (p Player) IsPlaceholder() bool {
	return p.Name == "" || p.Name == placeholderPrefix+p.ID
}

func (p Player) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.Name, p.Position, p.Team)
}

// PickupPlayer is a player added in a waiver or free agent transaction with
// the production it gave the acquiring team from the pickup week on.
type PickupPlayer struct {
	Player
	PointsSincePickup      float64 `json:"pointsSincePickup"`
	GamesSincePickup       int     `json:"gamesSincePickup"`
	PointsAboveReplacement float64 `json:"pointsAboveReplacement"`
}

// SeasonPlayer is a player with season totals, the input of the replacement
// level calculation.
type SeasonPlayer struct {
	Player
	SeasonPoints float64 `json:"seasonPoints"`
	Games        int     `json:"games"`
}
