package internal

type League struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	Status          string             `json:"status"`
	TotalRosters    int                `json:"total_rosters"`
	DraftID         string             `json:"draft_id"`
	RosterPositions []string           `json:"roster_positions"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	Settings        *LeagueSettings    `json:"settings"`
}

type LeagueSettings struct {
	LastScoredLeg    int `json:"last_scored_leg"`
	Leg              int `json:"leg"`
	PlayoffWeekStart int `json:"playoff_week_start"`
	WaiverBudget     int `json:"waiver_budget"`
}

type User struct {
	UserID      string        `json:"user_id"`
	DisplayName string        `json:"display_name"`
	Metadata    *UserMetadata `json:"metadata"`
}

type UserMetadata struct {
	TeamName string `json:"team_name"`
}

type Roster struct {
	RosterID int             `json:"roster_id"`
	OwnerID  string          `json:"owner_id"`
	Players  []string        `json:"players"`
	Starters []string        `json:"starters"`
	Reserve  []string        `json:"reserve"`
	Settings *RosterSettings `json:"settings"`
}

type RosterSettings struct {
	Wins               int `json:"wins"`
	Losses             int `json:"losses"`
	Ties               int `json:"ties"`
	Fpts               int `json:"fpts"`
	FptsDecimal        int `json:"fpts_decimal"`
	FptsAgainst        int `json:"fpts_against"`
	FptsAgainstDecimal int `json:"fpts_against_decimal"`
}

type Matchup struct {
	RosterID      int                `json:"roster_id"`
	MatchupID     int                `json:"matchup_id"`
	Points        float64            `json:"points"`
	Starters      []string           `json:"starters"`
	Players       []string           `json:"players"`
	PlayersPoints map[string]float64 `json:"players_points"`
}

type Transaction struct {
	TransactionID string               `json:"transaction_id"`
	Type          string               `json:"type"`
	Status        string               `json:"status"`
	Leg           int                  `json:"leg"`
	Created       int64                `json:"created"`
	StatusUpdated int64                `json:"status_updated"`
	RosterIDs     []int                `json:"roster_ids"`
	Adds          map[string]int       `json:"adds"`
	Drops         map[string]int       `json:"drops"`
	Settings      *TransactionSettings `json:"settings"`
}

type TransactionSettings struct {
	WaiverBid *int `json:"waiver_bid"`
}

type Draft struct {
	DraftID string `json:"draft_id"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Season  string `json:"season"`
}

type DraftPick struct {
	Round    int           `json:"round"`
	PickNo   int           `json:"pick_no"`
	PlayerID string        `json:"player_id"`
	RosterID int           `json:"roster_id"`
	PickedBy string        `json:"picked_by"`
	Metadata *PickMetadata `json:"metadata"`
}

type PickMetadata struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      string `json:"team"`
	Amount    string `json:"amount"`
}

type State struct {
	Week       int    `json:"week"`
	Leg        int    `json:"leg"`
	Season     string `json:"season"`
	SeasonType string `json:"season_type"`
}
