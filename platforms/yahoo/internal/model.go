package internal

type FantasyContent struct {
	League *League `xml:"league"`
	Team   *Team   `xml:"team"`
}

type League struct {
	Key          string        `xml:"league_key"`
	ID           string        `xml:"league_id"`
	Name         string        `xml:"name"`
	NumTeams     int           `xml:"num_teams"`
	CurrentWeek  int           `xml:"current_week"`
	StartWeek    int           `xml:"start_week"`
	EndWeek      int           `xml:"end_week"`
	IsFinished   int           `xml:"is_finished"`
	Season       int           `xml:"season"`
	Settings     *Settings     `xml:"settings"`
	Standings    *Standings    `xml:"standings"`
	Scoreboard   *Scoreboard   `xml:"scoreboard"`
	DraftResults *DraftResults `xml:"draft_results"`
	Transactions *Transactions `xml:"transactions"`
}

type Settings struct {
	DraftType        string           `xml:"draft_type"`
	IsAuctionDraft   int              `xml:"is_auction_draft"`
	UsesFAAB         int              `xml:"uses_faab"`
	UsesPlayoff      int              `xml:"uses_playoff"`
	PlayoffStartWeek int              `xml:"playoff_start_week"`
	RosterPositions  *RosterPositions `xml:"roster_positions"`
	StatModifiers    *StatModifiers   `xml:"stat_modifiers"`
}

type RosterPositions struct {
	Positions []RosterPosition `xml:"roster_position"`
}

type RosterPosition struct {
	Position string `xml:"position"`
	Count    int    `xml:"count"`
}

type StatModifiers struct {
	Stats []StatModifier `xml:"stats>stat"`
}

type StatModifier struct {
	StatID int     `xml:"stat_id"`
	Value  float64 `xml:"value"`
}

type Standings struct {
	Teams *Teams `xml:"teams"`
}

type Teams struct {
	Teams []Team `xml:"team"`
}

type Team struct {
	Key           string         `xml:"team_key"`
	ID            string         `xml:"team_id"`
	Name          string         `xml:"name"`
	Managers      *Managers      `xml:"managers"`
	TeamPoints    *TeamPoints    `xml:"team_points"`
	TeamStandings *TeamStandings `xml:"team_standings"`
	Roster        *Roster        `xml:"roster"`
}

type Managers struct {
	Managers []Manager `xml:"manager"`
}

type Manager struct {
	Nickname string `xml:"nickname"`
}

type TeamStandings struct {
	Rank          int            `xml:"rank"`
	OutcomeTotals *OutcomeTotals `xml:"outcome_totals"`
	PointsFor     float64        `xml:"points_for"`
	PointsAgainst float64        `xml:"points_against"`
}

type OutcomeTotals struct {
	Wins   int `xml:"wins"`
	Losses int `xml:"losses"`
	Ties   int `xml:"ties"`
}

type Scoreboard struct {
	Week     int       `xml:"week"`
	Matchups *Matchups `xml:"matchups"`
}

type Matchups struct {
	Matchups []Matchup `xml:"matchup"`
}

type Matchup struct {
	Week          int    `xml:"week"`
	WeekStart     string `xml:"week_start"`
	WeekEnd       string `xml:"week_end"`
	Status        string `xml:"status"`
	IsPlayoffs    int    `xml:"is_playoffs"`
	IsConsolation int    `xml:"is_consolation"`
	Teams         *Teams `xml:"teams"`
}

type TeamPoints struct {
	Week  int     `xml:"week"`
	Total float64 `xml:"total"`
}

type Roster struct {
	Week    int      `xml:"week"`
	Players *Players `xml:"players"`
}

type Players struct {
	Players []Player `xml:"player"`
}

type Player struct {
	Key               string            `xml:"player_key"`
	ID                string            `xml:"player_id"`
	Name              *PlayerName       `xml:"name"`
	EditorialTeamAbbr string            `xml:"editorial_team_abbr"`
	TeamFullName      string            `xml:"editorial_team_full_name"`
	DisplayPosition   string            `xml:"display_position"`
	Position          string            `xml:"primary_position"`
	SelectedPosition  *SelectedPosition `xml:"selected_position"`
	PlayerPoints      *TeamPoints       `xml:"player_points"`
	TransactionData   *TransactionData  `xml:"transaction_data"`
}

type PlayerName struct {
	Full  string `xml:"full"`
	First string `xml:"first"`
	Last  string `xml:"last"`
}

type SelectedPosition struct {
	Week     int    `xml:"week"`
	Position string `xml:"position"`
}

type DraftResults struct {
	Results []DraftResult `xml:"draft_result"`
}

type DraftResult struct {
	Pick      int    `xml:"pick"`
	Round     int    `xml:"round"`
	Cost      string `xml:"cost"`
	TeamKey   string `xml:"team_key"`
	PlayerKey string `xml:"player_key"`
}

type Transactions struct {
	Transactions []Transaction `xml:"transaction"`
}

type Transaction struct {
	Key           string   `xml:"transaction_key"`
	ID            string   `xml:"transaction_id"`
	Type          string   `xml:"type"`
	Status        string   `xml:"status"`
	Timestamp     int64    `xml:"timestamp"`
	FAABBid       *int     `xml:"faab_bid"`
	TraderTeamKey string   `xml:"trader_team_key"`
	TradeeTeamKey string   `xml:"tradee_team_key"`
	Players       *Players `xml:"players"`
}

type TransactionData struct {
	Type               string `xml:"type"`
	SourceType         string `xml:"source_type"`
	SourceTeamKey      string `xml:"source_team_key"`
	DestinationType    string `xml:"destination_type"`
	DestinationTeamKey string `xml:"destination_team_key"`
}
