package internal

type League struct {
	ID              int64          `json:"id"`
	SeasonID        int            `json:"seasonId"`
	ScoringPeriodID int            `json:"scoringPeriodId"`
	Status          *Status        `json:"status"`
	Settings        *Settings      `json:"settings"`
	Teams           []Team         `json:"teams"`
	Members         []Member       `json:"members"`
	Schedule        []ScheduleItem `json:"schedule"`
	DraftDetail     *DraftDetail   `json:"draftDetail"`
	Transactions    []Transaction  `json:"transactions"`
}

type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	LatestScoringPeriod  int  `json:"latestScoringPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Settings struct {
	Name             string            `json:"name"`
	Size             int               `json:"size"`
	DraftSettings    *DraftSettings    `json:"draftSettings"`
	RosterSettings   *RosterSettings   `json:"rosterSettings"`
	ScoringSettings  *ScoringSettings  `json:"scoringSettings"`
	ScheduleSettings *ScheduleSettings `json:"scheduleSettings"`
}

type DraftSettings struct {
	Type string `json:"type"`
}

// ScheduleSettings.MatchupPeriodCount is the number of regular season
// matchup periods.
type ScheduleSettings struct {
	MatchupPeriodCount int `json:"matchupPeriodCount"`
}

type RosterSettings struct {
	LineupSlotCounts map[string]int `json:"lineupSlotCounts"`
}

type ScoringSettings struct {
	ScoringItems []ScoringItem `json:"scoringItems"`
}

type ScoringItem struct {
	StatID int     `json:"statId"`
	Points float64 `json:"points"`
}

type Team struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Nickname     string   `json:"nickname"`
	Abbrev       string   `json:"abbrev"`
	PrimaryOwner string   `json:"primaryOwner"`
	Owners       []string `json:"owners"`
	Record       *Record  `json:"record"`
	Roster       *Roster  `json:"roster"`
}

type Record struct {
	Overall *RecordLine `json:"overall"`
}

type RecordLine struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

type RosterEntry struct {
	PlayerID        int              `json:"playerId"`
	LineupSlotID    int              `json:"lineupSlotId"`
	PlayerPoolEntry *PlayerPoolEntry `json:"playerPoolEntry"`
}

type PlayerPoolEntry struct {
	ID               int     `json:"id"`
	AppliedStatTotal float64 `json:"appliedStatTotal"`
	Player           *Player `json:"player"`
}

type Player struct {
	ID                int    `json:"id"`
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
	ProTeamID         int    `json:"proTeamId"`
	Stats             []Stat `json:"stats"`
}

type Stat struct {
	ScoringPeriodID int     `json:"scoringPeriodId"`
	SeasonID        int     `json:"seasonId"`
	StatSourceID    int     `json:"statSourceId"`
	StatSplitTypeID int     `json:"statSplitTypeId"`
	AppliedTotal    float64 `json:"appliedTotal"`
}

type ScheduleItem struct {
	ID              int        `json:"id"`
	MatchupPeriodID int        `json:"matchupPeriodId"`
	Home            *TeamScore `json:"home"`
	Away            *TeamScore `json:"away"`
	Winner          string     `json:"winner"`
}

type TeamScore struct {
	TeamID      int     `json:"teamId"`
	TotalPoints float64 `json:"totalPoints"`
}

type DraftDetail struct {
	Drafted bool        `json:"drafted"`
	Picks   []DraftPick `json:"picks"`
}

type DraftPick struct {
	OverallPickNumber int `json:"overallPickNumber"`
	RoundID           int `json:"roundId"`
	TeamID            int `json:"teamId"`
	PlayerID          int `json:"playerId"`
	BidAmount         int `json:"bidAmount"`
}

type Transaction struct {
	ID                   string            `json:"id"`
	Type                 string            `json:"type"`
	Status               string            `json:"status"`
	TeamID               int               `json:"teamId"`
	ScoringPeriodID      int               `json:"scoringPeriodId"`
	ProposedDate         int64             `json:"proposedDate"`
	ProcessDate          int64             `json:"processDate"`
	BidAmount            int               `json:"bidAmount"`
	RelatedTransactionID string            `json:"relatedTransactionId"`
	Items                []TransactionItem `json:"items"`
}

type TransactionItem struct {
	PlayerID   int    `json:"playerId"`
	Type       string `json:"type"`
	FromTeamID int    `json:"fromTeamId"`
	ToTeamID   int    `json:"toTeamId"`
}

type Communication struct {
	Topics []Topic `json:"topics"`
}

type Topic struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Date     int64     `json:"date"`
	Messages []Message `json:"messages"`
}

type Message struct {
	MessageTypeID int   `json:"messageTypeId"`
	TargetID      int   `json:"targetId"`
	From          int   `json:"from"`
	To            int   `json:"to"`
	For           int   `json:"for"`
	Date          int64 `json:"date"`
}
