package model

import (
	"math"
	"time"
)

type Platform string

const (
	PlatformESPN    Platform = "espn"
	PlatformSleeper Platform = "sleeper"
	PlatformYahoo   Platform = "yahoo"
)

func IsPlatformSupported(p string) bool {
	switch Platform(p) {
	case PlatformESPN, PlatformSleeper, PlatformYahoo:
		return true
	}
	return false
}

type DraftType string

const (
	DraftSnake   DraftType = "snake"
	DraftAuction DraftType = "auction"
)

type ScoringType string

const (
	ScoringPPR      ScoringType = "ppr"
	ScoringHalfPPR  ScoringType = "half-ppr"
	ScoringStandard ScoringType = "standard"
	ScoringCustom   ScoringType = "custom"
)

// ScoringTypeFromReception derives the scoring format from the points a
// league awards per reception.
func ScoringTypeFromReception(points float64) ScoringType {
	switch {
	case math.Abs(points-1) < 1e-9:
		return ScoringPPR
	case math.Abs(points-0.5) < 1e-9:
		return ScoringHalfPPR
	case math.Abs(points) < 1e-9:
		return ScoringStandard
	default:
		return ScoringCustom
	}
}

// RosterSlots counts the starting slots per lineup position. Combination
// slots are kept separate so the replacement engine can split them.
type RosterSlots struct {
	QB        int `json:"qb"`
	RB        int `json:"rb"`
	WR        int `json:"wr"`
	TE        int `json:"te"`
	K         int `json:"k"`
	DST       int `json:"dst"`
	Flex      int `json:"flex"`      // RB/WR/TE
	SuperFlex int `json:"superFlex"` // QB/RB/WR/TE
	RBWR      int `json:"rbWr"`
	WRTE      int `json:"wrTe"`
	Bench     int `json:"bench"`
	IR        int `json:"ir"`
}

func (s RosterSlots) Starters() int {
	return s.QB + s.RB + s.WR + s.TE + s.K + s.DST + s.Flex + s.SuperFlex + s.RBWR + s.WRTE
}

type League struct {
	Platform         Platform       `json:"platform"`
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Season           int            `json:"season"`
	DraftType        DraftType      `json:"draftType"`
	ScoringType      ScoringType    `json:"scoringType"`
	ReceptionPoints  float64        `json:"receptionPoints"`
	TotalTeams       int            `json:"totalTeams"`
	CurrentWeek      int            `json:"currentWeek"`
	RegularSeasonEnd int            `json:"regularSeasonEnd,omitempty"`
	RosterSlots      RosterSlots    `json:"rosterSlots"`
	Teams            []Team         `json:"teams"`
	Trades           []Trade        `json:"trades"`
	Matchups         []Matchup      `json:"matchups"`
	PlayerPool       []SeasonPlayer `json:"playerPool"`
	// Incomplete lists the parts of the load that degraded, e.g. a week whose
	// rosters could not be fetched.
	Incomplete []string `json:"incomplete,omitempty"`
}

func (l *League) Team(id string) *Team {
	for i := range l.Teams {
		if l.Teams[i].ID == id {
			return &l.Teams[i]
		}
	}
	return nil
}

func (l *League) TeamName(id string) string {
	if t := l.Team(id); t != nil {
		return t.Name
	}
	return id
}

// SeasonMatchups are the matchups of the regular season. Playoff and
// consolation weeks are left out when RegularSeasonEnd is known.
func (l *League) SeasonMatchups() []Matchup {
	if l.RegularSeasonEnd <= 0 {
		return l.Matchups
	}
	out := make([]Matchup, 0, len(l.Matchups))
	for _, m := range l.Matchups {
		if m.Week <= l.RegularSeasonEnd {
			out = append(out, m)
		}
	}
	return out
}

// AllDraftPicks flattens every team's picks in draft order.
func (l *League) AllDraftPicks() []DraftPick {
	picks := make([]DraftPick, 0, len(l.Teams)*16)
	for _, t := range l.Teams {
		picks = append(picks, t.DraftPicks...)
	}
	SortPicks(picks)
	return picks
}

type Team struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	OwnerName     string        `json:"ownerName,omitempty"`
	Roster        []Player      `json:"roster"`
	DraftPicks    []DraftPick   `json:"draftPicks"`
	Transactions  []Transaction `json:"transactions"`
	Trades        []Trade       `json:"trades"`
	Wins          int           `json:"wins"`
	Losses        int           `json:"losses"`
	Ties          int           `json:"ties"`
	PointsFor     float64       `json:"pointsFor"`
	PointsAgainst float64       `json:"pointsAgainst"`
}

func (t *Team) GamesPlayed() int {
	return t.Wins + t.Losses + t.Ties
}

// Matchup is one head to head result. Away fields are empty on a bye.
type Matchup struct {
	Week       int     `json:"week"`
	HomeTeamID string  `json:"homeTeamId"`
	HomeScore  float64 `json:"homeScore"`
	AwayTeamID string  `json:"awayTeamId"`
	AwayScore  float64 `json:"awayScore"`
}

func (m Matchup) IsBye() bool {
	return m.AwayTeamID == "" || m.HomeTeamID == ""
}

// Progress is one step of a league load.
type Progress struct {
	Stage   string `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Detail  string `json:"detail,omitempty"`
}

// ReplacementLevel is the replacement baseline for one position.
type ReplacementLevel struct {
	Position  Position `json:"position"`
	Threshold int      `json:"threshold"`
	Points    float64  `json:"points"`
}

// LeagueReport is the result of a league load: the normalized league with
// every derived stat attached.
type LeagueReport struct {
	LoadToken   uint64             `json:"loadToken"`
	League      *League            `json:"league"`
	Luck        []LuckMetrics      `json:"luck"`
	Replacement []ReplacementLevel `json:"replacement"`
	LoadedAt    time.Time          `json:"loadedAt"`
	Duration    time.Duration      `json:"duration"`
}

// Credentials carries what a provider needs to read a private league.
type Credentials struct {
	ESPNS2       string `json:"-"`
	SWID         string `json:"-"`
	YahooSession string `json:"-"`
}
