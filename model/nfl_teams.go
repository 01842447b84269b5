package model

import (
	"fmt"
	"strings"
)

// NFLTeam is a professional team a player belongs to. Providers disagree on
// abbreviations (JAC vs JAX, WSH vs WAS) so every adapter normalizes through
// ParseTeam.
type NFLTeam struct {
	abbr    string
	city    string
	mascot  string
	aliases []string
}

func (t *NFLTeam) String() string {
	if t == nil {
		return TEAM_FA.abbr
	}
	return t.abbr
}

func (t *NFLTeam) Friendly() string {
	if t == nil || t.city == "" {
		return t.String()
	}
	return fmt.Sprintf("%s %s", t.city, t.mascot)
}

func (t *NFLTeam) IsFreeAgent() bool {
	return t == nil || t == TEAM_FA
}

func (t *NFLTeam) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *NFLTeam) Equals(o *NFLTeam) bool {
	return t.String() == o.String()
}

var (
	TEAM_FA = &NFLTeam{abbr: "FA", aliases: []string{"FA*", "", "NONE"}}

	// NFC
	TEAM_ARI = &NFLTeam{abbr: "ARI", city: "Arizona", mascot: "Cardinals", aliases: []string{"ARZ"}}
	TEAM_ATL = &NFLTeam{abbr: "ATL", city: "Atlanta", mascot: "Falcons"}
	TEAM_CAR = &NFLTeam{abbr: "CAR", city: "Carolina", mascot: "Panthers"}
	TEAM_CHI = &NFLTeam{abbr: "CHI", city: "Chicago", mascot: "Bears"}
	TEAM_DAL = &NFLTeam{abbr: "DAL", city: "Dallas", mascot: "Cowboys"}
	TEAM_DET = &NFLTeam{abbr: "DET", city: "Detroit", mascot: "Lions"}
	TEAM_GB  = &NFLTeam{abbr: "GB", city: "Green Bay", mascot: "Packers", aliases: []string{"GBP"}}
	TEAM_LAR = &NFLTeam{abbr: "LAR", city: "Los Angeles", mascot: "Rams", aliases: []string{"LA"}}
	TEAM_MIN = &NFLTeam{abbr: "MIN", city: "Minnesota", mascot: "Vikings"}
	TEAM_NO  = &NFLTeam{abbr: "NO", city: "New Orleans", mascot: "Saints", aliases: []string{"NOS", "NOR"}}
	TEAM_NYG = &NFLTeam{abbr: "NYG", city: "New York", mascot: "Giants"}
	TEAM_PHI = &NFLTeam{abbr: "PHI", city: "Philadelphia", mascot: "Eagles"}
	TEAM_SF  = &NFLTeam{abbr: "SF", city: "San Francisco", mascot: "49ers", aliases: []string{"SFO"}}
	TEAM_SEA = &NFLTeam{abbr: "SEA", city: "Seattle", mascot: "Seahawks"}
	TEAM_TB  = &NFLTeam{abbr: "TB", city: "Tampa Bay", mascot: "Buccaneers", aliases: []string{"TBB"}}
	TEAM_WAS = &NFLTeam{abbr: "WAS", city: "Washington", mascot: "Commanders", aliases: []string{"WSH"}}

	// AFC
	TEAM_BAL = &NFLTeam{abbr: "BAL", city: "Baltimore", mascot: "Ravens"}
	TEAM_BUF = &NFLTeam{abbr: "BUF", city: "Buffalo", mascot: "Bills"}
	TEAM_CIN = &NFLTeam{abbr: "CIN", city: "Cincinnati", mascot: "Bengals"}
	TEAM_CLE = &NFLTeam{abbr: "CLE", city: "Cleveland", mascot: "Browns"}
	TEAM_DEN = &NFLTeam{abbr: "DEN", city: "Denver", mascot: "Broncos"}
	TEAM_HOU = &NFLTeam{abbr: "HOU", city: "Houston", mascot: "Texans"}
	TEAM_IND = &NFLTeam{abbr: "IND", city: "Indianapolis", mascot: "Colts"}
	TEAM_JAX = &NFLTeam{abbr: "JAX", city: "Jacksonville", mascot: "Jaguars", aliases: []string{"JAC"}}
	TEAM_KC  = &NFLTeam{abbr: "KC", city: "Kansas City", mascot: "Chiefs", aliases: []string{"KCC"}}
	TEAM_LV  = &NFLTeam{abbr: "LV", city: "Las Vegas", mascot: "Raiders", aliases: []string{"LVR", "OAK"}}
	TEAM_LAC = &NFLTeam{abbr: "LAC", city: "Los Angeles", mascot: "Chargers"}
	TEAM_MIA = &NFLTeam{abbr: "MIA", city: "Miami", mascot: "Dolphins"}
	TEAM_NE  = &NFLTeam{abbr: "NE", city: "New England", mascot: "Patriots", aliases: []string{"NEP"}}
	TEAM_NYJ = &NFLTeam{abbr: "NYJ", city: "New York", mascot: "Jets"}
	TEAM_PIT = &NFLTeam{abbr: "PIT", city: "Pittsburgh", mascot: "Steelers"}
	TEAM_TEN = &NFLTeam{abbr: "TEN", city: "Tennessee", mascot: "Titans"}

	teamMap = buildTeamMap()
)

// ParseTeam maps any known abbreviation or alias to its team. Unknown values
// resolve to TEAM_FA.
func ParseTeam(name string) *NFLTeam {
	t := teamMap[strings.ToLower(strings.TrimSpace(name))]
	if t == nil {
		return TEAM_FA
	}
	return t
}

func buildTeamMap() map[string]*NFLTeam {
	teams := []*NFLTeam{
		TEAM_ARI, TEAM_ATL, TEAM_CAR, TEAM_CHI, TEAM_DAL, TEAM_DET, TEAM_GB, TEAM_LAR,
		TEAM_MIN, TEAM_NO, TEAM_NYG, TEAM_PHI, TEAM_SF, TEAM_SEA, TEAM_TB, TEAM_WAS,
		TEAM_BAL, TEAM_BUF, TEAM_CIN, TEAM_CLE, TEAM_DEN, TEAM_HOU, TEAM_IND, TEAM_JAX,
		TEAM_KC, TEAM_LV, TEAM_LAC, TEAM_MIA, TEAM_NE, TEAM_NYJ, TEAM_PIT, TEAM_TEN,
		TEAM_FA,
	}

	m := make(map[string]*NFLTeam)
	for _, t := range teams {
		m[strings.ToLower(t.abbr)] = t
		for _, a := range t.aliases {
			m[strings.ToLower(a)] = t
		}
	}
	return m
}
