package yahoo

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mww/league_insights/platforms"
)

var (
	leagueIDRegex = regexp.MustCompile(`^\d{1,12}$`)
	// Format looks like 449.l.149976.t.1
	teamIDRegex   = regexp.MustCompile(`.+\.t\.(?P<id>\d+)`)
	playerIDRegex = regexp.MustCompile(`.+\.p\.(?P<id>\d+)`)
)

// Yahoo prefixes every league with the key of the game it belongs to, one
// game per NFL season.
var gameKeys = map[int]string{
	2015: "348",
	2016: "359",
	2017: "371",
	2018: "380",
	2019: "390",
	2020: "399",
	2021: "406",
	2022: "414",
	2023: "423",
	2024: "449",
	2025: "461",
}

// GameKey returns the game key for a season. Unknown seasons fall back to
// "nfl", which yahoo resolves to the current season.
func GameKey(season int) string {
	if k, ok := gameKeys[season]; ok {
		return k
	}
	return "nfl"
}

func LeagueKey(season int, leagueID string) (string, error) {
	if !leagueIDRegex.MatchString(leagueID) {
		return "", platforms.InvalidRequest("invalid yahoo league id %q", leagueID)
	}
	return fmt.Sprintf("%s.l.%s", GameKey(season), leagueID), nil
}

func TeamKey(leagueKey, teamID string) string {
	return fmt.Sprintf("%s.t.%s", leagueKey, teamID)
}

// parseID extracts the team number from a team key. It returns the key
// unchanged when it does not look like one.
func parseID(key string) string {
	return match(teamIDRegex, key)
}

func parsePlayerID(key string) string {
	return match(playerIDRegex, key)
}

func match(re *regexp.Regexp, key string) string {
	m := re.FindStringSubmatch(key)
	if m == nil {
		return key
	}
	id, err := strconv.Atoi(m[re.SubexpIndex("id")])
	if err != nil {
		return key
	}
	return strconv.Itoa(id)
}
