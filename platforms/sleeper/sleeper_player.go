package sleeper

import (
	"strings"

	"github.com/mww/league_insights/model"
)

type sleeperPlayer struct {
	ID        string `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Position  string `json:"position"`
	Team      string `json:"team"`
}

func (p *sleeperPlayer) toPlayer() model.Player {
	pos := model.ParsePosition(p.Position)
	team := playerTeam(p.Team, p.ID, pos)
	name := playerName(p.FirstName, p.LastName, p.FullName, p.ID)
	if pos == model.POS_DST && p.FirstName == "" && p.FullName == "" && !team.IsFreeAgent() {
		name = team.Friendly()
	}
	return model.Player{
		ID:         p.ID,
		PlatformID: p.ID,
		Name:       name,
		Position:   pos,
		Team:       team,
	}
}

func playerName(first, last, full, id string) string {
	if full != "" {
		return full
	}
	if n := strings.TrimSpace(first + " " + last); n != "" {
		return n
	}
	return model.PlaceholderPlayer(id).Name
}

// Team defenses use the team abbreviation as their player id.
func playerTeam(team, id string, pos model.Position) *model.NFLTeam {
	if team == "" && pos == model.POS_DST {
		team = id
	}
	return model.ParseTeam(team)
}
