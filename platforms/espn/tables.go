package espn

import (
	"strconv"

	"github.com/mww/league_insights/model"
)

// Tables holds ESPN's numeric id schemes. They are passed to the adapter so a
// season with a different scheme can supply its own.
type Tables struct {
	Positions    map[int]model.Position
	ProTeams     map[int]*model.NFLTeam
	StarterSlots map[int]bool
	// LineupSlots maps a lineup slot id to the field of model.RosterSlots it
	// counts toward.
	LineupSlots map[int]func(s *model.RosterSlots, n int)

	// Communication message types.
	TradeItemMessage      int
	TradeFinalizedMessage int
}

const (
	slotQB        = 0
	slotRB        = 2
	slotRBWR      = 3
	slotWR        = 4
	slotWRTE      = 5
	slotTE        = 6
	slotSuperFlex = 7
	slotDST       = 16
	slotK         = 17
	slotBench     = 20
	slotIR        = 21
	slotFlex      = 23
)

func DefaultTables() Tables {
	return Tables{
		Positions: map[int]model.Position{
			1:  model.POS_QB,
			2:  model.POS_RB,
			3:  model.POS_WR,
			4:  model.POS_TE,
			5:  model.POS_K,
			16: model.POS_DST,
		},
		ProTeams: map[int]*model.NFLTeam{
			0:  model.TEAM_FA,
			1:  model.TEAM_ATL,
			2:  model.TEAM_BUF,
			3:  model.TEAM_CHI,
			4:  model.TEAM_CIN,
			5:  model.TEAM_CLE,
			6:  model.TEAM_DAL,
			7:  model.TEAM_DEN,
			8:  model.TEAM_DET,
			9:  model.TEAM_GB,
			10: model.TEAM_TEN,
			11: model.TEAM_IND,
			12: model.TEAM_KC,
			13: model.TEAM_LV,
			14: model.TEAM_LAR,
			15: model.TEAM_MIA,
			16: model.TEAM_MIN,
			17: model.TEAM_NE,
			18: model.TEAM_NO,
			19: model.TEAM_NYG,
			20: model.TEAM_NYJ,
			21: model.TEAM_PHI,
			22: model.TEAM_ARI,
			23: model.TEAM_PIT,
			24: model.TEAM_LAC,
			25: model.TEAM_SF,
			26: model.TEAM_SEA,
			27: model.TEAM_TB,
			28: model.TEAM_WAS,
			29: model.TEAM_CAR,
			30: model.TEAM_JAX,
			33: model.TEAM_BAL,
			34: model.TEAM_HOU,
		},
		StarterSlots: map[int]bool{
			slotQB: true, slotRB: true, slotRBWR: true, slotWR: true, slotWRTE: true,
			slotTE: true, slotSuperFlex: true, slotDST: true, slotK: true, slotFlex: true,
		},
		LineupSlots: map[int]func(s *model.RosterSlots, n int){
			slotQB:        func(s *model.RosterSlots, n int) { s.QB += n },
			slotRB:        func(s *model.RosterSlots, n int) { s.RB += n },
			slotRBWR:      func(s *model.RosterSlots, n int) { s.RBWR += n },
			slotWR:        func(s *model.RosterSlots, n int) { s.WR += n },
			slotWRTE:      func(s *model.RosterSlots, n int) { s.WRTE += n },
			slotTE:        func(s *model.RosterSlots, n int) { s.TE += n },
			slotSuperFlex: func(s *model.RosterSlots, n int) { s.SuperFlex += n },
			slotDST:       func(s *model.RosterSlots, n int) { s.DST += n },
			slotK:         func(s *model.RosterSlots, n int) { s.K += n },
			slotBench:     func(s *model.RosterSlots, n int) { s.Bench += n },
			slotIR:        func(s *model.RosterSlots, n int) { s.IR += n },
			slotFlex:      func(s *model.RosterSlots, n int) { s.Flex += n },
		},
		TradeItemMessage:      244,
		TradeFinalizedMessage: 224,
	}
}

func (t Tables) position(id int) model.Position {
	if p, ok := t.Positions[id]; ok {
		return p
	}
	return model.POS_UNKNOWN
}

func (t Tables) proTeam(id int) *model.NFLTeam {
	if team, ok := t.ProTeams[id]; ok {
		return team
	}
	return model.TEAM_FA
}

func (t Tables) rosterSlots(counts map[string]int) model.RosterSlots {
	var slots model.RosterSlots
	for id, n := range counts {
		slot, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		if apply, ok := t.LineupSlots[slot]; ok && n > 0 {
			apply(&slots, n)
		}
	}
	return slots
}
