// Package draft grades draft picks by comparing where a player finished at
// their position with where they were drafted among their position peers.
package draft

import (
	"slices"

	"github.com/mww/league_insights/model"
)

// Grade returns graded copies of picks, in draft order. Players with an
// unknown position are ranked among themselves.
func Grade(picks []model.DraftPick, draftType model.DraftType) []model.DraftPick {
	out := slices.Clone(picks)
	model.SortPicks(out)

	byPos := make(map[model.Position][]int)
	for i, p := range out {
		byPos[p.Player.Position] = append(byPos[p.Player.Position], i)
	}

	for _, idxs := range byPos {
		// idxs is already in draft order, which gives the expected rank.
		for n, i := range idxs {
			out[i].ExpectedRank = n + 1
		}

		finish := slices.Clone(idxs)
		slices.SortStableFunc(finish, func(a, b int) int {
			pa, pb := out[a], out[b]
			switch {
			case pa.SeasonPoints > pb.SeasonPoints:
				return -1
			case pa.SeasonPoints < pb.SeasonPoints:
				return 1
			}
			return pa.PickNumber - pb.PickNumber
		})
		for n, i := range finish {
			out[i].PositionRank = n + 1
		}
	}

	for i := range out {
		p := &out[i]
		p.ValueOverExpected = p.ExpectedRank - p.PositionRank
		if draftType == model.DraftAuction && p.AuctionValue != nil {
			p.Grade, p.GradeTag = gradeAuction(*p.AuctionValue, p.PositionRank)
		} else {
			p.Grade = gradeSnake(p.ExpectedRank, p.PositionRank)
			p.GradeTag = ""
		}
	}
	return out
}

// gradeSnake picks a band by how early the player went among their position.
// Early picks are judged on where they finished, late picks on how far they
// beat their draft slot.
func gradeSnake(expected, rank int) model.Grade {
	voe := expected - rank
	switch {
	case expected <= 3:
		return absoluteGrade(rank)
	case expected <= 8:
		return better(midFinishGrade(rank), voeGrade(voe, 4, -4))
	default:
		return voeGrade(voe, 6, -8)
	}
}

func absoluteGrade(rank int) model.Grade {
	switch {
	case rank <= 3:
		return model.GradeGreat
	case rank <= 6:
		return model.GradeGood
	case rank <= 12:
		return model.GradeBad
	default:
		return model.GradeTerrible
	}
}

func midFinishGrade(rank int) model.Grade {
	switch {
	case rank <= 3:
		return model.GradeGreat
	case rank <= 8:
		return model.GradeGood
	case rank <= 16:
		return model.GradeBad
	default:
		return model.GradeTerrible
	}
}

func voeGrade(voe, great, bad int) model.Grade {
	switch {
	case voe >= great:
		return model.GradeGreat
	case voe >= 0:
		return model.GradeGood
	case voe >= bad:
		return model.GradeBad
	default:
		return model.GradeTerrible
	}
}

var gradeOrder = map[model.Grade]int{
	model.GradeTerrible: 0,
	model.GradeBad:      1,
	model.GradeGood:     2,
	model.GradeGreat:    3,
}

func better(a, b model.Grade) model.Grade {
	if gradeOrder[b] > gradeOrder[a] {
		return b
	}
	return a
}

type AuctionTier string

const (
	TierElite   AuctionTier = "elite"
	TierMedium  AuctionTier = "medium"
	TierLow     AuctionTier = "low"
	TierBargain AuctionTier = "bargain"
)

func Tier(cost float64) AuctionTier {
	switch {
	case cost >= 40:
		return TierElite
	case cost >= 15:
		return TierMedium
	case cost >= 5:
		return TierLow
	default:
		return TierBargain
	}
}

type auctionBand struct {
	maxRank int
	grade   model.Grade
	tag     string
}

// Finish rank bands per price tier. A rank past every band gets the tier's
// last entry.
var auctionBands = map[AuctionTier][]auctionBand{
	TierElite: {
		{maxRank: 3, grade: model.GradeGreat, tag: "Worth Every Penny"},
		{maxRank: 8, grade: model.GradeGood, tag: "Solid Return"},
		{maxRank: 15, grade: model.GradeBad, tag: "Overpaid"},
		{grade: model.GradeTerrible, tag: "Bust"},
	},
	TierMedium: {
		{maxRank: 5, grade: model.GradeGreat, tag: "Value Hit"},
		{maxRank: 12, grade: model.GradeGood, tag: "Fair Price"},
		{maxRank: 24, grade: model.GradeBad, tag: "Underwhelming"},
		{grade: model.GradeTerrible, tag: "Money Pit"},
	},
	TierLow: {
		{maxRank: 10, grade: model.GradeGreat, tag: "Steal"},
		{maxRank: 20, grade: model.GradeGood, tag: "Useful Depth"},
		{maxRank: 36, grade: model.GradeBad, tag: "Roster Filler"},
		{grade: model.GradeTerrible, tag: "Wasted Dollars"},
	},
	TierBargain: {
		{maxRank: 10, grade: model.GradeGreat, tag: "Jackpot"},
		{maxRank: 24, grade: model.GradeGood, tag: "Nice Find"},
		{grade: model.GradeBad, tag: "Lottery Ticket"},
	},
}

func gradeAuction(cost float64, rank int) (model.Grade, string) {
	bands := auctionBands[Tier(cost)]
	for _, b := range bands {
		if b.maxRank == 0 || rank <= b.maxRank {
			return b.grade, b.tag
		}
	}
	last := bands[len(bands)-1]
	return last.grade, last.tag
}
