package model

import "slices"

type Grade string

const (
	GradeNone     Grade = ""
	GradeGreat    Grade = "great"
	GradeGood     Grade = "good"
	GradeBad      Grade = "bad"
	GradeTerrible Grade = "terrible"
)

type DraftPick struct {
	PickNumber   int      `json:"pickNumber"`
	Round        int      `json:"round"`
	Player       Player   `json:"player"`
	TeamID       string   `json:"teamId"`
	TeamName     string   `json:"teamName"`
	AuctionValue *float64 `json:"auctionValue,omitempty"`
	SeasonPoints float64  `json:"seasonPoints"`

	// Set by draft grading.
	Grade             Grade  `json:"grade,omitempty"`
	GradeTag          string `json:"gradeTag,omitempty"`
	PositionRank      int    `json:"positionRank,omitempty"`
	ExpectedRank      int    `json:"expectedRank,omitempty"`
	ValueOverExpected int    `json:"valueOverExpected"`
}

func (p DraftPick) Graded() bool {
	return p.Grade != GradeNone
}

// SortPicks orders picks by overall pick number.
func SortPicks(picks []DraftPick) {
	slices.SortStableFunc(picks, func(a, b DraftPick) int {
		return a.PickNumber - b.PickNumber
	})
}
