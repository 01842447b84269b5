package model

import (
	"strings"
)

type Position string

const (
	POS_UNKNOWN Position = "UNK"
	POS_QB      Position = "QB"
	POS_RB      Position = "RB"
	POS_WR      Position = "WR"
	POS_TE      Position = "TE"
	POS_K       Position = "K"
	POS_DST     Position = "D/ST"
)

// Positions lists every scoring position in display order.
var Positions = []Position{POS_QB, POS_RB, POS_WR, POS_TE, POS_K, POS_DST}

func ParsePosition(pos string) Position {
	pos = strings.ToLower(strings.TrimSpace(pos))
	switch pos {
	case "qb":
		return POS_QB
	case "rb", "fb":
		return POS_RB
	case "wr":
		return POS_WR
	case "te":
		return POS_TE
	case "k", "pk":
		return POS_K
	case "def", "dst", "d/st", "d", "defense":
		return POS_DST
	default:
		return POS_UNKNOWN
	}
}

func (p Position) Known() bool {
	return p != POS_UNKNOWN && p != ""
}
