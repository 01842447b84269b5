package model

import (
	"slices"
	"time"
)

type TransactionType string

const (
	TransactionWaiver    TransactionType = "waiver"
	TransactionFreeAgent TransactionType = "free_agent"
)

// Transaction is one waiver claim or free agent pickup. The aggregate fields
// are filled by the enrichment pass, adapters leave them zero.
type Transaction struct {
	ID                string          `json:"id"`
	Type              TransactionType `json:"type"`
	Week              int             `json:"week"`
	Timestamp         time.Time       `json:"timestamp"`
	TeamID            string          `json:"teamId"`
	TeamName          string          `json:"teamName"`
	Adds              []PickupPlayer  `json:"adds"`
	Drops             []Player        `json:"drops"`
	WaiverBudgetSpent *int            `json:"waiverBudgetSpent,omitempty"`

	TotalPointsGenerated float64 `json:"totalPointsGenerated"`
	GamesStarted         int     `json:"gamesStarted"`
	TotalPAR             float64 `json:"totalPAR"`
}

// DedupeTransactions keeps the first occurrence of each transaction id. The
// same transaction regularly shows up in more than one weekly window.
func DedupeTransactions(txs []Transaction) []Transaction {
	seen := make(map[string]bool, len(txs))
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	SortTransactions(out)
	return out
}

func SortTransactions(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		if a.Week != b.Week {
			return a.Week - b.Week
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
}

type TradePlayer struct {
	Player
	// Production for the receiving team from the trade week on.
	PointsAfterTrade float64 `json:"pointsAfterTrade"`
	GamesAfterTrade  int     `json:"gamesAfterTrade"`
	PAR              float64 `json:"par"`
}

type TradeSide struct {
	TeamID          string        `json:"teamId"`
	TeamName        string        `json:"teamName"`
	PlayersReceived []TradePlayer `json:"playersReceived"`
	PlayersSent     []TradePlayer `json:"playersSent"`

	ParGained float64 `json:"parGained"`
	ParLost   float64 `json:"parLost"`
	NetPAR    float64 `json:"netPAR"`

	PointsGained float64 `json:"pointsGained"`
	PointsLost   float64 `json:"pointsLost"`
	NetPoints    float64 `json:"netPoints"`
}

type Trade struct {
	ID           string      `json:"id"`
	Week         int         `json:"week"`
	Timestamp    time.Time   `json:"timestamp"`
	Teams        []TradeSide `json:"teams"`
	Winner       string      `json:"winner,omitempty"`
	WinnerMargin float64     `json:"winnerMargin,omitempty"`
	IsIncomplete bool        `json:"isIncomplete,omitempty"`
	// Source names the detection strategy that produced the trade.
	Source string `json:"source,omitempty"`
}

func (t Trade) Side(teamID string) *TradeSide {
	for i := range t.Teams {
		if t.Teams[i].TeamID == teamID {
			return &t.Teams[i]
		}
	}
	return nil
}

func (t Trade) Involves(teamID string) bool {
	return t.Side(teamID) != nil
}

func (t Trade) Clone() Trade {
	c := t
	c.Teams = make([]TradeSide, len(t.Teams))
	for i, s := range t.Teams {
		s.PlayersReceived = slices.Clone(s.PlayersReceived)
		s.PlayersSent = slices.Clone(s.PlayersSent)
		c.Teams[i] = s
	}
	return c
}

func (t Transaction) Clone() Transaction {
	c := t
	c.Adds = slices.Clone(t.Adds)
	c.Drops = slices.Clone(t.Drops)
	if t.WaiverBudgetSpent != nil {
		v := *t.WaiverBudgetSpent
		c.WaiverBudgetSpent = &v
	}
	return c
}
