package model

type LuckRating string

const (
	VeryLucky   LuckRating = "very_lucky"
	Lucky       LuckRating = "lucky"
	Neutral     LuckRating = "neutral"
	Unlucky     LuckRating = "unlucky"
	VeryUnlucky LuckRating = "very_unlucky"
)

type MatchResult string

const (
	ResultWin  MatchResult = "W"
	ResultLoss MatchResult = "L"
	ResultTie  MatchResult = "T"
)

type WeeklyScore struct {
	Week           int         `json:"week"`
	Points         float64     `json:"points"`
	OpponentID     string      `json:"opponentId,omitempty"`
	OpponentPoints float64     `json:"opponentPoints"`
	Result         MatchResult `json:"result,omitempty"`
	Median         float64     `json:"median"`
	AllPlayWins    int         `json:"allPlayWins"`
	AllPlayLosses  int         `json:"allPlayLosses"`
	AllPlayTies    int         `json:"allPlayTies"`
}

// Margin is positive for a win and negative for a loss.
func (w WeeklyScore) Margin() float64 {
	return w.Points - w.OpponentPoints
}

type LuckMetrics struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`

	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Ties       int     `json:"ties"`
	ActualWins float64 `json:"actualWins"`

	AllPlayWins   int     `json:"allPlayWins"`
	AllPlayLosses int     `json:"allPlayLosses"`
	AllPlayTies   int     `json:"allPlayTies"`
	AllPlayWinPct float64 `json:"allPlayWinPct"`

	ExpectedWins   float64 `json:"expectedWins"`
	ExpectedLosses float64 `json:"expectedLosses"`

	LuckScore  float64    `json:"luckScore"`
	LuckRating LuckRating `json:"luckRating"`

	ActualRank   int `json:"actualRank"`
	ExpectedRank int `json:"expectedRank"`
	AllPlayRank  int `json:"allPlayRank"`

	CloseWins   int `json:"closeWins"`
	CloseLosses int `json:"closeLosses"`

	BiggestWinMargin  float64     `json:"biggestWinMargin"`
	BiggestLossMargin float64     `json:"biggestLossMargin"`
	BestWeek          WeeklyScore `json:"bestWeek"`
	WorstWeek         WeeklyScore `json:"worstWeek"`

	PointsFor     float64       `json:"pointsFor"`
	PointsAgainst float64       `json:"pointsAgainst"`
	WeeklyScores  []WeeklyScore `json:"weeklyScores"`
}
