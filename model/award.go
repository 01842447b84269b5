package model

type AwardCategory string

const (
	AwardPerformance AwardCategory = "performance"
	AwardLuck        AwardCategory = "luck"
	AwardActivity    AwardCategory = "activity"
	AwardDraft       AwardCategory = "draft"
	AwardTrades      AwardCategory = "trades"
	AwardWaivers     AwardCategory = "waivers"
)

type Award struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    AwardCategory `json:"category"`
	TeamID      string        `json:"teamId"`
	TeamName    string        `json:"teamName"`
	Value       float64       `json:"value"`
	Detail      string        `json:"detail,omitempty"`
}
