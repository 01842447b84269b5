package model

import (
	"encoding/json"
	"testing"
)

func TestParseTeam(t *testing.T) {
	tests := []struct {
		input    string
		expected *NFLTeam
	}{
		{input: "FA", expected: TEAM_FA},
		{input: "FA*", expected: TEAM_FA},
		{input: "", expected: TEAM_FA},
		{input: "???", expected: TEAM_FA},

		{input: "KC", expected: TEAM_KC},
		{input: "kcc", expected: TEAM_KC},
		{input: "JAC", expected: TEAM_JAX},
		{input: "Jax", expected: TEAM_JAX},
		{input: "WSH", expected: TEAM_WAS},
		{input: "LA", expected: TEAM_LAR},
		{input: "GBP", expected: TEAM_GB},
		{input: "SFO", expected: TEAM_SF},
		{input: "OAK", expected: TEAM_LV},
		{input: " sea ", expected: TEAM_SEA},
	}

	for _, tc := range tests {
		got := ParseTeam(tc.input)
		if got != tc.expected {
			t.Errorf("input: '%s', expected: %s, got: %s", tc.input, tc.expected, got)
		}
	}
}

func TestNFLTeamFriendly(t *testing.T) {
	if got := TEAM_SF.Friendly(); got != "San Francisco 49ers" {
		t.Errorf("expected San Francisco 49ers, got %s", got)
	}
	if got := TEAM_FA.Friendly(); got != "FA" {
		t.Errorf("expected FA, got %s", got)
	}
	var nilTeam *NFLTeam
	if !nilTeam.IsFreeAgent() {
		t.Errorf("expected a nil team to be a free agent")
	}
}

func TestNFLTeamMarshal(t *testing.T) {
	b, err := json.Marshal(Player{ID: "1", Name: "Someone", Team: TEAM_NE})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["team"] != "NE" {
		t.Errorf("expected team NE, got %v", got["team"])
	}
}
