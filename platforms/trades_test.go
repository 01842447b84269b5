package platforms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mww/league_insights/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, starting bool, pts float64) RosterEntry {
	return RosterEntry{
		Player:   model.Player{ID: id, Name: "Player " + id + " Name", Position: model.POS_WR, Team: model.TEAM_KC},
		Starting: starting,
		Points:   pts,
	}
}

func tradeSnapshots() []WeekRosters {
	return []WeekRosters{
		{Week: 1, Teams: map[string][]RosterEntry{
			"1": {entry("a1", true, 10), entry("a2", false, 5)},
			"2": {entry("b1", true, 12), entry("b2", false, 7)},
			"3": {entry("c1", true, 9)},
		}},
		{Week: 2, Teams: map[string][]RosterEntry{
			"1": {entry("a1", true, 11), entry("b2", true, 8)},
			"2": {entry("b1", true, 13), entry("a2", true, 6)},
			"3": {entry("c1", true, 4), entry("w1", true, 20)},
		}},
		{Week: 3, Teams: map[string][]RosterEntry{
			"1": {entry("a1", true, 12), entry("b2", true, 9)},
			"2": {entry("b1", true, 14), entry("a2", false, 3)},
			"3": {entry("c1", true, 5), entry("w1", true, 15)},
		}},
	}
}

func TestRosterDiffFindsReciprocalMove(t *testing.T) {
	book := NewPlayerBook()
	ReconstructStarts(tradeSnapshots(), book)
	rd := &RosterDiff{
		Snapshots: tradeSnapshots(),
		Adds:      map[int]map[AddKey]bool{2: {{TeamID: "3", PlayerID: "w1"}: true}},
		Book:      book,
	}
	sink := &RecordingSink{}

	trades := rd.Detect(sink)
	require.Len(t, trades, 1)

	tr := trades[0]
	assert.Equal(t, 2, tr.Week)
	assert.Equal(t, "roster-diff-2-1-2", tr.ID)
	require.Len(t, tr.Teams, 2)
	assert.Equal(t, "1", tr.Teams[0].TeamID)
	assert.Equal(t, "2", tr.Teams[1].TeamID)

	got := func(ps []model.TradePlayer) []string {
		ids := []string{}
		for _, p := range ps {
			ids = append(ids, p.ID)
		}
		return ids
	}
	if diff := cmp.Diff([]string{"b2"}, got(tr.Teams[0].PlayersReceived)); diff != "" {
		t.Errorf("team 1 received mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a2"}, got(tr.Teams[0].PlayersSent)); diff != "" {
		t.Errorf("team 1 sent mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Player b2 Name", tr.Teams[0].PlayersReceived[0].Name)
}

func TestRosterDiffIgnoresOneWayMoves(t *testing.T) {
	snaps := []WeekRosters{
		{Week: 1, Teams: map[string][]RosterEntry{"1": {entry("a1", true, 1)}, "2": {}}},
		{Week: 2, Teams: map[string][]RosterEntry{"1": {}, "2": {entry("a1", true, 1)}}},
	}
	rd := &RosterDiff{Snapshots: snaps, Book: NewPlayerBook()}
	sink := &RecordingSink{}
	assert.Empty(t, rd.Detect(sink))
	assert.NotEmpty(t, sink.Events)
}

func TestRosterDiffSkipsGaps(t *testing.T) {
	snaps := []WeekRosters{
		{Week: 1, Teams: map[string][]RosterEntry{"1": {entry("a1", true, 1)}, "2": {entry("b1", true, 1)}}},
		{Week: 3, Teams: map[string][]RosterEntry{"1": {entry("b1", true, 1)}, "2": {entry("a1", true, 1)}}},
	}
	rd := &RosterDiff{Snapshots: snaps, Book: NewPlayerBook()}
	assert.Empty(t, rd.Detect(&RecordingSink{}))
}

func TestRosterDiffPickupExplainsMove(t *testing.T) {
	snaps := []WeekRosters{
		{Week: 1, Teams: map[string][]RosterEntry{"1": {entry("a1", true, 1)}, "2": {entry("b1", true, 1)}}},
		{Week: 2, Teams: map[string][]RosterEntry{"1": {entry("b1", true, 1)}, "2": {entry("a1", true, 1)}}},
	}
	rd := &RosterDiff{
		Snapshots: snaps,
		Adds:      map[int]map[AddKey]bool{2: {{TeamID: "1", PlayerID: "b1"}: true}},
		Book:      NewPlayerBook(),
	}
	assert.Empty(t, rd.Detect(&RecordingSink{}))
}

type fixedStrategy struct {
	name   string
	trades []model.Trade
	calls  int
}

func (f *fixedStrategy) Name() string { return f.name }

func (f *fixedStrategy) Detect(DiagnosticSink) []model.Trade {
	f.calls++
	return f.trades
}

func TestDetectTradesFirstNonEmptyWins(t *testing.T) {
	empty := &fixedStrategy{name: "empty"}
	first := &fixedStrategy{name: "first", trades: []model.Trade{{ID: "x"}}}
	second := &fixedStrategy{name: "second", trades: []model.Trade{{ID: "y"}, {ID: "z"}}}

	trades, used := DetectTrades(&RecordingSink{}, empty, first, second)
	assert.Equal(t, "first", used)
	require.Len(t, trades, 1)
	assert.Equal(t, "x", trades[0].ID)
	assert.Equal(t, "first", trades[0].Source)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 0, second.calls)
}

func TestDetectTradesNone(t *testing.T) {
	trades, used := DetectTrades(&RecordingSink{}, &fixedStrategy{name: "a"}, &fixedStrategy{name: "b"})
	assert.Empty(t, used)
	assert.NotNil(t, trades)
	assert.Empty(t, trades)
}

func TestBuildTradeMultiTeam(t *testing.T) {
	book := NewPlayerBook()
	moves := []Move{
		{PlayerID: "p1", From: "3", To: "1"},
		{PlayerID: "p2", From: "1", To: "2"},
		{PlayerID: "p3", From: "2", To: "3"},
	}
	tr := BuildTrade("t1", 4, zeroTime, moves, book)
	require.Len(t, tr.Teams, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{tr.Teams[0].TeamID, tr.Teams[1].TeamID, tr.Teams[2].TeamID})
	assert.True(t, tr.Teams[0].PlayersReceived[0].IsPlaceholder())
	assert.Equal(t, "p2", tr.Teams[0].PlayersSent[0].ID)
}

func TestIncompleteTrade(t *testing.T) {
	tr := IncompleteTrade("t", 5, zeroTime, []string{"2", "1", "2"})
	assert.True(t, tr.IsIncomplete)
	require.Len(t, tr.Teams, 2)
	assert.Equal(t, "1", tr.Teams[0].TeamID)
}

func TestPickupIndex(t *testing.T) {
	idx := PickupIndex([]model.Transaction{
		{Week: 2, TeamID: "3", Adds: []model.PickupPlayer{{Player: model.Player{ID: "w1"}}}},
	})
	assert.True(t, idx[2][AddKey{TeamID: "3", PlayerID: "w1"}])
	assert.False(t, idx[3][AddKey{TeamID: "3", PlayerID: "w1"}])
}
