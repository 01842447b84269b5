package platforms

import (
	"slices"
	"sync"

	"github.com/mww/league_insights/model"
)

// PlayerBook remembers every player identity seen during a load so players
// who are no longer on any roster still resolve to a name. It also tracks
// season points for the replacement pool.
type PlayerBook struct {
	mu      sync.Mutex
	players map[string]model.Player
	season  map[string]float64
	weekly  map[string]map[int]float64
}

func NewPlayerBook() *PlayerBook {
	return &PlayerBook{
		players: make(map[string]model.Player),
		season:  make(map[string]float64),
		weekly:  make(map[string]map[int]float64),
	}
}

// Observe records p unless a better identity is already known.
func (b *PlayerBook) Observe(p model.Player) {
	if p.ID == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	old, ok := b.players[p.ID]
	if ok && !old.IsPlaceholder() && (p.IsPlaceholder() || !p.Position.Known()) {
		return
	}
	if p.Team.IsFreeAgent() {
		p.Team = model.TEAM_FA
	}
	b.players[p.ID] = p
}

// ObserveWeek records the points a player scored in a week regardless of
// lineup slot.
func (b *PlayerBook) ObserveWeek(id string, week int, points float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.weekly[id]
	if !ok {
		w = make(map[int]float64)
		b.weekly[id] = w
	}
	w[week] = points
}

// ObserveSeason records a provider reported season total.
func (b *PlayerBook) ObserveSeason(id string, points float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if points > b.season[id] {
		b.season[id] = points
	}
}

func (b *PlayerBook) Resolve(id string) model.Player {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.players[id]; ok {
		return p
	}
	return model.PlaceholderPlayer(id)
}

func (b *PlayerBook) Known(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.players[id]
	return ok && !p.IsPlaceholder()
}

// SeasonPoints is the larger of the provider season total and the sum of
// observed weekly points, with the number of weeks observed.
func (b *PlayerBook) SeasonPoints(id string) (float64, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sum float64
	for _, pts := range b.weekly[id] {
		sum += pts
	}
	return max(sum, b.season[id]), len(b.weekly[id])
}

// SeasonPool lists every known player with season points, ordered by id.
func (b *PlayerBook) SeasonPool() []model.SeasonPlayer {
	b.mu.Lock()
	ids := make([]string, 0, len(b.players))
	for id := range b.players {
		ids = append(ids, id)
	}
	b.mu.Unlock()
	slices.Sort(ids)

	pool := make([]model.SeasonPlayer, 0, len(ids))
	for _, id := range ids {
		pts, games := b.SeasonPoints(id)
		pool = append(pool, model.SeasonPlayer{Player: b.Resolve(id), SeasonPoints: pts, Games: games})
	}
	return pool
}
