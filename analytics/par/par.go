// Package par computes replacement level baselines and points above
// replacement for players, waiver pickups and trades.
package par

import (
	"math"
	"slices"

	"github.com/mww/league_insights/model"
)

// Config holds the tunable policy of the replacement engine.
type Config struct {
	// FlexShare splits each RB/WR/TE flex slot across the positions.
	FlexShare   map[model.Position]float64 `yaml:"flex_share"`
	BenchBuffer float64                    `yaml:"bench_buffer"`
	SeasonGames int                        `yaml:"season_games"`
	// TradeWinnerThreshold is the net PAR difference a trade must exceed
	// before a winner is declared.
	TradeWinnerThreshold float64 `yaml:"trade_winner_threshold"`
}

func DefaultConfig() Config {
	return Config{
		FlexShare: map[model.Position]float64{
			model.POS_RB: 0.4,
			model.POS_WR: 0.4,
			model.POS_TE: 0.2,
		},
		BenchBuffer:          1.25,
		SeasonGames:          17,
		TradeWinnerThreshold: 20,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FlexShare == nil {
		c.FlexShare = d.FlexShare
	}
	if c.BenchBuffer <= 0 {
		c.BenchBuffer = d.BenchBuffer
	}
	if c.SeasonGames <= 0 {
		c.SeasonGames = d.SeasonGames
	}
	if c.TradeWinnerThreshold < 0 {
		c.TradeWinnerThreshold = d.TradeWinnerThreshold
	}
	return c
}

// EffectiveStarters is the number of starters per position a single team
// fields once combination slots are split.
func EffectiveStarters(slots model.RosterSlots, cfg Config) map[model.Position]float64 {
	cfg = cfg.withDefaults()
	flex := float64(slots.Flex)
	return map[model.Position]float64{
		model.POS_QB:  float64(slots.QB + slots.SuperFlex),
		model.POS_RB:  float64(slots.RB) + flex*cfg.FlexShare[model.POS_RB] + float64(slots.RBWR)/2,
		model.POS_WR:  float64(slots.WR) + flex*cfg.FlexShare[model.POS_WR] + float64(slots.RBWR)/2 + float64(slots.WRTE)/2,
		model.POS_TE:  float64(slots.TE) + flex*cfg.FlexShare[model.POS_TE] + float64(slots.WRTE)/2,
		model.POS_K:   float64(slots.K),
		model.POS_DST: float64(slots.DST),
	}
}

// ReplacementLevels returns, per position, the rank at which a player becomes
// freely available: effective starters x teams x bench buffer, rounded up.
// Positions the league does not start are omitted.
func ReplacementLevels(slots model.RosterSlots, totalTeams int, cfg Config) map[model.Position]int {
	cfg = cfg.withDefaults()
	levels := make(map[model.Position]int)
	if totalTeams <= 0 {
		return levels
	}
	for pos, starters := range EffectiveStarters(slots, cfg) {
		if starters <= 0 {
			continue
		}
		rank := starters * float64(totalTeams) * cfg.BenchBuffer
		levels[pos] = int(math.Ceil(rank - 1e-9))
	}
	return levels
}

// ReplacementPoints returns the season points of the player ranked at each
// position's threshold. When the pool is smaller than the threshold the
// lowest ranked player in the pool is the baseline.
func ReplacementPoints(pool []model.SeasonPlayer, thresholds map[model.Position]int) map[model.Position]float64 {
	byPos := make(map[model.Position][]float64)
	for _, p := range pool {
		if !p.Position.Known() {
			continue
		}
		byPos[p.Position] = append(byPos[p.Position], p.SeasonPoints)
	}

	baselines := make(map[model.Position]float64, len(thresholds))
	for pos, threshold := range thresholds {
		points := byPos[pos]
		if len(points) == 0 || threshold <= 0 {
			continue
		}
		slices.SortFunc(points, func(a, b float64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			}
			return 0
		})
		idx := min(threshold, len(points)) - 1
		baselines[pos] = points[idx]
	}
	return baselines
}

// Levels pairs thresholds with their baselines for reporting.
func Levels(thresholds map[model.Position]int, baselines map[model.Position]float64) []model.ReplacementLevel {
	out := make([]model.ReplacementLevel, 0, len(thresholds))
	for _, pos := range model.Positions {
		th, ok := thresholds[pos]
		if !ok {
			continue
		}
		out = append(out, model.ReplacementLevel{Position: pos, Threshold: th, Points: baselines[pos]})
	}
	return out
}

// Calculator maps a player's production to points above replacement. It holds
// no state beyond the baselines it was built with.
type Calculator struct {
	baselines   map[model.Position]float64
	seasonGames int
}

func NewCalculator(baselines map[model.Position]float64, cfg Config) *Calculator {
	cfg = cfg.withDefaults()
	b := make(map[model.Position]float64, len(baselines))
	for k, v := range baselines {
		b[k] = v
	}
	return &Calculator{baselines: b, seasonGames: cfg.SeasonGames}
}

// ForLeague builds the thresholds, baselines and calculator for a league.
func ForLeague(l *model.League, cfg Config) (*Calculator, []model.ReplacementLevel) {
	thresholds := ReplacementLevels(l.RosterSlots, l.TotalTeams, cfg)
	baselines := ReplacementPoints(l.PlayerPool, thresholds)
	return NewCalculator(baselines, cfg), Levels(thresholds, baselines)
}

func (c *Calculator) Baseline(pos model.Position) float64 {
	return c.baselines[pos]
}

// PlayerPAR is season points above the full season baseline.
func (c *Calculator) PlayerPAR(pos model.Position, points float64) float64 {
	return points - c.baselines[pos]
}

// GamesPAR prorates the baseline to the games the player was started.
func (c *Calculator) GamesPAR(pos model.Position, points float64, games int) float64 {
	if games <= 0 {
		return points
	}
	prorated := c.baselines[pos] * float64(games) / float64(c.seasonGames)
	return points - prorated
}

// WaiverPAR is GamesPAR floored at zero.
func (c *Calculator) WaiverPAR(pos model.Position, points float64, games int) float64 {
	return math.Max(0, c.GamesPAR(pos, points, games))
}
