package platforms

import (
	"context"
	"slices"
	"time"

	"github.com/mww/league_insights/model"
	"golang.org/x/oauth2"
)

// TokenProvider supplies the OAuth token for a Yahoo load. Refresh forces a
// new token after the provider rejected the current one.
type TokenProvider interface {
	Token(ctx context.Context) (*oauth2.Token, error)
	Refresh(ctx context.Context) (*oauth2.Token, error)
}

// LoadRequest is everything an adapter needs to load one league season.
type LoadRequest struct {
	LeagueID    string
	Season      int
	Credentials model.Credentials
	Tokens      TokenProvider
}

// WeekCalendar maps timestamps to fantasy weeks using the start time of each
// week.
type WeekCalendar struct {
	starts []weekStart
}

type weekStart struct {
	week  int
	start time.Time
}

func (c *WeekCalendar) Add(week int, start time.Time) {
	c.starts = append(c.starts, weekStart{week: week, start: start})
	slices.SortFunc(c.starts, func(a, b weekStart) int { return a.start.Compare(b.start) })
}

func (c *WeekCalendar) Empty() bool {
	return len(c.starts) == 0
}

// Week returns the last week starting at or before ts, or 1 when ts is
// before the season.
func (c *WeekCalendar) Week(ts time.Time) int {
	week := 1
	for _, s := range c.starts {
		if s.start.After(ts) {
			break
		}
		week = s.week
	}
	return week
}
