package sleeper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/metrics"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/sleeper/internal"
	"golang.org/x/time/rate"
)

const (
	SleeperURL = "https://api.sleeper.app"
	platform   = string(model.PlatformSleeper)
)

var idRegex = regexp.MustCompile(`^\d{1,25}$`)

type Client interface {
	LoadPlayers(ctx context.Context) ([]model.Player, error)
	GetLeague(ctx context.Context, leagueID string) (*internal.League, error)
	GetUsers(ctx context.Context, leagueID string) ([]internal.User, error)
	GetRosters(ctx context.Context, leagueID string) ([]internal.Roster, error)
	GetMatchups(ctx context.Context, leagueID string, week int) ([]internal.Matchup, error)
	GetTransactions(ctx context.Context, leagueID string, week int) ([]internal.Transaction, error)
	GetDrafts(ctx context.Context, leagueID string) ([]internal.Draft, error)
	GetDraftPicks(ctx context.Context, draftID string) ([]internal.DraftPick, error)
	GetState(ctx context.Context) (*internal.State, error)
}

type client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(requestsPerSecond float64) Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &client{
		url: SleeperURL,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func NewForTest(url string) Client {
	return &client{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func (c *client) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	var parsed map[string]sleeperPlayer
	if err := c.sleeperRequest(ctx, &parsed, "/v1/players/nfl"); err != nil {
		return nil, err
	}

	result := make([]model.Player, 0, len(parsed))
	for id, p := range parsed {
		if p.ID == "" {
			p.ID = id
		}
		if p.FirstName == "Player" && p.LastName == "Invalid" {
			continue
		}
		result = append(result, p.toPlayer())
	}
	return result, nil
}

func (c *client) GetLeague(ctx context.Context, leagueID string) (*internal.League, error) {
	if err := validateID("league", leagueID); err != nil {
		return nil, err
	}
	var l *internal.League
	if err := c.sleeperRequest(ctx, &l, "/v1/league/%s", leagueID); err != nil {
		return nil, err
	}
	// sleeper answers unknown leagues with a 200 and "null"
	if l == nil {
		return nil, errors.WithHint(errors.Mark(errors.Newf("sleeper league %s not found", leagueID), platforms.ErrNotFound),
			"League not found. Verify the league id and season.")
	}
	return l, nil
}

func (c *client) GetUsers(ctx context.Context, leagueID string) ([]internal.User, error) {
	var users []internal.User
	err := c.leagueRequest(ctx, leagueID, &users, "/v1/league/%s/users", leagueID)
	return users, err
}

func (c *client) GetRosters(ctx context.Context, leagueID string) ([]internal.Roster, error) {
	var rosters []internal.Roster
	err := c.leagueRequest(ctx, leagueID, &rosters, "/v1/league/%s/rosters", leagueID)
	return rosters, err
}

func (c *client) GetMatchups(ctx context.Context, leagueID string, week int) ([]internal.Matchup, error) {
	var matchups []internal.Matchup
	err := c.leagueRequest(ctx, leagueID, &matchups, "/v1/league/%s/matchups/%d", leagueID, week)
	return matchups, err
}

func (c *client) GetTransactions(ctx context.Context, leagueID string, week int) ([]internal.Transaction, error) {
	var txs []internal.Transaction
	err := c.leagueRequest(ctx, leagueID, &txs, "/v1/league/%s/transactions/%d", leagueID, week)
	return txs, err
}

func (c *client) GetDrafts(ctx context.Context, leagueID string) ([]internal.Draft, error) {
	var drafts []internal.Draft
	err := c.leagueRequest(ctx, leagueID, &drafts, "/v1/league/%s/drafts", leagueID)
	return drafts, err
}

func (c *client) GetDraftPicks(ctx context.Context, draftID string) ([]internal.DraftPick, error) {
	if err := validateID("draft", draftID); err != nil {
		return nil, err
	}
	var picks []internal.DraftPick
	err := c.sleeperRequest(ctx, &picks, "/v1/draft/%s/picks", draftID)
	return picks, err
}

func (c *client) GetState(ctx context.Context) (*internal.State, error) {
	var s internal.State
	if err := c.sleeperRequest(ctx, &s, "/v1/state/nfl"); err != nil {
		return nil, err
	}
	return &s, nil
}

func validateID(kind, id string) error {
	if !idRegex.MatchString(id) {
		return platforms.InvalidRequest("invalid sleeper %s id %q", kind, id)
	}
	return nil
}

func (c *client) leagueRequest(ctx context.Context, leagueID string, out any, path string, args ...any) error {
	if err := validateID("league", leagueID); err != nil {
		return err
	}
	return c.sleeperRequest(ctx, out, path, args...)
}

func (c *client) sleeperRequest(ctx context.Context, out any, path string, args ...any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	p := fmt.Sprintf(path, args...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", c.url, p), nil)
	if err != nil {
		return errors.Wrap(err, "error creating http request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.ProviderRequests.WithLabelValues(platform, "error").Inc()
		return platforms.NetworkError(platform, err)
	}
	defer resp.Body.Close()
	metrics.ProviderRequests.WithLabelValues(platform, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return platforms.StatusError(platform, resp.StatusCode, p)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return platforms.NetworkError(platform, err)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Mark(errors.Wrap(err, "error parsing response from sleeper"), platforms.ErrProvider)
	}
	return nil
}
