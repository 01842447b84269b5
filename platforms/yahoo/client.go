package yahoo

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/metrics"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/yahoo/internal"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	YahooURL = "https://fantasysports.yahooapis.com"
	platform = string(model.PlatformYahoo)
)

// Format looks like 449.l.431 or 449.l.431.t.1
var keyRegex = regexp.MustCompile(`^(\d+|nfl)\.l\.\d{1,12}(\.t\.\d{1,3})?$`)

type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(requestsPerSecond float64) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		url:        YahooURL,
		httpClient: &http.Client{Timeout: 1 * time.Minute},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func NewForTest(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func (c *Client) League(ctx context.Context, tokens platforms.TokenProvider, leagueKey string) (*internal.League, error) {
	content, err := c.yahooRequest(ctx, tokens, leagueKey, "/fantasy/v2/league/%s", leagueKey)
	if err != nil {
		return nil, err
	}
	if content.League == nil || content.League.Name == "" {
		return nil, errors.Mark(errors.Newf("yahoo league %s has no metadata", leagueKey), platforms.ErrProvider)
	}
	return content.League, nil
}

func (c *Client) Settings(ctx context.Context, tokens platforms.TokenProvider, leagueKey string) (*internal.Settings, error) {
	content, err := c.yahooRequest(ctx, tokens, leagueKey, "/fantasy/v2/league/%s/settings", leagueKey)
	if err != nil {
		return nil, err
	}
	if content.League == nil ||
		content.League.Settings == nil ||
		content.League.Settings.RosterPositions == nil {
		return nil, errors.Mark(errors.New("settings has no roster positions"), platforms.ErrProvider)
	}
	return content.League.Settings, nil
}

func (c *Client) Standings(ctx context.Context, tokens platforms.TokenProvider, leagueKey string) ([]internal.Team, error) {
	content, err := c.yahooRequest(ctx, tokens, leagueKey, "/fantasy/v2/league/%s/standings", leagueKey)
	if err != nil {
		return nil, err
	}
	if content.League == nil ||
		content.League.Standings == nil ||
		content.League.Standings.Teams == nil ||
		len(content.League.Standings.Teams.Teams) == 0 {
		return nil, errors.Mark(errors.New("league has no teams"), platforms.ErrProvider)
	}
	return content.League.Standings.Teams.Teams, nil
}

func (c *Client) Scoreboard(ctx context.Context, tokens platforms.TokenProvider, leagueKey string, week int) ([]internal.Matchup, error) {
	content, err := c.yahooRequest(ctx, tokens, leagueKey, "/fantasy/v2/league/%s/scoreboard;week=%d", leagueKey, week)
	if err != nil {
		return nil, err
	}
	if content.League == nil ||
		content.League.Scoreboard == nil ||
		content.League.Scoreboard.Matchups == nil {
		return nil, errors.Mark(errors.Newf("scoreboard for week %d not found", week), platforms.ErrProvider)
	}
	matchups := content.League.Scoreboard.Matchups.Matchups
	for _, m := range matchups {
		if err := validateTeams(m.Teams); err != nil {
			return nil, err
		}
	}
	return matchups, nil
}

func validateTeams(teams *internal.Teams) error {
	if teams == nil || len(teams.Teams) == 0 || len(teams.Teams) > 2 {
		return errors.Mark(errors.New("invalid teams in result"), platforms.ErrProvider)
	}
	for _, t := range teams.Teams {
		if t.Key == "" || t.TeamPoints == nil {
			return errors.Mark(errors.New("invalid team in results"), platforms.ErrProvider)
		}
	}
	return nil
}

func (c *Client) DraftResults(ctx context.Context, tokens platforms.TokenProvider, leagueKey string) ([]internal.DraftResult, error) {
	content, err := c.yahooRequest(ctx, tokens, leagueKey, "/fantasy/v2/league/%s/draftresults", leagueKey)
	if err != nil {
		return nil, err
	}
	if content.League == nil || content.League.DraftResults == nil {
		return []internal.DraftResult{}, nil
	}
	return content.League.DraftResults.Results, nil
}

func (c *Client) Transactions(ctx context.Context, tokens platforms.TokenProvider, leagueKey string) ([]internal.Transaction, error) {
	content, err := c.yahooRequest(ctx, tokens, leagueKey, "/fantasy/v2/league/%s/transactions", leagueKey)
	if err != nil {
		return nil, err
	}
	if content.League == nil || content.League.Transactions == nil {
		return []internal.Transaction{}, nil
	}
	return content.League.Transactions.Transactions, nil
}

// Roster returns a team's players for a week with their selected lineup
// position and the points they scored that week.
func (c *Client) Roster(ctx context.Context, tokens platforms.TokenProvider, teamKey string, week int) ([]internal.Player, error) {
	content, err := c.yahooRequest(ctx, tokens, teamKey,
		"/fantasy/v2/team/%s/roster;week=%d/players/stats;type=week;week=%d", teamKey, week, week)
	if err != nil {
		return nil, err
	}
	if content.Team == nil ||
		content.Team.Roster == nil ||
		content.Team.Roster.Players == nil {
		return nil, errors.Mark(errors.Newf("team roster not found for %s week %d", teamKey, week), platforms.ErrProvider)
	}
	return content.Team.Roster.Players.Players, nil
}

func validateKey(key string) error {
	if !keyRegex.MatchString(key) {
		return platforms.InvalidRequest("invalid yahoo key %q", key)
	}
	return nil
}

// yahooRequest sends an authorized request. A 401 triggers one token refresh
// and one retry, a second 401 means the session is gone.
func (c *Client) yahooRequest(ctx context.Context, tokens platforms.TokenProvider, key, path string, args ...any) (*internal.FantasyContent, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, errors.WithHint(errors.Mark(errors.New("no yahoo token available"), platforms.ErrUnauthorized),
			"Sign in with Yahoo to load this league.")
	}

	p := fmt.Sprintf(path, args...)
	token, err := tokens.Token(ctx)
	if err != nil {
		return nil, platforms.TokenExpiredError(err)
	}

	resp, err := c.do(ctx, token, p)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		token, err = tokens.Refresh(ctx)
		if err != nil {
			return nil, platforms.TokenExpiredError(err)
		}
		resp, err = c.do(ctx, token, p)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return nil, platforms.TokenExpiredError(nil)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, platforms.StatusError(platform, resp.StatusCode, p)
	}

	var res internal.FantasyContent
	if err := xml.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "error parsing response from yahoo"), platforms.ErrProvider)
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, token *oauth2.Token, path string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", c.url, path), nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating yahoo http request")
	}
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.ProviderRequests.WithLabelValues(platform, "error").Inc()
		return nil, platforms.NetworkError(platform, err)
	}
	metrics.ProviderRequests.WithLabelValues(platform, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}
