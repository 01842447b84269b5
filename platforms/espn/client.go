package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/metrics"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/espn/internal"
	"golang.org/x/time/rate"
)

const (
	ESPNURL  = "https://lm-api-reads.fantasy.espn.com"
	platform = string(model.PlatformESPN)

	ViewTeam          = "mTeam"
	ViewRoster        = "mRoster"
	ViewSettings      = "mSettings"
	ViewMatchupScore  = "mMatchupScore"
	ViewDraftDetail   = "mDraftDetail"
	ViewTransactions  = "mTransactions2"
	ViewStatus        = "mStatus"
	ViewCommunication = "kona_league_communication"

	ExtendCommunication = "communication"
)

var (
	leagueIDRegex = regexp.MustCompile(`^\d{1,15}$`)
	seasonRegex   = regexp.MustCompile(`^\d{4}$`)

	allowedViews = map[string]bool{
		ViewTeam:          true,
		ViewRoster:        true,
		ViewSettings:      true,
		ViewMatchupScore:  true,
		ViewDraftDetail:   true,
		ViewTransactions:  true,
		ViewStatus:        true,
		ViewCommunication: true,
	}
	allowedExtends = map[string]bool{
		"":                  true,
		ExtendCommunication: true,
	}
)

// ValidateRequest checks every value that ends up in an ESPN url against the
// fixed set of legal values.
func ValidateRequest(leagueID, season string, views []string, extend string) error {
	if !leagueIDRegex.MatchString(leagueID) {
		return platforms.InvalidRequest("invalid espn league id %q", leagueID)
	}
	if !seasonRegex.MatchString(season) {
		return platforms.InvalidRequest("invalid espn season %q", season)
	}
	for _, v := range views {
		if !allowedViews[v] {
			return platforms.InvalidRequest("espn view %q is not allowed", v)
		}
	}
	if !allowedExtends[extend] {
		return platforms.InvalidRequest("espn extend %q is not allowed", extend)
	}
	return nil
}

type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a client sending at most requestsPerSecond requests. Zero or
// less means no limit.
func New(requestsPerSecond float64) *Client {
	return &Client{
		url:        ESPNURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    newLimiter(requestsPerSecond),
	}
}

func NewForTest(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    newLimiter(0),
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// League fetches the league with the given views. A scoringPeriod above zero
// scopes rosters and transactions to that week.
func (c *Client) League(ctx context.Context, creds model.Credentials, leagueID string, season, scoringPeriod int, views ...string) (*internal.League, error) {
	s := strconv.Itoa(season)
	if err := ValidateRequest(leagueID, s, views, ""); err != nil {
		return nil, err
	}

	q := url.Values{}
	for _, v := range views {
		q.Add("view", v)
	}
	if scoringPeriod > 0 {
		q.Set("scoringPeriodId", strconv.Itoa(scoringPeriod))
	}

	var res internal.League
	path := fmt.Sprintf("/apis/v3/games/ffl/seasons/%s/segments/0/leagues/%s", s, leagueID)
	if err := c.espnRequest(ctx, creds, path, q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Communication fetches the league activity feed.
func (c *Client) Communication(ctx context.Context, creds model.Credentials, leagueID string, season int) (*internal.Communication, error) {
	s := strconv.Itoa(season)
	if err := ValidateRequest(leagueID, s, []string{ViewCommunication}, ExtendCommunication); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("view", ViewCommunication)

	var res internal.Communication
	path := fmt.Sprintf("/apis/v3/games/ffl/seasons/%s/segments/0/leagues/%s/%s/", s, leagueID, ExtendCommunication)
	if err := c.espnRequest(ctx, creds, path, q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) espnRequest(ctx context.Context, creds model.Credentials, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := fmt.Sprintf("%s%s?%s", c.url, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "error creating espn http request")
	}
	req.Header.Set("Accept", "application/json")
	if creds.ESPNS2 != "" && creds.SWID != "" {
		req.AddCookie(&http.Cookie{Name: "espn_s2", Value: creds.ESPNS2})
		req.AddCookie(&http.Cookie{Name: "SWID", Value: creds.SWID})
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
		return platforms.StatusError(platform, resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return platforms.NetworkError(platform, err)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Mark(errors.Wrap(err, "error parsing response from espn"), platforms.ErrProvider)
	}
	return nil
}
