// Package config reads the process settings from the environment (and an
// optional .env file) plus the tunable analytics policy from a yaml file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/mww/league_insights/analytics/luck"
	"github.com/mww/league_insights/analytics/par"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/espn"
	"go.uber.org/zap/zapcore"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort              = 3000
	defaultRequestsPerSecond = 5
)

var yahooEndpoint = oauth2.Endpoint{
	AuthURL:  "https://api.login.yahoo.com/oauth2/request_auth",
	TokenURL: "https://api.login.yahoo.com/oauth2/get_token",
}

type Config struct {
	Port int

	// PostgresConnStr is optional, tokens are kept in memory without it.
	PostgresConnStr   string
	YahooClientID     string
	YahooClientSecret string
	OAuthRedirectURL  string
	FetchConcurrency  int
	RequestsPerSecond float64
	LogLevel          zapcore.Level
	Policy            Policy
}

// Policy holds the analytics constants that are a matter of league taste
// rather than fact.
type Policy struct {
	PAR  par.Config   `yaml:"par"`
	Luck luck.Options `yaml:"luck"`
	ESPN ESPNPolicy   `yaml:"espn"`
}

type ESPNPolicy struct {
	FinalizeWindow time.Duration `yaml:"finalize_window"`
	MatchTolerance time.Duration `yaml:"match_tolerance"`
}

func DefaultPolicy() Policy {
	o := espn.DefaultOptions()
	return Policy{
		PAR:  par.DefaultConfig(),
		Luck: luck.DefaultOptions(),
		ESPN: ESPNPolicy{
			FinalizeWindow: o.FinalizeWindow,
			MatchTolerance: o.MatchTolerance,
		},
	}
}

// Load reads .env when present, then the environment, then POLICY_FILE.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "error loading .env file")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function so tests do not need to
// touch the process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:              defaultPort,
		PostgresConnStr:   getenv("POSTGRES_CONN_STR"),
		YahooClientID:     getenv("YAHOO_CLIENT_ID"),
		YahooClientSecret: getenv("YAHOO_CLIENT_SECRET"),
		OAuthRedirectURL:  getenv("OAUTH_REDIRECT_URL"),
		FetchConcurrency:  platforms.DefaultConcurrency,
		RequestsPerSecond: defaultRequestsPerSecond,
		LogLevel:          zapcore.InfoLevel,
		Policy:            DefaultPolicy(),
	}

	var err error
	if v := getenv("PORT"); v != "" {
		if cfg.Port, err = strconv.Atoi(v); err != nil {
			return nil, errors.Wrapf(err, "error parsing PORT %q", v)
		}
	}
	if v := getenv("FETCH_CONCURRENCY"); v != "" {
		if cfg.FetchConcurrency, err = strconv.Atoi(v); err != nil || cfg.FetchConcurrency < 1 {
			return nil, errors.Newf("FETCH_CONCURRENCY must be a positive integer, got %q", v)
		}
	}
	if v := getenv("REQUESTS_PER_SECOND"); v != "" {
		// 0 disables pacing
		if cfg.RequestsPerSecond, err = strconv.ParseFloat(v, 64); err != nil || cfg.RequestsPerSecond < 0 {
			return nil, errors.Newf("REQUESTS_PER_SECOND must be a non-negative number, got %q", v)
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = zapcore.ParseLevel(v); err != nil {
			return nil, errors.Wrapf(err, "error parsing LOG_LEVEL %q", v)
		}
	}
	if v := getenv("POLICY_FILE"); v != "" {
		p, err := LoadPolicy(v)
		if err != nil {
			return nil, err
		}
		cfg.Policy = *p
	}
	return cfg, nil
}

// LoadPolicy overlays a yaml file on the default policy. Keys missing from
// the file keep their default.
func LoadPolicy(filename string) (*Policy, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading policy file %s", filename)
	}
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal policy file %s", filename)
	}
	if err := p.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid policy file %s", filename)
	}
	return &p, nil
}

func (p Policy) validate() error {
	if p.PAR.BenchBuffer <= 0 {
		return errors.New("par.bench_buffer must be positive")
	}
	if p.PAR.SeasonGames <= 0 {
		return errors.New("par.season_games must be positive")
	}
	if p.PAR.TradeWinnerThreshold < 0 {
		return errors.New("par.trade_winner_threshold cannot be negative")
	}
	for pos, share := range p.PAR.FlexShare {
		if share < 0 {
			return errors.Newf("par.flex_share for %s cannot be negative", pos)
		}
	}
	if p.Luck.CloseGameMargin <= 0 {
		return errors.New("luck.close_game_margin must be positive")
	}
	return nil
}

// YahooOAuth returns nil unless the client id, secret and redirect url are
// all set.
func (c *Config) YahooOAuth() *oauth2.Config {
	if c.YahooClientID == "" || c.YahooClientSecret == "" || c.OAuthRedirectURL == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     c.YahooClientID,
		ClientSecret: c.YahooClientSecret,
		Endpoint:     yahooEndpoint,
		RedirectURL:  c.OAuthRedirectURL,
	}
}

// ESPNOptions applies the policy windows to the adapter defaults.
func (c *Config) ESPNOptions() espn.Options {
	o := espn.DefaultOptions()
	o.Concurrency = c.FetchConcurrency
	o.FinalizeWindow = c.Policy.ESPN.FinalizeWindow
	o.MatchTolerance = c.Policy.ESPN.MatchTolerance
	return o
}
