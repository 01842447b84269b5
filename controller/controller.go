package controller

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/itbasis/go-clock"
	"github.com/mww/league_insights/config"
	"github.com/mww/league_insights/db"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var (
	// ErrStaleLoad is returned by a load that was replaced by a newer one
	// before it finished.
	ErrStaleLoad = errors.New("league load was superseded by a newer load")
	ErrNoLeague  = errors.New("no league has been loaded")
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	// LoadLeague fetches, normalizes and analyzes a league. Starting a load
	// cancels the load in flight, if any. progress may be nil.
	LoadLeague(ctx context.Context, req LoadRequest, progress platforms.ProgressFunc) (*model.LeagueReport, error)
	// Current returns the report of the last load that completed and was not
	// superseded.
	Current() (*model.LeagueReport, error)
	// Progress returns the latest progress of the newest load.
	Progress() model.Progress
	Awards() ([]model.Award, error)

	// OAuthStart returns the url the user should be sent to in order to
	// authorize access to their Yahoo leagues.
	OAuthStart(platform string) (string, error)
	// OAuthExchange trades the authorization code for a token, stores it and
	// returns the session key that identifies it in later loads.
	OAuthExchange(ctx context.Context, state, code string) (string, error)
	SignOut(ctx context.Context, sessionKey string) error
}

// LoadRequest is what a caller supplies to load a league.
type LoadRequest struct {
	Platform string `json:"platform" validate:"required,oneof=espn sleeper yahoo"`
	LeagueID string `json:"leagueId" validate:"required,max=64"`
	Season   int    `json:"season" validate:"required,gte=2000,lte=2100"`
	ESPNS2   string `json:"espnS2,omitempty" validate:"required_with=SWID"`
	SWID     string `json:"swid,omitempty" validate:"required_with=ESPNS2"`
	// YahooSession is the session key returned by OAuthExchange.
	YahooSession string `json:"yahooSession,omitempty" validate:"omitempty,uuid"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (r LoadRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid load request"), platforms.ErrInvalidRequest)
	}
	return nil
}

// Adapter loads one league season from a provider.
type Adapter interface {
	LoadLeague(ctx context.Context, req platforms.LoadRequest, progress platforms.ProgressFunc) (*model.League, error)
}

// Adapters holds one adapter per provider. A nil adapter means the provider
// is not available.
type Adapters struct {
	ESPN    Adapter
	Sleeper Adapter
	Yahoo   Adapter
}

type controller struct {
	clock       clock.Clock
	store       db.TokenStore
	adapters    Adapters
	yahooConfig *oauth2.Config
	policy      config.Policy
	logger      *zap.Logger
	tracer      trace.Tracer

	oauthMu     sync.Mutex
	oauthStates map[string]*oauthState

	tokenMu     sync.Mutex
	tokenSource map[string]*storedTokens

	loadCounter atomic.Uint64

	// emitMu orders progress delivery against load switches: once begin
	// returns, no update of an older load reaches its callback.
	emitMu sync.Mutex

	mu       sync.Mutex
	active   uint64
	cancel   context.CancelFunc
	current  *model.LeagueReport
	progress model.Progress
}

func New(clock clock.Clock, store db.TokenStore, adapters Adapters, yahooConfig *oauth2.Config, policy config.Policy, logger *zap.Logger) (C, error) {
	if store == nil {
		return nil, errors.New("a token store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &controller{
		clock:       clock,
		store:       store,
		adapters:    adapters,
		yahooConfig: yahooConfig,
		policy:      policy,
		logger:      logger.Named("controller"),
		tracer:      otel.Tracer("github.com/mww/league_insights/controller"),
		oauthStates: make(map[string]*oauthState),
		tokenSource: make(map[string]*storedTokens),
	}
	return c, nil
}

func (c *controller) getPlatformAdapter(platform string) Adapter {
	var a Adapter
	switch model.Platform(platform) {
	case model.PlatformESPN:
		a = c.adapters.ESPN
	case model.PlatformSleeper:
		a = c.adapters.Sleeper
	case model.PlatformYahoo:
		a = c.adapters.Yahoo
	default:
		return &nilPlatformAdapter{err: platforms.InvalidRequest("%s is not a supported platform", platform)}
	}
	if a == nil {
		return &nilPlatformAdapter{err: platforms.InvalidRequest("%s is not configured on this server", platform)}
	}
	return a
}

// nilPlatformAdapter exists so that we can always return an adapter and simply the usage.
// It eliminates the need for an extra error check.
type nilPlatformAdapter struct {
	err error
}

func (a *nilPlatformAdapter) LoadLeague(ctx context.Context, req platforms.LoadRequest, progress platforms.ProgressFunc) (*model.League, error) {
	return nil, a.err
}
