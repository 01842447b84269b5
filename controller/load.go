package controller

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/analytics/awards"
	"github.com/mww/league_insights/analytics/draft"
	"github.com/mww/league_insights/analytics/luck"
	"github.com/mww/league_insights/analytics/par"
	"github.com/mww/league_insights/metrics"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func (c *controller) LoadLeague(ctx context.Context, req LoadRequest, progress platforms.ProgressFunc) (*model.LeagueReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	token, ctx, done := c.begin(ctx)
	defer done()

	ctx, span := c.tracer.Start(ctx, "LoadLeague", trace.WithAttributes(
		attribute.String("platform", req.Platform),
		attribute.String("league", req.LeagueID),
		attribute.Int("season", req.Season),
		attribute.Int64("load_token", int64(token)),
	))
	defer span.End()

	logger := c.logger.With(
		zap.String("platform", req.Platform),
		zap.String("league", req.LeagueID),
		zap.Int("season", req.Season),
		zap.Uint64("load", token))

	start := c.clock.Now()
	report, err := c.load(ctx, token, req, progress, logger)
	if err != nil {
		if !c.isActive(token) {
			err = errors.Mark(errors.Wrapf(err, "load %d", token), ErrStaleLoad)
		}
		outcome := "error"
		if errors.Is(err, ErrStaleLoad) {
			outcome = "stale"
			logger.Info("dropping superseded league load", zap.Error(err))
		} else {
			logger.Warn("league load failed", zap.Error(err))
		}
		metrics.LeagueLoads.WithLabelValues(req.Platform, outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	report.LoadedAt = c.clock.Now()
	report.Duration = report.LoadedAt.Sub(start)

	if !c.publish(token, report) {
		metrics.LeagueLoads.WithLabelValues(req.Platform, "stale").Inc()
		span.SetStatus(codes.Error, "stale")
		return nil, errors.Mark(errors.Newf("load %d finished after a newer load started", token), ErrStaleLoad)
	}

	metrics.LeagueLoads.WithLabelValues(req.Platform, "success").Inc()
	metrics.LoadDuration.WithLabelValues(req.Platform).Observe(report.Duration.Seconds())
	logger.Info("league loaded",
		zap.String("name", report.League.Name),
		zap.Int("teams", len(report.League.Teams)),
		zap.Int("trades", len(report.League.Trades)),
		zap.Strings("incomplete", report.League.Incomplete),
		zap.Duration("duration", report.Duration))
	return report, nil
}

func (c *controller) load(ctx context.Context, token uint64, req LoadRequest, progress platforms.ProgressFunc, logger *zap.Logger) (*model.LeagueReport, error) {
	adapter := c.getPlatformAdapter(req.Platform)

	preq := platforms.LoadRequest{
		LeagueID: req.LeagueID,
		Season:   req.Season,
		Credentials: model.Credentials{
			ESPNS2:       req.ESPNS2,
			SWID:         req.SWID,
			YahooSession: req.YahooSession,
		},
	}
	if req.YahooSession != "" {
		preq.Tokens = c.tokens(req.YahooSession)
	}

	l, err := adapter.LoadLeague(ctx, preq, c.progressFor(token, progress))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(l.Incomplete) > 0 {
		logger.Warn("league loaded with missing data", zap.Strings("incomplete", l.Incomplete))
	}

	report := c.analyze(ctx, l)
	report.LoadToken = token
	return report, nil
}

// analyze values pickups and trades against replacement level, then grades
// the draft and computes luck side by side.
func (c *controller) analyze(ctx context.Context, l *model.League) *model.LeagueReport {
	_, span := c.tracer.Start(ctx, "analyze")
	defer span.End()

	calc, levels := par.ForLeague(l, c.policy.PAR)
	enriched := calc.EnrichLeague(l, c.policy.PAR.TradeWinnerThreshold)

	var graded []model.DraftPick
	var luckMetrics []model.LuckMetrics
	var wg conc.WaitGroup
	wg.Go(func() {
		graded = draft.Grade(enriched.AllDraftPicks(), enriched.DraftType)
	})
	wg.Go(func() {
		luckMetrics = luck.Calculate(enriched.Teams, enriched.SeasonMatchups(), c.policy.Luck)
	})
	wg.Wait()

	return &model.LeagueReport{
		League:      draft.ApplyToLeague(enriched, graded),
		Luck:        luckMetrics,
		Replacement: levels,
	}
}

// begin registers a new load, cancelling the one in flight. The returned
// func must be called when the load returns.
func (c *controller) begin(parent context.Context) (uint64, context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	token := c.loadCounter.Add(1)

	c.emitMu.Lock()
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.active = token
	c.cancel = cancel
	c.progress = model.Progress{Stage: "starting"}
	c.mu.Unlock()
	c.emitMu.Unlock()

	return token, ctx, func() {
		c.mu.Lock()
		if c.active == token {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
	}
}

func (c *controller) isActive(token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active == token
}

func (c *controller) publish(token uint64, r *model.LeagueReport) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != token {
		return false
	}
	c.current = r
	return true
}

// progressFor drops updates from loads that are no longer the newest. The
// callback runs under emitMu so it must not start another load.
func (c *controller) progressFor(token uint64, fn platforms.ProgressFunc) platforms.ProgressFunc {
	return func(p model.Progress) {
		c.emitMu.Lock()
		defer c.emitMu.Unlock()

		c.mu.Lock()
		if c.active != token {
			c.mu.Unlock()
			return
		}
		c.progress = p
		c.mu.Unlock()
		if fn != nil {
			fn(p)
		}
	}
}

func (c *controller) Current() (*model.LeagueReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, ErrNoLeague
	}
	return c.current, nil
}

func (c *controller) Progress() model.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

func (c *controller) Awards() ([]model.Award, error) {
	r, err := c.Current()
	if err != nil {
		return nil, err
	}
	return awards.Compute(r.League, r.Luck), nil
}
