package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/itbasis/go-clock"
	"github.com/mww/league_insights/config"
	"github.com/mww/league_insights/controller"
	"github.com/mww/league_insights/db"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms/espn"
	"github.com/mww/league_insights/platforms/sleeper"
	"github.com/mww/league_insights/platforms/yahoo"
	"github.com/mww/league_insights/web"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "league_insights",
		Usage: "load fantasy football leagues from ESPN, Sleeper and Yahoo and analyze them",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the JSON API",
				Action: serve,
			},
			{
				Name:  "load",
				Usage: "load and analyze one league, then print the result",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "platform", Usage: "espn, sleeper or yahoo", Required: true},
					&cli.StringFlag{Name: "league", Usage: "provider league id", Required: true},
					&cli.IntFlag{Name: "season", Usage: "season year", Value: time.Now().Year()},
					&cli.StringFlag{Name: "espn-s2", Usage: "espn_s2 cookie for private ESPN leagues", EnvVars: []string{"ESPN_S2"}},
					&cli.StringFlag{Name: "swid", Usage: "SWID cookie for private ESPN leagues", EnvVars: []string{"ESPN_SWID"}},
					&cli.StringFlag{Name: "yahoo-session", Usage: "session key from a previous Yahoo sign in"},
					&cli.BoolFlag{Name: "json", Usage: "print the full report as JSON"},
				},
				Action: load,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	ctrl   controller.C
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}

	clock := clock.New()
	var store db.TokenStore
	if cfg.PostgresConnStr != "" {
		store, err = db.New(ctx, cfg.PostgresConnStr, clock)
		if err != nil {
			return nil, errors.Wrap(err, "cannot connect to DB")
		}
	} else {
		logger.Warn("POSTGRES_CONN_STR is not set, yahoo sessions are kept in memory")
		store = db.NewMemoryStore()
	}

	adapters := controller.Adapters{
		ESPN:    espn.NewAdapter(espn.New(cfg.RequestsPerSecond), espn.DefaultTables(), cfg.ESPNOptions(), logger.Named("espn")),
		Sleeper: sleeper.NewAdapter(sleeper.New(cfg.RequestsPerSecond), cfg.FetchConcurrency, logger.Named("sleeper")),
		Yahoo:   yahoo.NewAdapter(yahoo.New(cfg.RequestsPerSecond), cfg.FetchConcurrency, logger.Named("yahoo")),
	}

	ctrl, err := controller.New(clock, store, adapters, cfg.YahooOAuth(), cfg.Policy, logger)
	if err != nil {
		return nil, errors.Wrap(err, "error creating a new controller")
	}
	return &app{cfg: cfg, logger: logger, ctrl: ctrl}, nil
}

func serve(c *cli.Context) error {
	a, err := setup(c.Context)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	server, err := web.NewServer(a.cfg.Port, a.ctrl, a.logger)
	if err != nil {
		return errors.Wrap(err, "error creating new web server")
	}

	shutdown := make(chan bool)
	wg := &sync.WaitGroup{}

	// Setup a handler to catch ctrl-c signals and properly shutdown everything.
	intChannel := make(chan os.Signal, 2)
	signal.Notify(intChannel, os.Interrupt)
	go func() {
		<-intChannel
		close(shutdown)

		if err := waitTimeout(wg, 10*time.Second); err != nil {
			a.logger.Error("timed out waiting for proper shutdown")
			os.Exit(255)
		}
	}()

	// Start the web server
	wg.Add(1)
	go server.ListenAndServe(shutdown, wg)

	// Wait for everything to stop.
	wg.Wait()
	a.logger.Info("server shutdown")
	return nil
}

func load(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	req := controller.LoadRequest{
		Platform:     c.String("platform"),
		LeagueID:     c.String("league"),
		Season:       c.Int("season"),
		ESPNS2:       c.String("espn-s2"),
		SWID:         c.String("swid"),
		YahooSession: c.String("yahoo-session"),
	}
	report, err := a.ctrl.LoadLeague(ctx, req, func(p model.Progress) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s %s\n", p.Current, p.Total, p.Stage, p.Detail)
	})
	if err != nil {
		f := controller.ClassifyError(err)
		a.logger.Debug("load failed", zap.Error(err))
		return cli.Exit(f.Message, 2)
	}

	if c.Bool("json") {
		b, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}

	awards, err := a.ctrl.Awards()
	if err != nil {
		return err
	}
	printSummary(report, awards)
	return nil
}

func printSummary(r *model.LeagueReport, awards []model.Award) {
	l := r.League
	fmt.Printf("%s (%s %d), week %d, %d teams, %s scoring\n",
		l.Name, l.Platform, l.Season, l.CurrentWeek, l.TotalTeams, l.ScoringType)
	if len(l.Incomplete) > 0 {
		fmt.Printf("missing data: %v\n", l.Incomplete)
	}

	fmt.Println("\nLuck")
	for _, m := range r.Luck {
		fmt.Printf("  %-28s actual %5.1f  expected %5.1f  luck %+5.1f  %s\n",
			m.TeamName, m.ActualWins, m.ExpectedWins, m.LuckScore, m.LuckRating)
	}

	fmt.Printf("\nTrades: %d\n", len(l.Trades))
	for _, t := range l.Trades {
		winner := "fair"
		if t.Winner != "" {
			winner = fmt.Sprintf("%s by %.1f PAR", l.TeamName(t.Winner), t.WinnerMargin)
		}
		fmt.Printf("  week %2d  %s\n", t.Week, winner)
	}

	fmt.Println("\nAwards")
	for _, a := range awards {
		fmt.Printf("  %-22s %-28s %s\n", a.Title, a.TeamName, a.Detail)
	}
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) error {
	c := make(chan any)
	go func() {
		defer close(c)
		wg.Wait()
	}()

	select {
	case <-c:
		return nil // completed normally
	case <-time.After(timeout):
		return errors.New("timed out waiting")
	}
}
