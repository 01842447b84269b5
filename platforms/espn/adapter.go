package espn

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mww/league_insights/metrics"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/espn/internal"
	"go.uber.org/zap"
)

const (
	txWaiver        = "WAIVER"
	txFreeAgent     = "FREEAGENT"
	txTradeAccept   = "TRADE_ACCEPT"
	txTradeProposal = "TRADE_PROPOSAL"
	txExecuted      = "EXECUTED"

	itemAdd   = "ADD"
	itemDrop  = "DROP"
	itemTrade = "TRADE"

	statReceptions = 53
	undecided      = "UNDECIDED"
)

type Options struct {
	Concurrency int
	// FinalizeWindow is how close a trade in the activity feed must be to a
	// finalized event to count.
	FinalizeWindow time.Duration
	// MatchTolerance bounds the timestamp match of an accepted trade to its
	// proposal.
	MatchTolerance time.Duration
}

func DefaultOptions() Options {
	return Options{
		Concurrency:    platforms.DefaultConcurrency,
		FinalizeWindow: 24 * time.Hour,
		MatchTolerance: 7 * 24 * time.Hour,
	}
}

type Adapter struct {
	client *Client
	tables Tables
	opts   Options
	logger *zap.Logger
}

func NewAdapter(client *Client, tables Tables, opts Options, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, tables: tables, opts: opts, logger: logger.Named("espn")}
}

func (a *Adapter) LoadLeague(ctx context.Context, req platforms.LoadRequest, progress platforms.ProgressFunc) (*model.League, error) {
	creds := req.Credentials
	raw, err := a.client.League(ctx, creds, req.LeagueID, req.Season, 0,
		ViewTeam, ViewSettings, ViewStatus, ViewMatchupScore, ViewDraftDetail, ViewRoster)
	if err != nil {
		return nil, err
	}

	currentWeek := currentWeek(raw)
	reporter := platforms.NewReporter(progress, currentWeek)
	reporter.Step("league", "settings")

	league := a.baseLeague(raw, req, currentWeek)
	book := platforms.NewPlayerBook()
	a.observeSeason(raw, book)

	fetcher := platforms.WeekFetcher{
		Platform:    platform,
		Concurrency: a.opts.Concurrency,
		Logger:      a.logger,
		Progress:    reporter,
	}
	rosters, err := platforms.FetchWeeks(ctx, fetcher, "rosters", currentWeek, func(ctx context.Context, week int) (platforms.WeekRosters, error) {
		l, err := a.client.League(ctx, creds, req.LeagueID, req.Season, week, ViewRoster)
		if err != nil {
			return platforms.WeekRosters{}, err
		}
		return a.snapshot(l, week), nil
	})
	if err != nil {
		return nil, err
	}
	platforms.MarkIncomplete(league, "rosters", platforms.MissingWeeks(rosters, currentWeek))

	txWeeks, err := platforms.FetchWeeks(ctx, fetcher, "transactions", currentWeek, func(ctx context.Context, week int) ([]internal.Transaction, error) {
		l, err := a.client.League(ctx, creds, req.LeagueID, req.Season, week, ViewTransactions)
		if err != nil {
			return nil, err
		}
		return l.Transactions, nil
	})
	if err != nil {
		return nil, err
	}
	platforms.MarkIncomplete(league, "transactions", platforms.MissingWeeks(txWeeks, currentWeek))

	snaps := make([]platforms.WeekRosters, 0, len(rosters))
	for _, r := range rosters {
		snaps = append(snaps, r.Value)
	}
	ledger := platforms.ReconstructStarts(snaps, book)

	rawTxs := make([]internal.Transaction, 0)
	for _, w := range txWeeks {
		rawTxs = append(rawTxs, w.Value...)
	}
	txs := a.transactions(rawTxs, book)

	sink := platforms.NewZapSink(a.logger)
	strategies := []platforms.Strategy{
		&platforms.RosterDiff{Snapshots: snaps, Adds: platforms.PickupIndex(txs), Book: book},
	}
	if comm, err := a.client.Communication(ctx, creds, req.LeagueID, req.Season); err != nil {
		a.logger.Warn("error loading league communication", zap.String("league", req.LeagueID), zap.Error(err))
	} else {
		strategies = append(strategies, &communicationStrategy{
			topics:   comm.Topics,
			tables:   a.tables,
			window:   a.opts.FinalizeWindow,
			calendar: calendar(rawTxs),
			book:     book,
		})
	}
	strategies = append(strategies, newRecordStrategy(rawTxs, a.opts.MatchTolerance, book))

	trades, used := platforms.DetectTrades(sink, strategies...)
	if used != "" {
		metrics.TradeStrategy.WithLabelValues(platform, used).Inc()
	}

	result := platforms.Assemble(platforms.Season{
		League:       league,
		Snapshots:    snaps,
		Transactions: txs,
		Picks:        a.picks(raw, league.DraftType, book),
		Trades:       trades,
		Book:         book,
		Ledger:       ledger,
	})
	platforms.ApplyRecords(result)
	reporter.Step("processing", "analytics")
	reporter.Done(fmt.Sprintf("loaded %s", result.Name))
	return result, nil
}

func currentWeek(raw *internal.League) int {
	week := raw.ScoringPeriodID
	if raw.Status != nil {
		if raw.Status.LatestScoringPeriod > 0 {
			week = raw.Status.LatestScoringPeriod
		}
		if raw.Status.FinalScoringPeriod > 0 && week > raw.Status.FinalScoringPeriod {
			week = raw.Status.FinalScoringPeriod
		}
	}
	return max(week, 1)
}

func (a *Adapter) baseLeague(raw *internal.League, req platforms.LoadRequest, currentWeek int) *model.League {
	l := &model.League{
		Platform:    model.PlatformESPN,
		ID:          req.LeagueID,
		Name:        fmt.Sprintf("ESPN League %s", req.LeagueID),
		Season:      req.Season,
		DraftType:   model.DraftSnake,
		CurrentWeek: currentWeek,
		Teams:       []model.Team{},
		Matchups:    []model.Matchup{},
	}
	if s := raw.Settings; s != nil {
		if s.Name != "" {
			l.Name = s.Name
		}
		if s.DraftSettings != nil && strings.EqualFold(s.DraftSettings.Type, "AUCTION") {
			l.DraftType = model.DraftAuction
		}
		if s.ScheduleSettings != nil {
			l.RegularSeasonEnd = s.ScheduleSettings.MatchupPeriodCount
		}
		if s.RosterSettings != nil {
			l.RosterSlots = a.tables.rosterSlots(s.RosterSettings.LineupSlotCounts)
		}
		if s.ScoringSettings != nil {
			for _, item := range s.ScoringSettings.ScoringItems {
				if item.StatID == statReceptions {
					l.ReceptionPoints = item.Points
				}
			}
		}
	}

	owners := make(map[string]string, len(raw.Members))
	for _, m := range raw.Members {
		name := m.DisplayName
		if full := strings.TrimSpace(m.FirstName + " " + m.LastName); full != "" {
			name = full
		}
		owners[m.ID] = name
	}

	for _, t := range raw.Teams {
		team := model.Team{
			ID:   strconv.Itoa(t.ID),
			Name: teamName(t),
		}
		owner := t.PrimaryOwner
		if owner == "" && len(t.Owners) > 0 {
			owner = t.Owners[0]
		}
		team.OwnerName = owners[owner]
		if t.Record != nil && t.Record.Overall != nil {
			r := t.Record.Overall
			team.Wins, team.Losses, team.Ties = r.Wins, r.Losses, r.Ties
			team.PointsFor, team.PointsAgainst = r.PointsFor, r.PointsAgainst
		}
		l.Teams = append(l.Teams, team)
	}

	for _, s := range raw.Schedule {
		if s.MatchupPeriodID > currentWeek || s.Home == nil || s.Winner == undecided {
			continue
		}
		m := model.Matchup{
			Week:       s.MatchupPeriodID,
			HomeTeamID: strconv.Itoa(s.Home.TeamID),
			HomeScore:  s.Home.TotalPoints,
		}
		if s.Away != nil {
			m.AwayTeamID = strconv.Itoa(s.Away.TeamID)
			m.AwayScore = s.Away.TotalPoints
		}
		l.Matchups = append(l.Matchups, m)
	}
	return l
}

func teamName(t internal.Team) string {
	if t.Name != "" {
		return t.Name
	}
	if n := strings.TrimSpace(t.Location + " " + t.Nickname); n != "" {
		return n
	}
	return fmt.Sprintf("Team %d", t.ID)
}

func (a *Adapter) player(p *internal.Player) model.Player {
	id := strconv.Itoa(p.ID)
	if p.FullName == "" {
		return model.PlaceholderPlayer(id)
	}
	return model.Player{
		ID:         id,
		PlatformID: id,
		Name:       p.FullName,
		Position:   a.tables.position(p.DefaultPositionID),
		Team:       a.tables.proTeam(p.ProTeamID),
	}
}

// observeSeason records identities and season totals from the current
// rosters.
func (a *Adapter) observeSeason(raw *internal.League, book *platforms.PlayerBook) {
	for _, t := range raw.Teams {
		if t.Roster == nil {
			continue
		}
		for _, e := range t.Roster.Entries {
			if e.PlayerPoolEntry == nil || e.PlayerPoolEntry.Player == nil {
				continue
			}
			p := e.PlayerPoolEntry.Player
			book.Observe(a.player(p))
			for _, s := range p.Stats {
				if s.ScoringPeriodID == 0 && s.StatSourceID == 0 && s.StatSplitTypeID == 0 {
					book.ObserveSeason(strconv.Itoa(p.ID), s.AppliedTotal)
				}
			}
		}
	}
}

func (a *Adapter) snapshot(raw *internal.League, week int) platforms.WeekRosters {
	snap := platforms.WeekRosters{Week: week, Teams: make(map[string][]platforms.RosterEntry, len(raw.Teams))}
	for _, t := range raw.Teams {
		teamID := strconv.Itoa(t.ID)
		entries := make([]platforms.RosterEntry, 0)
		if t.Roster != nil {
			for _, e := range t.Roster.Entries {
				entries = append(entries, a.rosterEntry(e, week))
			}
		}
		snap.Teams[teamID] = entries
	}
	return snap
}

func (a *Adapter) rosterEntry(e internal.RosterEntry, week int) platforms.RosterEntry {
	re := platforms.RosterEntry{
		Player:   model.PlaceholderPlayer(strconv.Itoa(e.PlayerID)),
		Starting: a.tables.StarterSlots[e.LineupSlotID],
	}
	pe := e.PlayerPoolEntry
	if pe == nil {
		return re
	}
	re.Points = pe.AppliedStatTotal
	if pe.Player == nil {
		return re
	}
	re.Player = a.player(pe.Player)
	for _, s := range pe.Player.Stats {
		if s.ScoringPeriodID == week && s.StatSourceID == 0 {
			re.Points = s.AppliedTotal
			break
		}
	}
	return re
}

func (a *Adapter) transactions(raw []internal.Transaction, book *platforms.PlayerBook) []model.Transaction {
	txs := make([]model.Transaction, 0, len(raw))
	for _, t := range raw {
		if t.Status != txExecuted {
			continue
		}
		var typ model.TransactionType
		switch t.Type {
		case txWaiver:
			typ = model.TransactionWaiver
		case txFreeAgent:
			typ = model.TransactionFreeAgent
		default:
			continue
		}

		tx := model.Transaction{
			ID:        t.ID,
			Type:      typ,
			Week:      max(t.ScoringPeriodID, 1),
			Timestamp: timestamp(t),
			TeamID:    strconv.Itoa(t.TeamID),
			Adds:      []model.PickupPlayer{},
			Drops:     []model.Player{},
		}
		if typ == model.TransactionWaiver {
			bid := t.BidAmount
			tx.WaiverBudgetSpent = &bid
		}
		for _, item := range t.Items {
			p := book.Resolve(strconv.Itoa(item.PlayerID))
			switch item.Type {
			case itemAdd:
				tx.Adds = append(tx.Adds, model.PickupPlayer{Player: p})
			case itemDrop:
				tx.Drops = append(tx.Drops, p)
			}
		}
		if len(tx.Adds) == 0 {
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}

func (a *Adapter) picks(raw *internal.League, draftType model.DraftType, book *platforms.PlayerBook) []model.DraftPick {
	if raw.DraftDetail == nil {
		return []model.DraftPick{}
	}
	picks := make([]model.DraftPick, 0, len(raw.DraftDetail.Picks))
	for _, p := range raw.DraftDetail.Picks {
		pick := model.DraftPick{
			PickNumber: p.OverallPickNumber,
			Round:      p.RoundID,
			Player:     book.Resolve(strconv.Itoa(p.PlayerID)),
			TeamID:     strconv.Itoa(p.TeamID),
		}
		if draftType == model.DraftAuction {
			v := float64(p.BidAmount)
			pick.AuctionValue = &v
		}
		picks = append(picks, pick)
	}
	return picks
}

func timestamp(t internal.Transaction) time.Time {
	ms := t.ProcessDate
	if ms == 0 {
		ms = t.ProposedDate
	}
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// calendar derives week start times from the earliest transaction seen in
// each scoring period.
func calendar(raw []internal.Transaction) *platforms.WeekCalendar {
	first := make(map[int]time.Time)
	for _, t := range raw {
		ts := timestamp(t)
		if ts.IsZero() || t.ScoringPeriodID <= 0 {
			continue
		}
		if cur, ok := first[t.ScoringPeriodID]; !ok || ts.Before(cur) {
			first[t.ScoringPeriodID] = ts
		}
	}
	c := &platforms.WeekCalendar{}
	for week, ts := range first {
		c.Add(week, ts)
	}
	return c
}
