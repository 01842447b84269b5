package yahoo

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mww/league_insights/metrics"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/yahoo/internal"
	"go.uber.org/zap"
)

const (
	txAdd        = "add"
	txDrop       = "drop"
	txAddDrop    = "add/drop"
	txTrade      = "trade"
	txSuccessful = "successful"

	sourceWaivers = "waivers"

	// matchup status once every game of the week is over; the others are
	// preevent and midevent
	statusPostEvent = "postevent"

	statReceptions = 11
	dateLayout     = "2006-01-02"
)

// Lineup positions that do not count as a start.
var benchPositions = map[string]bool{
	"BN":  true,
	"IR":  true,
	"IR+": true,
}

type Adapter struct {
	client      *Client
	concurrency int
	logger      *zap.Logger
}

func NewAdapter(client *Client, concurrency int, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, concurrency: concurrency, logger: logger.Named("yahoo")}
}

func (a *Adapter) LoadLeague(ctx context.Context, req platforms.LoadRequest, progress platforms.ProgressFunc) (*model.League, error) {
	leagueKey, err := LeagueKey(req.Season, req.LeagueID)
	if err != nil {
		return nil, err
	}
	tokens := req.Tokens

	meta, err := a.client.League(ctx, tokens, leagueKey)
	if err != nil {
		return nil, err
	}
	settings, err := a.client.Settings(ctx, tokens, leagueKey)
	if err != nil {
		return nil, err
	}
	standings, err := a.client.Standings(ctx, tokens, leagueKey)
	if err != nil {
		return nil, err
	}

	currentWeek := currentWeek(meta)
	reporter := platforms.NewReporter(progress, currentWeek)
	reporter.Step("league", "metadata, settings and standings")

	league := baseLeague(meta, settings, standings, req, currentWeek)
	book := platforms.NewPlayerBook()

	fetcher := platforms.WeekFetcher{
		Platform:    platform,
		Concurrency: a.concurrency,
		Logger:      a.logger,
		Progress:    reporter,
	}
	rosters, err := platforms.FetchWeeks(ctx, fetcher, "rosters", currentWeek, func(ctx context.Context, week int) (platforms.WeekRosters, error) {
		return a.weekRosters(ctx, tokens, leagueKey, league.Teams, week, book)
	})
	if err != nil {
		return nil, err
	}
	platforms.MarkIncomplete(league, "rosters", platforms.MissingWeeks(rosters, currentWeek))

	boards, err := platforms.FetchWeeks(ctx, fetcher, "scoreboard", currentWeek, func(ctx context.Context, week int) ([]internal.Matchup, error) {
		return a.client.Scoreboard(ctx, tokens, leagueKey, week)
	})
	if err != nil {
		return nil, err
	}
	platforms.MarkIncomplete(league, "scoreboard", platforms.MissingWeeks(boards, currentWeek))

	var calendar platforms.WeekCalendar
	for _, w := range boards {
		league.Matchups = append(league.Matchups, matchups(w.Week, w.Value)...)
		addWeek(&calendar, w.Week, w.Value)
	}
	snaps := make([]platforms.WeekRosters, 0, len(rosters))
	for _, w := range rosters {
		snaps = append(snaps, w.Value)
	}
	ledger := platforms.ReconstructStarts(snaps, book)

	rawTxs, err := a.client.Transactions(ctx, tokens, leagueKey)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn("error loading transactions", zap.String("league", leagueKey), zap.Error(err))
		league.Incomplete = append(league.Incomplete, "transactions")
		rawTxs = []internal.Transaction{}
	}
	txs := transactions(rawTxs, &calendar, book)

	trades, used := platforms.DetectTrades(platforms.NewZapSink(a.logger),
		&tradeTransactions{raw: rawTxs, calendar: &calendar, book: book},
		&platforms.RosterDiff{Snapshots: snaps, Adds: platforms.PickupIndex(txs), Book: book},
	)
	if used != "" {
		metrics.TradeStrategy.WithLabelValues(platform, used).Inc()
	}

	picks := a.picks(ctx, tokens, leagueKey, league.DraftType, book)

	result := platforms.Assemble(platforms.Season{
		League:       league,
		Snapshots:    snaps,
		Transactions: txs,
		Picks:        picks,
		Trades:       trades,
		Book:         book,
		Ledger:       ledger,
	})
	platforms.ApplyRecords(result)
	reporter.Step("processing", "analytics")
	reporter.Done(fmt.Sprintf("loaded %s", result.Name))
	return result, nil
}

func currentWeek(meta *internal.League) int {
	week := meta.CurrentWeek
	if meta.EndWeek > 0 && (week > meta.EndWeek || meta.IsFinished == 1) {
		week = meta.EndWeek
	}
	return max(week, 1)
}

func baseLeague(meta *internal.League, settings *internal.Settings, standings []internal.Team, req platforms.LoadRequest, currentWeek int) *model.League {
	season := meta.Season
	if season == 0 {
		season = req.Season
	}
	l := &model.League{
		Platform:    model.PlatformYahoo,
		ID:          req.LeagueID,
		Name:        meta.Name,
		Season:      season,
		DraftType:   model.DraftSnake,
		CurrentWeek: currentWeek,
		RosterSlots: rosterSlots(settings.RosterPositions.Positions),
		Teams:       make([]model.Team, 0, len(standings)),
		Matchups:    []model.Matchup{},
	}
	if settings.IsAuctionDraft == 1 {
		l.DraftType = model.DraftAuction
	}
	l.RegularSeasonEnd = meta.EndWeek
	if settings.UsesPlayoff == 1 && settings.PlayoffStartWeek > 1 {
		l.RegularSeasonEnd = settings.PlayoffStartWeek - 1
	}
	if settings.StatModifiers != nil {
		for _, s := range settings.StatModifiers.Stats {
			if s.StatID == statReceptions {
				l.ReceptionPoints = s.Value
			}
		}
	}

	for _, t := range standings {
		team := model.Team{
			ID:   parseID(t.Key),
			Name: t.Name,
		}
		if t.Managers != nil && len(t.Managers.Managers) > 0 {
			team.OwnerName = t.Managers.Managers[0].Nickname
		}
		if s := t.TeamStandings; s != nil {
			if o := s.OutcomeTotals; o != nil {
				team.Wins, team.Losses, team.Ties = o.Wins, o.Losses, o.Ties
			}
			team.PointsFor = s.PointsFor
			team.PointsAgainst = s.PointsAgainst
		}
		l.Teams = append(l.Teams, team)
	}
	slices.SortFunc(l.Teams, func(a, b model.Team) int {
		x, _ := strconv.Atoi(a.ID)
		y, _ := strconv.Atoi(b.ID)
		return x - y
	})
	return l
}

func rosterSlots(positions []internal.RosterPosition) model.RosterSlots {
	var s model.RosterSlots
	for _, p := range positions {
		switch p.Position {
		case "QB":
			s.QB += p.Count
		case "RB":
			s.RB += p.Count
		case "WR":
			s.WR += p.Count
		case "TE":
			s.TE += p.Count
		case "K":
			s.K += p.Count
		case "DEF":
			s.DST += p.Count
		case "W/R/T":
			s.Flex += p.Count
		case "Q/W/R/T":
			s.SuperFlex += p.Count
		case "W/R":
			s.RBWR += p.Count
		case "W/T":
			s.WRTE += p.Count
		case "BN":
			s.Bench += p.Count
		case "IR", "IR+":
			s.IR += p.Count
		}
	}
	return s
}

// weekRosters reads every team's roster for one week. A failed team fails
// the whole week so a snapshot is never partial.
func (a *Adapter) weekRosters(ctx context.Context, tokens platforms.TokenProvider, leagueKey string, teams []model.Team, week int, book *platforms.PlayerBook) (platforms.WeekRosters, error) {
	snap := platforms.WeekRosters{Week: week, Teams: make(map[string][]platforms.RosterEntry, len(teams))}
	for _, t := range teams {
		players, err := a.client.Roster(ctx, tokens, TeamKey(leagueKey, t.ID), week)
		if err != nil {
			return platforms.WeekRosters{}, err
		}
		entries := make([]platforms.RosterEntry, 0, len(players))
		for _, p := range players {
			player := toPlayer(p)
			book.Observe(player)
			e := platforms.RosterEntry{Player: player}
			if sp := p.SelectedPosition; sp != nil && sp.Position != "" {
				e.Starting = !benchPositions[sp.Position]
			}
			if p.PlayerPoints != nil {
				e.Points = p.PlayerPoints.Total
			}
			entries = append(entries, e)
		}
		snap.Teams[t.ID] = entries
	}
	return snap, nil
}

func toPlayer(p internal.Player) model.Player {
	id := p.ID
	if id == "" {
		id = parsePlayerID(p.Key)
	}
	pos := model.ParsePosition(p.Position)
	if !pos.Known() {
		pos = model.ParsePosition(p.DisplayPosition)
	}

	name := ""
	if p.Name != nil {
		name = p.Name.Full
		if name == "" {
			name = strings.TrimSpace(p.Name.First + " " + p.Name.Last)
		}
	}
	team := model.ParseTeam(p.EditorialTeamAbbr)
	if pos == model.POS_DST {
		switch {
		case p.TeamFullName != "":
			name = p.TeamFullName
		case !team.IsFreeAgent():
			name = team.Friendly()
		}
	}
	if name == "" {
		return model.PlaceholderPlayer(id)
	}

	return model.Player{
		ID:         id,
		PlatformID: id,
		Name:       name,
		Position:   pos,
		Team:       team,
	}
}

// matchups converts the final results of a week. Weeks still being played
// are skipped, their scores are partial.
func matchups(week int, raw []internal.Matchup) []model.Matchup {
	out := make([]model.Matchup, 0, len(raw))
	for _, m := range raw {
		if m.Status != "" && m.Status != statusPostEvent {
			continue
		}
		teams := m.Teams.Teams
		mu := model.Matchup{Week: week, HomeTeamID: parseID(teams[0].Key), HomeScore: teams[0].TeamPoints.Total}
		if len(teams) > 1 {
			mu.AwayTeamID = parseID(teams[1].Key)
			mu.AwayScore = teams[1].TeamPoints.Total
		}
		out = append(out, mu)
	}
	return out
}

// addWeek records when a week's transactions start counting. Moves made
// after a week's games ended belong to the next week.
func addWeek(c *platforms.WeekCalendar, week int, raw []internal.Matchup) {
	if len(raw) == 0 {
		return
	}
	if start, err := time.Parse(dateLayout, raw[0].WeekStart); err == nil {
		c.Add(week, start)
	}
	if end, err := time.Parse(dateLayout, raw[0].WeekEnd); err == nil {
		c.Add(week+1, end.Add(24*time.Hour))
	}
}

func transactions(raw []internal.Transaction, calendar *platforms.WeekCalendar, book *platforms.PlayerBook) []model.Transaction {
	txs := make([]model.Transaction, 0, len(raw))
	for _, t := range raw {
		if t.Status != txSuccessful || (t.Type != txAdd && t.Type != txAddDrop) || t.Players == nil {
			continue
		}

		ts := time.Unix(t.Timestamp, 0).UTC()
		tx := model.Transaction{
			ID:        t.Key,
			Type:      model.TransactionFreeAgent,
			Week:      calendar.Week(ts),
			Timestamp: ts,
			Adds:      []model.PickupPlayer{},
			Drops:     []model.Player{},
		}
		teamKey := ""
		for _, p := range t.Players.Players {
			d := p.TransactionData
			if d == nil {
				continue
			}
			player := toPlayer(p)
			book.Observe(player)
			switch d.Type {
			case txAdd:
				tx.Adds = append(tx.Adds, model.PickupPlayer{Player: player})
				teamKey = d.DestinationTeamKey
				if d.SourceType == sourceWaivers {
					tx.Type = model.TransactionWaiver
				}
			case txDrop:
				tx.Drops = append(tx.Drops, player)
				if teamKey == "" {
					teamKey = d.SourceTeamKey
				}
			}
		}
		if len(tx.Adds) == 0 {
			continue
		}
		tx.TeamID = parseID(teamKey)
		if tx.Type == model.TransactionWaiver && t.FAABBid != nil {
			bid := *t.FAABBid
			tx.WaiverBudgetSpent = &bid
		}
		txs = append(txs, tx)
	}
	return txs
}

func (a *Adapter) picks(ctx context.Context, tokens platforms.TokenProvider, leagueKey string, draftType model.DraftType, book *platforms.PlayerBook) []model.DraftPick {
	raw, err := a.client.DraftResults(ctx, tokens, leagueKey)
	if err != nil {
		a.logger.Warn("error loading draft results", zap.String("league", leagueKey), zap.Error(err))
		return []model.DraftPick{}
	}

	picks := make([]model.DraftPick, 0, len(raw))
	for _, r := range raw {
		// picks that have not been made yet carry no player
		if r.PlayerKey == "" {
			continue
		}
		pick := model.DraftPick{
			PickNumber: r.Pick,
			Round:      r.Round,
			Player:     book.Resolve(parsePlayerID(r.PlayerKey)),
			TeamID:     parseID(r.TeamKey),
		}
		if draftType == model.DraftAuction {
			if v, err := strconv.ParseFloat(r.Cost, 64); err == nil {
				pick.AuctionValue = &v
			}
		}
		picks = append(picks, pick)
	}
	return picks
}
