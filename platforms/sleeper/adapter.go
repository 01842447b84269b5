package sleeper

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/mww/league_insights/metrics"
	"github.com/mww/league_insights/model"
	"github.com/mww/league_insights/platforms"
	"github.com/mww/league_insights/platforms/sleeper/internal"
	"go.uber.org/zap"
)

const (
	txWaiver    = "waiver"
	txFreeAgent = "free_agent"
	txTrade     = "trade"
	txComplete  = "complete"

	maxWeek = 18
)

type Adapter struct {
	client      Client
	concurrency int
	logger      *zap.Logger
}

func NewAdapter(client Client, concurrency int, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, concurrency: concurrency, logger: logger.Named("sleeper")}
}

func (a *Adapter) LoadLeague(ctx context.Context, req platforms.LoadRequest, progress platforms.ProgressFunc) (*model.League, error) {
	raw, err := a.client.GetLeague(ctx, req.LeagueID)
	if err != nil {
		return nil, err
	}
	if season, _ := strconv.Atoi(raw.Season); req.Season > 0 && season > 0 && season != req.Season {
		a.logger.Warn("league season differs from requested season",
			zap.String("league", req.LeagueID), zap.Int("requested", req.Season), zap.Int("league_season", season))
	}
	users, err := a.client.GetUsers(ctx, req.LeagueID)
	if err != nil {
		return nil, err
	}
	rosters, err := a.client.GetRosters(ctx, req.LeagueID)
	if err != nil {
		return nil, err
	}

	currentWeek := a.currentWeek(ctx, raw)
	reporter := platforms.NewReporter(progress, currentWeek)
	reporter.Step("league", "settings, users and rosters")

	dir := a.directory(ctx)
	book := platforms.NewPlayerBook()
	lookup := func(id string) model.Player {
		if p, ok := dir[id]; ok {
			book.Observe(p)
			return p
		}
		return book.Resolve(id)
	}

	league := baseLeague(raw, req, users, rosters, currentWeek, lookup)

	fetcher := platforms.WeekFetcher{
		Platform:    platform,
		Concurrency: a.concurrency,
		Logger:      a.logger,
		Progress:    reporter,
	}
	weeks, err := platforms.FetchWeeks(ctx, fetcher, "rosters", currentWeek, func(ctx context.Context, week int) ([]internal.Matchup, error) {
		return a.client.GetMatchups(ctx, req.LeagueID, week)
	})
	if err != nil {
		return nil, err
	}
	platforms.MarkIncomplete(league, "rosters", platforms.MissingWeeks(weeks, currentWeek))

	txWeeks, err := platforms.FetchWeeks(ctx, fetcher, "transactions", currentWeek, func(ctx context.Context, week int) ([]internal.Transaction, error) {
		return a.client.GetTransactions(ctx, req.LeagueID, week)
	})
	if err != nil {
		return nil, err
	}
	platforms.MarkIncomplete(league, "transactions", platforms.MissingWeeks(txWeeks, currentWeek))

	scored := scoredWeek(raw, currentWeek)
	snaps := make([]platforms.WeekRosters, 0, len(weeks))
	for _, w := range weeks {
		snaps = append(snaps, snapshot(w.Week, w.Value, lookup))
		if w.Week <= scored {
			league.Matchups = append(league.Matchups, matchups(w.Week, w.Value)...)
		}
	}
	ledger := platforms.ReconstructStarts(snaps, book)

	rawTxs := make([]internal.Transaction, 0)
	for _, w := range txWeeks {
		rawTxs = append(rawTxs, w.Value...)
	}
	txs := transactions(rawTxs, lookup)

	trades, used := platforms.DetectTrades(platforms.NewZapSink(a.logger),
		&explicitTrades{raw: rawTxs, book: book, lookup: lookup},
		&platforms.RosterDiff{Snapshots: snaps, Adds: platforms.PickupIndex(txs), Book: book},
	)
	if used != "" {
		metrics.TradeStrategy.WithLabelValues(platform, used).Inc()
	}

	picks, draftType := a.picks(ctx, req.LeagueID, raw.DraftID, lookup)
	league.DraftType = draftType

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

func (a *Adapter) currentWeek(ctx context.Context, raw *internal.League) int {
	if raw.Settings != nil && raw.Settings.LastScoredLeg > 0 {
		return min(raw.Settings.LastScoredLeg, maxWeek)
	}
	state, err := a.client.GetState(ctx)
	if err != nil {
		a.logger.Warn("error loading nfl state", zap.Error(err))
		return 1
	}
	if state.Season == raw.Season && state.Week > 0 {
		return min(state.Week, maxWeek)
	}
	return 1
}

// scoredWeek is the last week with final scores. Without last_scored_leg the
// current week comes from the nfl state and is still being played.
func scoredWeek(raw *internal.League, currentWeek int) int {
	if raw.Settings != nil && raw.Settings.LastScoredLeg > 0 {
		return min(raw.Settings.LastScoredLeg, currentWeek)
	}
	return currentWeek - 1
}

// directory loads every NFL player sleeper knows. Without it players keep
// their placeholder names.
func (a *Adapter) directory(ctx context.Context) map[string]model.Player {
	players, err := a.client.LoadPlayers(ctx)
	if err != nil {
		a.logger.Warn("error loading sleeper players", zap.Error(err))
		return map[string]model.Player{}
	}
	dir := make(map[string]model.Player, len(players))
	for _, p := range players {
		dir[p.ID] = p
	}
	return dir
}

func baseLeague(raw *internal.League, req platforms.LoadRequest, users []internal.User, rosters []internal.Roster, currentWeek int, lookup func(string) model.Player) *model.League {
	season, _ := strconv.Atoi(raw.Season)
	if season == 0 {
		season = req.Season
	}
	l := &model.League{
		Platform:        model.PlatformSleeper,
		ID:              req.LeagueID,
		Name:            raw.Name,
		Season:          season,
		DraftType:       model.DraftSnake,
		ReceptionPoints: raw.ScoringSettings["rec"],
		CurrentWeek:     currentWeek,
		RosterSlots:     rosterSlots(raw.RosterPositions),
		Teams:           make([]model.Team, 0, len(rosters)),
		Matchups:        []model.Matchup{},
	}
	if raw.Settings != nil && raw.Settings.PlayoffWeekStart > 1 {
		l.RegularSeasonEnd = raw.Settings.PlayoffWeekStart - 1
	}

	byID := make(map[string]internal.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	for _, r := range rosters {
		t := model.Team{
			ID:     strconv.Itoa(r.RosterID),
			Name:   fmt.Sprintf("Team %d", r.RosterID),
			Roster: make([]model.Player, 0, len(r.Players)),
		}
		if u, ok := byID[r.OwnerID]; ok {
			t.OwnerName = u.DisplayName
			t.Name = u.DisplayName
			if u.Metadata != nil && u.Metadata.TeamName != "" {
				t.Name = u.Metadata.TeamName
			}
		}
		if s := r.Settings; s != nil {
			t.Wins, t.Losses, t.Ties = s.Wins, s.Losses, s.Ties
			t.PointsFor = float64(s.Fpts) + float64(s.FptsDecimal)/100
			t.PointsAgainst = float64(s.FptsAgainst) + float64(s.FptsAgainstDecimal)/100
		}
		for _, id := range r.Players {
			t.Roster = append(t.Roster, lookup(id))
		}
		l.Teams = append(l.Teams, t)
	}
	slices.SortFunc(l.Teams, func(a, b model.Team) int {
		x, _ := strconv.Atoi(a.ID)
		y, _ := strconv.Atoi(b.ID)
		return x - y
	})
	return l
}

func rosterSlots(positions []string) model.RosterSlots {
	var s model.RosterSlots
	for _, p := range positions {
		switch p {
		case "QB":
			s.QB++
		case "RB":
			s.RB++
		case "WR":
			s.WR++
		case "TE":
			s.TE++
		case "K":
			s.K++
		case "DEF":
			s.DST++
		case "FLEX":
			s.Flex++
		case "SUPER_FLEX":
			s.SuperFlex++
		case "WRRB_FLEX":
			s.RBWR++
		case "REC_FLEX":
			s.WRTE++
		case "BN":
			s.Bench++
		case "IR":
			s.IR++
		}
	}
	return s
}

func snapshot(week int, raw []internal.Matchup, lookup func(string) model.Player) platforms.WeekRosters {
	snap := platforms.WeekRosters{Week: week, Teams: make(map[string][]platforms.RosterEntry, len(raw))}
	for _, m := range raw {
		starters := make(map[string]bool, len(m.Starters))
		for _, id := range m.Starters {
			// empty starting slots are reported as "0"
			if id != "0" && id != "" {
				starters[id] = true
			}
		}
		entries := make([]platforms.RosterEntry, 0, len(m.Players))
		for _, id := range m.Players {
			entries = append(entries, platforms.RosterEntry{
				Player:   lookup(id),
				Starting: starters[id],
				Points:   m.PlayersPoints[id],
			})
		}
		snap.Teams[strconv.Itoa(m.RosterID)] = entries
	}
	return snap
}

func matchups(week int, raw []internal.Matchup) []model.Matchup {
	byMatchup := make(map[int][]internal.Matchup)
	out := make([]model.Matchup, 0, len(raw)/2+1)
	for _, m := range raw {
		if m.MatchupID == 0 {
			out = append(out, model.Matchup{Week: week, HomeTeamID: strconv.Itoa(m.RosterID), HomeScore: m.Points})
			continue
		}
		byMatchup[m.MatchupID] = append(byMatchup[m.MatchupID], m)
	}

	ids := make([]int, 0, len(byMatchup))
	for id := range byMatchup {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		pair := byMatchup[id]
		slices.SortFunc(pair, func(a, b internal.Matchup) int { return a.RosterID - b.RosterID })
		m := model.Matchup{Week: week, HomeTeamID: strconv.Itoa(pair[0].RosterID), HomeScore: pair[0].Points}
		if len(pair) > 1 {
			m.AwayTeamID = strconv.Itoa(pair[1].RosterID)
			m.AwayScore = pair[1].Points
		}
		out = append(out, m)
	}
	return out
}

func transactions(raw []internal.Transaction, lookup func(string) model.Player) []model.Transaction {
	txs := make([]model.Transaction, 0, len(raw))
	for _, t := range raw {
		if t.Status != txComplete {
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

		teamID := 0
		if len(t.RosterIDs) > 0 {
			teamID = t.RosterIDs[0]
		}
		tx := model.Transaction{
			ID:        t.TransactionID,
			Type:      typ,
			Week:      max(t.Leg, 1),
			Timestamp: millis(t.StatusUpdated, t.Created),
			Adds:      []model.PickupPlayer{},
			Drops:     []model.Player{},
		}
		for _, id := range sortedKeys(t.Adds) {
			tx.Adds = append(tx.Adds, model.PickupPlayer{Player: lookup(id)})
			teamID = t.Adds[id]
		}
		for _, id := range sortedKeys(t.Drops) {
			tx.Drops = append(tx.Drops, lookup(id))
		}
		if len(tx.Adds) == 0 {
			continue
		}
		tx.TeamID = strconv.Itoa(teamID)
		if typ == model.TransactionWaiver && t.Settings != nil && t.Settings.WaiverBid != nil {
			bid := *t.Settings.WaiverBid
			tx.WaiverBudgetSpent = &bid
		}
		txs = append(txs, tx)
	}
	return txs
}

func (a *Adapter) picks(ctx context.Context, leagueID, draftID string, lookup func(string) model.Player) ([]model.DraftPick, model.DraftType) {
	draftType := model.DraftSnake
	drafts, err := a.client.GetDrafts(ctx, leagueID)
	if err != nil {
		a.logger.Warn("error loading drafts", zap.String("league", leagueID), zap.Error(err))
	}
	for _, d := range drafts {
		if draftID == "" || d.DraftID == draftID {
			draftID = d.DraftID
			if d.Type == "auction" {
				draftType = model.DraftAuction
			}
			break
		}
	}
	if draftID == "" {
		return []model.DraftPick{}, draftType
	}

	raw, err := a.client.GetDraftPicks(ctx, draftID)
	if err != nil {
		a.logger.Warn("error loading draft picks", zap.String("draft", draftID), zap.Error(err))
		return []model.DraftPick{}, draftType
	}

	picks := make([]model.DraftPick, 0, len(raw))
	for _, p := range raw {
		pick := model.DraftPick{
			PickNumber: p.PickNo,
			Round:      p.Round,
			Player:     lookup(p.PlayerID),
			TeamID:     strconv.Itoa(p.RosterID),
		}
		if md := p.Metadata; md != nil {
			if pick.Player.IsPlaceholder() {
				pick.Player = model.Player{
					ID:         p.PlayerID,
					PlatformID: p.PlayerID,
					Name:       playerName(md.FirstName, md.LastName, "", p.PlayerID),
					Position:   model.ParsePosition(md.Position),
					Team:       model.ParseTeam(md.Team),
				}
			}
			if draftType == model.DraftAuction {
				if v, err := strconv.ParseFloat(md.Amount, 64); err == nil {
					pick.AuctionValue = &v
				}
			}
		}
		picks = append(picks, pick)
	}
	return picks, draftType
}

func millis(values ...int64) time.Time {
	for _, v := range values {
		if v > 0 {
			return time.UnixMilli(v).UTC()
		}
	}
	return time.Time{}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
