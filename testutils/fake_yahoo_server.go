package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	YahooLeagueID    = "431"
	YahooLeagueKey   = "449.l.431"
	YahooAccessToken = "yahoo-access-token"
)

//go:embed yahoodata
var yahoodata embed.FS

var (
	leaguePathRegex = regexp.MustCompile(`^league/([^/;]+)(/[a-z]+)?(;week=(\d+))?$`)
	rosterPathRegex = regexp.MustCompile(`^team/([^/;]+)\.t\.(\d+)/roster;week=(\d+)/players/stats;type=week;week=\d+$`)
)

type FakeYahooServer struct {
	s *httptest.Server

	mu           sync.Mutex
	failWeeks    map[string]bool
	unauthorized int
	requests     int
}

// NewFakeYahooServer serves league 431 of the 2024 game. Requests must carry
// YahooAccessToken as a bearer token.
func NewFakeYahooServer() *FakeYahooServer {
	f := &FakeYahooServer{failWeeks: make(map[string]bool)}

	r := chi.NewRouter()
	// https://fantasysports.yahooapis.com/fantasy/v2/league/449.l.431/standings
	r.Get("/fantasy/v2/*", f.handle)

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeYahooServer) Close() {
	f.s.Close()
}

func (f *FakeYahooServer) URL() string {
	return f.s.URL
}

// FailRosterWeek makes every roster request for the week return a server
// error.
func (f *FakeYahooServer) FailRosterWeek(week int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWeeks[fmt.Sprintf("%d", week)] = true
}

// Unauthorized counts the requests rejected for a bad token.
func (f *FakeYahooServer) Unauthorized() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unauthorized
}

func (f *FakeYahooServer) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *FakeYahooServer) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests++
	if r.Header.Get("Authorization") != "Bearer "+YahooAccessToken {
		f.unauthorized++
		f.mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(unauthorizedMessage))
		return
	}
	f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/fantasy/v2/")
	if m := rosterPathRegex.FindStringSubmatch(path); m != nil {
		f.rosterHandler(w, m[1], m[2], m[3])
		return
	}

	m := leaguePathRegex.FindStringSubmatch(path)
	if m == nil {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("error"))
		return
	}
	if m[1] != YahooLeagueKey {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(forbiddenMessage))
		return
	}

	switch m[2] {
	case "":
		serveYahooFile(w, "league.xml")
	case "/settings", "/standings", "/draftresults", "/transactions":
		serveYahooFile(w, strings.TrimPrefix(m[2], "/")+".xml")
	case "/scoreboard":
		serveYahooFile(w, fmt.Sprintf("scoreboard_%s.xml", m[4]))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("error"))
	}
}

func (f *FakeYahooServer) rosterHandler(w http.ResponseWriter, leagueKey, teamID, week string) {
	if leagueKey != YahooLeagueKey {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(forbiddenMessage))
		return
	}
	f.mu.Lock()
	fail := f.failWeeks[week]
	f.mu.Unlock()
	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	serveYahooFile(w, fmt.Sprintf("roster_%s_%s.xml", teamID, week))
}

func serveYahooFile(w http.ResponseWriter, name string) {
	b, err := yahoodata.ReadFile(fmt.Sprintf("yahoodata/%s", name))
	if err != nil {
		log.Printf("error reading yahoodata/%s: %v", name, err)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Add("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

const forbiddenMessage = `<?xml version="1.0" encoding="UTF-8"?>
<error xml:lang="en-us" yahoo:uri="http://fantasysports.yahooapis.com/fantasy/v2/league/nfl.l.149975"
xmlns:yahoo="http://www.yahooapis.com/v1/base.rng" xmlns="http://www.yahooapis.com/v1/base.rng">
    <description>You are not allowed to view this page because you are not in this league.</description>
    <detail/>
</error>`

const unauthorizedMessage = `<?xml version="1.0" encoding="UTF-8"?>
<error xml:lang="en-us" xmlns:yahoo="http://www.yahooapis.com/v1/base.rng" xmlns="http://www.yahooapis.com/v1/base.rng">
    <description>Please provide valid credentials. OAuth oauth_problem="token_expired", realm="yahooapis.com"</description>
    <detail/>
</error>`
