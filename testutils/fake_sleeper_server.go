package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	SleeperLeagueID = "1124831356770058240"
	SleeperDraftID  = "1124831356770058241"
)

//go:embed sleeperdata
var sleeperdata embed.FS

type FakeSleeperServer struct {
	s *httptest.Server

	mu         sync.Mutex
	failWeeks  map[string]bool
	failPlayer bool
}

func NewFakeSleeperServer() *FakeSleeperServer {
	f := &FakeSleeperServer{failWeeks: make(map[string]bool)}

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/players/nfl", f.nflPlayersHandler)
		r.Get("/state/nfl", func(w http.ResponseWriter, r *http.Request) { serveFile(w, "state.json") })
		r.Get("/draft/{draftID}/picks", draftPicksHandler)

		r.Route("/league/{leagueID}", func(r chi.Router) {
			r.Get("/", leagueHandler)
			r.Get("/users", leagueFileHandler("users.json"))
			r.Get("/rosters", leagueFileHandler("rosters.json"))
			r.Get("/drafts", leagueFileHandler("drafts.json"))
			r.Get("/matchups/{week}", f.weekHandler("matchups"))
			r.Get("/transactions/{week}", f.weekHandler("transactions"))
		})
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeSleeperServer) Close() {
	f.s.Close()
}

func (f *FakeSleeperServer) URL() string {
	return f.s.URL
}

// FailWeek makes the matchups fetch of a week return a server error.
func (f *FakeSleeperServer) FailWeek(week int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWeeks[fmt.Sprintf("%d", week)] = true
}

// FailPlayers makes the player directory unavailable.
func (f *FakeSleeperServer) FailPlayers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPlayer = true
}

func (f *FakeSleeperServer) nflPlayersHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.failPlayer
	f.mu.Unlock()
	if fail {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	serveFile(w, "players.json")
}

func leagueHandler(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "leagueID") != SleeperLeagueID {
		// sleeper answers unknown leagues with a 200 and "null"
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null"))
		return
	}
	serveFile(w, "league.json")
}

func leagueFileHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "leagueID") != SleeperLeagueID {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("[]"))
			return
		}
		serveFile(w, name)
	}
}

func (f *FakeSleeperServer) weekHandler(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week := chi.URLParam(r, "week")
		f.mu.Lock()
		fail := kind == "matchups" && f.failWeeks[week]
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if chi.URLParam(r, "leagueID") != SleeperLeagueID {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("[]"))
			return
		}
		serveFile(w, fmt.Sprintf("%s_%s.json", kind, week))
	}
}

func draftPicksHandler(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "draftID") != SleeperDraftID {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
		return
	}
	serveFile(w, "draft_picks.json")
}

func serveFile(w http.ResponseWriter, name string) {
	b, err := sleeperdata.ReadFile(fmt.Sprintf("sleeperdata/%s", name))
	if err != nil {
		log.Printf("error reading sleeperdata/%s: %v", name, err)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
