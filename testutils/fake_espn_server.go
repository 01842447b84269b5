package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	ESPNLeagueID        = "336358"
	ESPNPrivateLeagueID = "555"
	ESPNS2              = "s2-cookie-value"
	ESPNSWID            = "{SWID-VALUE}"
)

//go:embed espndata
var espndata embed.FS

type FakeESPNServer struct {
	s *httptest.Server

	mu          sync.Mutex
	failRosters map[string]bool
	requests    []string
}

func NewFakeESPNServer() *FakeESPNServer {
	f := &FakeESPNServer{failRosters: make(map[string]bool)}

	r := chi.NewRouter()
	r.Route("/apis/v3/games/ffl/seasons/{season}/segments/0/leagues/{leagueID}", func(r chi.Router) {
		r.Get("/", f.leagueHandler)
		r.Get("/communication/", f.communicationHandler)
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeESPNServer) Close() {
	f.s.Close()
}

func (f *FakeESPNServer) URL() string {
	return f.s.URL
}

// FailRosterWeek makes the roster fetch of a week return a server error.
func (f *FakeESPNServer) FailRosterWeek(week int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRosters[fmt.Sprintf("%d", week)] = true
}

// Requests returns the raw query of every request received.
func (f *FakeESPNServer) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

func (f *FakeESPNServer) authorize(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RawQuery)
	f.mu.Unlock()

	switch chi.URLParam(r, "leagueID") {
	case ESPNLeagueID:
		return true
	case ESPNPrivateLeagueID:
		s2, err1 := r.Cookie("espn_s2")
		swid, err2 := r.Cookie("SWID")
		if err1 == nil && err2 == nil && s2.Value == ESPNS2 && swid.Value == ESPNSWID {
			return true
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"messages":["You are not authorized to view this League."]}`))
		return false
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"messages":["Not Found"]}`))
		return false
	}
}

func (f *FakeESPNServer) leagueHandler(w http.ResponseWriter, r *http.Request) {
	if !f.authorize(w, r) {
		return
	}

	q := r.URL.Query()
	week := q.Get("scoringPeriodId")
	views := q["view"]
	switch {
	case week != "" && slices.Contains(views, "mRoster"):
		f.mu.Lock()
		fail := f.failRosters[week]
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		serveESPNFile(w, fmt.Sprintf("roster_%s.json", week))
	case week != "" && slices.Contains(views, "mTransactions2"):
		serveESPNFile(w, fmt.Sprintf("transactions_%s.json", week))
	default:
		serveESPNFile(w, "league.json")
	}
}

func (f *FakeESPNServer) communicationHandler(w http.ResponseWriter, r *http.Request) {
	if !f.authorize(w, r) {
		return
	}
	serveESPNFile(w, "communication.json")
}

func serveESPNFile(w http.ResponseWriter, name string) {
	b, err := espndata.ReadFile(fmt.Sprintf("espndata/%s", name))
	if err != nil {
		log.Printf("error reading espndata/%s: %v", name, err)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
