package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mww/league_insights/controller"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// loadTimeout bounds a league load. Large leagues need one request per week
// per team on some providers.
const loadTimeout = 2 * time.Minute

func getRouter(ctrl controller.C, render *render.Render, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.Text(w, http.StatusOK, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/leagues", func(r chi.Router) {
		r.With(middleware.Timeout(loadTimeout)).Post("/load", loadLeagueHandler(ctrl, render))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(10 * time.Second))
			r.Get("/current", currentLeagueHandler(ctrl, render))
			r.Get("/current/awards", awardsHandler(ctrl, render))
			r.Get("/current/progress", progressHandler(ctrl, render))
		})
	})

	r.Route("/oauth", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/yahoo", oauthLinkHandler(ctrl, render))
		r.Get("/redirect", oauthRedirectHandler(ctrl, render))
		r.Post("/signout", signOutHandler(ctrl, render))
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
