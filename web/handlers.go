package web

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/controller"
	"github.com/unrolled/render"
)

const maxBodyBytes = 1 << 16

var failureStatus = map[controller.FailureKind]int{
	controller.FailureInvalidRequest: http.StatusBadRequest,
	controller.FailureTokenExpired:   http.StatusUnauthorized,
	controller.FailurePrivateLeague:  http.StatusForbidden,
	controller.FailureNotFound:       http.StatusNotFound,
	controller.FailureSuperseded:     http.StatusConflict,
	controller.FailureNetwork:        http.StatusBadGateway,
	controller.FailureUnknown:        http.StatusInternalServerError,
}

func renderFailure(render *render.Render, w http.ResponseWriter, err error) {
	f := controller.ClassifyError(err)
	render.JSON(w, failureStatus[f.Kind], f)
}

func loadLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req controller.LoadRequest
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := sonic.ConfigStd.NewDecoder(body).Decode(&req); err != nil {
			render.JSON(w, http.StatusBadRequest, controller.Failure{
				Kind:    controller.FailureInvalidRequest,
				Message: "The request body is not a valid league load request.",
			})
			return
		}

		// the session cookie set by the oauth redirect stands in for an
		// explicit session
		if req.YahooSession == "" {
			if c, err := r.Cookie(sessionCookie); err == nil {
				req.YahooSession = c.Value
			}
		}

		if err := req.Validate(); err != nil {
			renderFailure(render, w, err)
			return
		}

		report, err := ctrl.LoadLeague(r.Context(), req, nil)
		if err != nil {
			renderFailure(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, report)
	}
}

func currentLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := ctrl.Current()
		if err != nil {
			renderNoLeague(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, report)
	}
}

func awardsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		awards, err := ctrl.Awards()
		if err != nil {
			renderNoLeague(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, awards)
	}
}

func progressHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, ctrl.Progress())
	}
}

func renderNoLeague(render *render.Render, w http.ResponseWriter, err error) {
	if errors.Is(err, controller.ErrNoLeague) {
		render.JSON(w, http.StatusNotFound, map[string]string{"error": "no league has been loaded"})
		return
	}
	render.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
