package web

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/controller"
	"github.com/mww/league_insights/model"
	"github.com/unrolled/render"
)

const (
	sessionCookie = "yahoo_session"
	sessionMaxAge = 30 * 24 * time.Hour
)

func oauthLinkHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := ctrl.OAuthStart(string(model.PlatformYahoo))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, controller.ErrOAuthNotConfigured) {
				status = http.StatusServiceUnavailable
			}
			render.JSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		http.Redirect(w, r, url, http.StatusSeeOther)
	}
}

func oauthRedirectHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		if e := params.Get("error"); e != "" {
			render.JSON(w, http.StatusBadRequest, map[string]string{"error": e})
			return
		}
		code := params.Get("code")
		state := params.Get("state")
		if code == "" || state == "" {
			render.JSON(w, http.StatusBadRequest, map[string]string{"error": "code and state are required"})
			return
		}

		session, err := ctrl.OAuthExchange(r.Context(), state, code)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, controller.ErrInvalidState) {
				status = http.StatusBadRequest
			}
			render.JSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    session,
			Path:     "/",
			MaxAge:   int(sessionMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		render.JSON(w, http.StatusOK, map[string]string{"session": session})
	}
}

func signOutHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := ctrl.SignOut(r.Context(), c.Value); err != nil {
			render.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
		w.WriteHeader(http.StatusNoContent)
	}
}
