package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"

	"github.com/sushihentaime/cleanblog/internal/userservice"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			ip     = r.RemoteAddr
			method = r.Method
			proto  = r.Proto
			uri    = r.URL.RequestURI()
			id     = uuid.NewString()
		)

		w.Header().Set("X-Request-ID", id)

		app.metrics.inFlight.Inc()
		defer app.metrics.inFlight.Dec()

		m := httpsnoop.CaptureMetrics(next, w, r)
		app.metrics.observe(method, m.Code, m.Duration)

		app.logger.Info("request",
			slog.String("request_id", id),
			slog.String("method", method),
			slog.String("uri", uri),
			slog.String("remote_addr", ip),
			slog.String("proto", proto),
			slog.Int("status", m.Code),
			slog.Duration("duration", m.Duration))
	})
}

// authenticate resolves the session cookie to a user. A bad or stale cookie is cleared
// and the request continues anonymously.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Cookie")

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			r = app.createUserContext(r, &userservice.AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.userService.CurrentUser(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case userservice.IsInvalidSession(err):
				app.clearSessionCookie(w)
			default:
				app.logError(r, err)
			}
		}

		r = app.createUserContext(r, user)
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects every caller except the seed account before the handler runs.
// Admin routes include the GET delete, so requests that a browser marks as cross-site are
// rejected as well.
func (app *application) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.getUserContext(r)
		if !user.IsAdmin() || !sameOrigin(r) {
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sameOrigin reports whether the request was not initiated by another site, judged from
// Sec-Fetch-Site and, when present, the Origin and Referer hosts.
func sameOrigin(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "", "same-origin", "none":
	default:
		return false
	}

	for _, header := range []string{"Origin", "Referer"} {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		u, err := url.Parse(value)
		if err != nil || u.Host != r.Host {
			return false
		}
	}

	return true
}
