package middleware

import (
	"net/http"
	"net/url"

	"github.com/mcoot/tetrisgame-go/internal/middleware"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
)

// SessionCookieName holds the auth session token
const SessionCookieName = middleware.SessionCookieName

// GetPlayer returns the signed-in player, or nil
func GetPlayer(r *http.Request) *model.Player {
	return middleware.PlayerFrom(r.Context())
}

// Auth sends visitors without a valid session cookie to the home page,
// remembering where they were headed
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := cookieSession(r, authService)
			if session == nil {
				http.Redirect(w, r, "/?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), session)))
		})
	}
}

// OptionalAuth attaches the player when the cookie is valid and lets
// everyone else through
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := cookieSession(r, authService); session != nil {
				r = r.WithContext(middleware.WithSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func cookieSession(r *http.Request, authService *auth.Service) *auth.Session {
	token := middleware.Token(r, false)
	if token == "" {
		return nil
	}
	session, err := authService.ValidateSession(token)
	if err != nil {
		return nil
	}
	return session
}
