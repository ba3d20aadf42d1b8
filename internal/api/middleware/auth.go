package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/tetrisgame-go/internal/api/apierr"
	"github.com/mcoot/tetrisgame-go/internal/middleware"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
)

// Auth requires a valid bearer token or session cookie and answers with a
// JSON 401 otherwise
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := middleware.Token(r, true)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), session)))
		})
	}
}

// GetPlayer returns the authenticated player from the request context
func GetPlayer(ctx context.Context) *model.Player {
	return middleware.PlayerFrom(ctx)
}

// MustGetPlayer returns the authenticated player. Handlers behind Auth only.
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("no player in context: route is missing the Auth middleware")
	}
	return player
}
