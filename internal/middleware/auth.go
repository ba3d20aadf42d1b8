package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
)

// SessionCookieName is the cookie holding the auth token for the web UI and
// its event streams
const SessionCookieName = "session"

type sessionKey struct{}

// Token returns the request's auth token: a bearer header when allowBearer
// is set, else the session cookie
func Token(r *http.Request, allowBearer bool) string {
	if allowBearer {
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// WithSession stores an authenticated session on the context and tags the
// request log with its player
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	SetRequestPlayer(ctx, session.PlayerID)
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the session stored by WithSession, or nil
func SessionFrom(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return session
}

// PlayerFrom returns the authenticated player, or nil
func PlayerFrom(ctx context.Context) *model.Player {
	if session := SessionFrom(ctx); session != nil {
		return &session.Player
	}
	return nil
}
