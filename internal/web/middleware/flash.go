package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/mcoot/tetrisgame-go/internal/web/templates/layout"
)

const flashCookieName = "flash"

type flashKey struct{}

// GetFlash returns the notice carried over from the previous response, or nil
func GetFlash(ctx context.Context) *layout.FlashMessage {
	flash, _ := ctx.Value(flashKey{}).(*layout.FlashMessage)
	return flash
}

// SetFlash queues a notice for the next page the browser loads. The value is
// base64 encoded since cookie values can't hold spaces or commas.
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, flashCookie(base64.RawURLEncoding.EncodeToString([]byte(kind+":"+message)), 60))
}

// Flash moves a pending notice from its cookie into the request context and
// clears the cookie so it shows once
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(flashCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			http.SetCookie(w, flashCookie("", -1))
			if flash := decodeFlash(cookie.Value); flash != nil {
				r = r.WithContext(context.WithValue(r.Context(), flashKey{}, flash))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func flashCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func decodeFlash(value string) *layout.FlashMessage {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(string(raw), ":")
	if !ok {
		return &layout.FlashMessage{Type: "info", Message: string(raw)}
	}
	return &layout.FlashMessage{Type: kind, Message: message}
}
