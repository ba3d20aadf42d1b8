package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/tetrisgame-go/internal/services/auth"
	"github.com/mcoot/tetrisgame-go/internal/web/middleware"
)

// AuthHandler handles authentication actions. Forms live on the home page,
// so every action ends in a redirect with a flash message.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// CreateGuest handles guest player creation
func (h *AuthHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, "Invalid form data")
		return
	}

	displayName := strings.TrimSpace(r.FormValue("display_name"))
	session, err := h.authService.CreateGuestPlayer(r.Context(), displayName)
	if err != nil {
		h.fail(w, r, authErrorMessage(err))
		return
	}

	h.setSessionCookie(w, session)
	middleware.SetFlash(w, "success", "Welcome, "+session.Player.DisplayName+"!")
	redirectNext(w, r, r.FormValue("next"))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		h.fail(w, r, "Username and password are required")
		return
	}

	session, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		h.fail(w, r, "Invalid username or password")
		return
	}

	h.setSessionCookie(w, session)
	middleware.SetFlash(w, "success", "Welcome back, "+session.Player.DisplayName+"!")
	redirectNext(w, r, r.FormValue("next"))
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")

	session, err := h.authService.RegisterPlayer(r.Context(), username, password, displayName)
	if err != nil {
		h.fail(w, r, authErrorMessage(err))
		return
	}

	h.setSessionCookie(w, session)
	middleware.SetFlash(w, "success", "Account created! Welcome, "+session.Player.DisplayName+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the auth session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, message string) {
	middleware.SetFlash(w, "error", message)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// redirectNext sends the player back to where they were headed. Only local
// paths are honoured.
func redirectNext(w http.ResponseWriter, r *http.Request, next string) {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrUsernameExists):
		return "Username already taken"
	case errors.Is(err, auth.ErrInvalidUsername):
		return "Username must be 3 to 32 characters"
	case errors.Is(err, auth.ErrWeakPassword):
		return "Password must be at least 6 characters"
	case errors.Is(err, auth.ErrDisplayNameTooLong):
		return "Display name is too long"
	default:
		return "Something went wrong, please try again"
	}
}
