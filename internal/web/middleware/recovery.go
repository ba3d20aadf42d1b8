package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/tetrisgame-go/internal/middleware"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/layout"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/pages"
)

// Recovery answers handler panics with the HTML error page
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, recovered any) {
		middleware.SetRequestError(r.Context(), fmt.Errorf("panic: %v", recovered))
		renderServerError(w, r)
	})
}

func renderServerError(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	msg := "Something went wrong. Please try again later."
	if id := middleware.GetRequestID(r.Context()); id != "" {
		msg += " (request " + id + ")"
	}
	_ = pages.Error(layout.PageData{Title: "Error"}, http.StatusInternalServerError, msg).Render(r.Context(), w)
}
