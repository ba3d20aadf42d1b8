package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/tetrisgame-go/internal/web/middleware"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/layout"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/pages"
)

func render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := layout.PageData{
		Title:  "Error",
		Player: middleware.GetPlayer(r),
	}
	render(w, r, status, pages.Error(data, status, message))
}
