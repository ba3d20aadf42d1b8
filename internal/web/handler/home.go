package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/tetrisgame-go/internal/storage"
	"github.com/mcoot/tetrisgame-go/internal/web/middleware"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/layout"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/pages"
)

// leaderboardSize is how many scores the home page lists
const leaderboardSize = 10

// HomeHandler handles the home page
type HomeHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(storage storage.Storage, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		storage: storage,
		logger:  logger,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	scores, err := h.storage.TopScores(r.Context(), leaderboardSize)
	if err != nil {
		// The page still works without a leaderboard
		h.logger.Warn("failed to load leaderboard", slog.Any("error", err))
	}

	data := pages.HomeData{
		PageData: layout.PageData{
			Title:  "Home",
			Player: middleware.GetPlayer(r),
			Flash:  middleware.GetFlash(r.Context()),
		},
		Next:   r.URL.Query().Get("next"),
		Scores: scores,
	}

	render(w, r, http.StatusOK, pages.Home(data))
}
