package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetrisgame-go/internal/api/apierr"
	"github.com/mcoot/tetrisgame-go/internal/api/response"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/storage"
)

const (
	defaultScoreLimit  = 10
	maxScoreLimit      = 100
	recentSummaryLimit = 10
)

// ScoreHandler handles leaderboard endpoints
type ScoreHandler struct {
	storage storage.Storage
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(storage storage.Storage) *ScoreHandler {
	return &ScoreHandler{storage: storage}
}

// Top handles GET /api/v1/scores?limit=N
func (h *ScoreHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := defaultScoreLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, apierr.NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = min(n, maxScoreLimit)
	}

	entries, err := h.storage.TopScores(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}

// PlayerBest handles GET /api/v1/players/{id}/best
func (h *ScoreHandler) PlayerBest(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	best, err := h.storage.PlayerBest(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summaries, err := h.storage.RecentSummaries(r.Context(), playerID, recentSummaryLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recent := make([]response.GameSummary, len(summaries))
	for i, s := range summaries {
		recent[i] = response.GameSummaryFromModel(s)
	}

	response.JSON(w, http.StatusOK, response.PlayerStats{
		Best:   response.ScoreEntryFromModel(best),
		Recent: recent,
	})
}
