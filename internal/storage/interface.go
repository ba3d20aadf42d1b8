package storage

import (
	"context"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

// Storage defines the interface for data persistence. Running sessions are
// never stored; only players and finished-game results are.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Leaderboard operations
	SaveScore(ctx context.Context, entry *model.ScoreEntry) error
	// TopScores returns at most limit entries, highest score first
	TopScores(ctx context.Context, limit int) ([]*model.ScoreEntry, error)
	PlayerBest(ctx context.Context, playerID model.PlayerID) (*model.ScoreEntry, error)

	// Game summary operations
	SaveSummary(ctx context.Context, summary *model.GameSummary) error
	GetSummary(ctx context.Context, id model.GameID) (*model.GameSummary, error)
	// RecentSummaries returns at most limit of the player's games, newest first
	RecentSummaries(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.GameSummary, error)
}

// LessScore orders leaderboard entries: higher score first, then the earlier
// achievement, then game id
func LessScore(a, b *model.ScoreEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.AchievedAt.Equal(b.AchievedAt) {
		return a.AchievedAt.Before(b.AchievedAt)
	}
	return a.GameID < b.GameID
}
