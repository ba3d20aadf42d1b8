package response

import (
	"strings"
	"time"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
)

// Health is the health check response
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Position is a board cell coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func positionsFromModel(cells []model.Position) []Position {
	out := make([]Position, len(cells))
	for i, c := range cells {
		out[i] = Position{Row: c.Row, Col: c.Col}
	}
	return out
}

// Piece is a tetromino and the board cells it covers
type Piece struct {
	Type  string     `json:"type"`
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Cells []Position `json:"cells"`
}

// PieceFromModel converts a model.Piece; nil stays nil
func PieceFromModel(p *model.Piece) *Piece {
	if p == nil {
		return nil
	}
	return &Piece{
		Type:  p.Type.String(),
		X:     p.X,
		Y:     p.Y,
		Cells: positionsFromModel(p.Cells()),
	}
}

// Session is the renderable state of a session
type Session struct {
	ID             string   `json:"id"`
	PlayerID       string   `json:"player_id"`
	GameNumber     int      `json:"game_number"`
	Phase          string   `json:"phase"`
	Paused         bool     `json:"paused"`
	GameOver       bool     `json:"game_over"`
	Score          int      `json:"score"`
	Level          int      `json:"level"`
	Lines          int      `json:"lines"`
	Pieces         int      `json:"pieces"`
	DropIntervalMS int64    `json:"drop_interval_ms"`
	Current        *Piece   `json:"current,omitempty"`
	Next           *Piece   `json:"next,omitempty"`
	Board          [][]int  `json:"board"`
	Rows           []string `json:"rows"`
}

// SessionFromSnapshot converts a loop.Snapshot. Board holds the locked cells
// only; Rows is the composite view with the falling piece drawn in, one
// string per row using '.' for empty and the colour digit otherwise.
func SessionFromSnapshot(s loop.Snapshot) Session {
	board := make([][]int, model.BoardRows)
	for row := range model.BoardRows {
		board[row] = make([]int, model.BoardCols)
		for col := range model.BoardCols {
			board[row][col] = int(s.Board[row][col])
		}
	}

	return Session{
		ID:             string(s.SessionID),
		PlayerID:       string(s.PlayerID),
		GameNumber:     s.GameNumber,
		Phase:          string(s.Phase),
		Paused:         s.Paused,
		GameOver:       s.GameOver,
		Score:          s.Score,
		Level:          s.Level,
		Lines:          s.Lines,
		Pieces:         s.Pieces,
		DropIntervalMS: s.DropInterval.Milliseconds(),
		Current:        PieceFromModel(s.Current),
		Next:           PieceFromModel(s.Next),
		Board:          board,
		Rows:           CompositeRows(s),
	}
}

// CompositeRows renders the snapshot's composite grid as text rows
func CompositeRows(s loop.Snapshot) []string {
	grid := s.Composite()
	rows := make([]string, model.BoardRows)
	var sb strings.Builder
	for row := range model.BoardRows {
		sb.Reset()
		for col := range model.BoardCols {
			cell := grid[row][col]
			if cell.IsEmpty() {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('0' + byte(cell))
			}
		}
		rows[row] = sb.String()
	}
	return rows
}

// Lock describes a piece locking into the board
type Lock struct {
	Piece       string     `json:"piece"`
	Cells       []Position `json:"cells"`
	ClearedRows []int      `json:"cleared_rows,omitempty"`
	Points      int        `json:"points"`
	GameOver    bool       `json:"game_over"`
	Reason      string     `json:"reason,omitempty"`
}

// LockFromResult converts a game.LockResult; nil stays nil
func LockFromResult(l *game.LockResult) *Lock {
	if l == nil {
		return nil
	}
	return &Lock{
		Piece:       l.Piece.String(),
		Cells:       positionsFromModel(l.Cells),
		ClearedRows: l.ClearedRows,
		Points:      l.Points,
		GameOver:    l.GameOver,
		Reason:      string(l.Reason),
	}
}

// CommandResponse is the response after sending a command
type CommandResponse struct {
	Applied bool    `json:"applied"`
	Lock    *Lock   `json:"lock,omitempty"`
	Session Session `json:"session"`
}

// TickResponse is the response after a manual tick
type TickResponse struct {
	Dropped bool    `json:"dropped"`
	Lock    *Lock   `json:"lock,omitempty"`
	Session Session `json:"session"`
}

// ScoreEntry is one leaderboard row
type ScoreEntry struct {
	GameID      string    `json:"game_id"`
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	Level       int       `json:"level"`
	Lines       int       `json:"lines"`
	AchievedAt  time.Time `json:"achieved_at"`
}

// ScoreEntryFromModel converts a model.ScoreEntry
func ScoreEntryFromModel(e *model.ScoreEntry) ScoreEntry {
	return ScoreEntry{
		GameID:      string(e.GameID),
		PlayerID:    string(e.PlayerID),
		DisplayName: e.DisplayName,
		Score:       e.Score,
		Level:       e.Level,
		Lines:       e.Lines,
		AchievedAt:  e.AchievedAt,
	}
}

// Leaderboard is the response for the scores endpoint
type Leaderboard struct {
	Scores []ScoreEntry `json:"scores"`
}

// LeaderboardFromModel converts leaderboard entries
func LeaderboardFromModel(entries []*model.ScoreEntry) Leaderboard {
	scores := make([]ScoreEntry, len(entries))
	for i, e := range entries {
		scores[i] = ScoreEntryFromModel(e)
	}
	return Leaderboard{Scores: scores}
}

// GameSummary is a finished game
type GameSummary struct {
	GameID     string    `json:"game_id"`
	SessionID  string    `json:"session_id"`
	PlayerID   string    `json:"player_id"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	Lines      int       `json:"lines"`
	Pieces     int       `json:"pieces"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// GameSummaryFromModel converts a model.GameSummary
func GameSummaryFromModel(g *model.GameSummary) GameSummary {
	return GameSummary{
		GameID:     string(g.GameID),
		SessionID:  string(g.SessionID),
		PlayerID:   string(g.PlayerID),
		Score:      g.Score,
		Level:      g.Level,
		Lines:      g.Lines,
		Pieces:     g.Pieces,
		StartedAt:  g.StartedAt,
		FinishedAt: g.FinishedAt,
	}
}

// PlayerStats is the response for a player's best score and recent games
type PlayerStats struct {
	Best   ScoreEntry    `json:"best"`
	Recent []GameSummary `json:"recent"`
}
