package model

import (
	"fmt"
	"time"
)

// SessionID identifies one running session; a session hosts successive
// games when it is restarted
type SessionID string

// GameID identifies one game within a session
type GameID string

// Phase is the engine state machine position
type Phase string

const (
	PhaseFalling      Phase = "falling"       // A piece is in play
	PhaseLocking      Phase = "locking"       // The falling piece is being written to the board
	PhaseLineClearing Phase = "line_clearing" // Full rows are being removed
	PhaseGameOver     Phase = "game_over"     // Terminal until restart
)

// Session is the authoritative state of one game
type Session struct {
	ID       SessionID
	PlayerID PlayerID

	Board   *Board
	Current *Piece
	Next    *Piece

	Score        int
	Level        int
	Lines        int
	DropInterval time.Duration

	Phase    Phase
	Paused   bool
	GameOver bool

	// Pieces counts locked pieces since the last restart
	Pieces int

	// GameNumber starts at 1 and increments on every restart
	GameNumber int

	CreatedAt time.Time
	StartedAt time.Time // Start of the current game; moves on restart
	UpdatedAt time.Time
}

// NewGameID names the n-th game played in a session
func NewGameID(session SessionID, n int) GameID {
	return GameID(fmt.Sprintf("%s-%d", session, n))
}

// GameID returns the identifier of the session's current game
func (s *Session) GameID() GameID {
	return NewGameID(s.ID, s.GameNumber)
}

// IsPlayable returns true if piece commands currently have an effect
func (s *Session) IsPlayable() bool {
	return !s.GameOver && !s.Paused
}

// GameSummary is a lightweight record of a finished game
type GameSummary struct {
	GameID     GameID
	SessionID  SessionID
	PlayerID   PlayerID
	Score      int
	Level      int
	Lines      int
	Pieces     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the game ran
func (g *GameSummary) Duration() time.Duration {
	return g.FinishedAt.Sub(g.StartedAt)
}
