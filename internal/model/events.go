package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventUpdated        EventType = "updated"
	EventPieceLocked    EventType = "piece_locked"
	EventLinesCleared   EventType = "lines_cleared"
	EventPaused         EventType = "paused"
	EventResumed        EventType = "resumed"
	EventRestarted      EventType = "restarted"
	EventGameOver       EventType = "game_over"
	EventSessionEnded   EventType = "session_ended"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID SessionID
	PlayerID  PlayerID
	Payload   any // Type-specific data
}

// PieceLockedPayload contains data for piece locked events
type PieceLockedPayload struct {
	Piece PieceType
	Cells []Position
}

// LinesClearedPayload contains data for line clear events
type LinesClearedPayload struct {
	Rows   []int // Board rows as they were before removal, bottom first
	Count  int
	Points int
	Level  int
}

// GameOverReason distinguishes the two ways a game can end
type GameOverReason string

const (
	GameOverTopOut       GameOverReason = "top_out"       // Locked with a cell above the board
	GameOverSpawnBlocked GameOverReason = "spawn_blocked" // New piece collided at its spawn position
)

// GameOverPayload contains data for game over events
type GameOverPayload struct {
	Reason GameOverReason
	Score  int
	Level  int
	Lines  int
}
