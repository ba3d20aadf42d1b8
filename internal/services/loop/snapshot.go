package loop

import (
	"time"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

// Snapshot is a read-only copy of everything a renderer needs for one frame
type Snapshot struct {
	SessionID  model.SessionID
	PlayerID   model.PlayerID
	GameNumber int

	Board   [model.BoardRows][model.BoardCols]model.Cell
	Current *model.Piece
	Next    *model.Piece

	Score        int
	Level        int
	Lines        int
	Pieces       int
	DropInterval time.Duration

	Phase    model.Phase
	Paused   bool
	GameOver bool

	Particles []Particle
	StartedAt time.Time
	UpdatedAt time.Time
}

func newSnapshot(session *model.Session, effects *Effects) Snapshot {
	return Snapshot{
		SessionID:    session.ID,
		PlayerID:     session.PlayerID,
		GameNumber:   session.GameNumber,
		Board:        session.Board.Cells,
		Current:      session.Current.Clone(),
		Next:         session.Next.Clone(),
		Score:        session.Score,
		Level:        session.Level,
		Lines:        session.Lines,
		Pieces:       session.Pieces,
		DropInterval: session.DropInterval,
		Phase:        session.Phase,
		Paused:       session.Paused,
		GameOver:     session.GameOver,
		Particles:    effects.Particles(),
		StartedAt:    session.StartedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

// Composite returns the board with the falling piece drawn over it. Sub-cells
// above the board are omitted.
func (s Snapshot) Composite() [model.BoardRows][model.BoardCols]model.Cell {
	grid := s.Board
	if s.Current == nil || s.GameOver {
		return grid
	}
	color := s.Current.Color()
	for _, pos := range s.Current.Cells() {
		if pos.Row >= 0 && pos.Row < model.BoardRows && pos.Col >= 0 && pos.Col < model.BoardCols {
			grid[pos.Row][pos.Col] = color
		}
	}
	return grid
}

// Summary returns the result record for the game this snapshot was taken
// from. Taking it from a snapshot pins it to that game even if the session
// restarts afterwards.
func (s Snapshot) Summary(finishedAt time.Time) *model.GameSummary {
	return &model.GameSummary{
		GameID:     model.NewGameID(s.SessionID, s.GameNumber),
		SessionID:  s.SessionID,
		PlayerID:   s.PlayerID,
		Score:      s.Score,
		Level:      s.Level,
		Lines:      s.Lines,
		Pieces:     s.Pieces,
		StartedAt:  s.StartedAt,
		FinishedAt: finishedAt,
	}
}
