package game

import (
	"log/slog"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/clock"
	"github.com/mcoot/tetrisgame-go/internal/dependencies/random"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/board"
	"github.com/mcoot/tetrisgame-go/internal/services/scoring"
)

// LockResult describes what happened when the falling piece came to rest
type LockResult struct {
	Piece       model.PieceType
	Cells       []model.Position // Cells written; empty on top-out
	ClearedRows []int            // Row indices before removal, bottom first
	Points      int
	GameOver    bool
	Reason      model.GameOverReason

	// ClearedCells holds the contents of each cleared row, parallel to ClearedRows
	ClearedCells [][model.BoardCols]model.Cell
}

// Outcome is the result of executing one command against a session
type Outcome struct {
	// Applied is false when the command had no effect: rejected by the
	// session state or blocked by a collision
	Applied bool
	Lock    *LockResult
}

// Controller owns the engine rules for a session: spawning, movement,
// rotation, dropping, locking and the line-clear state machine. It never
// blocks and holds no per-session state; callers serialize access to a
// session.
type Controller struct {
	boardService   *board.Service
	scoringService *scoring.Service
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewController creates a new GameController
func NewController(
	boardService *board.Service,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		boardService:   boardService,
		scoringService: scoringService,
		clock:          clock,
		random:         random,
		logger:         logger,
	}
}

// NewSession creates a session with an empty board, a falling piece at its
// spawn position and a queued next piece
func (c *Controller) NewSession(id model.SessionID, playerID model.PlayerID) *model.Session {
	now := c.clock.Now()
	session := &model.Session{
		ID:        id,
		PlayerID:  playerID,
		Board:     model.NewBoard(),
		CreatedAt: now,
	}
	c.reset(session)
	return session
}

// Restart discards all session state and starts a fresh game in place
func (c *Controller) Restart(session *model.Session) {
	c.reset(session)
	c.logger.Info("session restarted",
		slog.String("session_id", string(session.ID)),
	)
}

func (c *Controller) reset(session *model.Session) {
	session.Board.Reset()
	c.scoringService.Reset(session)
	session.Current = c.CreatePiece()
	session.Next = c.CreatePiece()
	c.ResetPosition(session.Current)
	session.Phase = model.PhaseFalling
	session.Paused = false
	session.GameOver = false
	session.Pieces = 0
	session.GameNumber++
	session.StartedAt = c.clock.Now()
	session.UpdatedAt = session.StartedAt
}

// CreatePiece samples one of the seven tetrominoes uniformly
func (c *Controller) CreatePiece() *model.Piece {
	t := model.PieceType(c.random.Intn(model.PieceTypeCount) + 1)
	return model.NewPiece(t)
}

// ResetPosition centres the piece horizontally on the top row
func (c *Controller) ResetPosition(piece *model.Piece) {
	piece.X = model.BoardCols/2 - piece.Shape.Width()/2
	piece.Y = 0
}

// Move shifts the falling piece one column left (dir < 0) or right (dir > 0).
// Returns false and leaves the piece unchanged if the move would collide.
func (c *Controller) Move(session *model.Session, dir int) bool {
	if dir == 0 {
		return false
	}
	piece := session.Current
	step := 1
	if dir < 0 {
		step = -1
	}
	if c.boardService.Collides(session.Board, piece, piece.X+step, piece.Y) {
		return false
	}
	piece.X += step
	return true
}

// Rotate turns the falling piece clockwise in place. No wall kicks are
// attempted; if the rotated shape collides the original shape is kept.
func (c *Controller) Rotate(session *model.Session) bool {
	piece := session.Current
	original := piece.Shape
	piece.Shape = original.Rotated()
	if c.boardService.Collides(session.Board, piece, piece.X, piece.Y) {
		piece.Shape = original
		return false
	}
	return true
}

// Drop moves the falling piece down one row. If it cannot move, it locks
// where it is and the returned LockResult is non-nil.
func (c *Controller) Drop(session *model.Session) *LockResult {
	piece := session.Current
	if !c.boardService.Collides(session.Board, piece, piece.X, piece.Y+1) {
		piece.Y++
		return nil
	}
	return c.lock(session)
}

func (c *Controller) lock(session *model.Session) *LockResult {
	piece := session.Current
	result := &LockResult{Piece: piece.Type}
	session.Phase = model.PhaseLocking
	session.UpdatedAt = c.clock.Now()

	written, ok := c.boardService.Lock(session.Board, piece)
	if !ok {
		c.endGame(session, result, model.GameOverTopOut)
		return result
	}
	result.Cells = written
	session.Pieces++

	session.Phase = model.PhaseLineClearing
	before := *session.Board
	result.ClearedRows = c.boardService.ClearLines(session.Board)
	if len(result.ClearedRows) > 0 {
		for _, row := range result.ClearedRows {
			result.ClearedCells = append(result.ClearedCells, before.Cells[row])
		}
		result.Points = c.scoringService.ApplyClear(session, len(result.ClearedRows))
		c.logger.Debug("lines cleared",
			slog.String("session_id", string(session.ID)),
			slog.Int("lines", len(result.ClearedRows)),
			slog.Int("points", result.Points),
			slog.Int("level", session.Level),
		)
	}

	session.Current = session.Next
	session.Next = c.CreatePiece()
	c.ResetPosition(session.Current)
	if c.boardService.Collides(session.Board, session.Current, session.Current.X, session.Current.Y) {
		c.endGame(session, result, model.GameOverSpawnBlocked)
		return result
	}

	session.Phase = model.PhaseFalling
	return result
}

func (c *Controller) endGame(session *model.Session, result *LockResult, reason model.GameOverReason) {
	session.GameOver = true
	session.Phase = model.PhaseGameOver
	result.GameOver = true
	result.Reason = reason

	c.logger.Info("game over",
		slog.String("session_id", string(session.ID)),
		slog.String("reason", string(reason)),
		slog.Int("score", session.Score),
		slog.Int("level", session.Level),
		slog.Int("lines", session.Lines),
	)
}

// TogglePause flips the pause flag. Returns the new value.
func (c *Controller) TogglePause(session *model.Session) bool {
	session.Paused = !session.Paused
	session.UpdatedAt = c.clock.Now()
	return session.Paused
}

// Execute applies a command with the session gating rules: after game over
// only restart is accepted, and while paused only pause and restart are.
func (c *Controller) Execute(session *model.Session, cmd model.Command) (Outcome, error) {
	switch cmd {
	case model.CommandRestart:
		c.Restart(session)
		return Outcome{Applied: true}, nil
	case model.CommandPause:
		if session.GameOver {
			return Outcome{}, nil
		}
		c.TogglePause(session)
		return Outcome{Applied: true}, nil
	case model.CommandLeft, model.CommandRight, model.CommandRotate, model.CommandDrop:
		if !session.IsPlayable() {
			return Outcome{}, nil
		}
	default:
		return Outcome{}, model.ErrInvalidCommand
	}

	var outcome Outcome
	switch cmd {
	case model.CommandLeft:
		outcome.Applied = c.Move(session, -1)
	case model.CommandRight:
		outcome.Applied = c.Move(session, 1)
	case model.CommandRotate:
		outcome.Applied = c.Rotate(session)
	case model.CommandDrop:
		outcome.Lock = c.Drop(session)
		outcome.Applied = true
	}
	if outcome.Applied {
		session.UpdatedAt = c.clock.Now()
	}
	return outcome, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	NewSession(id model.SessionID, playerID model.PlayerID) *model.Session
	Restart(session *model.Session)
	CreatePiece() *model.Piece
	ResetPosition(piece *model.Piece)
	Move(session *model.Session, dir int) bool
	Rotate(session *model.Session) bool
	Drop(session *model.Session) *LockResult
	TogglePause(session *model.Session) bool
	Execute(session *model.Session, cmd model.Command) (Outcome, error)
}

var _ ControllerInterface = (*Controller)(nil)
