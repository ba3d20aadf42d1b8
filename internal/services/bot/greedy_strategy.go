package bot

import (
	"math"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/board"
)

// Weights scores a resting board. Higher totals are better.
type Weights struct {
	AggregateHeight float64
	Lines           float64
	Holes           float64
	Bumpiness       float64
}

// DefaultWeights is a hand-tuned set that clears lines steadily
var DefaultWeights = Weights{
	AggregateHeight: -0.510066,
	Lines:           0.760666,
	Holes:           -0.35663,
	Bumpiness:       -0.184483,
}

// GreedyStrategy tries every rotation and column for the current piece,
// hard-drops it on a copy of the board and keeps the best-scoring result
type GreedyStrategy struct {
	boardService *board.Service
	weights      Weights
}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy(boardService *board.Service, weights Weights) *GreedyStrategy {
	return &GreedyStrategy{boardService: boardService, weights: weights}
}

// Choose evaluates all reachable placements and returns the best one. Ties
// keep the first candidate found, so the result is deterministic.
func (s *GreedyStrategy) Choose(b *model.Board, piece *model.Piece, next *model.Piece) Placement {
	best := Placement{Column: piece.X}
	bestScore := math.Inf(-1)

	shape := piece.Shape
	for rotations := range 4 {
		if rotations > 0 {
			shape = shape.Rotated()
		}
		minCol, maxCol := columnRange(shape)
		for col := minCol; col <= maxCol; col++ {
			score, ok := s.evaluate(b, piece, shape, col)
			if ok && score > bestScore {
				bestScore = score
				best = Placement{Rotations: rotations, Column: col}
			}
		}
	}
	return best
}

// evaluate drops the shape at col from the piece's current row and scores
// the board it leaves behind
func (s *GreedyStrategy) evaluate(b *model.Board, piece *model.Piece, shape model.Shape, col int) (float64, bool) {
	trial := &model.Piece{Type: piece.Type, Shape: shape, X: col, Y: piece.Y}
	if s.boardService.Collides(b, trial, trial.X, trial.Y) {
		return 0, false
	}
	for !s.boardService.Collides(b, trial, trial.X, trial.Y+1) {
		trial.Y++
	}

	sim := b.Clone()
	if _, ok := s.boardService.Lock(sim, trial); !ok {
		return 0, false
	}
	lines := len(s.boardService.ClearLines(sim))

	features := Measure(sim)
	return s.weights.AggregateHeight*float64(features.AggregateHeight) +
		s.weights.Lines*float64(lines) +
		s.weights.Holes*float64(features.Holes) +
		s.weights.Bumpiness*float64(features.Bumpiness), true
}

// Features are the board measurements the greedy strategy scores
type Features struct {
	AggregateHeight int
	Holes           int
	Bumpiness       int
}

// Measure computes the column heights, holes and bumpiness of a board
func Measure(b *model.Board) Features {
	var f Features
	prev := -1
	for col := 0; col < model.BoardCols; col++ {
		height := b.ColumnHeight(col)
		f.AggregateHeight += height
		if prev >= 0 {
			diff := height - prev
			if diff < 0 {
				diff = -diff
			}
			f.Bumpiness += diff
		}
		prev = height

		for row := model.BoardRows - height; row < model.BoardRows; row++ {
			if b.Cells[row][col].IsEmpty() {
				f.Holes++
			}
		}
	}
	return f
}
