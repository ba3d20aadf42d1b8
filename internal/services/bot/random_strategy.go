package bot

import (
	"github.com/mcoot/tetrisgame-go/internal/dependencies/random"
	"github.com/mcoot/tetrisgame-go/internal/model"
)

// RandomStrategy picks a random rotation and a random column
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// Choose returns a random rotation count in [0, 4) and a column where the
// rotated shape fits horizontally
func (s *RandomStrategy) Choose(board *model.Board, piece *model.Piece, next *model.Piece) Placement {
	rotations := s.random.Intn(4)
	shape := piece.Shape
	for range rotations {
		shape = shape.Rotated()
	}
	minCol, maxCol := columnRange(shape)
	return Placement{
		Rotations: rotations,
		Column:    minCol + s.random.Intn(maxCol-minCol+1),
	}
}

// columnRange returns the anchor columns at which every occupied sub-cell of
// the shape stays inside the board
func columnRange(shape model.Shape) (int, int) {
	left, right := shape.Width(), -1
	for _, pos := range shape.Occupied() {
		left = min(left, pos.Col)
		right = max(right, pos.Col)
	}
	if right < 0 {
		return 0, 0
	}
	return -left, model.BoardCols - 1 - right
}
