package bot

import "github.com/mcoot/tetrisgame-go/internal/model"

// Placement is where a bot wants the falling piece to end up: how many
// clockwise rotations to apply at spawn and the target anchor column
type Placement struct {
	Rotations int
	Column    int
}

// Strategy decides where each falling piece should go
type Strategy interface {
	// Choose picks a placement for the piece on the given board
	Choose(board *model.Board, piece *model.Piece, next *model.Piece) Placement
}
