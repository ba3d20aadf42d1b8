package board

import (
	"github.com/mcoot/tetrisgame-go/internal/model"
)

// Service provides the pure grid rules: collision, placement and line clears.
// It holds no state; every method works on the board it is given.
type Service struct{}

// New creates a new BoardService
func New() *Service {
	return &Service{}
}

// Collides reports whether the piece's shape anchored at (x, y) is illegal:
// any occupied sub-cell left of, right of or below the board, or on top of a
// locked cell. Sub-cells above the board (negative row) only fail the side
// checks.
func (s *Service) Collides(board *model.Board, piece *model.Piece, x, y int) bool {
	for _, pos := range piece.CellsAt(x, y) {
		if pos.Col < 0 || pos.Col >= model.BoardCols || pos.Row >= model.BoardRows {
			return true
		}
		if pos.Row >= 0 && !board.Cells[pos.Row][pos.Col].IsEmpty() {
			return true
		}
	}
	return false
}

// Lock writes the piece's colour into the board at its current anchor and
// returns the written positions. If any sub-cell is above the board the
// piece has topped out: nothing is written and ok is false.
func (s *Service) Lock(board *model.Board, piece *model.Piece) (written []model.Position, ok bool) {
	cells := piece.Cells()
	for _, pos := range cells {
		if pos.Row < 0 {
			return nil, false
		}
	}
	color := piece.Color()
	for _, pos := range cells {
		board.Set(pos, color)
	}
	return cells, true
}

// ClearLines removes every full row, shifting the rows above down and
// inserting empty rows at the top. Returns the cleared rows' indices as they
// were before removal, bottom first.
func (s *Service) ClearLines(board *model.Board) []int {
	var cleared []int
	removed := 0
	for row := model.BoardRows - 1; row >= 0; {
		if !board.IsRowFull(row) {
			row--
			continue
		}
		cleared = append(cleared, row-removed)
		removed++
		for r := row; r > 0; r-- {
			board.Cells[r] = board.Cells[r-1]
		}
		board.Cells[0] = [model.BoardCols]model.Cell{}
		// the row above now sits at this index, so check it again
	}
	return cleared
}

// Interface for dependency injection
type ServiceInterface interface {
	Collides(board *model.Board, piece *model.Piece, x, y int) bool
	Lock(board *model.Board, piece *model.Piece) ([]model.Position, bool)
	ClearLines(board *model.Board) []int
}

var _ ServiceInterface = (*Service)(nil)
