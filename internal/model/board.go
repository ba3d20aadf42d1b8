package model

// Board dimensions are fixed for every game
const (
	BoardRows = 20
	BoardCols = 10
)

// Cell is the content of one board square: CellEmpty or a piece colour 1..7
type Cell uint8

// CellEmpty marks an unoccupied cell
const CellEmpty Cell = 0

// IsEmpty returns true if no piece occupies the cell
func (c Cell) IsEmpty() bool {
	return c == CellEmpty
}

// Position identifies a cell on the board
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// Board is the grid of locked cells for one session
type Board struct {
	Cells [BoardRows][BoardCols]Cell // Row-major: Cells[row][col]
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{}
}

// Reset empties every cell
func (b *Board) Reset() {
	b.Cells = [BoardRows][BoardCols]Cell{}
}

// Get returns the cell at the given position, or CellEmpty if out of bounds
func (b *Board) Get(pos Position) Cell {
	if !b.IsValidPosition(pos) {
		return CellEmpty
	}
	return b.Cells[pos.Row][pos.Col]
}

// Set writes a cell at the given position
func (b *Board) Set(pos Position, cell Cell) {
	if b.IsValidPosition(pos) {
		b.Cells[pos.Row][pos.Col] = cell
	}
}

// IsEmpty returns true if the cell at the given position is empty
func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos).IsEmpty()
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < BoardRows && pos.Col >= 0 && pos.Col < BoardCols
}

// IsRowFull returns true if every cell in the row is occupied
func (b *Board) IsRowFull(row int) bool {
	if row < 0 || row >= BoardRows {
		return false
	}
	for _, cell := range b.Cells[row] {
		if cell.IsEmpty() {
			return false
		}
	}
	return true
}

// FilledCount returns the number of occupied cells
func (b *Board) FilledCount() int {
	count := 0
	for row := range b.Cells {
		for _, cell := range b.Cells[row] {
			if !cell.IsEmpty() {
				count++
			}
		}
	}
	return count
}

// ColumnHeight returns the number of rows from the highest occupied cell in
// the column down to the floor, or 0 for an empty column
func (b *Board) ColumnHeight(col int) int {
	if col < 0 || col >= BoardCols {
		return 0
	}
	for row := 0; row < BoardRows; row++ {
		if !b.Cells[row][col].IsEmpty() {
			return BoardRows - row
		}
	}
	return 0
}

// Clone returns an independent copy of the board
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}
