package model

import "fmt"

// PieceType names one of the seven tetrominoes. Its value is also the colour
// tag written into the board when the piece locks.
type PieceType uint8

const (
	PieceI PieceType = iota + 1
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// PieceTypeCount is the number of distinct tetrominoes
const PieceTypeCount = 7

// Shape is a small matrix of cells; non-empty entries are occupied sub-cells
type Shape [][]Cell

var spawnShapes = map[PieceType]Shape{
	PieceI: {{1, 1, 1, 1}},
	PieceO: {{2, 2}, {2, 2}},
	PieceT: {{0, 3, 0}, {3, 3, 3}},
	PieceS: {{0, 4, 4}, {4, 4, 0}},
	PieceZ: {{5, 5, 0}, {0, 5, 5}},
	PieceJ: {{6, 0, 0}, {6, 6, 6}},
	PieceL: {{0, 0, 7}, {7, 7, 7}},
}

// AllPieceTypes returns the tetrominoes in colour order
func AllPieceTypes() []PieceType {
	return []PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}
}

// IsValid returns true for the seven known piece types
func (t PieceType) IsValid() bool {
	return t >= PieceI && t <= PieceL
}

// Color returns the cell tag used for this piece type
func (t PieceType) Color() Cell {
	return Cell(t)
}

// String returns the tetromino letter
func (t PieceType) String() string {
	switch t {
	case PieceI:
		return "I"
	case PieceO:
		return "O"
	case PieceT:
		return "T"
	case PieceS:
		return "S"
	case PieceZ:
		return "Z"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	default:
		return fmt.Sprintf("PieceType(%d)", uint8(t))
	}
}

// SpawnShape returns a fresh copy of the piece's shape in spawn orientation
func SpawnShape(t PieceType) Shape {
	return spawnShapes[t].Clone()
}

// Width returns the number of columns in the shape
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Height returns the number of rows in the shape
func (s Shape) Height() int {
	return len(s)
}

// Clone returns an independent copy of the shape
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	for i, row := range s {
		clone[i] = append([]Cell(nil), row...)
	}
	return clone
}

// Rotated returns the shape turned 90 degrees clockwise: transposed, then
// each resulting row reversed
func (s Shape) Rotated() Shape {
	height, width := s.Height(), s.Width()
	rotated := make(Shape, width)
	for i := 0; i < width; i++ {
		rotated[i] = make([]Cell, height)
		for j := 0; j < height; j++ {
			rotated[i][height-1-j] = s[j][i]
		}
	}
	return rotated
}

// Occupied returns the offsets of the occupied sub-cells relative to the
// shape's top-left corner
func (s Shape) Occupied() []Position {
	var cells []Position
	for row, line := range s {
		for col, cell := range line {
			if !cell.IsEmpty() {
				cells = append(cells, Position{Row: row, Col: col})
			}
		}
	}
	return cells
}

// Piece is a tetromino with its anchor on the board. X is the column of the
// shape's left edge and Y the row of its top edge; Y may be negative while
// the piece is partially above the visible board.
type Piece struct {
	Type  PieceType
	Shape Shape
	X     int
	Y     int
}

// NewPiece creates a piece of the given type in spawn orientation at (0, 0)
func NewPiece(t PieceType) *Piece {
	return &Piece{
		Type:  t,
		Shape: SpawnShape(t),
	}
}

// Color returns the tag written into the board when this piece locks
func (p *Piece) Color() Cell {
	return p.Type.Color()
}

// Cells returns the absolute board positions of the occupied sub-cells
func (p *Piece) Cells() []Position {
	return p.CellsAt(p.X, p.Y)
}

// CellsAt returns where the occupied sub-cells would be with the anchor at (x, y)
func (p *Piece) CellsAt(x, y int) []Position {
	offsets := p.Shape.Occupied()
	for i := range offsets {
		offsets[i].Row += y
		offsets[i].Col += x
	}
	return offsets
}

// Clone returns an independent copy of the piece
func (p *Piece) Clone() *Piece {
	if p == nil {
		return nil
	}
	return &Piece{
		Type:  p.Type,
		Shape: p.Shape.Clone(),
		X:     p.X,
		Y:     p.Y,
	}
}
