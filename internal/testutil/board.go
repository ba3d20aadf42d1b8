package testutil

import (
	"github.com/mcoot/tetrisgame-go/internal/model"
)

// BoardFromRows builds a board from text rows aligned to the bottom of the
// grid. '.' or ' ' is empty, '1'-'7' is that colour and any other character
// is colour 1. Rows longer than the board are truncated.
func BoardFromRows(rows ...string) *model.Board {
	board := model.NewBoard()
	top := model.BoardRows - len(rows)
	for i, line := range rows {
		row := top + i
		if row < 0 {
			continue
		}
		for col, ch := range line {
			if col >= model.BoardCols {
				break
			}
			board.Cells[row][col] = cellFor(ch)
		}
	}
	return board
}

func cellFor(ch rune) model.Cell {
	switch {
	case ch == '.' || ch == ' ':
		return model.CellEmpty
	case ch >= '1' && ch <= '7':
		return model.Cell(ch - '0')
	default:
		return 1
	}
}

// FullRowExcept returns a board row string with every cell filled except the
// given columns
func FullRowExcept(cols ...int) string {
	row := []byte("##########")
	for _, col := range cols {
		if col >= 0 && col < len(row) {
			row[col] = '.'
		}
	}
	return string(row)
}
