package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

// Size is the number of rows and columns of the board.
const Size = 3

// Snapshot - read-only copy of the board contents, row-major.
type Snapshot [Size][Size]Mark

// Board - fixed 3x3 grid of cells indexed by (row, column).
type Board struct {
	cells [Size][Size]Cell
}

func NewBoard() *Board {
	return &Board{}
}

// CellAt - returns the cell at (row, column) or ErrOutOfRange.
func (that *Board) CellAt(row, column int) (*Cell, error) {
	if !inRange(row) || !inRange(column) {
		return nil, fmt.Errorf("%w: row %d, column %d", apperror.ErrOutOfRange, row, column)
	}

	return &that.cells[row][column], nil
}

// Claim - claims the cell at (row, column) for mark. It returns false when the cell is taken.
func (that *Board) Claim(mark Mark, row, column int) (bool, error) {
	cell, err := that.CellAt(row, column)
	if err != nil {
		return false, err
	}

	return cell.Claim(mark), nil
}

func (that *Board) IsFull() bool {
	for row := range that.cells {
		for column := range that.cells[row] {
			if that.cells[row][column].IsEmpty() {
				return false
			}
		}
	}

	return true
}

func (that *Board) Snapshot() Snapshot {
	var snapshot Snapshot

	for row := range that.cells {
		for column := range that.cells[row] {
			snapshot[row][column] = that.cells[row][column].mark
		}
	}

	return snapshot
}

// Reset - sets every cell back to empty.
func (that *Board) Reset() {
	for row := range that.cells {
		for column := range that.cells[row] {
			that.cells[row][column].clear()
		}
	}
}

func inRange(index int) bool {
	return index >= 0 && index < Size
}
