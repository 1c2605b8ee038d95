package tictactoe

// Mark - the symbol a player places in a cell, e.g. "O" or "X".
type Mark string

// EmptyMark is the value of an unclaimed cell.
const EmptyMark Mark = ""

// Cell - a single board slot, either unclaimed or holding one mark.
type Cell struct {
	mark Mark
}

func (that *Cell) IsEmpty() bool {
	return that.mark == EmptyMark
}

// Value - returns the mark held by the cell and whether the cell is claimed.
func (that *Cell) Value() (Mark, bool) {
	return that.mark, !that.IsEmpty()
}

// Claim - stores mark only if the cell is still empty.
func (that *Cell) Claim(mark Mark) bool {
	if !that.IsEmpty() || mark == EmptyMark {
		return false
	}

	that.mark = mark

	return true
}

func (that *Cell) clear() {
	that.mark = EmptyMark
}
