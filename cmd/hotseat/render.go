package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

const separator = "-----------"

// renderBoard - draws the grid; empty cells are blank.
func renderBoard(w io.Writer, snapshot tictactoe.Snapshot) {
	rows := make([]string, 0, tictactoe.Size)

	for _, row := range snapshot {
		cells := make([]string, 0, tictactoe.Size)
		for _, mark := range row {
			cells = append(cells, " "+cellText(mark)+" ")
		}
		rows = append(rows, strings.Join(cells, "|"))
	}

	fmt.Fprintln(w, strings.Join(rows, "\n"+separator+"\n"))
}

// cellText - keeps columns aligned for multi-character marks by showing the first rune.
func cellText(mark tictactoe.Mark) string {
	if mark == tictactoe.EmptyMark {
		return " "
	}

	for _, r := range string(mark) {
		return string(r)
	}

	return " "
}
