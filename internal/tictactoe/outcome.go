package tictactoe

import "fmt"

// Result - the verdict of the outcome evaluator.
type Result int

const (
	InProgress Result = iota
	Win
	Tie
)

func (r Result) String() string {
	switch r {
	case InProgress:
		return "in_progress"
	case Win:
		return "win"
	case Tie:
		return "tie"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Outcome - result of a round; Mark is set only for Win.
type Outcome struct {
	Result Result
	Mark   Mark
}

func (o Outcome) IsOver() bool {
	return o.Result != InProgress
}

// WinLines holds row-major cell indexes: three rows, three columns, two diagonals.
var WinLines = [8][Size]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// At - returns the mark at a row-major index.
func (s Snapshot) At(index int) Mark {
	return s[index/Size][index%Size]
}

// CheckWin - reports whether any winning line is fully claimed by mark.
func CheckWin(snapshot Snapshot, mark Mark) bool {
	if mark == EmptyMark {
		return false
	}

	for _, line := range WinLines {
		if snapshot.At(line[0]) == mark && snapshot.At(line[1]) == mark && snapshot.At(line[2]) == mark {
			return true
		}
	}

	return false
}

// CheckTie - reports a full board on which no line is uniformly claimed.
func CheckTie(snapshot Snapshot) bool {
	for _, line := range WinLines {
		a := snapshot.At(line[0])
		if a != EmptyMark && a == snapshot.At(line[1]) && a == snapshot.At(line[2]) {
			return false
		}
	}

	for row := range snapshot {
		for column := range snapshot[row] {
			if snapshot[row][column] == EmptyMark {
				return false
			}
		}
	}

	return true
}

// Evaluate - checks a win for lastMark first, then a tie.
func Evaluate(snapshot Snapshot, lastMark Mark) Outcome {
	if CheckWin(snapshot, lastMark) {
		return Outcome{Result: Win, Mark: lastMark}
	}

	if CheckTie(snapshot) {
		return Outcome{Result: Tie}
	}

	return Outcome{Result: InProgress}
}
