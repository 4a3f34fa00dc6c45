package entity

import "fmt"

// Mark is one of the two symbols placed on a cell, or the empty value.
type Mark string

const (
	BotMark    Mark = "X"
	PlayerMark Mark = "O"
	EmptyCell  Mark = ""
)

// BoardSize - number of cells on the 3x3 grid.
const BoardSize = 9

// WinPatterns - the 8 index triples that form a line: rows, columns, diagonals.
// The order is fixed so the reported winning pattern is reproducible.
var WinPatterns = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid in row-major order, cells addressed by index 0-8.
// It is a value type: assignment copies the whole grid, so snapshots handed
// to the search engine can never alias the live game board.
type Board [BoardSize]Mark

// Opponent - returns the other playing side. Only defined for playable marks.
func (that Mark) Opponent() Mark {
	switch that {
	case BotMark:
		return PlayerMark
	case PlayerMark:
		return BotMark
	default:
		panic(fmt.Sprintf("no opponent for mark %q", string(that)))
	}
}

// IsPlayable reports whether the mark is one of the two playing sides.
func (that Mark) IsPlayable() bool {
	return that == BotMark || that == PlayerMark
}

// IsEmpty - reports whether cell i holds no mark.
// An out-of-range index is a caller bug and panics.
func (that *Board) IsEmpty(i int) bool {
	that.mustBeInRange(i)

	return that[i] == EmptyCell
}

// Place - sets cell i to mark. The cell must be empty and the mark playable;
// violating either is a caller bug, not a runtime condition.
func (that *Board) Place(i int, mark Mark) {
	that.mustBeInRange(i)

	if !mark.IsPlayable() {
		panic(fmt.Sprintf("cannot place mark %q", string(mark)))
	}

	if that[i] != EmptyCell {
		panic(fmt.Sprintf("cell %d is already occupied", i))
	}

	that[i] = mark
}

// Winner - scans the win patterns in their fixed order and returns the
// winning mark together with the matched pattern, or EmptyCell and nil
// when no line is complete.
func (that *Board) Winner() (Mark, []int) {
	for _, pattern := range WinPatterns {
		a, b, c := that[pattern[0]], that[pattern[1]], that[pattern[2]]
		if a != EmptyCell && a == b && b == c {
			return a, []int{pattern[0], pattern[1], pattern[2]}
		}
	}

	return EmptyCell, nil
}

// IsFull - reports whether every cell is occupied.
func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// EmptyIndices - returns the indices of unmarked cells in ascending order.
// The slice is rebuilt on every call.
func (that *Board) EmptyIndices() []int {
	indices := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			indices = append(indices, i)
		}
	}

	return indices
}

// Clear - resets every cell to empty.
func (that *Board) Clear() {
	*that = Board{}
}

func (that *Board) mustBeInRange(i int) {
	if i < 0 || i >= BoardSize {
		panic(fmt.Sprintf("cell index %d out of range", i))
	}
}
