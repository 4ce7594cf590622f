package engine

import "errors"

const (
	// Validation constants
	MinBoardSize     = 2
	MaxBoardSize     = 10
	DefaultBoardSize = 4

	// Blank is the cell value of the empty slot
	Blank = 0
)

var (
	ErrInvalidSize    = errors.New("board size out of range")
	ErrIllegalMove    = errors.New("illegal move")
	ErrNotPermutation = errors.New("cells are not a permutation of 0..size²-1")
	ErrCellCount      = errors.New("cell count does not match board size")
	ErrUnknownShuffle = errors.New("unknown shuffle mode")
)

// ShuffleMode selects how a fresh board is scrambled
type ShuffleMode string

const (
	// ShuffleLegal walks the blank through legal adjacent swaps starting from
	// the solved layout. Boards produced this way are always solvable.
	ShuffleLegal ShuffleMode = "legal"

	// ShuffleClassic fills the grid in descending order and relocates the
	// blank to size² random raw values with no legality check. Boards
	// produced this way may be unsolvable.
	ShuffleClassic ShuffleMode = "classic"
)

// Position represents row,col coordinates
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Snapshot is a flat, copyable view of a board
type Snapshot struct {
	Size   int   `json:"size"`
	Cells  []int `json:"cells"`
	Solved bool  `json:"solved"`
}

// MoveHistoryEntry represents a single move attempt
type MoveHistoryEntry struct {
	Tile       int      `json:"tile"`
	From       Position `json:"from"`
	To         Position `json:"to"`
	Success    bool     `json:"success"`
	MoveNumber int      `json:"move_number"`
}
