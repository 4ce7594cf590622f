package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Board management
	NewGame(size int) error
	Replace(board *Board) error
	Board() *Board
	Size() int

	// Movement operations
	Move(tile int) bool
	CanMove(tile int) bool
	GetPossibleMoves() []int

	// Win handling
	IsSolved() bool
	CheckWin() (bool, error)

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
	TotalMoves() int
	Rounds() int
}

// GameEngine implements the Engine interface
type GameEngine struct {
	board   *Board
	mode    ShuffleMode
	rng     *rand.Rand
	history []MoveHistoryEntry
	total   int
	rounds  int
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithShuffleMode selects the scramble algorithm used for new boards
func WithShuffleMode(mode ShuffleMode) Option {
	return func(e *GameEngine) {
		e.mode = mode
	}
}

// WithRand makes the engine use rng for every shuffle
func WithRand(rng *rand.Rand) Option {
	return func(e *GameEngine) {
		e.rng = rng
	}
}

// WithSeed makes shuffles reproducible
func WithSeed(seed uint64) Option {
	return func(e *GameEngine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewEngine creates a game engine holding a fresh board of the given size
func NewEngine(size int, opts ...Option) (*GameEngine, error) {
	e := &GameEngine{mode: ShuffleLegal}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		now := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(now, now>>1))
	}

	mode, err := ParseShuffleMode(string(e.mode))
	if err != nil {
		return nil, err
	}
	e.mode = mode

	if err := e.NewGame(size); err != nil {
		return nil, err
	}
	return e, nil
}

// ParseShuffleMode validates a shuffle mode name
func ParseShuffleMode(s string) (ShuffleMode, error) {
	switch ShuffleMode(s) {
	case ShuffleLegal, ShuffleClassic:
		return ShuffleMode(s), nil
	case "":
		return ShuffleLegal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownShuffle, s)
	}
}

// NewGame replaces the board with a freshly shuffled one. On error the
// current board is kept.
func (e *GameEngine) NewGame(size int) error {
	board, err := NewBoard(size, e.mode, e.rng)
	if err != nil {
		return err
	}
	e.setBoard(board)
	return nil
}

// Replace installs board as the current board, e.g. after a load
func (e *GameEngine) Replace(board *Board) error {
	if board == nil {
		return fmt.Errorf("board cannot be nil")
	}
	e.setBoard(board)
	return nil
}

func (e *GameEngine) setBoard(board *Board) {
	e.board = board
	e.history = nil
	e.rounds++
}

// Board returns the current board
func (e *GameEngine) Board() *Board {
	return e.board
}

// Size returns the dimension of the current board
func (e *GameEngine) Size() int {
	return e.board.Size()
}

// ShuffleMode returns the scramble algorithm in use
func (e *GameEngine) ShuffleMode() ShuffleMode {
	return e.mode
}

// Move validates and applies a tile move, recording it in the history
func (e *GameEngine) Move(tile int) bool {
	from, _ := e.board.LocateTile(tile)
	to, _ := e.board.LocateTile(Blank)

	success := e.board.ApplyMove(tile) == nil
	e.addMoveToHistory(tile, from, to, success)
	return success
}

// CanMove reports whether tile may slide into the blank
func (e *GameEngine) CanMove(tile int) bool {
	return e.board.IsMoveLegal(tile)
}

// GetPossibleMoves returns every tile that can currently move
func (e *GameEngine) GetPossibleMoves() []int {
	return e.board.MovableTiles()
}

// IsSolved reports whether the current board is solved
func (e *GameEngine) IsSolved() bool {
	return e.board.IsSolved()
}

// CheckWin reports whether the board is solved. A solved board is
// immediately replaced with a fresh one of the same size. If the new deal
// fails the win still counts, the solved board stays and the error is
// returned.
func (e *GameEngine) CheckWin() (bool, error) {
	if !e.board.IsSolved() {
		return false, nil
	}
	if err := e.NewGame(e.board.Size()); err != nil {
		return true, fmt.Errorf("failed to deal after win: %w", err)
	}
	return true, nil
}

// GetMoveHistory returns the moves made on the current board
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// TotalMoves returns the number of move attempts across all boards
func (e *GameEngine) TotalMoves() int {
	return e.total
}

// Rounds returns how many boards this engine has held
func (e *GameEngine) Rounds() int {
	return e.rounds
}

func (e *GameEngine) addMoveToHistory(tile int, from, to Position, success bool) {
	e.total++
	e.history = append(e.history, MoveHistoryEntry{
		Tile:       tile,
		From:       from,
		To:         to,
		Success:    success,
		MoveNumber: len(e.history) + 1,
	})
}
