package service

import (
	"context"
	"errors"

	"github.com/wricardo/slidingpuzzle/game/engine"
)

// Sentinel errors returned by the service and its stores
var (
	// ErrSaveNotFound indicates no board is stored under the requested name
	ErrSaveNotFound = errors.New("save not found")

	// ErrInvalidName indicates an empty or unusable save name
	ErrInvalidName = errors.New("invalid save name")
)

// GameService defines the operations of a single puzzle session
type GameService interface {
	// Board management
	NewGame(ctx context.Context, size int) error
	Load(ctx context.Context, name string) error
	Save(ctx context.Context, name string) error

	// Game Operations
	Move(ctx context.Context, tile int) error
	CheckWin(ctx context.Context) (bool, error)

	// Game State
	Board(ctx context.Context) engine.Snapshot
	Size() int
	Stats(ctx context.Context) Stats
}

// BoardStore persists boards by name
type BoardStore interface {
	Save(ctx context.Context, name string, board *engine.Board) error
	Load(ctx context.Context, name string) (*engine.Board, error)
	Exists(ctx context.Context, name string) bool
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}
