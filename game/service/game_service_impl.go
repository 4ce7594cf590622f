package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wricardo/slidingpuzzle/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	engine *engine.GameEngine
	store  BoardStore
	mu     sync.RWMutex

	wins       int
	loadedFrom string
	savedAs    string
}

// NewGameService creates a service around an engine and a board store
func NewGameService(eng *engine.GameEngine, store BoardStore) GameService {
	return &gameServiceImpl{
		engine: eng,
		store:  store,
	}
}

// NewGame replaces the board with a fresh one. A bad size keeps the old board.
func (s *gameServiceImpl) NewGame(ctx context.Context, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.NewGame(size); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	s.loadedFrom = ""
	return nil
}

// Move slides tile into the blank
func (s *gameServiceImpl) Move(ctx context.Context, tile int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.engine.Move(tile) {
		return fmt.Errorf("%w: tile %d", engine.ErrIllegalMove, tile)
	}
	return nil
}

// Load replaces the board with a stored one. The size follows the loaded
// board.
func (s *gameServiceImpl) Load(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	board, err := s.store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Replace(board); err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	s.loadedFrom = name
	return nil
}

// Save stores a copy of the board under name. The live board is never
// modified.
func (s *gameServiceImpl) Save(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	s.mu.RLock()
	board := s.engine.Board().Clone()
	s.mu.RUnlock()

	if err := s.store.Save(ctx, name, board); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}

	s.mu.Lock()
	s.savedAs = name
	s.mu.Unlock()
	return nil
}

// CheckWin reports whether the board is solved, dealing a new board of the
// same size when it is. A failed deal is returned alongside the win.
func (s *gameServiceImpl) CheckWin(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	won, err := s.engine.CheckWin()
	if !won {
		return false, err
	}
	s.wins++
	s.loadedFrom = ""
	return true, err
}

// Board returns a snapshot of the current board
func (s *gameServiceImpl) Board(ctx context.Context) engine.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.engine.Board().Snapshot()
}

// Size returns the current board dimension
func (s *gameServiceImpl) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.engine.Size()
}

// Stats returns play statistics for the session
func (s *gameServiceImpl) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board := s.engine.Board()
	return Stats{
		Size:       board.Size(),
		Rounds:     s.engine.Rounds(),
		Moves:      len(s.engine.GetMoveHistory()),
		TotalMoves: s.engine.TotalMoves(),
		Wins:       s.wins,
		Manhattan:  board.ManhattanDistance(),
		Misplaced:  board.Misplaced(),
		LoadedFrom: s.loadedFrom,
		SavedAs:    s.savedAs,
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	return nil
}
