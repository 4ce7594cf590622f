package engine

import (
	"errors"
	"testing"
)

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(DefaultBoardSize, WithSeed(1))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if e.Size() != DefaultBoardSize {
		t.Errorf("Expected size %d, got %d", DefaultBoardSize, e.Size())
	}
	if e.ShuffleMode() != ShuffleLegal {
		t.Errorf("Expected default shuffle mode %q, got %q", ShuffleLegal, e.ShuffleMode())
	}
	if e.Rounds() != 1 {
		t.Errorf("Expected 1 round, got %d", e.Rounds())
	}
	if e.IsSolved() {
		t.Error("A fresh engine should not hold a solved board")
	}
}

func TestNewEngine_InvalidSize(t *testing.T) {
	_, err := NewEngine(1)
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestEngine_SeedIsReproducible(t *testing.T) {
	a, err := NewEngine(5, WithSeed(99))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	b, err := NewEngine(5, WithSeed(99))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if !a.Board().Equal(b.Board()) {
		t.Errorf("Same seed produced different boards:\n%s\n%s", a.Board(), b.Board())
	}
}

func TestEngine_NewGameKeepsBoardOnError(t *testing.T) {
	e, err := NewEngine(4, WithSeed(3))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	before := e.Board().Clone()

	for _, size := range []int{0, 1, 11} {
		if err := e.NewGame(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewGame(%d): expected ErrInvalidSize, got %v", size, err)
		}
	}

	if !e.Board().Equal(before) {
		t.Error("Failed NewGame changed the board")
	}
	if e.Rounds() != 1 {
		t.Errorf("Failed NewGame should not start a round, got %d rounds", e.Rounds())
	}
}

func TestEngine_NewGameChangesSize(t *testing.T) {
	e, err := NewEngine(4, WithSeed(3))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if err := e.NewGame(3); err != nil {
		t.Fatalf("NewGame(3) failed: %v", err)
	}
	if e.Size() != 3 {
		t.Errorf("Expected size 3, got %d", e.Size())
	}
	if len(e.GetMoveHistory()) != 0 {
		t.Error("New game should clear move history")
	}
}

func TestEngine_Move(t *testing.T) {
	e, err := NewEngine(3, WithSeed(7))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	board, err := FromCells(3, []int{1, 2, 3, 4, 0, 5, 6, 7, 8}, true)
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	if err := e.Replace(board); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	if e.Move(1) {
		t.Error("Diagonal move should fail")
	}
	if !e.CanMove(5) {
		t.Error("Tile 5 should be movable")
	}
	if !e.Move(5) {
		t.Error("Move(5) should succeed")
	}

	history := e.GetMoveHistory()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if history[0].Success {
		t.Error("First move should be recorded as failed")
	}

	last := e.GetLastMove()
	if last == nil || last.Tile != 5 || !last.Success || last.MoveNumber != 2 {
		t.Errorf("Unexpected last move: %+v", last)
	}
	if last.From != (Position{Row: 1, Col: 2}) || last.To != (Position{Row: 1, Col: 1}) {
		t.Errorf("Unexpected move positions: from %v to %v", last.From, last.To)
	}
	if e.TotalMoves() != 2 {
		t.Errorf("Expected 2 total moves, got %d", e.TotalMoves())
	}
}

func TestEngine_GetPossibleMoves(t *testing.T) {
	e, err := NewEngine(3, WithSeed(7))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	board, err := FromCells(3, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, true)
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	_ = e.Replace(board)

	moves := e.GetPossibleMoves()
	if len(moves) != 2 {
		t.Fatalf("Corner blank should have 2 moves, got %v", moves)
	}
	for _, tile := range moves {
		if tile != 1 && tile != 3 {
			t.Errorf("Unexpected movable tile %d", tile)
		}
	}
}

func TestEngine_CheckWin(t *testing.T) {
	e, err := NewEngine(3, WithSeed(11))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if won, err := e.CheckWin(); won || err != nil {
		t.Errorf("Shuffled board should not be a win, got %v %v", won, err)
	}

	solved, err := FromCells(3, []int{1, 2, 3, 4, 5, 6, 7, 8, 0}, true)
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	_ = e.Replace(solved.Clone())
	rounds := e.Rounds()

	if won, err := e.CheckWin(); !won || err != nil {
		t.Fatalf("Solved board should be a win, got %v %v", won, err)
	}
	if e.Size() != 3 {
		t.Errorf("Win should keep the size, got %d", e.Size())
	}
	if e.Board().Equal(solved) {
		t.Error("Win should deal a new board")
	}
	if e.IsSolved() {
		t.Error("Board after a win should not be solved")
	}
	if e.Rounds() != rounds+1 {
		t.Errorf("Expected round %d after win, got %d", rounds+1, e.Rounds())
	}
}

func TestEngine_CheckWinBlankAnywhere(t *testing.T) {
	e, err := NewEngine(2, WithSeed(5))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	board, err := FromCells(2, []int{0, 1, 2, 3}, true)
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	_ = e.Replace(board)

	if won, _ := e.CheckWin(); !won {
		t.Error("Tiles in order with the blank first should be a win")
	}
}

func TestEngine_CheckWinDealFailure(t *testing.T) {
	e, err := NewEngine(3, WithSeed(3))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	solved, err := FromCells(3, []int{1, 2, 3, 4, 5, 6, 7, 8, 0}, true)
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	_ = e.Replace(solved.Clone())
	e.mode = ShuffleMode("spiral")

	won, err := e.CheckWin()
	if !won {
		t.Error("A solved board is a win even when the next deal fails")
	}
	if !errors.Is(err, ErrUnknownShuffle) {
		t.Errorf("Expected ErrUnknownShuffle, got %v", err)
	}
	if !e.Board().Equal(solved) {
		t.Error("A failed deal should keep the current board")
	}
}

func TestNewEngine_UnknownShuffleMode(t *testing.T) {
	if _, err := NewEngine(3, WithShuffleMode("spiral")); !errors.Is(err, ErrUnknownShuffle) {
		t.Errorf("Expected ErrUnknownShuffle, got %v", err)
	}

	e, err := NewEngine(3, WithShuffleMode(""))
	if err != nil {
		t.Fatalf("Empty mode should fall back to the default: %v", err)
	}
	if e.ShuffleMode() != ShuffleLegal {
		t.Errorf("Expected %q, got %q", ShuffleLegal, e.ShuffleMode())
	}
}

func TestEngine_Replace(t *testing.T) {
	e, err := NewEngine(4, WithSeed(2))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if err := e.Replace(nil); err == nil {
		t.Error("Expected error replacing with nil board")
	}

	board, _ := FromCells(2, []int{3, 1, 2, 0}, true)
	if err := e.Replace(board); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if e.Size() != 2 {
		t.Errorf("Expected size 2 after replace, got %d", e.Size())
	}
}

func TestEngine_ClassicMode(t *testing.T) {
	e, err := NewEngine(4, WithShuffleMode(ShuffleClassic), WithSeed(8))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if e.ShuffleMode() != ShuffleClassic {
		t.Errorf("Expected classic mode, got %q", e.ShuffleMode())
	}
	if err := e.Board().Validate(); err != nil {
		t.Errorf("Classic board is not a permutation: %v", err)
	}
}

func TestParseShuffleMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ShuffleMode
		wantErr bool
	}{
		{"legal", ShuffleLegal, false},
		{"classic", ShuffleClassic, false},
		{"", ShuffleLegal, false},
		{"random", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShuffleMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownShuffle) {
					t.Errorf("Expected ErrUnknownShuffle, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
