// Package engine provides the core game logic for the sliding puzzle.
//
// The engine package implements the game mechanics including:
//   - Square boards of size 2 to 10 with a single blank cell
//   - Shuffling (legal random walk or the classic raw relocation)
//   - Move legality and move application
//   - Solved detection and solvability analysis
//
// Core Types:
//
// Board holds the grid and knows the puzzle rules. The Engine interface
// defines the session-facing contract, implemented by GameEngine, which owns
// exactly one Board at a time together with the random source used for
// shuffling and a per-board move history.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(4, engine.WithShuffleMode(engine.ShuffleLegal))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide tile 7 into the blank
//	ok := gameEngine.Move(7)
//	fmt.Print(gameEngine.Board())
//
// Game Rules:
//
// A tile may move only when it is orthogonally adjacent to the blank. The
// board is solved when the tiles read 1, 2, 3, ... in row-major order; the
// position of the blank does not matter. A win check on a solved board
// immediately deals a new board of the same size.
package engine
