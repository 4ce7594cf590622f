// Package service provides the game operations behind one puzzle session.
//
// The service package implements:
//   - New boards, moves and win checks on a session's engine
//   - Saving and loading boards through a pluggable BoardStore
//   - Per-session statistics (rounds, moves, wins)
//
// Core Interfaces:
//
// GameService is the per-session façade used by the protocol handler. Every
// mutating call returns nil on success; the handler turns that into the
// boolean answer the wire protocol expects.
// BoardStore persists boards by name. The session package provides file and
// redis implementations.
//
// Usage:
//
//	eng, _ := engine.NewEngine(engine.DefaultBoardSize)
//	store, _ := session.NewFilePersistence("saves", codec.DefaultOptions())
//	svc := service.NewGameService(eng, store)
//
//	if err := svc.Move(ctx, 7); err != nil {
//		// illegal move, board unchanged
//	}
//
// Loading is atomic: the saved board is fully decoded before it replaces the
// live one, so a missing or corrupt save leaves the session untouched.
package service
