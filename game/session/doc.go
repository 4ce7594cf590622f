// Package session serves puzzle sessions and stores their saved boards.
//
// The session package implements:
//   - The protocol handler that owns one session's board
//   - Thread-safe registry of live sessions with unique IDs
//   - File and redis backed board stores
//   - Prometheus metrics for commands, wins and active sessions
//
// Core Types:
//
// Handler reads command frames from a byte stream, runs them against a
// service.GameService and writes the responses. It handles one request at a
// time and stops cleanly when the peer closes the stream.
// Manager registers each served connection as a Session so the HTTP API and
// the spectator hub can see what is being played.
// FilePersistence and RedisPersistence implement service.BoardStore.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated from crypto/rand. Lookups are
// case-insensitive.
//
// Usage:
//
//	store, err := session.NewFilePersistence("saves", codec.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, _ := engine.NewEngine(engine.DefaultBoardSize)
//	manager := session.NewManager(session.WithBroadcast(hub.BroadcastBoard))
//
//	// Blocks until the client hangs up
//	err = manager.Serve(ctx, conn, conn.RemoteAddr().String(), service.NewGameService(eng, store))
//
// Save names:
//
// Save names are relative paths. Names that are absolute or climb out of the
// store with ".." are rejected, so a client can only touch its own saves.
package session
