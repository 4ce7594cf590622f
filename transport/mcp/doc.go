// Package mcp exposes a puzzle session to AI agents over the Model Context
// Protocol.
//
// The server holds no game state. Each tool call is forwarded to a session
// handler through the binary session protocol, so an agent plays exactly the
// way the terminal client does.
//
// MCP Tools:
//   - show_board: Print the board and the tiles that can move
//   - move: Slide one tile into the blank
//   - check_win: Check for a win; a solved board is replaced
//   - new_game: Start a shuffled board of a given size
//   - save_game: Save the board under a file name
//   - load_game: Load a saved board
//
// Transport Modes:
//   - Stdio: ServeStdio for local MCP clients
//   - HTTP: HTTPHandler answers single JSON-RPC messages
//
// Usage:
//
//	conn, _ := pipe.Dial(ctx, "unix:/tmp/puzzle.sock")
//	client := mcp.NewClient(protocol.NewClient(conn))
//	client.ServeStdio()
package mcp
