// Package api provides the read-only HTTP surface of a puzzle server.
//
// Endpoints:
//
// Live sessions:
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit=n)
//   - GET /api/sessions/{id} - Session details, board and statistics
//   - GET /api/sessions/{id}/board - Board snapshot plus its text rendering
//
// Saved boards:
//   - GET /api/saves - List save names
//   - GET /api/saves/{name} - Decode and show a save
//   - DELETE /api/saves/{name} - Remove a save
//
// Operations:
//   - GET /ws?session={id} - Spectate a session over WebSocket
//   - GET /metrics - Prometheus metrics
//   - GET /healthz - Liveness probe
//
// Games are played over the binary session protocol, not over HTTP; this
// package only observes them.
//
// Usage:
//
//	server := api.NewServer(manager, store, hub, logger)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with an appropriate HTTP status code:
//
//	{"error": "session not found"}
package api
