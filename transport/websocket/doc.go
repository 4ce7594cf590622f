// Package websocket streams live puzzle boards to spectators.
//
// The websocket package implements:
//   - Session-scoped spectator subscriptions
//   - Fan-out of board updates after every handled command
//   - Connection keep-alive with ping/pong
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns all
// spectator connections. Registration, removal and fan-out all happen on the
// hub goroutine; each connection has its own read and write pumps.
//
// Message Protocol:
//
// Spectators only receive. Each message is one JSON object:
//
//	{"session_id":"a1b2","event":"board","board":{"size":3,"cells":[1,2,3,4,5,6,7,0,8],"solved":false}}
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	manager := session.NewManager(session.WithBroadcast(hub.BroadcastBoard))
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"), nil)
//	})
//
// A slow spectator whose queue fills up is disconnected rather than allowed
// to hold up the others.
package websocket
