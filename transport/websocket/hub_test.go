package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/slidingpuzzle/game/engine"
)

func testBoard() engine.Snapshot {
	return engine.Snapshot{Size: 2, Cells: []int{1, 2, 0, 3}, Solved: true}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialised")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(nil)
	sessionID := "multi-client-session"

	client1 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)
	if len(hub.sessions[sessionID]) != 1 || !hub.sessions[sessionID][client2] {
		t.Error("client2 should be the only client left")
	}
	if _, ok := <-client1.send; ok {
		t.Error("Unregistered client's send channel should be closed")
	}

	hub.unregisterClient(client2)
	if _, exists := hub.sessions[sessionID]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
}

func TestHubBroadcastOnlyToSession(t *testing.T) {
	hub := NewHub(nil)

	watcher := &Client{hub: hub, sessionID: "a1b2", send: make(chan []byte, 256)}
	other := &Client{hub: hub, sessionID: "ffff", send: make(chan []byte, 256)}
	hub.registerClient(watcher)
	hub.registerClient(other)

	board := testBoard()
	hub.broadcastMessage(&Message{SessionID: "a1b2", Event: EventBoard, Board: &board})

	select {
	case data := <-watcher.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.SessionID != "a1b2" || message.Event != EventBoard {
			t.Errorf("Unexpected message: %+v", message)
		}
		if message.Board == nil || message.Board.Size != 2 || !message.Board.Solved {
			t.Errorf("Board not correctly transmitted: %+v", message.Board)
		}
	default:
		t.Error("Watcher received no message")
	}

	select {
	case <-other.send:
		t.Error("Client of another session received the update")
	default:
	}
}

func TestHubBroadcastJSONShape(t *testing.T) {
	hub := NewHub(nil)
	client := &Client{hub: hub, sessionID: "s1", send: make(chan []byte, 1)}
	hub.registerClient(client)

	board := testBoard()
	hub.broadcastMessage(&Message{SessionID: "s1", Event: EventBoard, Board: &board})

	expected := `{"session_id":"s1","event":"board","board":{"size":2,"cells":[1,2,0,3],"solved":true}}`
	if got := string(<-client.send); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil)
	client := &Client{hub: hub, sessionID: "slow", send: make(chan []byte, 1)}
	hub.registerClient(client)

	board := testBoard()
	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventBoard, Board: &board})
	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventBoard, Board: &board})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Slow client should have been dropped")
	}
}

func startTestServer(t *testing.T, hub *Hub, initial *engine.Snapshot) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"), initial)
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(context.Background(), sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients for %s, got %d", want, sessionID, hub.ClientCount(context.Background(), sessionID))
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := NewHub(nil)
	wsURL := startTestServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=ws-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitForClients(t, hub, "ws-test", 1)

	conn.Close()
	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketReceivesBoard(t *testing.T) {
	hub := NewHub(nil)
	initial := engine.Snapshot{Size: 2, Cells: []int{3, 1, 2, 0}}
	wsURL := startTestServer(t, hub, &initial)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=msg-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Board == nil || first.Board.Cells[0] != 3 {
		t.Fatalf("Expected initial board first, got %+v", first)
	}

	waitForClients(t, hub, "msg-test", 1)
	hub.BroadcastBoard("msg-test", testBoard())

	message := readMessage(t, conn)
	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}
	if message.Board == nil || message.Board.Cells[3] != 3 || !message.Board.Solved {
		t.Errorf("Board not correctly received: %+v", message.Board)
	}
}

func TestHubStopClosesSpectators(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, "stop-test", nil)
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "stop-test", 1)

	cancel()
	<-stopped

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to close after hub stopped")
	}
}
