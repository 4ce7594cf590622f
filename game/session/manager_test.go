package session

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/game/service"
	"github.com/wricardo/slidingpuzzle/protocol"
)

func newTestService(t *testing.T, size int) service.GameService {
	t.Helper()
	eng, err := engine.NewEngine(size, engine.WithSeed(3))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return service.NewGameService(eng, nil)
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	t.Run("Create with generated ID", func(t *testing.T) {
		session, err := manager.Create("", "pipe", newTestService(t, 3))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %s", session.ID)
		}
		if session.RemoteAddr != "pipe" {
			t.Errorf("Expected remote addr 'pipe', got %s", session.RemoteAddr)
		}
		if session.CreatedAt.IsZero() {
			t.Error("CreatedAt should be set")
		}
	})

	t.Run("Create with specific ID", func(t *testing.T) {
		session, err := manager.Create("test123", "pipe", newTestService(t, 3))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test123" {
			t.Errorf("Expected ID 'test123', got %s", session.ID)
		}
	})

	t.Run("Create duplicate ID fails", func(t *testing.T) {
		_, err := manager.Create("TEST123", "pipe", newTestService(t, 3))
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	ctx := context.Background()

	if _, err := manager.Create("AbCd", "tcp", newTestService(t, 3)); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	for _, id := range []string{"AbCd", "abcd", "ABCD"} {
		info, err := manager.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", id, err)
		}
		if info.ID != "AbCd" {
			t.Errorf("Expected original ID, got %s", info.ID)
		}
		if info.Board.Size != 3 || len(info.Board.Cells) != 9 {
			t.Errorf("Unexpected board in info: %+v", info.Board)
		}
		if info.Stats.Size != 3 {
			t.Errorf("Unexpected stats in info: %+v", info.Stats)
		}
	}

	if _, err := manager.Get(ctx, "zzzz"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ListDeleteCount(t *testing.T) {
	manager := NewManager()
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		if _, err := manager.Create(id, "pipe", newTestService(t, 2)); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if manager.Count() != 3 {
		t.Errorf("Expected 3 sessions, got %d", manager.Count())
	}
	if list := manager.List(ctx); len(list) != 3 {
		t.Errorf("Expected 3 sessions in list, got %d", len(list))
	}

	if err := manager.Delete("S2"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if err := manager.Delete("s2"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	list := manager.List(ctx)
	if len(list) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(list))
	}
	for _, info := range list {
		if strings.EqualFold(info.ID, "s2") {
			t.Error("Deleted session still listed")
		}
	}
}

func TestManager_Touch(t *testing.T) {
	manager := NewManager()
	ctx := context.Background()

	session, _ := manager.Create("", "pipe", newTestService(t, 3))
	time.Sleep(5 * time.Millisecond)

	if err := manager.Touch(session.ID, "move"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	info, _ := manager.Get(ctx, session.ID)
	if info.Commands != 1 || info.LastCommand != "move" {
		t.Errorf("Unexpected info after touch: %+v", info)
	}
	if !info.LastAccessedAt.After(info.CreatedAt) {
		t.Error("LastAccessedAt should advance")
	}

	if err := manager.Touch("none", "move"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_Serve(t *testing.T) {
	var (
		mu         sync.Mutex
		broadcasts []string
	)
	manager := NewManager(WithBroadcast(func(id string, board engine.Snapshot) {
		mu.Lock()
		broadcasts = append(broadcasts, id)
		mu.Unlock()
	}))
	ctx := context.Background()

	serverConn, clientConn := net.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- manager.Serve(ctx, serverConn, "test-peer", newTestService(t, 3))
	}()

	client := protocol.NewClient(clientConn)
	if _, err := client.FetchBoard(); err != nil {
		t.Fatalf("FetchBoard failed: %v", err)
	}

	list := manager.List(ctx)
	if len(list) != 1 {
		t.Fatalf("Expected 1 live session, got %d", len(list))
	}
	if list[0].RemoteAddr != "test-peer" {
		t.Errorf("Unexpected remote addr %s", list[0].RemoteAddr)
	}

	client.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}

	if manager.Count() != 0 {
		t.Errorf("Session should be removed after disconnect, got %d", manager.Count())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(broadcasts) != 1 || broadcasts[0] != list[0].ID {
		t.Errorf("Expected one broadcast for %s, got %v", list[0].ID, broadcasts)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	ctx := context.Background()

	services := make([]service.GameService, 20)
	for i := range services {
		services[i] = newTestService(t, 2)
	}

	var wg sync.WaitGroup
	for _, svc := range services {
		wg.Add(1)
		go func(svc service.GameService) {
			defer wg.Done()
			session, err := manager.Create("", "pipe", svc)
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			_ = manager.Touch(session.ID, "new")
			_, _ = manager.Get(ctx, session.ID)
			_ = manager.List(ctx)
		}(svc)
	}
	wg.Wait()

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}
