package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// BroadcastFunc receives the board of a session after each command
type BroadcastFunc func(sessionID string, board engine.Snapshot)

// Session is a live connection being served
type Session struct {
	ID             string
	RemoteAddr     string
	Service        service.GameService
	CreatedAt      time.Time
	LastAccessedAt time.Time
	LastCommand    string
	Commands       int
}

// Info is a point-in-time view of a session
type Info struct {
	ID             string          `json:"id"`
	RemoteAddr     string          `json:"remote_addr"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	LastCommand    string          `json:"last_command,omitempty"`
	Commands       int             `json:"commands"`
	Board          engine.Snapshot `json:"board"`
	Stats          service.Stats   `json:"stats"`
}

// Manager tracks the sessions of a server
type Manager struct {
	sessions  map[string]*Session
	logger    *slog.Logger
	broadcast BroadcastFunc
	mu        sync.RWMutex
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger handed to each session
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithBroadcast publishes every session's board after each command
func WithBroadcast(fn BroadcastFunc) ManagerOption {
	return func(m *Manager) {
		m.broadcast = fn
	}
}

// NewManager creates a new session manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m
}

// Create registers a session for svc. An empty id gets a random one.
func (m *Manager) Create(id, remoteAddr string, svc service.GameService) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	}

	// Check if session already exists (case-insensitive)
	if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	session := &Session{
		ID:             id,
		RemoteAddr:     remoteAddr,
		Service:        svc,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[strings.ToLower(id)] = session

	return session, nil
}

// Serve registers svc as a new session, runs the protocol handler on rw until
// the peer disconnects, then removes the session
func (m *Manager) Serve(ctx context.Context, rw io.ReadWriter, remoteAddr string, svc service.GameService) error {
	session, err := m.Create("", remoteAddr, svc)
	if err != nil {
		return err
	}
	defer m.Delete(session.ID)

	logger := m.logger.With("session_id", session.ID, "remote_addr", remoteAddr)
	handler := NewHandler(svc,
		WithLogger(logger),
		WithObserver(ObserverFunc(func(ev Event) {
			m.Touch(session.ID, ev.Tag.String())
			if m.broadcast != nil {
				m.broadcast(session.ID, ev.Board)
			}
		})),
	)

	return handler.Serve(ctx, rw)
}

// Get retrieves a session view by ID (case-insensitive)
func (m *Manager) Get(ctx context.Context, id string) (*Info, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	var info Info
	if exists {
		info = snapshotInfo(session)
	}
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	info.Board = session.Service.Board(ctx)
	info.Stats = session.Service.Stats(ctx)
	return &info, nil
}

// List returns all active sessions, oldest first
func (m *Manager) List(ctx context.Context) []*Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	infos := make([]Info, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
		infos = append(infos, snapshotInfo(session))
	}
	m.mu.RUnlock()

	result := make([]*Info, len(infos))
	for i := range infos {
		infos[i].Board = sessions[i].Service.Board(ctx)
		infos[i].Stats = sessions[i].Service.Stats(ctx)
		result[i] = &infos[i]
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// Touch records that a session handled command
func (m *Manager) Touch(id, command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	session.LastCommand = command
	session.Commands++
	return nil
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID that is not in
// use. Caller holds mu.
func (m *Manager) generateSessionID() string {
	for {
		// Generate 2 random bytes (4 hex characters)
		bytes := make([]byte, 2)
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if _, exists := m.sessions[id]; !exists {
			return id
		}
	}
}

func snapshotInfo(s *Session) Info {
	return Info{
		ID:             s.ID,
		RemoteAddr:     s.RemoteAddr,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		LastCommand:    s.LastCommand,
		Commands:       s.Commands,
	}
}
