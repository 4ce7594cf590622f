package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/game/service"
	"github.com/wricardo/slidingpuzzle/game/session"
	"github.com/wricardo/slidingpuzzle/transport/websocket"
)

// SessionDirectory looks up live sessions
type SessionDirectory interface {
	Get(ctx context.Context, id string) (*session.Info, error)
	List(ctx context.Context) []*session.Info
}

// Server represents the REST API server
type Server struct {
	sessions SessionDirectory
	saves    service.BoardStore
	hub      *websocket.Hub
	router   *mux.Router
	logger   *slog.Logger
}

// NewServer creates a new API server. saves and hub may be nil, in which
// case their routes answer 404.
func NewServer(sessions SessionDirectory, saves service.BoardStore, hub *websocket.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sessions: sessions,
		saves:    saves,
		hub:      hub,
		router:   mux.NewRouter(),
		logger:   logger,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Live sessions
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}/board", s.handleGetBoard).Methods("GET")

	// Saved boards
	api.HandleFunc("/saves", s.handleListSaves).Methods("GET")
	api.HandleFunc("/saves/{name:.+}", s.handleGetSave).Methods("GET")
	api.HandleFunc("/saves/{name:.+}", s.handleDeleteSave).Methods("DELETE")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Operations
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// BoardResponse is a board plus its text rendering
type BoardResponse struct {
	SessionID string          `json:"session_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Board     engine.Snapshot `json:"board"`
	Rendered  string          `json:"rendered"`
}

// Session Handlers

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.List(r.Context())

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	// Set defaults
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else { // "accessed"
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	total := len(sessions)

	// Apply limit if specified
	limit := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, BoardResponse{
		SessionID: info.ID,
		Board:     info.Board,
		Rendered:  engine.Render(info.Board.Size, info.Board.Cells),
	})
}

// Save Handlers

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	if s.saves == nil {
		respondError(w, http.StatusNotFound, "no save store configured")
		return
	}

	names, err := s.saves.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list saves", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(names),
		"saves": names,
	})
}

func (s *Server) handleGetSave(w http.ResponseWriter, r *http.Request) {
	if s.saves == nil {
		respondError(w, http.StatusNotFound, "no save store configured")
		return
	}
	name := mux.Vars(r)["name"]

	board, err := s.saves.Load(r.Context(), name)
	if err != nil {
		respondError(w, saveErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, BoardResponse{
		Name:     name,
		Board:    board.Snapshot(),
		Rendered: board.String(),
	})
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if s.saves == nil {
		respondError(w, http.StatusNotFound, "no save store configured")
		return
	}
	name := mux.Vars(r)["name"]

	if err := s.saves.Delete(r.Context(), name); err != nil {
		respondError(w, saveErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Save %s deleted", name),
	})
}

func saveErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSaveNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "spectating disabled", http.StatusNotFound)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	info, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	// Upgrade to WebSocket
	s.hub.ServeWS(w, r, info.ID, &info.Board)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
