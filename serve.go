package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/slidingpuzzle/api"
	"github.com/wricardo/slidingpuzzle/game/service"
	"github.com/wricardo/slidingpuzzle/game/session"
	"github.com/wricardo/slidingpuzzle/transport/pipe"
	"github.com/wricardo/slidingpuzzle/transport/websocket"
)

// runServe accepts sessions until SIGINT or SIGTERM, running the HTTP API
// alongside. Shutdown closes the listener and every live connection.
func (a *app) runServe(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenAddr := cmd.String("listen")
	if listenAddr == "" {
		listenAddr = a.cfg.Server.Listen
	}
	httpAddr := cmd.String("http")
	if httpAddr == "" {
		httpAddr = a.cfg.Server.HTTPAddr
	}
	if httpAddr == "off" {
		httpAddr = ""
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	ln, err := pipe.Listen(listenAddr)
	if err != nil {
		return err
	}
	a.logger.Info("accepting sessions", "addr", listenAddr)

	hub := websocket.NewHub(a.logger)
	go hub.Run(ctx)

	manager := session.NewManager(
		session.WithManagerLogger(a.logger.With("component", "sessions")),
		session.WithBroadcast(hub.BroadcastBoard),
	)
	sessions := newSessionServer(a, manager, store)

	errCh := make(chan error, 1)
	served := make(chan error, 1)
	go func() {
		served <- sessions.serve(ctx, ln)
	}()

	var httpServer *http.Server
	if httpAddr != "" {
		httpServer = &http.Server{
			Addr:         httpAddr,
			Handler:      api.NewServer(manager, store, hub, a.logger.With("component", "api")),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			a.logger.Info("HTTP server listening", "addr", httpAddr,
				"api", "/api/sessions", "websocket", "/ws?session=<session_id>", "metrics", "/metrics")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("HTTP server failed: %w", err)
			}
		}()
	}

	var runErr error
	serveDone := false
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case runErr = <-errCh:
	case runErr = <-served:
		serveDone = true
	}
	stop()

	ln.Close()
	if !serveDone {
		if err := <-served; err != nil && runErr == nil {
			runErr = err
		}
	}
	sessions.closeAll()

	if httpServer != nil {
		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("HTTP server shutdown error", "error", err)
		}
	}

	sessions.wait()
	a.logger.Info("server stopped")
	return runErr
}

// sessionServer runs one protocol handler per accepted connection
type sessionServer struct {
	app     *app
	manager *session.Manager
	store   service.BoardStore

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

func newSessionServer(a *app, manager *session.Manager, store service.BoardStore) *sessionServer {
	return &sessionServer{
		app:     a,
		manager: manager,
		store:   store,
		conns:   make(map[net.Conn]struct{}),
	}
}

// serve accepts until ln is closed
func (s *sessionServer) serve(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		if !s.add(conn) {
			continue
		}
		go s.handle(ctx, conn)
	}
}

func (s *sessionServer) handle(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer s.remove(conn)
	defer conn.Close()

	logger := s.app.logger.With("remote_addr", remoteAddr(conn))

	svc, err := s.app.newGameService(s.store, 0)
	if err != nil {
		logger.Error("failed to start game", "error", err)
		return
	}

	if err := s.manager.Serve(ctx, conn, remoteAddr(conn), svc); err != nil {
		if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
			logger.Debug("session closed by shutdown", "error", err)
			return
		}
		logger.Warn("session failed", "error", err)
	}
}

// add registers conn for shutdown and counts its handler. After closeAll it
// closes conn instead and reports false.
func (s *sessionServer) add(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		conn.Close()
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *sessionServer) remove(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// closeAll closes every live connection; their handlers then stop. Later
// connections are refused.
func (s *sessionServer) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for conn := range s.conns {
		conn.Close()
	}
}

func (s *sessionServer) wait() {
	s.wg.Wait()
}

func remoteAddr(conn net.Conn) string {
	addr := conn.RemoteAddr()
	if addr == nil || addr.String() == "" {
		return conn.LocalAddr().Network()
	}
	return addr.String()
}
