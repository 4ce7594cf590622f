package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/game/service"
	"github.com/wricardo/slidingpuzzle/protocol"
)

// Event describes one handled command
type Event struct {
	Tag   protocol.Tag
	OK    bool
	Board engine.Snapshot
}

// Observer is notified after every handled command
type Observer interface {
	CommandHandled(ev Event)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(ev Event)

// CommandHandled calls f(ev)
func (f ObserverFunc) CommandHandled(ev Event) {
	f(ev)
}

// Handler serves the puzzle protocol for one session. It is the only writer
// of the session's board.
type Handler struct {
	svc      service.GameService
	logger   *slog.Logger
	observer Observer
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithLogger sets the handler's logger
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithObserver registers an observer for handled commands
func WithObserver(o Observer) HandlerOption {
	return func(h *Handler) {
		h.observer = o
	}
}

// NewHandler creates a handler driving svc
func NewHandler(svc service.GameService, opts ...HandlerOption) *Handler {
	h := &Handler{svc: svc}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h
}

// Service returns the game service behind the handler
func (h *Handler) Service() service.GameService {
	return h.svc
}

// Serve reads commands from rw and answers them until the peer closes the
// stream. A clean end of stream between commands ends the session and
// returns nil; any other read or write failure is returned.
func (h *Handler) Serve(ctx context.Context, rw io.ReadWriter) error {
	sessionsActive.Inc()
	defer sessionsActive.Dec()

	h.logger.Info("session started", "size", h.svc.Size())

	for {
		if err := ctx.Err(); err != nil {
			h.logger.Info("session cancelled", "error", err)
			return err
		}

		tag, err := protocol.ReadTag(rw)
		if errors.Is(err, io.EOF) {
			stats := h.svc.Stats(ctx)
			h.logger.Info("session ended",
				"rounds", stats.Rounds,
				"total_moves", stats.TotalMoves,
				"wins", stats.Wins)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		if !tag.Known() {
			h.logger.Debug("ignoring unknown command", "tag", int32(tag))
			commandsTotal.WithLabelValues("unknown", "ignored").Inc()
			continue
		}

		start := time.Now()
		ok, err := h.dispatch(ctx, tag, rw)
		if err != nil {
			h.logger.Error("session aborted", "command", tag.String(), "error", err)
			return err
		}

		commandDuration.WithLabelValues(tag.String()).Observe(time.Since(start).Seconds())
		commandsTotal.WithLabelValues(tag.String(), resultLabel(ok)).Inc()

		if h.observer != nil {
			h.observer.CommandHandled(Event{Tag: tag, OK: ok, Board: h.svc.Board(ctx)})
		}
	}
}

// dispatch reads the payload for tag, runs the command and writes the
// response. The returned error is a transport failure; command failures are
// reported through ok.
func (h *Handler) dispatch(ctx context.Context, tag protocol.Tag, rw io.ReadWriter) (bool, error) {
	var (
		ok    bool
		opErr error
	)

	switch tag {
	case protocol.TagNew:
		size, err := protocol.ReadInt32(rw)
		if err != nil {
			return false, payloadError(tag, err)
		}
		opErr = h.svc.NewGame(ctx, int(size))

	case protocol.TagMove:
		tile, err := protocol.ReadInt32(rw)
		if err != nil {
			return false, payloadError(tag, err)
		}
		opErr = h.svc.Move(ctx, int(tile))

	case protocol.TagLoad:
		name, err := protocol.ReadFilename(rw)
		if err != nil {
			return false, payloadError(tag, err)
		}
		opErr = h.svc.Load(ctx, name)

	case protocol.TagSave:
		name, err := protocol.ReadFilename(rw)
		if err != nil {
			return false, payloadError(tag, err)
		}
		opErr = h.svc.Save(ctx, name)

	case protocol.TagCheckWin:
		won, err := h.svc.CheckWin(ctx)
		if err != nil {
			h.logger.Warn("failed to start a new round", "error", err)
		}
		ok = won
		if ok {
			winsTotal.Inc()
			h.logger.Info("board solved, new round started", "size", h.svc.Size())
		}
		return ok, h.reply(rw, tag, ok)

	case protocol.TagFetchBoard:
		board := h.svc.Board(ctx)
		if err := protocol.WriteBoard(rw, board.Size, board.Cells); err != nil {
			return false, fmt.Errorf("failed to write %s response: %w", tag, err)
		}
		return true, nil
	}

	ok = opErr == nil
	if opErr != nil {
		h.logger.Debug("command failed", "command", tag.String(), "error", opErr)
	}
	return ok, h.reply(rw, tag, ok)
}

func (h *Handler) reply(w io.Writer, tag protocol.Tag, ok bool) error {
	if err := protocol.WriteBool(w, ok); err != nil {
		return fmt.Errorf("failed to write %s response: %w", tag, err)
	}
	return nil
}

func payloadError(tag protocol.Tag, err error) error {
	return fmt.Errorf("failed to read %s payload: %w", tag, err)
}
