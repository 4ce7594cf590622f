package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/slidingpuzzle/game/service"
	"github.com/wricardo/slidingpuzzle/game/session"
	"github.com/wricardo/slidingpuzzle/protocol"
	"github.com/wricardo/slidingpuzzle/transport/mcp"
	"github.com/wricardo/slidingpuzzle/transport/pipe"
	"github.com/wricardo/slidingpuzzle/ui"
	"github.com/wricardo/slidingpuzzle/validate"
)

var errInvalidSaves = errors.New("some save files are invalid")

// runPlay plays in-process: the handler runs on one end of a pipe pair and
// the menu on the other
func (a *app) runPlay(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := a.newGameService(store, cmd.Int("size"))
	if err != nil {
		return err
	}

	client, wait, err := a.startLocalSession(ctx, svc)
	if err != nil {
		return err
	}

	menuErr := ui.NewMenu(client, a.stdin, a.stdout, a.stderr).Run(ctx)
	client.Close()
	return errors.Join(menuErr, wait())
}

// runConnect plays against a serve endpoint
func (a *app) runConnect(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = a.cfg.Server.Listen
	}

	conn, err := pipe.Dial(ctx, addr)
	if err != nil {
		return err
	}
	a.logger.Debug("connected", "addr", addr)

	client := protocol.NewClient(conn)
	defer client.Close()

	return ui.NewMenu(client, a.stdin, a.stdout, a.stderr).Run(ctx)
}

// runMCP exposes a session as MCP tools, either over stdio or on an HTTP
// endpoint at /mcp
func (a *app) runMCP(ctx context.Context, cmd *cli.Command) error {
	var game *protocol.Client
	if addr := cmd.String("addr"); addr != "" {
		conn, err := pipe.Dial(ctx, addr)
		if err != nil {
			return err
		}
		game = protocol.NewClient(conn)
	} else {
		store, closeStore, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		svc, err := a.newGameService(store, cmd.Int("size"))
		if err != nil {
			return err
		}

		var wait func() error
		game, wait, err = a.startLocalSession(ctx, svc)
		if err != nil {
			return err
		}
		defer wait()
	}
	defer game.Close()

	mcpClient := mcp.NewClient(game)

	httpAddr := cmd.String("http")
	if httpAddr == "" {
		a.logger.Info("MCP stdio server ready")
		return mcpClient.ServeStdio()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpClient.HTTPHandler())
	httpServer := &http.Server{
		Addr:         httpAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("MCP endpoint listening", "url", fmt.Sprintf("http://%s/mcp", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("MCP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// runValidate checks every save file in a directory
func (a *app) runValidate(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = a.cfg.Persistence.SaveDir
	}

	results, err := validate.Dir(dir)
	if err != nil {
		return err
	}
	if !validate.Report(a.stdout, results) {
		return errInvalidSaves
	}
	return nil
}

// startLocalSession runs a protocol handler for svc on one end of a new pipe
// pair. wait blocks until the handler has stopped, which happens once the
// returned client is closed.
func (a *app) startLocalSession(ctx context.Context, svc service.GameService) (*protocol.Client, func() error, error) {
	serverEnd, clientEnd, err := pipe.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up channel: %w", err)
	}

	handler := session.NewHandler(svc, session.WithLogger(a.logger))
	done := make(chan error, 1)
	go func() {
		done <- handler.Serve(ctx, serverEnd)
		serverEnd.Close()
	}()

	wait := func() error {
		return <-done
	}
	return protocol.NewClient(clientEnd), wait, nil
}
