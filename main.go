// Command slidingpuzzle runs the sliding-tile puzzle.
//
// It supports these commands:
//  1. "play" (default) runs the session handler and the text menu in one
//     process, joined by a pair of OS pipes
//  2. "serve" accepts sessions on a unix or tcp endpoint and exposes the
//     read-only HTTP API, WebSocket spectating and metrics
//  3. "connect" runs the text menu against a "serve" endpoint
//  4. "mcp" serves the game to MCP clients over stdio or HTTP
//  5. "validate" checks save files
//
// Settings come from a YAML file (--config), SLIDINGPUZZLE_* environment
// variables and a .env file in the working directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/slidingpuzzle/game/config"
	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/game/service"
	"github.com/wricardo/slidingpuzzle/game/session"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "slidingpuzzle"
)

// app carries what every command needs once flags and config are loaded
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	ctx := context.Background()
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	cmd := a.command()

	err := cmd.Run(ctx, os.Args)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) && a.logger != nil {
		a.logger.Warn("failed to load .env file", "error", envErr)
	}
	if err != nil {
		if a.logger != nil {
			a.logger.Error("command failed", "error", err)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		}
		os.Exit(1)
	}
}

// command builds the CLI tree
func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "slide numbered tiles into order",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				Sources: cli.EnvVars("SLIDINGPUZZLE_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log at debug level",
			},
			&cli.IntFlag{
				Name:  "size",
				Usage: fmt.Sprintf("size of the first board (%d-%d), defaults to the configured size", engine.MinBoardSize, engine.MaxBoardSize),
			},
		},
		Before: a.before,
		Action: a.runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play in this terminal",
				Action: a.runPlay,
			},
			{
				Name:  "serve",
				Usage: "accept sessions and serve the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Usage: "session endpoint (unix:<path> or tcp:<host:port>)"},
					&cli.StringFlag{Name: "http", Usage: "HTTP API address, \"off\" disables it"},
				},
				Action: a.runServe,
			},
			{
				Name:  "connect",
				Usage: "play against a running server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "server endpoint, defaults to the configured listen address"},
				},
				Action: a.runConnect,
			},
			{
				Name:  "mcp",
				Usage: "serve the game to MCP clients",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "play on a running server instead of an in-process session"},
					&cli.StringFlag{Name: "http", Usage: "serve MCP over HTTP on this address instead of stdio"},
				},
				Action: a.runMCP,
			},
			{
				Name:      "validate",
				Usage:     "check save files",
				ArgsUsage: "[dir]",
				Action:    a.runValidate,
			},
			{
				Name:  "env",
				Usage: "list the environment variables",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprint(a.stdout, config.Usage())
					return nil
				},
			},
		},
	}
}

// before loads the configuration and sets up logging
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}

	logger, err := initLogger(cfg, a.stderr)
	if err != nil {
		return ctx, err
	}

	a.cfg = cfg
	a.logger = logger
	return ctx, nil
}

// initLogger builds the process logger. Logs always go to stderr; stdout
// belongs to the menu or the MCP stdio stream.
func initLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// openStore opens the configured save backend. The returned close function
// is never nil.
func (a *app) openStore(ctx context.Context) (service.BoardStore, func() error, error) {
	switch a.cfg.Persistence.Backend {
	case config.BackendRedis:
		store, err := session.NewRedisPersistence(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Prefix, a.cfg.CodecOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		a.logger.Debug("using redis store", "addr", a.cfg.Redis.Addr, "prefix", a.cfg.Redis.Prefix)
		return store, store.Close, nil
	default:
		store, err := session.NewFilePersistence(a.cfg.Persistence.SaveDir, a.cfg.CodecOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open save directory: %w", err)
		}
		a.logger.Debug("using file store", "dir", store.Dir())
		return store, func() error { return nil }, nil
	}
}

// newGameService deals the first board of a session
func (a *app) newGameService(store service.BoardStore, size int) (service.GameService, error) {
	if size == 0 {
		size = a.cfg.Game.BoardSize
	}
	eng, err := engine.NewEngine(size, a.cfg.EngineOptions()...)
	if err != nil {
		return nil, err
	}
	return service.NewGameService(eng, store), nil
}
