package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/wricardo/slidingpuzzle/game/codec"
	"github.com/wricardo/slidingpuzzle/game/engine"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the full runtime configuration
type Config struct {
	LogLevel  string `yaml:"log-level" env:"SLIDINGPUZZLE_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFormat string `yaml:"log-format" env:"SLIDINGPUZZLE_LOG_FORMAT" env-default:"text" env-description:"text or json"`

	Game        Game        `yaml:"game"`
	Persistence Persistence `yaml:"persistence"`
	Redis       Redis       `yaml:"redis"`
	Server      Server      `yaml:"server"`
}

// Game controls how boards are dealt
type Game struct {
	BoardSize   int    `yaml:"board-size" env:"SLIDINGPUZZLE_BOARD_SIZE" env-default:"4" env-description:"size of the first board of every session"`
	ShuffleMode string `yaml:"shuffle-mode" env:"SLIDINGPUZZLE_SHUFFLE" env-default:"legal" env-description:"legal or classic"`
	Seed        uint64 `yaml:"seed" env:"SLIDINGPUZZLE_SEED" env-default:"0" env-description:"shuffle seed, 0 picks one from the clock"`
}

// Persistence selects where saves live
type Persistence struct {
	Backend           string `yaml:"backend" env:"SLIDINGPUZZLE_STORE" env-default:"file" env-description:"file or redis"`
	SaveDir           string `yaml:"save-dir" env:"SLIDINGPUZZLE_SAVE_DIR" env-default:"." env-description:"directory for file saves"`
	VerifyPermutation bool   `yaml:"verify-permutation" env:"SLIDINGPUZZLE_VERIFY" env-default:"true" env-description:"reject loaded boards that are not a permutation"`
}

type Redis struct {
	Addr   string `yaml:"addr" env:"SLIDINGPUZZLE_REDIS_ADDR" env-default:"localhost:6379"`
	Prefix string `yaml:"prefix" env:"SLIDINGPUZZLE_REDIS_PREFIX" env-default:"slidingpuzzle:save:"`
}

// Server holds the addresses used by the serve command
type Server struct {
	Listen   string `yaml:"listen" env:"SLIDINGPUZZLE_LISTEN" env-default:"unix:/tmp/slidingpuzzle.sock" env-description:"session endpoint, unix:<path> or tcp:<host:port>"`
	HTTPAddr string `yaml:"http-addr" env:"SLIDINGPUZZLE_HTTP_ADDR" env-default:":8080" env-description:"HTTP API address, off disables it"`
}

// Load reads the configuration. With an empty path only the environment is
// consulted; otherwise the YAML file is read and the environment overrides
// it. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}

	if !engine.ValidSize(c.Game.BoardSize) {
		return fmt.Errorf("%w: board size %d must be between %d and %d",
			ErrInvalidConfig, c.Game.BoardSize, engine.MinBoardSize, engine.MaxBoardSize)
	}

	if _, err := engine.ParseShuffleMode(c.Game.ShuffleMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch c.Persistence.Backend {
	case BackendFile:
		if c.Persistence.SaveDir == "" {
			return fmt.Errorf("%w: save dir is empty", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis addr is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Persistence.Backend)
	}

	return nil
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}

// ShuffleMode returns the configured shuffle mode. Validate has already
// rejected unknown names.
func (c *Config) ShuffleMode() engine.ShuffleMode {
	mode, _ := engine.ParseShuffleMode(c.Game.ShuffleMode)
	return mode
}

// EngineOptions returns the engine options implied by the game settings
func (c *Config) EngineOptions() []engine.Option {
	opts := []engine.Option{engine.WithShuffleMode(c.ShuffleMode())}
	if c.Game.Seed != 0 {
		opts = append(opts, engine.WithSeed(c.Game.Seed))
	}
	return opts
}

// CodecOptions returns the save-file decoding options
func (c *Config) CodecOptions() codec.Options {
	return codec.Options{VerifyPermutation: c.Persistence.VerifyPermutation}
}

// Usage describes every environment variable
func Usage() string {
	var sb strings.Builder
	cleanenv.FUsage(&sb, &Config{}, nil)()
	return sb.String()
}
