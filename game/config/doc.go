// Package config loads the runtime configuration.
//
// Settings come from an optional YAML file and from SLIDINGPUZZLE_*
// environment variables, which override the file. A .env file in the working
// directory is loaded into the environment by the command before Load runs.
//
// Usage:
//
//	cfg, err := config.Load("slidingpuzzle.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng, err := engine.NewEngine(cfg.Game.BoardSize, cfg.EngineOptions()...)
//
// Validation:
//
// Load rejects unknown log levels and formats, board sizes outside 2..10,
// unknown shuffle modes and unknown store backends with ErrInvalidConfig.
package config
