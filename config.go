package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds server settings loaded from the environment. Flags in main
// override these when set.
type Config struct {
	Addr      string `env:"ARENA_ADDR" envDefault:":8080"`
	ClientDir string `env:"ARENA_CLIENT_DIR"`
	DBPath    string `env:"ARENA_DB" envDefault:"arena.db"`
	PublicURL string `env:"ARENA_PUBLIC_URL" envDefault:"http://localhost:8080"`
	FeedBuf   int    `env:"ARENA_FEED_BUF" envDefault:"1024"`
}

// LoadConfig parses the ARENA_* environment variables
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}
