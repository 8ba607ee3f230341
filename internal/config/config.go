package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type GameConfig struct {
	RowSize   int     `json:"row_size"`
	MineRatio float64 `json:"mine_ratio"`
	Seed      uint64  `json:"seed"`

	// Largest row size a client may request over HTTP.
	MaxRowSize int `json:"max_row_size"`
}

type SessionConfig struct {
	TTL           Duration `json:"ttl"`
	SweepInterval Duration `json:"sweep_interval"`
	MaxGames      int      `json:"max_games"`
}

type Config struct {
	Mode        string        `json:"mode"`
	Addr        string        `json:"addr"`
	CorsOrigins []string      `json:"cors_origins"`
	Log         LogConfig     `json:"log"`
	Game        GameConfig    `json:"game"`
	Session     SessionConfig `json:"session"`
}

func Default() *Config {
	return &Config{
		Mode: "development",
		Addr: ":8080",
		Log: LogConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Game: GameConfig{
			RowSize:    8,
			MineRatio:  0.2,
			MaxRowSize: 64,
		},
		Session: SessionConfig{
			TTL:           Duration{time.Hour},
			SweepInterval: Duration{time.Minute},
			MaxGames:      10000,
		},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                   c.Mode,
		"addr":                   c.Addr,
		"cors_origins":           c.CorsOrigins,
		"log_level":              c.Log.Level,
		"log_file":               c.Log.File,
		"game_row_size":          c.Game.RowSize,
		"game_mine_ratio":        c.Game.MineRatio,
		"game_seed":              c.Game.Seed,
		"game_max_row_size":      c.Game.MaxRowSize,
		"session_ttl":            c.Session.TTL.String(),
		"session_sweep_interval": c.Session.SweepInterval.String(),
		"session_max_games":      c.Session.MaxGames,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// Load reads the JSON config at path on top of the defaults, then applies
// env overrides. A missing file at the default path is not an error.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !required:
		case err != nil:
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		default:
			if err := json.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
