package database

import (
	"fmt"
	"os"

	"idup/internal/config"
)

// NewIndexFromConfig opens the index described by cfg. For type=sqlite the
// data directory is created on first use.
func NewIndexFromConfig(cfg config.DatabaseConfig) (*SQLiteIndex, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteIndex(cfg.Path())
	case "memory":
		return NewSQLiteIndex(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
