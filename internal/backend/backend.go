// Package backend builds the configured storage implementation.
package backend

import (
	"context"
	"fmt"

	"dompet/internal/config"
	"dompet/internal/ports"
)

// Type names a storage implementation.
type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	}
	return false
}

// Types lists the supported backends.
func Types() []Type { return []Type{Memory, SQLite} }

// Config holds configuration for backend creation
type Config struct {
	Type Type

	SQLiteDBPath string

	// DataDirectory holds the seed_*.txt files read by the memory backend.
	DataDirectory string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", cfg.DataBackend)
	}
	return Config{
		Type:          t,
		SQLiteDBPath:  cfg.SQLiteDBPath,
		DataDirectory: cfg.DataDir,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == SQLite && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for sqlite backend")
	}
	return nil
}

// Result is a ready store plus its lifecycle hooks. Cleanup and Ready are
// never nil.
type Result struct {
	Store   ports.Store
	Ready   func(ctx context.Context) error
	Cleanup func() error
}
