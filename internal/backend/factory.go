package backend

import (
	"context"
	"fmt"

	dlog "dompet/internal/log"
	"dompet/internal/storage"
	"dompet/internal/storage/memory"
)

// Factory creates stores from configuration.
type Factory struct {
	logger *dlog.Logger
}

func NewFactory(logger *dlog.Logger) *Factory {
	if logger == nil {
		logger = dlog.Default(dlog.ComponentBackend)
	}
	return &Factory{logger: logger.WithComponent(dlog.ComponentBackend)}
}

// Create opens the backend described by cfg.
func (f *Factory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLite:
		return f.createSQLite(ctx, cfg)
	case Memory:
		return f.createMemory(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createSQLite(ctx context.Context, cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &Result{
		Store:   repo,
		Ready:   repo.Ping,
		Cleanup: repo.Close,
	}, nil
}

func (f *Factory) createMemory(cfg Config) *Result {
	dir := cfg.DataDirectory
	if dir == "" {
		dir = "data"
	}
	store := memory.NewFromFiles(dir)

	f.logger.Info("Initialized memory backend", "data_directory", dir)
	return &Result{
		Store:   store,
		Ready:   func(context.Context) error { return nil },
		Cleanup: func() error { return nil },
	}
}
