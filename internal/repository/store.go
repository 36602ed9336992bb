package repository

import (
	"context"
	"fmt"

	"dictee/internal/config"
	"dictee/internal/database"
	"dictee/internal/logger"
)

// OpenStore opens the progress backend selected by cfg.StoreBackend. The
// returned close function releases its connections.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (KVStore, func() error, error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Warn("using in-memory progress store, progress is lost on restart")
		return NewMemoryKV(), func() error { return nil }, nil

	case "redis":
		kv, err := NewRedisKV(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("progress store ready", "backend", "redis")
		return kv, kv.Close, nil

	case "sql", "":
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		applied, err := db.RunMigrations(cfg.MigrationsPath)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		for _, name := range applied {
			log.Info("applied migration", "file", name)
		}
		log.Info("progress store ready", "backend", "sql", "type", cfg.DatabaseType)
		return NewSQLKV(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
