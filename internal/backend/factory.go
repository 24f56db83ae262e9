package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"debloom/internal/amqp"
	"debloom/internal/gateway"
	"debloom/internal/gateway/memory"
	applog "debloom/internal/log"
	"debloom/internal/storage"
	"debloom/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger.With(applog.FieldComponent, applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		gw      gateway.Gateway
		cleanup CleanupFunc
		err     error
	)
	switch config.Type {
	case MemoryBackend:
		gw = memory.New()
		cleanup = func() error { return nil }
		f.logger.InfoContext(ctx, "Initialized memory backend")
	case SQLiteBackend:
		var repo *storage.SQLiteRepository
		repo, err = storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		gw, cleanup = repo, repo.Close
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case PostgresBackend:
		var repo *postgres.Repository
		repo, err = postgres.NewRepository(config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		gw, cleanup = repo, repo.Close
		f.logger.InfoContext(ctx, "Initialized Postgres backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	result := &BackendResult{Gateway: gw, Cleanup: cleanup}

	if config.AMQPURL == "" {
		f.logger.InfoContext(ctx, "AMQP disabled, todo events will not be published")
		return result, nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		// Writes still succeed without the broker; only the journal misses out.
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		return result, nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	result.Publisher = client
	result.Cleanup = func() error {
		return errors.Join(client.Close(), cleanup())
	}
	return result, nil
}
