package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// contextKey is a custom type for context keys to avoid collisions
// Using UUID to ensure uniqueness
type contextKey struct {
	name string
}

var txKey = contextKey{name: uuid.New().String()}

// Engine is implemented by both pgxpool.Pool and pgx.Tx
type Engine interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EngineFactory returns the engine bound to ctx
type EngineFactory interface {
	Get(ctx context.Context) Engine
}

// Transactioner runs fn inside a transaction
type Transactioner interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ContextManager manages database transactions
type ContextManager struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewContextManager creates a new context manager
func NewContextManager(pool *pgxpool.Pool, logger *zap.Logger) *ContextManager {
	return &ContextManager{pool: pool, logger: logger}
}

// Get returns either the transaction stored in ctx or the pool
func (cm *ContextManager) Get(ctx context.Context) Engine {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return tx
	}
	return cm.pool
}

// Do executes a function within a transaction
func (cm *ContextManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// If already in a transaction, just execute the function
	if _, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := cm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	ctx = context.WithValue(ctx, txKey, tx)

	if err := fn(ctx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			cm.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// NoopTransactor runs fn directly, for storage without transactions
type NoopTransactor struct{}

func (NoopTransactor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
