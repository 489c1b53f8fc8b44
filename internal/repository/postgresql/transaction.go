package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type txKey struct{}

// WithTransaction executes fn inside a database transaction. The ctx handed
// to fn carries the transaction so GetQuerier picks it up.
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		// Already inside a unit of work.
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	// Execute function
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

type transactor struct {
	db *database.DB
}

// NewTransactor adapts WithTransaction to database.Transactor for services.
func NewTransactor(db *database.DB) database.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, t.db, fn)
}
