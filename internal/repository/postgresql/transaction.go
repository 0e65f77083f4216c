package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// GetQuerier returns the transaction carried by ctx, or the pool when there is none.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

type transactorImpl struct {
	db   *database.DB
	opts pgx.TxOptions
}

// NewTransactor returns a Transactor running read-committed transactions on db.
func NewTransactor(db *database.DB) database.Transactor {
	return &transactorImpl{
		db:   db,
		opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// WithinTransaction implements database.Transactor. Nested calls join the
// outer transaction; fn's error rolls the whole unit back.
func (t *transactorImpl) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := database.TxFromContext(ctx); ok {
		return fn(ctx)
	}

	err := pgx.BeginTxFunc(ctx, t.db.Pool, t.opts, func(tx pgx.Tx) error {
		return fn(database.ContextWithTx(ctx, tx))
	})
	if err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}
