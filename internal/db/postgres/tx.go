package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// txKey is the key type for storing transaction in context
type txKey struct{}

// executor is the query surface shared by *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx returns a new context with the transaction attached
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTx retrieves the transaction from context if it exists
func GetTx(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// GetExecutor returns the transaction carried by ctx, or db when there is none
func GetExecutor(ctx context.Context, db *sql.DB) executor {
	if tx, ok := GetTx(ctx); ok {
		return tx
	}
	return db
}

// RunInTransaction runs fn inside a transaction and commits when it returns nil.
// When ctx already carries a transaction fn joins it and the outer caller decides
// whether to commit. A panic in fn rolls the transaction back before propagating.
// fn's error keeps its identity even when the rollback fails too, so callers can
// still match ErrSlugTaken or a NotFoundError.
func RunInTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Transactor runs post writes as units of work on db
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor for db
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// InTransaction implements posts.Transactor
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return RunInTransaction(ctx, t.db, fn)
}
