package service

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner runs fn inside a single database transaction. The transaction is
// rolled back when fn returns an error or panics, and committed otherwise.
type TxRunner func(ctx context.Context, fn func(tx *sql.Tx) error) error

func NewTxRunner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
		tx, err := db.BeginTx(ctx, &sql.TxOptions{})
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}
		defer func() {
			if p := recover(); p != nil {
				tx.Rollback()
				panic(p)
			} else if err != nil {
				tx.Rollback()
			}
		}()

		if err = fn(tx); err != nil {
			return err
		}

		if err = tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}
}
