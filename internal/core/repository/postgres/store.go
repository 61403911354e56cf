package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jfcardenas/recargas/internal/core/logger"
)

type txKey struct{}

// Store holds the shared connection pool and implements
// repository.TxManager. Repositories built on the same Store join the
// transaction carried by the context, so a multi-write operation either
// fully commits or leaves no partial record.
type Store struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewStore(db *sqlx.DB, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	var finalized bool
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.log.Error("Error beginning transaction",
			logger.ErrorField("error", err))
		return fmt.Errorf("error beginning transaction: %w", err)
	}

	defer func() {
		// A failed Commit finalizes the transaction on its own; rolling
		// back then would only bury the real error.
		if err != nil && !finalized {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Error("Transaction rollback failed",
					logger.ErrorField("error", rbErr))
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			} else {
				s.log.Warn("Transaction rolled back due to error",
					logger.ErrorField("error", err))
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	finalized = true
	if err = tx.Commit(); err != nil {
		s.log.Error("Error committing transaction",
			logger.ErrorField("error", err))
		return fmt.Errorf("commit failed: %w", err)
	}

	return nil
}

// ext returns the transaction bound to ctx, or the pool when the call
// runs outside WithinTx.
func (s *Store) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}
