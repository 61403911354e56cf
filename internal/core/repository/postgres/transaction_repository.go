package postgres

import (
	"context"
	"fmt"

	"github.com/jfcardenas/recargas/internal/core/models"
	"github.com/jfcardenas/recargas/internal/core/repository"
)

const insertTransactionQuery = `INSERT INTO transactions (id, amount, user_id, created_at) VALUES ($1, $2, $3, $4)`

type postgresTransactionRepo struct {
	store *Store
}

func NewPostgresTransactionRepo(store *Store) repository.TransactionRepository {
	return &postgresTransactionRepo{store: store}
}

func (r *postgresTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	_, err := r.store.ext(ctx).ExecContext(ctx, insertTransactionQuery,
		transaction.ID,
		transaction.Amount,
		transaction.UserID,
		transaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	return nil
}
