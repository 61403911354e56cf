package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jfcardenas/recargas/internal/core/models"
	"github.com/jfcardenas/recargas/internal/core/repository"
)

const insertRechargeQuery = `INSERT INTO recharges (transaction_id, phone_number, created_at) VALUES ($1, $2, $3)`

const findByUserQuery = `
        SELECT t.id, r.phone_number, t.amount, t.user_id, t.created_at
        FROM transactions t
        JOIN recharges r ON r.transaction_id = t.id
        WHERE t.user_id = $1
        ORDER BY t.created_at ASC`

type postgresRechargeRepo struct {
	store *Store
}

func NewPostgresRechargeRepo(store *Store) repository.RechargeRepository {
	return &postgresRechargeRepo{store: store}
}

func (r *postgresRechargeRepo) Create(ctx context.Context, recharge *models.Recharge) error {
	_, err := r.store.ext(ctx).ExecContext(ctx, insertRechargeQuery,
		recharge.TransactionID,
		recharge.PhoneNumber,
		recharge.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create recharge: %w", err)
	}

	return nil
}

func (r *postgresRechargeRepo) FindByUser(ctx context.Context, userID string) ([]models.RechargeView, error) {
	views := []models.RechargeView{}
	err := sqlx.SelectContext(ctx, r.store.ext(ctx), &views, findByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("find recharges by user: %w", err)
	}

	return views, nil
}
