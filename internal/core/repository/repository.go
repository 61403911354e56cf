package repository

import (
	"context"

	"github.com/jfcardenas/recargas/internal/core/models"
)

// UserRepository is a read-only user directory. FindUser returns
// (nil, nil) when no user matches: absence is not an error, the caller
// decides how to react.
type UserRepository interface {
	FindUser(ctx context.Context, username string) (*models.User, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
}

type RechargeRepository interface {
	Create(ctx context.Context, recharge *models.Recharge) error
	FindByUser(ctx context.Context, userID string) ([]models.RechargeView, error)
}

// TxManager runs fn inside a single database transaction. Repository
// calls made with the context passed to fn share that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
