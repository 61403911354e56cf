package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jfcardenas/recargas/internal/core/logger"
	"github.com/jfcardenas/recargas/internal/core/models"
	"github.com/jfcardenas/recargas/internal/core/repository"
)

type TransactionUsecase interface {
	Create(ctx context.Context, amount int64, userID string) (*models.Transaction, error)
}

type transactionUsecase struct {
	repo repository.TransactionRepository
	log  logger.Logger
}

func NewTransactionUsecase(repo repository.TransactionRepository, log logger.Logger) TransactionUsecase {
	return &transactionUsecase{repo: repo, log: log}
}

// Create appends a ledger entry. No validation happens here: business
// rules belong to the caller, this is a dumb append primitive.
func (uc *transactionUsecase) Create(ctx context.Context, amount int64, userID string) (*models.Transaction, error) {
	transaction := &models.Transaction{
		ID:        uuid.New(),
		Amount:    amount,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.repo.Create(ctx, transaction); err != nil {
		uc.log.Error("Transaction persist failed",
			logger.ErrorField("error", err),
			logger.StringField("user_id", userID),
			logger.Int64Field("amount", amount))
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	return transaction, nil
}
