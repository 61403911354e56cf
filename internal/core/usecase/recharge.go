package usecase

import (
	"context"
	"fmt"

	"github.com/jfcardenas/recargas/internal/core/logger"
	"github.com/jfcardenas/recargas/internal/core/models"
	"github.com/jfcardenas/recargas/internal/core/repository"
)

const (
	minRechargeAmount = 1000
	maxRechargeAmount = 100000
)

type RechargeUsecase interface {
	Create(ctx context.Context, userID string, amount int64, phoneNumber string) (*models.RechargeView, error)
	FindByUser(ctx context.Context, userID string) ([]models.RechargeView, error)
}

type rechargeUsecase struct {
	transactions TransactionUsecase
	recharges    repository.RechargeRepository
	txManager    repository.TxManager
	log          logger.Logger
}

func NewRechargeUsecase(
	transactions TransactionUsecase,
	recharges repository.RechargeRepository,
	txManager repository.TxManager,
	log logger.Logger,
) RechargeUsecase {
	return &rechargeUsecase{
		transactions: transactions,
		recharges:    recharges,
		txManager:    txManager,
		log:          log,
	}
}

// Create validates the amount range, appends the owning transaction and
// persists the recharge linked to it. Both writes run in one database
// transaction. The returned view takes amount, user and timestamp from
// the transaction record, not from caller input.
func (uc *rechargeUsecase) Create(ctx context.Context, userID string, amount int64, phoneNumber string) (*models.RechargeView, error) {
	if amount < minRechargeAmount || amount > maxRechargeAmount {
		uc.log.Warn("Recharge amount out of range",
			logger.Int64Field("amount", amount),
			logger.StringField("user_id", userID))
		return nil, ErrInvalidAmount
	}

	var view *models.RechargeView
	err := uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		transaction, err := uc.transactions.Create(ctx, amount, userID)
		if err != nil {
			return err
		}

		recharge := &models.Recharge{
			TransactionID: transaction.ID,
			PhoneNumber:   phoneNumber,
			CreatedAt:     transaction.CreatedAt,
		}
		if err := uc.recharges.Create(ctx, recharge); err != nil {
			return err
		}

		view = &models.RechargeView{
			ID:          transaction.ID,
			PhoneNumber: recharge.PhoneNumber,
			Amount:      transaction.Amount,
			UserID:      transaction.UserID,
			CreatedAt:   transaction.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create recharge: %w", err)
	}

	uc.log.Info("Recharge created",
		logger.StringField("transaction_id", view.ID.String()),
		logger.StringField("user_id", view.UserID),
		logger.Int64Field("amount", view.Amount))
	return view, nil
}

// FindByUser returns the user's recharge history ordered by creation
// time ascending. An empty history is reported as ErrNoRecharges.
func (uc *rechargeUsecase) FindByUser(ctx context.Context, userID string) ([]models.RechargeView, error) {
	views, err := uc.recharges.FindByUser(ctx, userID)
	if err != nil {
		uc.log.Error("History lookup failed",
			logger.ErrorField("error", err),
			logger.StringField("user_id", userID))
		return nil, fmt.Errorf("find recharges: %w", err)
	}

	if len(views) == 0 {
		return nil, ErrNoRecharges
	}

	return views, nil
}
