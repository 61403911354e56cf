package models

import (
	"time"

	"github.com/google/uuid"
)

// Recharge is the prepaid credit purchase linked 1:1 to its transaction.
type Recharge struct {
	TransactionID uuid.UUID `json:"transaction_id" db:"transaction_id"`
	PhoneNumber   string    `json:"phone_number" db:"phone_number"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// RechargeView is the caller-facing shape combining transaction and
// recharge fields. Amount, user and timestamp come from the transaction
// record, which is authoritative.
type RechargeView struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	Amount      int64     `json:"amount" db:"amount"`
	UserID      string    `json:"userId" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
