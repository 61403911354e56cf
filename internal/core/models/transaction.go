package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is an append-only ledger entry. The id is assigned once,
// at creation, and records are never updated.
type Transaction struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Amount    int64     `json:"amount" db:"amount"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
