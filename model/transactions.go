package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionWithdraw TransactionType = "withdraw"
	TransactionTransfer TransactionType = "transfer"
)

// Transaction is the immutable record of one completed money movement.
// FromAccountID is nil for deposits, ToAccountID is nil for withdrawals.
type Transaction struct {
	ID            int             `json:"id"`
	FromAccountID *int            `json:"from_account_id"`
	ToAccountID   *int            `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	Type          TransactionType `json:"type"`
	CreatedAt     time.Time       `json:"created_at"`
}
