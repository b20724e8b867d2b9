package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        int             `json:"id"`
	BankID    int             `json:"bank_id"`
	ClientID  int             `json:"client_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	ClosedAt  *time.Time      `json:"closed_at,omitempty"`
}

// IsClosed reports whether the account has been soft-closed. Closed accounts
// accept no further balance changes.
func (a *Account) IsClosed() bool {
	return a.ClosedAt != nil
}
