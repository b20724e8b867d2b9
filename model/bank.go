package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bank struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	CommissionIncome decimal.Decimal `json:"commission_income"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Branch is a bank-internal cash pool. It never takes part in transfers.
type Branch struct {
	ID        int             `json:"id"`
	BankID    int             `json:"bank_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// BankSummary aggregates a bank's books for reporting.
type BankSummary struct {
	BankID             int             `json:"bank_id"`
	BankName           string          `json:"bank_name"`
	ClientTotalBalance decimal.Decimal `json:"client_total_balance"`
	CommissionIncome   decimal.Decimal `json:"commission_income"`
	OpenAccounts       int             `json:"open_accounts"`
	Branches           int             `json:"branches"`
}
