package service

import (
	"bank-ledger/model"

	"github.com/shopspring/decimal"
)

// CrossBankFeeRate is the share of a cross-bank transfer kept as commission.
var CrossBankFeeRate = decimal.RequireFromString("0.01")

// CalculateFee returns the commission for moving amount between accounts.
// Transfers inside one bank are free; cross-bank transfers cost 1% rounded
// half-up to cents. The result is never negative and never exceeds amount.
func CalculateFee(amount decimal.Decimal, sameBank bool) decimal.Decimal {
	if sameBank || !amount.IsPositive() {
		return model.Zero
	}
	return model.RoundMoney(amount.Mul(CrossBankFeeRate))
}
