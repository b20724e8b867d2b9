package model

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits every monetary value carries.
const MoneyScale = 2

// RoundMoney rounds half away from zero to MoneyScale places. For the
// non-negative amounts the ledger handles this is round-half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// Zero is 0.00.
var Zero = decimal.New(0, -MoneyScale)
