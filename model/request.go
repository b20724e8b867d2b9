// file: model/request.go

package model

import "github.com/shopspring/decimal"

// RegisterClientRequest defines the payload for registering a new client.
type RegisterClientRequest struct {
	ExternalID int64  `json:"external_id" validate:"required,gt=0"`
	Pin        string `json:"pin" validate:"required,numeric,min=4,max=12"`
}

// LoginRequest defines the payload for client authentication.
type LoginRequest struct {
	ExternalID int64  `json:"external_id" validate:"required,gt=0"`
	Pin        string `json:"pin" validate:"required,numeric,min=4,max=12"`
}

// OpenAccountRequest names the bank the new account is opened with.
type OpenAccountRequest struct {
	BankID int `json:"bank_id" validate:"required,gt=0"`
}

// AmountRequest carries the amount for deposits and withdrawals. Sign checks
// happen in the ledger so that the error kind stays NegativeAmount.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
}

// TransferRequest defines a money transfer between two accounts.
type TransferRequest struct {
	FromAccountID int             `json:"from_account_id" validate:"required,gt=0"`
	ToAccountID   int             `json:"to_account_id" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
}

// CreateBankRequest defines the payload for registering a bank.
type CreateBankRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// FeeQuote is the forecast for a transfer that has not been executed.
type FeeQuote struct {
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	Credited  decimal.Decimal `json:"credited"`
	CrossBank bool            `json:"cross_bank"`
}
