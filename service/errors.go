package service

import (
	"errors"
	"fmt"

	"bank-ledger/model"

	"github.com/shopspring/decimal"
)

// ErrorKind classifies every failure a ledger operation can report.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindInsufficientFunds   ErrorKind = "insufficient_funds"
	KindNegativeAmount      ErrorKind = "negative_amount"
	KindSameAccountTransfer ErrorKind = "same_account_transfer"
	KindAccountNotClosed    ErrorKind = "account_not_closed"
	KindInvalidOperation    ErrorKind = "invalid_operation"
	KindSystemError         ErrorKind = "system_error"
)

// LedgerError carries the kind of a failure plus enough context to act on it.
// Two LedgerErrors match under errors.Is when their kinds are equal, so callers
// can test against the sentinels below.
type LedgerError struct {
	Kind    ErrorKind
	Op      string
	Entity  string
	ID      int
	Message string
	Err     error

	// Set for InsufficientFunds and NegativeAmount.
	Amount    decimal.Decimal
	Available decimal.Decimal
}

var (
	ErrNotFound            = &LedgerError{Kind: KindNotFound, Message: "not found"}
	ErrInsufficientFunds   = &LedgerError{Kind: KindInsufficientFunds, Message: "insufficient funds"}
	ErrNegativeAmount      = &LedgerError{Kind: KindNegativeAmount, Message: "amount must be greater than zero"}
	ErrSameAccountTransfer = &LedgerError{Kind: KindSameAccountTransfer, Message: "cannot transfer money to the same account"}
	ErrAccountNotClosed    = &LedgerError{Kind: KindAccountNotClosed, Message: "account balance must be zero to close it"}
	ErrInvalidOperation    = &LedgerError{Kind: KindInvalidOperation, Message: "invalid operation"}
	ErrSystem              = &LedgerError{Kind: KindSystemError, Message: "system error"}
)

func (e *LedgerError) Error() string {
	msg := e.Message
	if e.Entity != "" {
		msg = fmt.Sprintf("%s %d: %s", e.Entity, e.ID, msg)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindSystemError for anything that is not
// a LedgerError.
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindSystemError
}

func notFound(op, entity string, id int) error {
	return &LedgerError{Kind: KindNotFound, Op: op, Entity: entity, ID: id, Message: "not found"}
}

func insufficientFunds(op string, accountID int, available, amount decimal.Decimal) error {
	return &LedgerError{
		Kind:      KindInsufficientFunds,
		Op:        op,
		Entity:    "account",
		ID:        accountID,
		Message:   fmt.Sprintf("insufficient funds: balance %s, requested %s", available.StringFixed(model.MoneyScale), amount.StringFixed(model.MoneyScale)),
		Amount:    amount,
		Available: available,
	}
}

func negativeAmount(op string, amount decimal.Decimal) error {
	return &LedgerError{
		Kind:    KindNegativeAmount,
		Op:      op,
		Message: fmt.Sprintf("amount must be greater than zero, got %s", amount.String()),
		Amount:  amount,
	}
}

func invalidOperation(op, entity string, id int, message string) error {
	return &LedgerError{Kind: KindInvalidOperation, Op: op, Entity: entity, ID: id, Message: message}
}

// systemError wraps an unexpected failure, keeping domain errors untouched.
func systemError(op string, err error) error {
	var le *LedgerError
	if errors.As(err, &le) {
		return err
	}
	return &LedgerError{Kind: KindSystemError, Op: op, Message: "operation failed", Err: err}
}
