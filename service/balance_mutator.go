package service

import (
	"context"
	"database/sql"
	"errors"

	"bank-ledger/model"
	"bank-ledger/repository"

	"github.com/shopspring/decimal"
)

// balanceMutator is the only code path that writes account balances. Every
// call runs inside the caller's *sql.Tx and never commits on its own.
type balanceMutator struct {
	accounts repository.IAccountRepository
}

// lock reads the account and holds its row lock for the rest of tx.
func (m *balanceMutator) lock(ctx context.Context, tx *sql.Tx, op, entity string, accountID int) (*model.Account, error) {
	acc, err := m.accounts.GetAccountForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(op, entity, accountID)
		}
		return nil, err
	}
	return acc, nil
}

func ensureOpen(op, entity string, acc *model.Account) error {
	if acc.IsClosed() {
		return invalidOperation(op, entity, acc.ID, "account is closed")
	}
	return nil
}

// apply writes acc.Balance+delta for an account already locked in tx and
// updates acc in place. A result below zero is rejected without a write.
func (m *balanceMutator) apply(ctx context.Context, tx *sql.Tx, op string, acc *model.Account, delta decimal.Decimal) error {
	if err := ensureOpen(op, "account", acc); err != nil {
		return err
	}

	newBalance := acc.Balance.Add(delta)
	if newBalance.IsNegative() {
		return insufficientFunds(op, acc.ID, acc.Balance, delta.Neg())
	}

	if err := m.accounts.UpdateAccountBalance(ctx, tx, acc.ID, newBalance); err != nil {
		return err
	}
	acc.Balance = newBalance
	return nil
}

// adjust locks accountID, checks it is open and applies delta.
func (m *balanceMutator) adjust(ctx context.Context, tx *sql.Tx, op string, accountID int, delta decimal.Decimal) (*model.Account, error) {
	acc, err := m.lock(ctx, tx, op, "account", accountID)
	if err != nil {
		return nil, err
	}
	if err := m.apply(ctx, tx, op, acc, delta); err != nil {
		return nil, err
	}
	return acc, nil
}
