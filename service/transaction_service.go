package service

import (
	"context"
	"database/sql"
	"errors"

	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	senderAccount   = "sender account"
	receiverAccount = "receiver account"
)

// Transfer moves amount from one account to another. The sender is debited
// exactly amount; the receiver is credited amount minus the fee, and on a
// cross-bank transfer the fee is credited to the receiver's bank.
func (s *LedgerService) Transfer(ctx context.Context, fromAccountID, toAccountID int, amount decimal.Decimal, clientID int) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account_id": fromAccountID,
		"to_account_id":   toAccountID,
		"amount":          amount.String(),
		"client_id":       clientID,
	})
	log.Info("Starting money transfer process")

	amount, err := validateAmount(opTransfer, amount)
	if err != nil {
		return nil, err
	}
	if fromAccountID == toAccountID {
		return nil, &LedgerError{Kind: KindSameAccountTransfer, Op: opTransfer, Entity: "account", ID: fromAccountID, Message: ErrSameAccountTransfer.Message}
	}

	var (
		transaction *model.Transaction
		owners      []int
	)
	err = s.inTx(ctx, opTransfer, func(tx *sql.Tx) error {
		from, to, err := s.lockPair(ctx, tx, fromAccountID, toAccountID)
		if err != nil {
			return err
		}
		if err := ensureOpen(opTransfer, senderAccount, from); err != nil {
			return err
		}
		if err := ensureOpen(opTransfer, receiverAccount, to); err != nil {
			return err
		}
		// The fee is carved out of what the receiver gets, so the sender only needs amount.
		if from.Balance.LessThan(amount) {
			return insufficientFunds(opTransfer, fromAccountID, from.Balance, amount)
		}

		crossBank := from.BankID != to.BankID
		fee := CalculateFee(amount, !crossBank)

		if err := s.mutator.apply(ctx, tx, opTransfer, from, amount.Neg()); err != nil {
			return err
		}
		if err := s.mutator.apply(ctx, tx, opTransfer, to, amount.Sub(fee)); err != nil {
			return err
		}
		if crossBank {
			if _, err := s.bankRepo.AddCommission(ctx, tx, to.BankID, fee); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return notFound(opTransfer, "bank", to.BankID)
				}
				return err
			}
		}

		transaction = &model.Transaction{
			FromAccountID: &fromAccountID,
			ToAccountID:   &toAccountID,
			Amount:        amount,
			Fee:           fee,
			Type:          model.TransactionTransfer,
		}
		owners = []int{from.ClientID, to.ClientID}
		return s.recorder.record(ctx, tx, transaction, clientID, model.TransferPayload{
			FromAccountID: fromAccountID,
			ToAccountID:   toAccountID,
			Amount:        amount,
			Fee:           fee,
		})
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, owners...)
	log.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"fee":            transaction.Fee.StringFixed(model.MoneyScale),
	}).Info("Transaction completed successfully")
	return transaction, nil
}

// lockPair locks both accounts in ascending id order so that two transfers
// over the same pair in opposite directions cannot deadlock. A missing
// account does not stop the second lock, so when both are missing the
// sender is reported regardless of lock order.
func (s *LedgerService) lockPair(ctx context.Context, tx *sql.Tx, fromAccountID, toAccountID int) (*model.Account, *model.Account, error) {
	type side struct {
		id     int
		entity string
		acc    *model.Account
		err    error
	}
	sides := []*side{{id: fromAccountID, entity: senderAccount}, {id: toAccountID, entity: receiverAccount}}
	order := sides
	if fromAccountID > toAccountID {
		order = []*side{sides[1], sides[0]}
	}

	for _, sd := range order {
		acc, err := s.mutator.lock(ctx, tx, opTransfer, sd.entity, sd.id)
		if err != nil {
			if KindOf(err) != KindNotFound {
				return nil, nil, err
			}
			sd.err = err
			continue
		}
		sd.acc = acc
	}
	for _, sd := range sides {
		if sd.err != nil {
			return nil, nil, sd.err
		}
	}
	return sides[0].acc, sides[1].acc, nil
}

// QuoteTransferFee forecasts the fee for a transfer without executing it.
func (s *LedgerService) QuoteTransferFee(ctx context.Context, fromAccountID, toAccountID int, amount decimal.Decimal) (*model.FeeQuote, error) {
	const op = "quote_fee"
	amount, err := validateAmount(op, amount)
	if err != nil {
		return nil, err
	}
	if fromAccountID == toAccountID {
		return nil, &LedgerError{Kind: KindSameAccountTransfer, Op: op, Entity: "account", ID: fromAccountID, Message: ErrSameAccountTransfer.Message}
	}

	from, err := s.GetAccount(ctx, fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetAccount(ctx, toAccountID)
	if err != nil {
		return nil, err
	}

	crossBank := from.BankID != to.BankID
	fee := CalculateFee(amount, !crossBank)
	return &model.FeeQuote{
		Amount:    amount,
		Fee:       fee,
		Credited:  amount.Sub(fee),
		CrossBank: crossBank,
	}, nil
}

// ListAccountTransactions returns the money movement history of an account.
func (s *LedgerService) ListAccountTransactions(ctx context.Context, accountID int) ([]*model.Transaction, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetTransactionsByAccountID(ctx, accountID)
	if err != nil {
		return nil, systemError("list_transactions", err)
	}
	return transactions, nil
}

// ListClientTransactions returns the money movement history across all of a client's accounts.
func (s *LedgerService) ListClientTransactions(ctx context.Context, clientID int) ([]*model.Transaction, error) {
	const op = "list_client_transactions"
	if err := s.requireClient(ctx, op, clientID); err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetTransactionsByClientID(ctx, clientID)
	if err != nil {
		return nil, systemError(op, err)
	}
	return transactions, nil
}

// ListClientOperations returns the audit trail recorded for a client.
func (s *LedgerService) ListClientOperations(ctx context.Context, clientID int) ([]*model.OperationLog, error) {
	if err := s.requireClient(ctx, "list_operations", clientID); err != nil {
		return nil, err
	}
	entries, err := s.operationLogRepo.GetOperationLogsByClientID(ctx, clientID)
	if err != nil {
		return nil, systemError("list_operations", err)
	}
	return entries, nil
}
