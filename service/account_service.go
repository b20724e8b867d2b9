// file: service/account_service.go

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

// OpenAccount creates a zero-balance account for clientID at bankID and logs it.
func (s *LedgerService) OpenAccount(ctx context.Context, bankID, clientID int) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"bank_id":   bankID,
		"client_id": clientID,
	})
	log.Info("Opening account")

	if err := s.requireClient(ctx, opOpenAccount, clientID); err != nil {
		return nil, err
	}
	if _, err := s.bankRepo.GetBankByID(ctx, bankID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(opOpenAccount, "bank", bankID)
		}
		return nil, systemError(opOpenAccount, err)
	}

	account := &model.Account{BankID: bankID, ClientID: clientID}
	err := s.inTx(ctx, opOpenAccount, func(tx *sql.Tx) error {
		if err := s.accountRepo.CreateAccount(ctx, tx, account); err != nil {
			return err
		}
		return s.recorder.audit(ctx, tx, clientID, model.CreateAccountPayload{AccountID: account.ID, BankID: bankID})
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, clientID)
	log.WithField("account_id", account.ID).Info("Account opened")
	return account, nil
}

// Deposit credits amount to an open account.
func (s *LedgerService) Deposit(ctx context.Context, accountID int, amount decimal.Decimal, clientID int) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"amount":     amount.String(),
		"client_id":  clientID,
	})
	log.Info("Starting deposit")

	amount, err := validateAmount(opDeposit, amount)
	if err != nil {
		return nil, err
	}

	var account *model.Account
	err = s.inTx(ctx, opDeposit, func(tx *sql.Tx) error {
		var err error
		account, err = s.mutator.adjust(ctx, tx, opDeposit, accountID, amount)
		if err != nil {
			return err
		}
		return s.recorder.record(ctx, tx, &model.Transaction{
			ToAccountID: &accountID,
			Amount:      amount,
			Fee:         model.Zero,
			Type:        model.TransactionDeposit,
		}, clientID, model.DepositPayload{AccountID: accountID, Amount: amount})
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, account.ClientID)
	log.Info("Deposit completed successfully")
	return account, nil
}

// Withdraw debits amount from an open account holding at least amount.
func (s *LedgerService) Withdraw(ctx context.Context, accountID int, amount decimal.Decimal, clientID int) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"amount":     amount.String(),
		"client_id":  clientID,
	})
	log.Info("Starting withdrawal")

	amount, err := validateAmount(opWithdraw, amount)
	if err != nil {
		return nil, err
	}

	var account *model.Account
	err = s.inTx(ctx, opWithdraw, func(tx *sql.Tx) error {
		var err error
		account, err = s.mutator.lock(ctx, tx, opWithdraw, "account", accountID)
		if err != nil {
			return err
		}
		if err := ensureOpen(opWithdraw, "account", account); err != nil {
			return err
		}
		// Checked under the row lock, so no concurrent debit can slip in between.
		if account.Balance.LessThan(amount) {
			return insufficientFunds(opWithdraw, accountID, account.Balance, amount)
		}
		if err := s.mutator.apply(ctx, tx, opWithdraw, account, amount.Neg()); err != nil {
			return err
		}
		return s.recorder.record(ctx, tx, &model.Transaction{
			FromAccountID: &accountID,
			Amount:        amount,
			Fee:           model.Zero,
			Type:          model.TransactionWithdraw,
		}, clientID, model.WithdrawPayload{AccountID: accountID, Amount: amount})
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, account.ClientID)
	log.Info("Withdrawal completed successfully")
	return account, nil
}

// CloseAccount soft-closes an account whose balance is exactly zero.
func (s *LedgerService) CloseAccount(ctx context.Context, accountID, clientID int) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"client_id":  clientID,
	})
	log.Info("Closing account")

	var ownerID int
	err := s.inTx(ctx, opCloseAccount, func(tx *sql.Tx) error {
		account, err := s.mutator.lock(ctx, tx, opCloseAccount, "account", accountID)
		if err != nil {
			return err
		}
		if err := ensureOpen(opCloseAccount, "account", account); err != nil {
			return err
		}
		if !account.Balance.IsZero() {
			return &LedgerError{
				Kind:      KindAccountNotClosed,
				Op:        opCloseAccount,
				Entity:    "account",
				ID:        accountID,
				Message:   "account balance must be zero to close it",
				Available: account.Balance,
			}
		}
		if _, err := s.accountRepo.CloseAccount(ctx, tx, accountID); err != nil {
			return err
		}
		ownerID = account.ClientID
		return s.recorder.audit(ctx, tx, clientID, model.CloseAccountPayload{AccountID: accountID})
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, ownerID)
	log.Info("Account closed")
	return nil
}

// GetAccount reads an account without locking it.
func (s *LedgerService) GetAccount(ctx context.Context, accountID int) (*model.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("get_account", "account", accountID)
		}
		return nil, systemError("get_account", err)
	}
	return account, nil
}

// GetBalance returns the last committed balance of an account.
func (s *LedgerService) GetBalance(ctx context.Context, accountID int) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return account.Balance, nil
}

// ListClientAccounts lists a client's accounts, served from the cache when possible.
func (s *LedgerService) ListClientAccounts(ctx context.Context, clientID int) ([]*model.Account, error) {
	accounts, gen, ok := s.cache.Get(ctx, clientID)
	if ok {
		return accounts, nil
	}

	if err := s.requireClient(ctx, "list_accounts", clientID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.GetAccountsByClientID(ctx, clientID)
	if err != nil {
		return nil, systemError("list_accounts", err)
	}

	s.cache.Set(ctx, clientID, gen, accounts)
	return accounts, nil
}

func (s *LedgerService) requireClient(ctx context.Context, op string, clientID int) error {
	if _, err := s.clientRepo.GetClientByID(ctx, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(op, "client", clientID)
		}
		return systemError(op, err)
	}
	return nil
}
