package service

import (
	"context"
	"database/sql"
	"fmt"

	"bank-ledger/logger"
	"bank-ledger/model"
	"bank-ledger/repository"

	"github.com/shopspring/decimal"
)

const (
	opOpenAccount  = "open_account"
	opDeposit      = "deposit"
	opWithdraw     = "withdraw"
	opTransfer     = "transfer"
	opCloseAccount = "close_account"
)

// LedgerService is the ledger engine. Every mutating method runs as one
// database transaction: balances, commission, the Transaction row and the
// OperationLog row commit together or not at all.
type LedgerService struct {
	db               *sql.DB
	accountRepo      repository.IAccountRepository
	bankRepo         repository.IBankRepository
	clientRepo       repository.IClientRepository
	transactionRepo  repository.ITransactionRepository
	operationLogRepo repository.IOperationLogRepository
	mutator          *balanceMutator
	recorder         *recorder
	cache            *AccountCache
}

func NewLedgerService(
	db *sql.DB,
	accountRepo repository.IAccountRepository,
	bankRepo repository.IBankRepository,
	clientRepo repository.IClientRepository,
	transactionRepo repository.ITransactionRepository,
	operationLogRepo repository.IOperationLogRepository,
	cache *AccountCache,
) *LedgerService {
	return &LedgerService{
		db:               db,
		accountRepo:      accountRepo,
		bankRepo:         bankRepo,
		clientRepo:       clientRepo,
		transactionRepo:  transactionRepo,
		operationLogRepo: operationLogRepo,
		mutator:          &balanceMutator{accounts: accountRepo},
		recorder:         &recorder{transactions: transactionRepo, logs: operationLogRepo},
		cache:            cache,
	}
}

// inTx runs fn inside a database transaction. Any error from fn rolls the
// transaction back; errors that are not LedgerErrors come back as SystemError
// tagged with op.
func (s *LedgerService) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return systemError(op, fmt.Errorf("could not begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		logger.Log.WithError(err).WithField("operation", op).Warn("Ledger operation rolled back")
		return systemError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return systemError(op, fmt.Errorf("could not commit transaction: %w", err))
	}
	return nil
}

// validateAmount rejects non-positive amounts and amounts finer than a cent,
// returning the amount at money scale.
func validateAmount(op string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, negativeAmount(op, amount)
	}
	rounded := model.RoundMoney(amount)
	if !rounded.Equal(amount) {
		return decimal.Decimal{}, &LedgerError{
			Kind:    KindInvalidOperation,
			Op:      op,
			Message: "amount must have at most two decimal places",
			Amount:  amount,
		}
	}
	return rounded, nil
}
