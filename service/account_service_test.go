package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"bank-ledger/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	service    *LedgerService
	dbMock     sqlmock.Sqlmock
	accounts   *MockAccountRepository
	banks      *MockBankRepository
	clients    *MockClientRepository
	txns       *MockTransactionRepository
	operations *MockOperationLogRepository
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &ledgerFixture{
		dbMock:     dbMock,
		accounts:   new(MockAccountRepository),
		banks:      new(MockBankRepository),
		clients:    new(MockClientRepository),
		txns:       new(MockTransactionRepository),
		operations: new(MockOperationLogRepository),
	}
	f.service = NewLedgerService(db, f.accounts, f.banks, f.clients, f.txns, f.operations, nil)
	return f
}

func (f *ledgerFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.accounts.AssertExpectations(t)
	f.banks.AssertExpectations(t)
	f.clients.AssertExpectations(t)
	f.txns.AssertExpectations(t)
	f.operations.AssertExpectations(t)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func operationOf(action model.OperationType, clientID int) interface{} {
	return mock.MatchedBy(func(e *model.OperationLog) bool {
		return e.Action == action && e.ClientID == clientID
	})
}

func TestLedgerService_OpenAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.clients.On("GetClientByID", ctx, 7).Return(&model.Client{ID: 7}, nil).Once()
		f.banks.On("GetBankByID", ctx, 1).Return(&model.Bank{ID: 1, Name: "B1"}, nil).Once()
		f.dbMock.ExpectBegin()
		f.accounts.On("CreateAccount", ctx, mock.Anything, mock.AnythingOfType("*model.Account")).
			Run(func(args mock.Arguments) { args.Get(2).(*model.Account).ID = 11 }).
			Return(nil).Once()
		f.operations.On("CreateOperationLog", ctx, mock.Anything, operationOf(model.OperationCreateAccount, 7)).Return(nil).Once()
		f.dbMock.ExpectCommit()

		acc, err := f.service.OpenAccount(ctx, 1, 7)

		require.NoError(t, err)
		assert.Equal(t, 11, acc.ID)
		assert.Equal(t, 1, acc.BankID)
		assert.True(t, acc.Balance.IsZero())
		f.assertExpectations(t)
	})

	t.Run("unknown bank", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.clients.On("GetClientByID", ctx, 7).Return(&model.Client{ID: 7}, nil).Once()
		f.banks.On("GetBankByID", ctx, 99).Return(nil, sql.ErrNoRows).Once()

		_, err := f.service.OpenAccount(ctx, 99, 7)

		assert.ErrorIs(t, err, ErrNotFound)
		f.assertExpectations(t)
	})

	t.Run("unknown client", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.clients.On("GetClientByID", ctx, 8).Return(nil, sql.ErrNoRows).Once()

		_, err := f.service.OpenAccount(ctx, 1, 8)

		assert.ErrorIs(t, err, ErrNotFound)
		f.assertExpectations(t)
	})
}

func TestLedgerService_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 1).
			Return(&model.Account{ID: 1, ClientID: 7, BankID: 1, Balance: dec("10.00")}, nil).Once()
		f.accounts.On("UpdateAccountBalance", ctx, mock.Anything, 1, decEq("60.50")).Return(nil).Once()
		f.txns.On("CreateTransaction", ctx, mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
			return tr.Type == model.TransactionDeposit && tr.FromAccountID == nil &&
				*tr.ToAccountID == 1 && tr.Amount.Equal(dec("50.50")) && tr.Fee.IsZero()
		})).Return(nil).Once()
		f.operations.On("CreateOperationLog", ctx, mock.Anything, operationOf(model.OperationDeposit, 7)).Return(nil).Once()
		f.dbMock.ExpectCommit()

		acc, err := f.service.Deposit(ctx, 1, dec("50.50"), 7)

		require.NoError(t, err)
		assert.True(t, acc.Balance.Equal(dec("60.50")))
		f.assertExpectations(t)
	})

	t.Run("non-positive amount never opens a transaction", func(t *testing.T) {
		f := newLedgerFixture(t)
		for _, amount := range []string{"0", "-5.00"} {
			_, err := f.service.Deposit(ctx, 1, dec(amount), 7)
			assert.ErrorIs(t, err, ErrNegativeAmount)
		}
		f.assertExpectations(t)
	})

	t.Run("sub-cent amount", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := f.service.Deposit(ctx, 1, dec("0.001"), 7)
		assert.ErrorIs(t, err, ErrInvalidOperation)
		f.assertExpectations(t)
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 404).Return(nil, sql.ErrNoRows).Once()
		f.dbMock.ExpectRollback()

		_, err := f.service.Deposit(ctx, 404, dec("1.00"), 7)

		assert.ErrorIs(t, err, ErrNotFound)
		f.assertExpectations(t)
	})

	t.Run("closed account", func(t *testing.T) {
		f := newLedgerFixture(t)
		closedAt := time.Now()
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 1).
			Return(&model.Account{ID: 1, ClientID: 7, Balance: model.Zero, ClosedAt: &closedAt}, nil).Once()
		f.dbMock.ExpectRollback()

		_, err := f.service.Deposit(ctx, 1, dec("1.00"), 7)

		assert.ErrorIs(t, err, ErrInvalidOperation)
		f.assertExpectations(t)
	})

	t.Run("audit failure rolls back", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 1).
			Return(&model.Account{ID: 1, ClientID: 7, Balance: model.Zero}, nil).Once()
		f.accounts.On("UpdateAccountBalance", ctx, mock.Anything, 1, decEq("1.00")).Return(nil).Once()
		f.txns.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.operations.On("CreateOperationLog", ctx, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
		f.dbMock.ExpectRollback()

		_, err := f.service.Deposit(ctx, 1, dec("1.00"), 7)

		assert.ErrorIs(t, err, ErrSystem)
		f.assertExpectations(t)
	})
}

func TestLedgerService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("exact balance leaves zero", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 1).
			Return(&model.Account{ID: 1, ClientID: 7, Balance: dec("25.00")}, nil).Once()
		f.accounts.On("UpdateAccountBalance", ctx, mock.Anything, 1, decEq("0")).Return(nil).Once()
		f.txns.On("CreateTransaction", ctx, mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
			return tr.Type == model.TransactionWithdraw && *tr.FromAccountID == 1 && tr.ToAccountID == nil
		})).Return(nil).Once()
		f.operations.On("CreateOperationLog", ctx, mock.Anything, operationOf(model.OperationWithdraw, 7)).Return(nil).Once()
		f.dbMock.ExpectCommit()

		acc, err := f.service.Withdraw(ctx, 1, dec("25.00"), 7)

		require.NoError(t, err)
		assert.True(t, acc.Balance.IsZero())
		f.assertExpectations(t)
	})

	t.Run("insufficient funds writes nothing", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 1).
			Return(&model.Account{ID: 1, ClientID: 7, Balance: dec("50.00")}, nil).Once()
		f.dbMock.ExpectRollback()

		_, err := f.service.Withdraw(ctx, 1, dec("50.01"), 7)

		require.ErrorIs(t, err, ErrInsufficientFunds)
		var le *LedgerError
		require.True(t, errors.As(err, &le))
		assert.True(t, le.Available.Equal(dec("50.00")))
		assert.True(t, le.Amount.Equal(dec("50.01")))
		f.accounts.AssertNotCalled(t, "UpdateAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.txns.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("negative amount", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := f.service.Withdraw(ctx, 1, dec("-1"), 7)
		assert.Equal(t, KindNegativeAmount, KindOf(err))
		f.assertExpectations(t)
	})

	t.Run("commit failure", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 1).
			Return(&model.Account{ID: 1, ClientID: 7, Balance: dec("5.00")}, nil).Once()
		f.accounts.On("UpdateAccountBalance", ctx, mock.Anything, 1, decEq("4.00")).Return(nil).Once()
		f.txns.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.operations.On("CreateOperationLog", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.dbMock.ExpectCommit().WillReturnError(errors.New("connection reset"))

		_, err := f.service.Withdraw(ctx, 1, dec("1.00"), 7)

		assert.ErrorIs(t, err, ErrSystem)
		f.assertExpectations(t)
	})

	t.Run("begin failure", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		_, err := f.service.Withdraw(ctx, 1, dec("1.00"), 7)

		assert.ErrorIs(t, err, ErrSystem)
		f.assertExpectations(t)
	})
}

func TestLedgerService_CloseAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("zero balance", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 3).
			Return(&model.Account{ID: 3, ClientID: 7, Balance: dec("0.00")}, nil).Once()
		f.accounts.On("CloseAccount", ctx, mock.Anything, 3).Return(time.Now(), nil).Once()
		f.operations.On("CreateOperationLog", ctx, mock.Anything, operationOf(model.OperationCloseAccount, 7)).Return(nil).Once()
		f.dbMock.ExpectCommit()

		err := f.service.CloseAccount(ctx, 3, 7)

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("non-zero balance", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 3).
			Return(&model.Account{ID: 3, ClientID: 7, Balance: dec("0.01")}, nil).Once()
		f.dbMock.ExpectRollback()

		err := f.service.CloseAccount(ctx, 3, 7)

		assert.ErrorIs(t, err, ErrAccountNotClosed)
		f.accounts.AssertNotCalled(t, "CloseAccount", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("already closed", func(t *testing.T) {
		f := newLedgerFixture(t)
		closedAt := time.Now()
		f.dbMock.ExpectBegin()
		f.accounts.On("GetAccountForUpdate", ctx, mock.Anything, 3).
			Return(&model.Account{ID: 3, ClientID: 7, Balance: model.Zero, ClosedAt: &closedAt}, nil).Once()
		f.dbMock.ExpectRollback()

		err := f.service.CloseAccount(ctx, 3, 7)

		assert.ErrorIs(t, err, ErrInvalidOperation)
		f.assertExpectations(t)
	})
}

func TestLedgerService_GetBalance(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	f.accounts.On("GetAccountByID", ctx, 1).Return(&model.Account{ID: 1, Balance: dec("12.34")}, nil).Once()
	f.accounts.On("GetAccountByID", ctx, 2).Return(nil, sql.ErrNoRows).Once()

	balance, err := f.service.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "12.34", balance.StringFixed(2))

	_, err = f.service.GetBalance(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	f.assertExpectations(t)
}
