package service

import (
	"context"
	"database/sql"
	"time"

	"bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// decEq matches a decimal argument by value rather than by representation.
func decEq(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) CreateAccount(ctx context.Context, tx *sql.Tx, account *model.Account) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByID(ctx context.Context, accountID int) (*model.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountsByClientID(ctx context.Context, clientID int) ([]*model.Account, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountForUpdate(ctx context.Context, tx *sql.Tx, accountID int) (*model.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalance(ctx context.Context, tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	args := m.Called(ctx, tx, accountID, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) CloseAccount(ctx context.Context, tx *sql.Tx, accountID int) (time.Time, error) {
	args := m.Called(ctx, tx, accountID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockAccountRepository) GetBankTotals(ctx context.Context, bankID int) (decimal.Decimal, int, error) {
	args := m.Called(ctx, bankID)
	return args.Get(0).(decimal.Decimal), args.Int(1), args.Error(2)
}

type MockBankRepository struct{ mock.Mock }

func (m *MockBankRepository) CreateBank(ctx context.Context, bank *model.Bank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockBankRepository) GetBankByID(ctx context.Context, bankID int) (*model.Bank, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bank), args.Error(1)
}

func (m *MockBankRepository) GetAllBanks(ctx context.Context) ([]*model.Bank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Bank), args.Error(1)
}

func (m *MockBankRepository) AddCommission(ctx context.Context, tx *sql.Tx, bankID int, fee decimal.Decimal) (*model.Bank, error) {
	args := m.Called(ctx, tx, bankID, fee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bank), args.Error(1)
}

type MockBranchRepository struct{ mock.Mock }

func (m *MockBranchRepository) CreateBranch(ctx context.Context, branch *model.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockBranchRepository) GetBranchesByBankID(ctx context.Context, bankID int) ([]*model.Branch, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Branch), args.Error(1)
}

func (m *MockBranchRepository) GetBranchForUpdate(ctx context.Context, tx *sql.Tx, branchID int) (*model.Branch, error) {
	args := m.Called(ctx, tx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Branch), args.Error(1)
}

func (m *MockBranchRepository) UpdateBranchBalance(ctx context.Context, tx *sql.Tx, branchID int, newBalance decimal.Decimal) error {
	args := m.Called(ctx, tx, branchID, newBalance)
	return args.Error(0)
}

type MockClientRepository struct{ mock.Mock }

func (m *MockClientRepository) CreateClient(ctx context.Context, client *model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetClientByID(ctx context.Context, clientID int) (*model.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *MockClientRepository) GetClientByExternalID(ctx context.Context, externalID int64) (*model.Client, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, tx *sql.Tx, transaction *model.Transaction) error {
	args := m.Called(ctx, tx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionsByAccountID(ctx context.Context, accountID int) ([]*model.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetTransactionsByClientID(ctx context.Context, clientID int) ([]*model.Transaction, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

type MockOperationLogRepository struct{ mock.Mock }

func (m *MockOperationLogRepository) CreateOperationLog(ctx context.Context, tx *sql.Tx, entry *model.OperationLog) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockOperationLogRepository) GetOperationLogsByClientID(ctx context.Context, clientID int) ([]*model.OperationLog, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OperationLog), args.Error(1)
}
