package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bank-ledger/logger"
	"bank-ledger/model"
	"bank-ledger/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const opDepositToBranch = "deposit_to_branch"

// BankService manages banks, their branches and the bank-side reports.
type BankService struct {
	db          *sql.DB
	bankRepo    repository.IBankRepository
	branchRepo  repository.IBranchRepository
	accountRepo repository.IAccountRepository
}

func NewBankService(db *sql.DB, bankRepo repository.IBankRepository, branchRepo repository.IBranchRepository, accountRepo repository.IAccountRepository) *BankService {
	return &BankService{db: db, bankRepo: bankRepo, branchRepo: branchRepo, accountRepo: accountRepo}
}

func (s *BankService) CreateBank(ctx context.Context, name string) (*model.Bank, error) {
	bank := &model.Bank{Name: name}
	if err := s.bankRepo.CreateBank(ctx, bank); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &LedgerError{Kind: KindInvalidOperation, Op: "create_bank", Message: fmt.Sprintf("bank %q already exists", name)}
		}
		return nil, systemError("create_bank", err)
	}
	logger.Log.WithFields(logrus.Fields{"bank_id": bank.ID, "name": name}).Info("Bank created")
	return bank, nil
}

func (s *BankService) GetBank(ctx context.Context, bankID int) (*model.Bank, error) {
	bank, err := s.bankRepo.GetBankByID(ctx, bankID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("get_bank", "bank", bankID)
		}
		return nil, systemError("get_bank", err)
	}
	return bank, nil
}

func (s *BankService) ListBanks(ctx context.Context) ([]*model.Bank, error) {
	banks, err := s.bankRepo.GetAllBanks(ctx)
	if err != nil {
		return nil, systemError("list_banks", err)
	}
	return banks, nil
}

func (s *BankService) CreateBranch(ctx context.Context, bankID int) (*model.Branch, error) {
	if _, err := s.GetBank(ctx, bankID); err != nil {
		return nil, err
	}
	branch := &model.Branch{BankID: bankID, Balance: model.Zero}
	if err := s.branchRepo.CreateBranch(ctx, branch); err != nil {
		return nil, systemError("create_branch", err)
	}
	logger.Log.WithFields(logrus.Fields{"bank_id": bankID, "branch_id": branch.ID}).Info("Branch created")
	return branch, nil
}

func (s *BankService) ListBranches(ctx context.Context, bankID int) ([]*model.Branch, error) {
	if _, err := s.GetBank(ctx, bankID); err != nil {
		return nil, err
	}
	branches, err := s.branchRepo.GetBranchesByBankID(ctx, bankID)
	if err != nil {
		return nil, systemError("list_branches", err)
	}
	return branches, nil
}

// DepositToBranch adds cash to a branch pool. Branch balances are bank-internal
// and never take part in client transfers.
func (s *BankService) DepositToBranch(ctx context.Context, branchID int, amount decimal.Decimal) (*model.Branch, error) {
	amount, err := validateAmount(opDepositToBranch, amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, systemError(opDepositToBranch, fmt.Errorf("could not begin transaction: %w", err))
	}
	defer tx.Rollback()

	branch, err := s.branchRepo.GetBranchForUpdate(ctx, tx, branchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(opDepositToBranch, "branch", branchID)
		}
		return nil, systemError(opDepositToBranch, err)
	}

	newBalance := branch.Balance.Add(amount)
	if err := s.branchRepo.UpdateBranchBalance(ctx, tx, branchID, newBalance); err != nil {
		return nil, systemError(opDepositToBranch, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, systemError(opDepositToBranch, fmt.Errorf("could not commit transaction: %w", err))
	}

	branch.Balance = newBalance
	logger.Log.WithFields(logrus.Fields{
		"branch_id": branchID,
		"amount":    amount.StringFixed(model.MoneyScale),
	}).Info("Branch deposit completed")
	return branch, nil
}

// GetCommission returns the commission income a bank has collected so far.
func (s *BankService) GetCommission(ctx context.Context, bankID int) (decimal.Decimal, error) {
	bank, err := s.GetBank(ctx, bankID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return bank.CommissionIncome, nil
}

func (s *BankService) GetBankSummary(ctx context.Context, bankID int) (*model.BankSummary, error) {
	bank, err := s.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	total, openAccounts, err := s.accountRepo.GetBankTotals(ctx, bankID)
	if err != nil {
		return nil, systemError("bank_summary", err)
	}
	branches, err := s.branchRepo.GetBranchesByBankID(ctx, bankID)
	if err != nil {
		return nil, systemError("bank_summary", err)
	}

	return &model.BankSummary{
		BankID:             bank.ID,
		BankName:           bank.Name,
		ClientTotalBalance: total,
		CommissionIncome:   bank.CommissionIncome,
		OpenAccounts:       openAccounts,
		Branches:           len(branches),
	}, nil
}
