package repository

import (
	"context"
	"database/sql"

	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IBranchRepository defines the contract for branch database operations.
type IBranchRepository interface {
	CreateBranch(ctx context.Context, branch *model.Branch) error
	GetBranchesByBankID(ctx context.Context, bankID int) ([]*model.Branch, error)
	GetBranchForUpdate(ctx context.Context, tx *sql.Tx, branchID int) (*model.Branch, error)
	UpdateBranchBalance(ctx context.Context, tx *sql.Tx, branchID int, newBalance decimal.Decimal) error
}

type BranchRepository struct {
	DB *sql.DB
}

func NewBranchRepository(db *sql.DB) *BranchRepository {
	return &BranchRepository{DB: db}
}

func (r *BranchRepository) CreateBranch(ctx context.Context, branch *model.Branch) error {
	log := logger.Log.WithField("bank_id", branch.BankID)
	log.Info("Executing query to create a new branch")

	query := `INSERT INTO branches (bank_id) VALUES ($1) RETURNING id, balance, created_at`
	err := r.DB.QueryRowContext(ctx, query, branch.BankID).Scan(&branch.ID, &branch.Balance, &branch.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create branch query")
		return err
	}
	return nil
}

func (r *BranchRepository) GetBranchesByBankID(ctx context.Context, bankID int) ([]*model.Branch, error) {
	log := logger.Log.WithField("bank_id", bankID)
	log.Info("Executing query to get branches by bank ID")

	query := `SELECT id, bank_id, balance, created_at FROM branches WHERE bank_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, bankID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for branches by bank ID")
		return nil, err
	}
	defer rows.Close()

	branches := []*model.Branch{}
	for rows.Next() {
		var b model.Branch
		if err := rows.Scan(&b.ID, &b.BankID, &b.Balance, &b.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan branch row")
			return nil, err
		}
		branches = append(branches, &b)
	}
	return branches, rows.Err()
}

func (r *BranchRepository) GetBranchForUpdate(ctx context.Context, tx *sql.Tx, branchID int) (*model.Branch, error) {
	log := logger.Log.WithField("branch_id", branchID)
	log.Info("Executing query to get branch for update")

	branch := &model.Branch{}
	query := `SELECT id, bank_id, balance, created_at FROM branches WHERE id = $1 FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, branchID).Scan(&branch.ID, &branch.BankID, &branch.Balance, &branch.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get branch for update query")
		}
		return nil, err
	}
	return branch, nil
}

func (r *BranchRepository) UpdateBranchBalance(ctx context.Context, tx *sql.Tx, branchID int, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"branch_id":   branchID,
		"new_balance": newBalance.StringFixed(model.MoneyScale),
	})
	log.Info("Executing query to update branch balance")

	res, err := tx.ExecContext(ctx, `UPDATE branches SET balance = $1 WHERE id = $2`, newBalance, branchID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update branch balance query")
		return err
	}
	return requireOneRow(res)
}
