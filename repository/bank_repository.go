package repository

import (
	"context"
	"database/sql"

	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IBankRepository defines the contract for bank database operations.
type IBankRepository interface {
	CreateBank(ctx context.Context, bank *model.Bank) error
	GetBankByID(ctx context.Context, bankID int) (*model.Bank, error)
	GetAllBanks(ctx context.Context) ([]*model.Bank, error)
	AddCommission(ctx context.Context, tx *sql.Tx, bankID int, fee decimal.Decimal) (*model.Bank, error)
}

type BankRepository struct {
	DB *sql.DB
}

func NewBankRepository(db *sql.DB) *BankRepository {
	return &BankRepository{DB: db}
}

func (r *BankRepository) CreateBank(ctx context.Context, bank *model.Bank) error {
	log := logger.Log.WithField("name", bank.Name)
	log.Info("Executing query to create a new bank")

	query := `INSERT INTO banks (name) VALUES ($1) RETURNING id, commission_income, created_at`
	err := r.DB.QueryRowContext(ctx, query, bank.Name).Scan(&bank.ID, &bank.CommissionIncome, &bank.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Info("Bank name already taken")
			return ErrDuplicate
		}
		log.WithError(err).Error("Failed to execute create bank query")
		return err
	}
	return nil
}

func (r *BankRepository) GetBankByID(ctx context.Context, bankID int) (*model.Bank, error) {
	log := logger.Log.WithField("bank_id", bankID)
	log.Info("Executing query to get bank by ID")

	bank := &model.Bank{}
	query := `SELECT id, name, commission_income, created_at FROM banks WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, bankID).Scan(&bank.ID, &bank.Name, &bank.CommissionIncome, &bank.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get bank by ID query")
		}
		return nil, err
	}
	return bank, nil
}

func (r *BankRepository) GetAllBanks(ctx context.Context) ([]*model.Bank, error) {
	log := logger.Log
	log.Info("Executing query to get all banks")

	query := `SELECT id, name, commission_income, created_at FROM banks ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all banks")
		return nil, err
	}
	defer rows.Close()

	banks := []*model.Bank{}
	for rows.Next() {
		var b model.Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.CommissionIncome, &b.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan bank row")
			return nil, err
		}
		banks = append(banks, &b)
	}
	return banks, rows.Err()
}

// AddCommission credits fee to the bank's commission income inside tx. The
// UPDATE takes the bank row lock, so concurrent credits serialize.
func (r *BankRepository) AddCommission(ctx context.Context, tx *sql.Tx, bankID int, fee decimal.Decimal) (*model.Bank, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"bank_id": bankID,
		"fee":     fee.StringFixed(model.MoneyScale),
	})
	log.Info("Executing query to add commission income")

	bank := &model.Bank{}
	query := `UPDATE banks SET commission_income = commission_income + $2 WHERE id = $1
		RETURNING id, name, commission_income, created_at`
	err := tx.QueryRowContext(ctx, query, bankID, fee).Scan(&bank.ID, &bank.Name, &bank.CommissionIncome, &bank.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute add commission query")
		}
		return nil, err
	}
	return bank, nil
}
