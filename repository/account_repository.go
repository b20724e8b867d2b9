package repository

import (
	"context"
	"database/sql"
	"time"

	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account database operations.
// Methods taking a *sql.Tx run inside the caller's unit of work.
type IAccountRepository interface {
	CreateAccount(ctx context.Context, tx *sql.Tx, account *model.Account) error
	GetAccountByID(ctx context.Context, accountID int) (*model.Account, error)
	GetAccountsByClientID(ctx context.Context, clientID int) ([]*model.Account, error)
	GetAccountForUpdate(ctx context.Context, tx *sql.Tx, accountID int) (*model.Account, error)
	UpdateAccountBalance(ctx context.Context, tx *sql.Tx, accountID int, newBalance decimal.Decimal) error
	CloseAccount(ctx context.Context, tx *sql.Tx, accountID int) (time.Time, error)
	GetBankTotals(ctx context.Context, bankID int) (decimal.Decimal, int, error)
}

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `id, bank_id, client_id, balance, created_at, closed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		acc      model.Account
		closedAt sql.NullTime
	)
	if err := row.Scan(&acc.ID, &acc.BankID, &acc.ClientID, &acc.Balance, &acc.CreatedAt, &closedAt); err != nil {
		return nil, err
	}
	if closedAt.Valid {
		value := closedAt.Time
		acc.ClosedAt = &value
	}
	return &acc, nil
}

// CreateAccount inserts a new zero-balance account.
func (r *AccountRepository) CreateAccount(ctx context.Context, tx *sql.Tx, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"bank_id":   account.BankID,
		"client_id": account.ClientID,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (bank_id, client_id) VALUES ($1, $2) RETURNING id, balance, created_at`
	err := tx.QueryRowContext(ctx, query, account.BankID, account.ClientID).Scan(&account.ID, &account.Balance, &account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetAccountByID reads an account without locking it.
func (r *AccountRepository) GetAccountByID(ctx context.Context, accountID int) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get account by ID")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(r.DB.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get account by ID query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByClientID retrieves all accounts, open and closed, owned by a client.
func (r *AccountRepository) GetAccountsByClientID(ctx context.Context, clientID int) ([]*model.Account, error) {
	log := logger.Log.WithField("client_id", clientID)
	log.Info("Executing query to get accounts by client ID")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for accounts by client ID")
		return nil, err
	}
	defer rows.Close()

	accounts := []*model.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// GetAccountForUpdate reads an account and holds its row lock until tx ends.
func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, tx *sql.Tx, accountID int) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get account for update")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	account, err := scanAccount(tx.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"new_balance": newBalance.StringFixed(model.MoneyScale),
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1 WHERE id = $2 AND closed_at IS NULL`
	res, err := tx.ExecContext(ctx, query, newBalance, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return requireOneRow(res)
}

// CloseAccount stamps closed_at on an open account and returns the timestamp.
func (r *AccountRepository) CloseAccount(ctx context.Context, tx *sql.Tx, accountID int) (time.Time, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to close account")

	var closedAt time.Time
	query := `UPDATE accounts SET closed_at = NOW() WHERE id = $1 AND closed_at IS NULL RETURNING closed_at`
	if err := tx.QueryRowContext(ctx, query, accountID).Scan(&closedAt); err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute close account query")
		}
		return time.Time{}, err
	}
	return closedAt, nil
}

// GetBankTotals returns the summed balance and the count of open accounts held at a bank.
func (r *AccountRepository) GetBankTotals(ctx context.Context, bankID int) (decimal.Decimal, int, error) {
	log := logger.Log.WithField("bank_id", bankID)
	log.Info("Executing query to get bank account totals")

	var (
		total decimal.Decimal
		count int
	)
	query := `SELECT COALESCE(SUM(balance), 0), COUNT(*) FILTER (WHERE closed_at IS NULL) FROM accounts WHERE bank_id = $1`
	if err := r.DB.QueryRowContext(ctx, query, bankID).Scan(&total, &count); err != nil {
		log.WithError(err).Error("Failed to execute bank totals query")
		return decimal.Decimal{}, 0, err
	}
	return total, count, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
