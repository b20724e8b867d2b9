package repository

import (
	"context"
	"database/sql"

	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for transaction database operations.
// Transactions are append-only: there is no update or delete.
type ITransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *sql.Tx, transaction *model.Transaction) error
	GetTransactionsByAccountID(ctx context.Context, accountID int) ([]*model.Transaction, error)
	GetTransactionsByClientID(ctx context.Context, clientID int) ([]*model.Transaction, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) CreateTransaction(ctx context.Context, tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account_id": transaction.FromAccountID,
		"to_account_id":   transaction.ToAccountID,
		"amount":          transaction.Amount.StringFixed(model.MoneyScale),
		"fee":             transaction.Fee.StringFixed(model.MoneyScale),
		"type":            transaction.Type,
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO transactions (from_account_id, to_account_id, amount, fee, type)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := tx.QueryRowContext(ctx, query,
		transaction.FromAccountID,
		transaction.ToAccountID,
		transaction.Amount,
		transaction.Fee,
		transaction.Type,
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

// GetTransactionsByAccountID retrieves every transaction where the account is either side, newest first.
func (r *TransactionRepository) GetTransactionsByAccountID(ctx context.Context, accountID int) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get transactions by account ID")

	query := `
		SELECT id, from_account_id, to_account_id, amount, fee, type, created_at
		FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions by account ID")
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows, log)
}

// GetTransactionsByClientID retrieves every transaction touching any account
// of the client, newest first. A transfer between two of the client's own
// accounts appears once.
func (r *TransactionRepository) GetTransactionsByClientID(ctx context.Context, clientID int) ([]*model.Transaction, error) {
	log := logger.Log.WithField("client_id", clientID)
	log.Info("Executing query to get transactions by client ID")

	query := `
		SELECT t.id, t.from_account_id, t.to_account_id, t.amount, t.fee, t.type, t.created_at
		FROM transactions t
		WHERE EXISTS (
			SELECT 1 FROM accounts a
			WHERE a.client_id = $1 AND (a.id = t.from_account_id OR a.id = t.to_account_id)
		)
		ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions by client ID")
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows, log)
}

func scanTransactions(rows *sql.Rows, log *logrus.Entry) ([]*model.Transaction, error) {
	transactions := []*model.Transaction{}
	for rows.Next() {
		var (
			t        model.Transaction
			from, to sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &from, &to, &t.Amount, &t.Fee, &t.Type, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		t.FromAccountID = nullableID(from)
		t.ToAccountID = nullableID(to)
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

func nullableID(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	id := int(v.Int64)
	return &id
}
