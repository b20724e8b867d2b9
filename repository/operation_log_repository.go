package repository

import (
	"context"
	"database/sql"

	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/sirupsen/logrus"
)

// IOperationLogRepository defines the contract for the append-only audit log.
type IOperationLogRepository interface {
	CreateOperationLog(ctx context.Context, tx *sql.Tx, entry *model.OperationLog) error
	GetOperationLogsByClientID(ctx context.Context, clientID int) ([]*model.OperationLog, error)
}

type OperationLogRepository struct {
	DB *sql.DB
}

func NewOperationLogRepository(db *sql.DB) *OperationLogRepository {
	return &OperationLogRepository{DB: db}
}

func (r *OperationLogRepository) CreateOperationLog(ctx context.Context, tx *sql.Tx, entry *model.OperationLog) error {
	log := logger.Log.WithFields(logrus.Fields{
		"client_id": entry.ClientID,
		"action":    entry.Action,
	})
	log.Info("Executing query to append operation log")

	query := `INSERT INTO operation_logs (client_id, action, data) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := tx.QueryRowContext(ctx, query, entry.ClientID, entry.Action, []byte(entry.Data)).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute append operation log query")
		return err
	}
	return nil
}

func (r *OperationLogRepository) GetOperationLogsByClientID(ctx context.Context, clientID int) ([]*model.OperationLog, error) {
	log := logger.Log.WithField("client_id", clientID)
	log.Info("Executing query to get operation logs by client ID")

	query := `SELECT id, client_id, action, data, created_at FROM operation_logs WHERE client_id = $1 ORDER BY id DESC`
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for operation logs")
		return nil, err
	}
	defer rows.Close()

	entries := []*model.OperationLog{}
	for rows.Next() {
		var (
			e    model.OperationLog
			data []byte
		)
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Action, &data, &e.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan operation log row")
			return nil, err
		}
		e.Data = data
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
