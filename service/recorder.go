package service

import (
	"context"
	"database/sql"

	"bank-ledger/model"
	"bank-ledger/repository"
)

// recorder appends the immutable Transaction and OperationLog rows that
// accompany every successful mutation.
type recorder struct {
	transactions repository.ITransactionRepository
	logs         repository.IOperationLogRepository
}

// record inserts t followed by the audit entry for payload.
func (r *recorder) record(ctx context.Context, tx *sql.Tx, t *model.Transaction, clientID int, payload model.OperationPayload) error {
	if err := r.transactions.CreateTransaction(ctx, tx, t); err != nil {
		return err
	}
	return r.audit(ctx, tx, clientID, payload)
}

// audit inserts an OperationLog row only, for lifecycle events without money movement.
func (r *recorder) audit(ctx context.Context, tx *sql.Tx, clientID int, payload model.OperationPayload) error {
	entry, err := model.NewOperationLog(clientID, payload)
	if err != nil {
		return err
	}
	return r.logs.CreateOperationLog(ctx, tx, entry)
}
