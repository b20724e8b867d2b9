package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OperationType string

const (
	OperationCreateAccount OperationType = "create_account"
	OperationCloseAccount  OperationType = "close_account"
	OperationDeposit       OperationType = "deposit"
	OperationWithdraw      OperationType = "withdraw"
	OperationTransfer      OperationType = "transfer"
)

// OperationPayload is implemented by the closed set of audit payload shapes,
// one per OperationType.
type OperationPayload interface {
	Action() OperationType
}

type CreateAccountPayload struct {
	AccountID int `json:"account_id"`
	BankID    int `json:"bank_id"`
}

type CloseAccountPayload struct {
	AccountID int `json:"account_id"`
}

type DepositPayload struct {
	AccountID int             `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type WithdrawPayload struct {
	AccountID int             `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type TransferPayload struct {
	FromAccountID int             `json:"from_account_id"`
	ToAccountID   int             `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
}

func (CreateAccountPayload) Action() OperationType { return OperationCreateAccount }
func (CloseAccountPayload) Action() OperationType  { return OperationCloseAccount }
func (DepositPayload) Action() OperationType       { return OperationDeposit }
func (WithdrawPayload) Action() OperationType      { return OperationWithdraw }
func (TransferPayload) Action() OperationType      { return OperationTransfer }

// OperationLog is an append-only audit entry. Data holds the JSON encoding of
// the payload matching Action.
type OperationLog struct {
	ID        int             `json:"id"`
	ClientID  int             `json:"client_id"`
	Action    OperationType   `json:"action"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewOperationLog encodes payload into a log entry for clientID.
func NewOperationLog(clientID int, payload OperationPayload) (*OperationLog, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", payload.Action(), err)
	}
	return &OperationLog{
		ClientID: clientID,
		Action:   payload.Action(),
		Data:     data,
	}, nil
}

// Payload decodes Data into the shape registered for Action. Unknown fields
// are rejected so that the audit trail stays machine-verifiable.
func (l *OperationLog) Payload() (OperationPayload, error) {
	var target OperationPayload
	switch l.Action {
	case OperationCreateAccount:
		target = &CreateAccountPayload{}
	case OperationCloseAccount:
		target = &CloseAccountPayload{}
	case OperationDeposit:
		target = &DepositPayload{}
	case OperationWithdraw:
		target = &WithdrawPayload{}
	case OperationTransfer:
		target = &TransferPayload{}
	default:
		return nil, fmt.Errorf("unknown operation type %q", l.Action)
	}

	dec := json.NewDecoder(bytes.NewReader(l.Data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", l.Action, err)
	}
	return target, nil
}
