package handler

import (
	"net/http"

	"bank-ledger/common"
	"bank-ledger/logger"
	"bank-ledger/model"
	"bank-ledger/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	ledger *service.LedgerService
}

func NewAccountHandler(ledger *service.LedgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

// BalanceResponse is the body returned by the balance endpoint.
type BalanceResponse struct {
	AccountID int             `json:"account_id"`
	Balance   decimal.Decimal `json:"balance" swaggertype:"string" example:"100.00"`
}

// ownedAccount loads the account in the path and checks the caller may act on it.
func (h *AccountHandler) ownedAccount(r *http.Request) (*model.Account, int, *common.AppError) {
	clientID, role, appErr := caller(r)
	if appErr != nil {
		return nil, 0, appErr
	}
	accountID, appErr := pathID(r, "accountId")
	if appErr != nil {
		return nil, 0, appErr
	}

	account, err := h.ledger.GetAccount(r.Context(), accountID)
	if err != nil {
		return nil, 0, ledgerError(err, "Could not load account")
	}
	if account.ClientID != clientID && role != model.RoleAdmin {
		return nil, 0, common.NewAppError(http.StatusForbidden, "Access denied to this account", nil)
	}
	return account, clientID, nil
}

// OpenAccount godoc
// @Summary      Open an account
// @Description  Opens a zero-balance account for the authenticated client at the given bank.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account body model.OpenAccountRequest true "Bank to open the account with"
// @Success      201  {object}  model.Account
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Bank not found"
// @Router       /api/accounts [post]
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.OpenAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	clientID, _, appErr := caller(r)
	if appErr != nil {
		return appErr
	}

	account, err := h.ledger.OpenAccount(r.Context(), req.BankID, clientID)
	if err != nil {
		return ledgerError(err, "Could not open account")
	}

	common.WriteJSON(w, http.StatusCreated, account)
	return nil
}

// ListAccounts godoc
// @Summary      List my accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Account
// @Failure      401  {object}  common.AppError
// @Router       /api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	clientID, _, appErr := caller(r)
	if appErr != nil {
		return appErr
	}

	accounts, err := h.ledger.ListClientAccounts(r.Context(), clientID)
	if err != nil {
		return ledgerError(err, "Could not retrieve accounts")
	}

	common.WriteJSON(w, http.StatusOK, accounts)
	return nil
}

// GetAccount godoc
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "Account ID"
// @Success      200  {object}  model.Account
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountId} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, _, appErr := h.ownedAccount(r)
	if appErr != nil {
		return appErr
	}
	common.WriteJSON(w, http.StatusOK, account)
	return nil
}

// GetBalance godoc
// @Summary      Get an account balance
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "Account ID"
// @Success      200  {object}  BalanceResponse
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountId}/balance [get]
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, _, appErr := h.ownedAccount(r)
	if appErr != nil {
		return appErr
	}

	balance, err := h.ledger.GetBalance(r.Context(), account.ID)
	if err != nil {
		return ledgerError(err, "Could not read balance")
	}

	common.WriteJSON(w, http.StatusOK, BalanceResponse{AccountID: account.ID, Balance: balance})
	return nil
}

// Deposit godoc
// @Summary      Deposit money
// @Description  Credits an open account. Any authenticated client may deposit into an existing account.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "Account ID"
// @Param        deposit body model.AmountRequest true "Amount to deposit"
// @Success      200  {object}  model.Account
// @Failure      400  {object}  common.AppError "Amount must be greater than zero"
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Account is closed"
// @Router       /api/accounts/{accountId}/deposit [post]
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	clientID, _, appErr := caller(r)
	if appErr != nil {
		return appErr
	}
	accountID, appErr := pathID(r, "accountId")
	if appErr != nil {
		return appErr
	}
	var req model.AmountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithFields(logrus.Fields{
		"client_id":  clientID,
		"account_id": accountID,
	}).Info("Deposit request received")

	account, err := h.ledger.Deposit(r.Context(), accountID, req.Amount, clientID)
	if err != nil {
		return ledgerError(err, "Could not process deposit")
	}

	common.WriteJSON(w, http.StatusOK, account)
	return nil
}

// Withdraw godoc
// @Summary      Withdraw money
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "Account ID"
// @Param        withdrawal body model.AmountRequest true "Amount to withdraw"
// @Success      200  {object}  model.Account
// @Failure      400  {object}  common.AppError "Insufficient funds or invalid amount"
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Account is closed"
// @Router       /api/accounts/{accountId}/withdraw [post]
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, clientID, appErr := h.ownedAccount(r)
	if appErr != nil {
		return appErr
	}
	var req model.AmountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	updated, err := h.ledger.Withdraw(r.Context(), account.ID, req.Amount, clientID)
	if err != nil {
		return ledgerError(err, "Could not process withdrawal")
	}

	common.WriteJSON(w, http.StatusOK, updated)
	return nil
}

// CloseAccount godoc
// @Summary      Close an account
// @Description  Soft-closes an account. The balance must be exactly zero.
// @Tags         accounts
// @Security     BearerAuth
// @Param        accountId path int true "Account ID"
// @Success      204
// @Failure      400  {object}  common.AppError "Balance is not zero"
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Account already closed"
// @Router       /api/accounts/{accountId} [delete]
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, clientID, appErr := h.ownedAccount(r)
	if appErr != nil {
		return appErr
	}

	if err := h.ledger.CloseAccount(r.Context(), account.ID, clientID); err != nil {
		return ledgerError(err, "Could not close account")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ListOperations godoc
// @Summary      List my operation history
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.OperationLog
// @Failure      401  {object}  common.AppError
// @Router       /api/operations [get]
func (h *AccountHandler) ListOperations(w http.ResponseWriter, r *http.Request) *common.AppError {
	clientID, _, appErr := caller(r)
	if appErr != nil {
		return appErr
	}

	entries, err := h.ledger.ListClientOperations(r.Context(), clientID)
	if err != nil {
		return ledgerError(err, "Could not retrieve operation history")
	}

	common.WriteJSON(w, http.StatusOK, entries)
	return nil
}
