package handler

import (
	"net/http"
	"strconv"

	"bank-ledger/common"
	"bank-ledger/model"
	"bank-ledger/service"

	"github.com/shopspring/decimal"
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	ledger   *service.LedgerService
	accounts *AccountHandler
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(ledger *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, accounts: NewAccountHandler(ledger)}
}

// CreateTransfer godoc
// @Summary      Transfer money between accounts
// @Description  Moves money from an account the caller owns. Cross-bank transfers carry a 1% fee taken from the credited amount and paid to the receiving bank.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transfer body model.TransferRequest true "Details of the financial transfer"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Insufficient funds, invalid amount or same account"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "Forbidden: Client does not own the source account"
// @Failure      404  {object}  common.AppError "Sender or receiver account not found"
// @Failure      409  {object}  common.AppError "One of the accounts is closed"
// @Failure      500  {object}  common.AppError "Internal server error while processing transfer"
// @Router       /api/transfers [post]
func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	clientID, role, appErr := caller(r)
	if appErr != nil {
		return appErr
	}

	// The same-account check runs before the ownership lookup so that it never touches storage.
	if req.FromAccountID != req.ToAccountID {
		from, err := h.ledger.GetAccount(r.Context(), req.FromAccountID)
		if err != nil {
			return ledgerError(err, "Could not process transfer")
		}
		if from.ClientID != clientID && role != model.RoleAdmin {
			return common.NewAppError(http.StatusForbidden, "Access denied to the source account", nil)
		}
	}

	transaction, err := h.ledger.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount, clientID)
	if err != nil {
		return ledgerError(err, "Could not process transfer")
	}

	common.WriteJSON(w, http.StatusCreated, transaction)
	return nil
}

// QuoteTransferFee godoc
// @Summary      Forecast a transfer fee
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        from    query int    true "Source account ID"
// @Param        to      query int    true "Destination account ID"
// @Param        amount  query string true "Amount to transfer"
// @Success      200  {object}  model.FeeQuote
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/transfers/fee [get]
func (h *TransactionHandler) QuoteTransferFee(w http.ResponseWriter, r *http.Request) *common.AppError {
	q := r.URL.Query()
	from, errFrom := strconv.Atoi(q.Get("from"))
	to, errTo := strconv.Atoi(q.Get("to"))
	amount, errAmount := decimal.NewFromString(q.Get("amount"))
	if errFrom != nil || errTo != nil || errAmount != nil {
		return common.NewAppError(http.StatusBadRequest, "Query parameters from, to and amount are required", nil)
	}

	quote, err := h.ledger.QuoteTransferFee(r.Context(), from, to, amount)
	if err != nil {
		return ledgerError(err, "Could not quote transfer fee")
	}

	common.WriteJSON(w, http.StatusOK, quote)
	return nil
}

// ListTransactionsForAccount godoc
// @Summary      List account transaction history
// @Description  Retrieves the transaction history for a specific account owned by the authenticated client.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "The ID of the account to retrieve transactions for"
// @Success      200  {array}   model.Transaction "A list of transactions for the account"
// @Failure      400  {object}  common.AppError "Invalid account ID in URL path"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "Forbidden: Client does not own the specified account"
// @Failure      404  {object}  common.AppError "Account with the specified ID not found"
// @Failure      500  {object}  common.AppError "Internal server error while retrieving transactions"
// @Router       /api/accounts/{accountId}/transactions [get]
func (h *TransactionHandler) ListTransactionsForAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, _, appErr := h.accounts.ownedAccount(r)
	if appErr != nil {
		return appErr
	}

	transactions, err := h.ledger.ListAccountTransactions(r.Context(), account.ID)
	if err != nil {
		return ledgerError(err, "Could not retrieve transactions")
	}

	common.WriteJSON(w, http.StatusOK, transactions)
	return nil
}

// ListClientTransactions godoc
// @Summary      List my transaction history
// @Description  Retrieves every transaction touching any account of the authenticated client, newest first.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Transaction
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error while retrieving transactions"
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListClientTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	clientID, _, appErr := caller(r)
	if appErr != nil {
		return appErr
	}

	transactions, err := h.ledger.ListClientTransactions(r.Context(), clientID)
	if err != nil {
		return ledgerError(err, "Could not retrieve transactions")
	}

	common.WriteJSON(w, http.StatusOK, transactions)
	return nil
}
