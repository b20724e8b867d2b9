package router

import (
	"net/http"

	_ "bank-ledger/docs"
	"bank-ledger/handler"
	"bank-ledger/service"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Clients      *handler.ClientHandler
	Accounts     *handler.AccountHandler
	Transactions *handler.TransactionHandler
	Banks        *handler.BankHandler
}

func NewRouter(h Handlers, auth *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	protected := handler.AuthMiddleware(auth)
	admin := func(next http.Handler) http.Handler {
		return protected(handler.AdminMiddleware(next))
	}
	wrap := handler.ErrorHandlingMiddleware

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /register", wrap(h.Clients.Register))
	mux.Handle("POST /login", wrap(h.Clients.Login))
	mux.Handle("GET /api/me", protected(wrap(h.Clients.Me)))

	mux.Handle("POST /api/accounts", protected(wrap(h.Accounts.OpenAccount)))
	mux.Handle("GET /api/accounts", protected(wrap(h.Accounts.ListAccounts)))
	mux.Handle("GET /api/accounts/{accountId}", protected(wrap(h.Accounts.GetAccount)))
	mux.Handle("DELETE /api/accounts/{accountId}", protected(wrap(h.Accounts.CloseAccount)))
	mux.Handle("GET /api/accounts/{accountId}/balance", protected(wrap(h.Accounts.GetBalance)))
	mux.Handle("POST /api/accounts/{accountId}/deposit", protected(wrap(h.Accounts.Deposit)))
	mux.Handle("POST /api/accounts/{accountId}/withdraw", protected(wrap(h.Accounts.Withdraw)))
	mux.Handle("GET /api/accounts/{accountId}/transactions", protected(wrap(h.Transactions.ListTransactionsForAccount)))
	mux.Handle("GET /api/operations", protected(wrap(h.Accounts.ListOperations)))
	mux.Handle("GET /api/transactions", protected(wrap(h.Transactions.ListClientTransactions)))

	mux.Handle("POST /api/transfers", protected(wrap(h.Transactions.CreateTransfer)))
	mux.Handle("GET /api/transfers/fee", protected(wrap(h.Transactions.QuoteTransferFee)))

	mux.Handle("GET /api/banks", protected(wrap(h.Banks.ListBanks)))
	mux.Handle("GET /api/banks/{bankId}", protected(wrap(h.Banks.GetBank)))

	mux.Handle("POST /api/admin/banks", admin(wrap(h.Banks.CreateBank)))
	mux.Handle("POST /api/admin/banks/{bankId}/branches", admin(wrap(h.Banks.CreateBranch)))
	mux.Handle("GET /api/admin/banks/{bankId}/branches", admin(wrap(h.Banks.ListBranches)))
	mux.Handle("GET /api/admin/banks/{bankId}/commission", admin(wrap(h.Banks.GetCommission)))
	mux.Handle("GET /api/admin/banks/{bankId}/summary", admin(wrap(h.Banks.GetBankSummary)))
	mux.Handle("POST /api/admin/branches/{branchId}/deposit", admin(wrap(h.Banks.DepositToBranch)))

	return mux
}
