package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bank-ledger/config"
	"bank-ledger/db"
	"bank-ledger/handler"
	"bank-ledger/logger"
	"bank-ledger/repository"
	"bank-ledger/router"
	"bank-ledger/service"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// App holds the wired layers of the ledger service.
type App struct {
	DB      *sql.DB
	Router  http.Handler
	Ledger  *service.LedgerService
	Banks   *service.BankService
	Clients *service.ClientService
	Auth    *service.AuthService
}

// New wires repositories, services, handlers and the router around database.
// A nil redisClient disables the account cache.
func New(database *sql.DB, redisClient *redis.Client, cfg config.Config) *App {
	auth := service.NewAuthService(cfg.JWT.SecretKey, cfg.JWT.TTL, bcrypt.DefaultCost)

	var cache *service.AccountCache
	if redisClient != nil {
		cache = service.NewAccountCache(redisClient, cfg.Redis.CacheTTL)
	}

	accountRepo := repository.NewAccountRepository(database)
	bankRepo := repository.NewBankRepository(database)
	branchRepo := repository.NewBranchRepository(database)
	clientRepo := repository.NewClientRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)
	operationLogRepo := repository.NewOperationLogRepository(database)

	ledger := service.NewLedgerService(database, accountRepo, bankRepo, clientRepo, transactionRepo, operationLogRepo, cache)
	banks := service.NewBankService(database, bankRepo, branchRepo, accountRepo)
	clients := service.NewClientService(clientRepo, auth)

	r := router.NewRouter(router.Handlers{
		Clients:      handler.NewClientHandler(clients),
		Accounts:     handler.NewAccountHandler(ledger),
		Transactions: handler.NewTransactionHandler(ledger),
		Banks:        handler.NewBankHandler(banks),
	}, auth)

	return &App{
		DB:      database,
		Router:  r,
		Ledger:  ledger,
		Banks:   banks,
		Clients: clients,
		Auth:    auth,
	}
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Configuration loaded successfully")

	cfg := config.AppConfig
	if cfg.JWT.SecretKey == "" {
		logger.Log.Fatal("jwt.secret_key must be set")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if cfg.Ledger.MigrateOnStart {
		if err := db.Migrate(cfg.MigrationURL()); err != nil {
			logger.Log.Fatalf("Error applying migrations: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = db.ConnectRedis(ctx)
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, account cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	application := New(database, redisClient, cfg)

	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
