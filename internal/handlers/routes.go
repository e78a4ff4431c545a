package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mockbank/bank/internal/config"
	"github.com/mockbank/bank/internal/db"
	"github.com/mockbank/bank/internal/middleware"
	"github.com/mockbank/bank/internal/repository"
	"github.com/mockbank/bank/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	gateway := repository.NewPostgresGateway(database)
	ledger := service.NewLedgerService(gateway, &cfg.Ledger, logger)

	handler := NewHandler(ledger, ledger, ledger, ledger, database, logger)

	mux := http.NewServeMux()
	registerRoutes(mux, handler)

	var finalHandler http.Handler = mux

	finalHandler = middleware.FailureInjection(&cfg.App, logger)(finalHandler)

	idempotencyRepo := repository.NewIdempotencyRepository(database)
	finalHandler = middleware.Idempotency(idempotencyRepo, logger)(finalHandler)

	return finalHandler
}

func registerRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.GetHealth)

	mux.HandleFunc("GET /api/v1/accounts/{accountID}", h.GetAccount)
	mux.HandleFunc("GET /api/v1/accounts/{accountID}/transactions", h.GetAccountHistory)
	mux.HandleFunc("POST /api/v1/accounts/{accountID}/deposits", h.CreateDeposit)
	mux.HandleFunc("POST /api/v1/accounts/{accountID}/withdrawals", h.CreateWithdrawal)
	mux.HandleFunc("POST /api/v1/accounts/{accountID}/interest", h.CreateInterestPayment)
	mux.HandleFunc("POST /api/v1/accounts/{accountID}/fees", h.CreateFeeCharge)

	mux.HandleFunc("POST /api/v1/transfers", h.CreateTransfer)
	mux.HandleFunc("GET /api/v1/transactions/{transactionID}", h.GetTransaction)
	mux.HandleFunc("POST /api/v1/transactions/{transactionID}/reversal", h.CreateReversal)
}
