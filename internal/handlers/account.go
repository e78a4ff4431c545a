package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/service"
)

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetAccount handles GET /api/v1/accounts/{accountID}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	acct, err := h.directory.GetAccount(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, "get_account", err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(acct))
}

// GetAccountHistory handles GET /api/v1/accounts/{accountID}/transactions
func (h *Handler) GetAccountHistory(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	history, err := h.directory.AccountHistory(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, "get_account_history", err)
		return
	}

	resp := historyResponse{
		AccountID:    accountID,
		Transactions: make([]transactionResponse, 0, len(history)),
	}
	for _, txn := range history {
		resp.Transactions = append(resp.Transactions, newTransactionResponse(txn))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateDeposit handles POST /api/v1/accounts/{accountID}/deposits
func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeInvalidAmount, "invalid request body")
		return
	}

	txn, err := h.transactor.Deposit(r.Context(), accountID, req.Amount)
	if err != nil {
		h.handleServiceError(w, "deposit", err)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(txn))
}

// CreateWithdrawal handles POST /api/v1/accounts/{accountID}/withdrawals
func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeInvalidAmount, "invalid request body")
		return
	}

	txn, err := h.transactor.Withdraw(r.Context(), accountID, req.Amount)
	if err != nil {
		h.handleServiceError(w, "withdraw", err)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(txn))
}
