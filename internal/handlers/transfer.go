package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/service"
)

type transferRequest struct {
	SourceAccountID   string          `json:"source_account_id"`
	ReceiverAccountID string          `json:"receiver_account_id"`
	Amount            decimal.Decimal `json:"amount"`
}

// CreateTransfer handles POST /api/v1/transfers
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrCodeInvalidAmount, "invalid request body")
		return
	}

	txn, err := h.transactor.Transfer(r.Context(), req.SourceAccountID, req.ReceiverAccountID, req.Amount)
	if err != nil {
		h.handleServiceError(w, "transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(txn))
}
