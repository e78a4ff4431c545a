package handlers

import "net/http"

// GetTransaction handles GET /api/v1/transactions/{transactionID}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("transactionID")

	txn, err := h.directory.GetTransaction(r.Context(), transactionID)
	if err != nil {
		h.handleServiceError(w, "get_transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionResponse(txn))
}

// CreateReversal handles POST /api/v1/transactions/{transactionID}/reversal
func (h *Handler) CreateReversal(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("transactionID")

	txn, err := h.reverser.Reverse(r.Context(), transactionID)
	if err != nil {
		h.handleServiceError(w, "reverse", err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionResponse(txn))
}
