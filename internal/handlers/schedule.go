package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mockbank/bank/internal/models"
	"github.com/mockbank/bank/internal/service"
)

type scheduledResponse struct {
	Amount      decimal.Decimal     `json:"amount"`
	Transaction transactionResponse `json:"transaction"`
}

// CreateInterestPayment handles POST /api/v1/accounts/{accountID}/interest
func (h *Handler) CreateInterestPayment(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	interest, txn, err := h.scheduler.ApplySavingsInterest(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, "apply_interest", err)
		return
	}

	writeJSON(w, http.StatusCreated, scheduledResponse{
		Amount:      interest,
		Transaction: newTransactionResponse(txn),
	})
}

// CreateFeeCharge handles POST /api/v1/accounts/{accountID}/fees. The charge
// depends on the account type: checking accounts pay the fixed monthly fee,
// card accounts pay the minimum payment on the drawn balance.
func (h *Handler) CreateFeeCharge(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	acct, err := h.directory.GetAccount(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, "apply_fee", err)
		return
	}

	switch acct.Type {
	case models.AccountTypeCard:
		fee, txn, err := h.scheduler.ApplyCardFee(r.Context(), accountID)
		if err != nil {
			h.handleServiceError(w, "apply_fee", err)
			return
		}
		writeJSON(w, http.StatusCreated, scheduledResponse{
			Amount:      fee,
			Transaction: newTransactionResponse(txn),
		})
	case models.AccountTypeChecking:
		txn, err := h.scheduler.ApplyCheckingFee(r.Context(), accountID)
		if err != nil {
			h.handleServiceError(w, "apply_fee", err)
			return
		}
		writeJSON(w, http.StatusCreated, scheduledResponse{
			Amount:      txn.Amount,
			Transaction: newTransactionResponse(txn),
		})
	default:
		writeError(w, http.StatusBadRequest, service.ErrCodeWrongAccountType,
			"fees apply to checking and card accounts only")
	}
}
