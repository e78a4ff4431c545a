package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mockbank/bank/internal/service"
)

// errorResponse is the JSON body returned for all non-2xx responses.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Nothing useful to do if the client disconnected mid-write
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// statusForServiceError maps a service error code to an HTTP status.
func statusForServiceError(code string) int {
	switch code {
	case service.ErrCodeInvalidAmount,
		service.ErrCodeSameAccount,
		service.ErrCodeUnknownTransactionType,
		service.ErrCodeWrongAccountType:
		return http.StatusBadRequest
	case service.ErrCodeAccountNotFound,
		service.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case service.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case service.ErrCodePolicyViolation:
		return http.StatusUnprocessableEntity
	case service.ErrCodeNotReversible,
		service.ErrCodeAlreadyReversed:
		return http.StatusConflict
	case service.ErrCodePersistenceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// handleServiceError writes the appropriate error response for a service
// failure. Unexpected errors are logged and reported as internal errors
// without leaking detail to the client.
func (h *Handler) handleServiceError(w http.ResponseWriter, op string, err error) {
	svcErr := extractServiceError(err)
	if svcErr == nil {
		h.logger.Error("unexpected error", "operation", op, "error", err)
		writeError(w, http.StatusInternalServerError, service.ErrCodeInternalError, "internal error")
		return
	}

	writeError(w, statusForServiceError(svcErr.Code), svcErr.Code, svcErr.Message)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
