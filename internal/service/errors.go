package service

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying the operation could succeed. Only
// persistence failures are retryable; policy violations and missing accounts
// are not.
func (e *ServiceError) Retryable() bool {
	return e.Code == ErrCodePersistenceFailure
}

// Common error codes
const (
	ErrCodeInvalidAmount          = "invalid_amount"
	ErrCodeAccountNotFound        = "account_not_found"
	ErrCodeTransactionNotFound    = "transaction_not_found"
	ErrCodeInsufficientFunds      = "insufficient_funds"
	ErrCodePolicyViolation        = "policy_violation"
	ErrCodeUnknownTransactionType = "unknown_transaction_type"
	ErrCodeWrongAccountType       = "wrong_account_type"
	ErrCodeSameAccount            = "same_account"
	ErrCodeNotReversible          = "not_reversible"
	ErrCodeAlreadyReversed        = "already_reversed"
	ErrCodePersistenceFailure     = "persistence_failure"
	ErrCodeInternalError          = "internal_error"
)
