package models

import "errors"

// Domain errors that can be returned by gateways and repositories
var (
	// ErrNotFound indicates the requested owner, account or transaction was not found
	ErrNotFound = errors.New("not found")
)
