// Package handlers implements the HTTP API over the ledger core.
package handlers

import (
	"log/slog"

	"github.com/mockbank/bank/internal/service"
)

// Handler holds the injected service dependencies for all endpoints.
type Handler struct {
	transactor    service.Transactor
	reverser      service.Reverser
	directory     service.Directory
	scheduler     service.Scheduler
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	transactor service.Transactor,
	reverser service.Reverser,
	directory service.Directory,
	scheduler service.Scheduler,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		transactor:    transactor,
		reverser:      reverser,
		directory:     directory,
		scheduler:     scheduler,
		healthChecker: healthChecker,
		logger:        logger,
	}
}
