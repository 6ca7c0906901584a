package handler

import (
	"context"
	"fmt"
	"io"

	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/service"
)

// HealthCheck probes one backend.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	accounts     *service.AccountService
	transactions *service.TransactionService
	checks       []HealthCheck
}

func NewHealthHandler(accounts *service.AccountService, transactions *service.TransactionService, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{accounts: accounts, transactions: transactions, checks: checks}
}

// Health handles `health`: runs every check and prints collection sizes.
func (h *HealthHandler) Health(w io.Writer, c *Command) *common.AppError {
	healthy := true
	for _, check := range h.checks {
		status := "ok"
		if err := check.Check(c.Context()); err != nil {
			logger.Log.WithError(err).WithField("check", check.Name).Error("Health check failed")
			status = "unavailable"
			healthy = false
		}
		fmt.Fprintf(w, "%s: %s\n", check.Name, status)
	}

	if h.accounts != nil {
		fmt.Fprintf(w, "accounts: %d\n", h.accounts.Count())
	}
	if h.transactions != nil {
		fmt.Fprintf(w, "transactions: %d\n", h.transactions.Count())
	}

	if !healthy {
		return common.NewAppError(common.CodeInternal, "Ledger is unhealthy", nil)
	}
	fmt.Fprintln(w, "status: ok")
	return nil
}
