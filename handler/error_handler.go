package handler

import (
	"errors"
	"io"

	"go-bank-ledger/common"
	"go-bank-ledger/service"
)

// CommandFunc runs a command and returns the process exit code.
type CommandFunc func(stdout, stderr io.Writer, c *Command) int

func ErrorHandlingMiddleware(next AppHandler) CommandFunc {
	return func(stdout, stderr io.Writer, c *Command) int {
		if err := next(stdout, c); err != nil {
			err.Send(stderr)
			return err.Code
		}
		return 0
	}
}

// toAppError maps service errors to exit codes; anything unknown becomes an
// internal error reported with fallback.
func toAppError(err error, fallback string) *common.AppError {
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		return common.NewAppError(common.CodeInvalidInput, verr.Message, nil)
	}

	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPin),
		errors.Is(err, service.ErrSameAccountTransfer):
		return common.NewAppError(common.CodeInvalidInput, err.Error(), nil)
	case errors.Is(err, service.ErrAuthenticationFailed):
		return common.NewAppError(common.CodeUnauthorized, err.Error(), nil)
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrSenderAccountNotFound),
		errors.Is(err, service.ErrReceiverAccountNotFound):
		return common.NewAppError(common.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrPhoneExists):
		return common.NewAppError(common.CodeRuleViolation, err.Error(), nil)
	default:
		return common.NewAppError(common.CodeInternal, fallback, err)
	}
}
