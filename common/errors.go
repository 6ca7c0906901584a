package common

import (
	"fmt"
	"io"

	"go-bank-ledger/logger"

	"github.com/sirupsen/logrus"
)

// Exit codes used by the command line front end.
const (
	CodeInternal       = 1
	CodeInvalidInput   = 2
	CodeUnauthorized   = 3
	CodeNotFound       = 4
	CodeRuleViolation  = 5
	CodeUnknownCommand = 64
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Send logs the underlying error, if any, and prints the message for the user.
func (e *AppError) Send(w io.Writer) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"exit_code":      e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	fmt.Fprintf(w, "Error: %s\n", e.Message)
}

// ValidationError names the first input field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
