package handler

import (
	"context"
	"io"

	"go-bank-ledger/common"
	"go-bank-ledger/model"
)

type contextKey string

const AccountKey contextKey = "account"

// Authenticator checks an account number and PIN pair.
type Authenticator interface {
	Authenticate(ctx context.Context, accountNumber, pin string) (*model.Account, error)
}

// AuthMiddleware authenticates the global --account and --pin flags and
// passes the account to next through the context.
func AuthMiddleware(auth Authenticator, next AppHandler) AppHandler {
	return func(w io.Writer, c *Command) *common.AppError {
		if c.Account == "" || c.Pin == "" {
			return common.NewAppError(common.CodeUnauthorized, "--account and --pin are required", nil)
		}

		account, err := auth.Authenticate(c.Context(), c.Account, c.Pin)
		if err != nil {
			return toAppError(err, "Could not authenticate")
		}

		ctx := context.WithValue(c.Context(), AccountKey, account)
		return next(w, c.WithContext(ctx))
	}
}

// AccountFromContext returns the account stored by AuthMiddleware.
func AccountFromContext(ctx context.Context) (*model.Account, bool) {
	account, ok := ctx.Value(AccountKey).(*model.Account)
	return account, ok && account != nil
}

func currentAccount(c *Command) (*model.Account, *common.AppError) {
	account, ok := AccountFromContext(c.Context())
	if !ok {
		return nil, common.NewAppError(common.CodeUnauthorized, "Not logged in", nil)
	}
	return account, nil
}
