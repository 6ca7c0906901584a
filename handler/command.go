package handler

import (
	"context"
	"flag"
	"io"
	"strings"

	"go-bank-ledger/common"

	"github.com/shopspring/decimal"
)

// Command is one parsed invocation: the command name, its own arguments,
// and the credentials given through the global flags.
type Command struct {
	ctx     context.Context
	Name    string
	Args    []string
	Account string
	Pin     string
}

func NewCommand(ctx context.Context, name string, args []string, account, pin string) *Command {
	return &Command{ctx: ctx, Name: name, Args: args, Account: account, Pin: pin}
}

func (c *Command) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// WithContext returns a shallow copy of c carrying ctx.
func (c *Command) WithContext(ctx context.Context) *Command {
	c2 := *c
	c2.ctx = ctx
	return &c2
}

// AppHandler runs a command, writing its output to w.
type AppHandler func(w io.Writer, c *Command) *common.AppError

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) *common.AppError {
	if err := fs.Parse(args); err != nil {
		return common.NewAppError(common.CodeInvalidInput, err.Error(), nil)
	}
	return nil
}

// parseAmount checks the raw input before converting it.
func parseAmount(raw string) (decimal.Decimal, *common.AppError) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !common.IsValidAmount(raw) {
		return decimal.Zero, common.NewAppError(common.CodeInvalidInput, common.ValidationMessage("amount"), nil)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, common.NewAppError(common.CodeInvalidInput, common.ValidationMessage("amount"), nil)
	}
	return amount, nil
}
