package router

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"go-bank-ledger/common"
	"go-bank-ledger/handler"
)

// Invocation is the command line split into global options, command name
// and command arguments.
type Invocation struct {
	ConfigPath string
	LogLevel   string
	Account    string
	Pin        string
	Command    string
	Args       []string
}

// ErrHelp is returned when help was requested instead of a command.
var ErrHelp = errors.New("help requested")

// ParseArgs reads the global flags that precede the command name.
func ParseArgs(args []string) (Invocation, error) {
	var inv Invocation

	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&inv.ConfigPath, "config", ".", "directory containing config.yml")
	fs.StringVar(&inv.LogLevel, "log-level", "", "overrides log.level")
	fs.StringVar(&inv.Account, "account", "", "account number")
	fs.StringVar(&inv.Pin, "pin", "", "account PIN")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return inv, ErrHelp
		}
		return inv, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return inv, ErrHelp
	}
	inv.Command = strings.ToLower(rest[0])
	inv.Args = rest[1:]
	if inv.Command == "help" {
		return inv, ErrHelp
	}
	return inv, nil
}

type route struct {
	run     handler.CommandFunc
	summary string
}

// Router maps command names to handlers.
type Router struct {
	routes map[string]route
}

func NewRouter(auth handler.Authenticator, accountHandler *handler.AccountHandler, transactionHandler *handler.TransactionHandler, healthHandler *handler.HealthHandler) *Router {
	r := &Router{routes: make(map[string]route)}

	r.handle("health", "Check storage backends", handler.ErrorHandlingMiddleware(healthHandler.Health))
	r.handle("open", "Open a new account", handler.ErrorHandlingMiddleware(accountHandler.OpenAccount))

	// Account commands need --account and --pin.
	authed := func(next handler.AppHandler) handler.CommandFunc {
		return handler.ErrorHandlingMiddleware(handler.AuthMiddleware(auth, next))
	}
	r.handle("login", "Verify account number and PIN", authed(accountHandler.Login))
	r.handle("balance", "Show balance and account details", authed(accountHandler.Balance))
	r.handle("deposit", "Deposit money (--amount, --note)", authed(accountHandler.Deposit))
	r.handle("withdraw", "Withdraw money (--amount, --note)", authed(accountHandler.Withdraw))
	r.handle("transfer", "Transfer money (--to, --amount, --note)", authed(accountHandler.Transfer))
	r.handle("change-pin", "Change the PIN (--new)", authed(accountHandler.ChangePin))
	r.handle("history", "List recent transactions (--limit)", authed(transactionHandler.History))
	r.handle("summary", "Show balance and totals", authed(transactionHandler.Summary))
	r.handle("export", "Export transactions as delimited text (--out)", authed(transactionHandler.Export))

	return r
}

func (r *Router) handle(name, summary string, run handler.CommandFunc) {
	r.routes[name] = route{run: run, summary: summary}
}

// Dispatch runs the invocation's command and returns the exit code.
func (r *Router) Dispatch(ctx context.Context, stdout, stderr io.Writer, inv Invocation) int {
	rt, ok := r.routes[inv.Command]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", inv.Command)
		r.PrintUsage(stderr)
		return common.CodeUnknownCommand
	}
	return rt.run(stdout, stderr, handler.NewCommand(ctx, inv.Command, inv.Args, inv.Account, inv.Pin))
}

func (r *Router) PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ledger [--config DIR] [--log-level LEVEL] [--account ACC --pin PIN] <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, r.routes[name].summary)
	}
}
