package handler

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go-bank-ledger/common"
	"go-bank-ledger/service"
)

const defaultHistoryLimit = 10

// TransactionHandler holds dependencies for statement commands.
type TransactionHandler struct {
	service *service.TransactionService
}

func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// History prints the most recent entries, newest first. --limit 0 prints all.
func (h *TransactionHandler) History(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	fs := newFlagSet("history")
	limit := fs.Int("limit", defaultHistoryLimit, "number of entries, 0 for all")
	if err := parseFlags(fs, c.Args); err != nil {
		return err
	}
	if *limit < 0 {
		return common.NewAppError(common.CodeInvalidInput, "--limit must not be negative", nil)
	}

	transactions := h.service.ByAccount(c.Context(), account.AccountNumber)
	if *limit > 0 {
		transactions = h.service.Recent(c.Context(), account.AccountNumber, *limit)
	}

	if len(transactions) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tBALANCE\tDESCRIPTION")
	for _, t := range transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			common.FormatDateTimeForDisplay(t.Timestamp),
			t.Type.DisplayName(),
			common.FormatAmount(t.Amount),
			common.FormatAmount(t.BalanceAfter),
			t.Description,
		)
	}
	if err := tw.Flush(); err != nil {
		return common.NewAppError(common.CodeInternal, "Could not print transactions", err)
	}
	return nil
}

// Summary prints the balance with lifetime credit and debit totals.
func (h *TransactionHandler) Summary(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	ctx := c.Context()
	fmt.Fprintf(w, "Account Number:  %s\n", account.AccountNumber)
	fmt.Fprintf(w, "Current Balance: %s\n", common.FormatAmount(account.Balance))
	fmt.Fprintf(w, "Total Deposited: %s\n", common.FormatAmount(h.service.TotalDeposited(ctx, account.AccountNumber)))
	fmt.Fprintf(w, "Total Withdrawn: %s\n", common.FormatAmount(h.service.TotalWithdrawn(ctx, account.AccountNumber)))
	fmt.Fprintf(w, "Transactions:    %d\n", len(h.service.ByAccount(ctx, account.AccountNumber)))
	return nil
}

// Export writes the account statement as delimited text.
func (h *TransactionHandler) Export(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	fs := newFlagSet("export")
	out := fs.String("out", "", "destination file")
	if err := parseFlags(fs, c.Args); err != nil {
		return err
	}
	destination := strings.TrimSpace(*out)
	if destination == "" {
		destination = account.AccountNumber + "_transactions.csv"
	}

	if err := h.service.ExportToText(c.Context(), account.AccountNumber, destination); err != nil {
		return common.NewAppError(common.CodeInternal, "Could not export transactions", err)
	}

	fmt.Fprintf(w, "Transactions exported to %s\n", destination)
	return nil
}
