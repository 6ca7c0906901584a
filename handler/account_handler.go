package handler

import (
	"fmt"
	"io"
	"strings"

	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/service"

	"github.com/sirupsen/logrus"
)

const (
	atmDepositNote    = "Cash deposit via ATM"
	atmWithdrawalNote = "Cash withdrawal via ATM"
	onlineTransfer    = "Online transfer"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// OpenAccount handles `open`: creates an account and prints its number.
func (h *AccountHandler) OpenAccount(w io.Writer, c *Command) *common.AppError {
	fs := newFlagSet("open")
	name := fs.String("name", "", "customer name")
	phone := fs.String("phone", "", "10-digit mobile number")
	email := fs.String("email", "", "email address")
	address := fs.String("address", "", "postal address")
	accountType := fs.String("type", string(model.AccountTypeSavings), "savings, current or fixed_deposit")
	deposit := fs.String("deposit", "", "initial deposit")
	pin := fs.String("pin", c.Pin, "4-digit PIN")
	if err := parseFlags(fs, c.Args); err != nil {
		return err
	}

	amount, appErr := parseAmount(*deposit)
	if appErr != nil {
		return appErr
	}

	parsedType, ok := model.ParseAccountType(*accountType)
	if !ok {
		parsedType = model.AccountType(*accountType)
	}

	logger.Log.WithFields(logrus.Fields{
		"account_type": parsedType,
		"deposit":      amount.String(),
	}).Info("Open account request received")

	account, err := h.service.CreateAccount(c.Context(), model.CreateAccountRequest{
		CustomerName:   *name,
		PhoneNumber:    *phone,
		Email:          *email,
		Address:        *address,
		Pin:            *pin,
		AccountType:    parsedType,
		InitialDeposit: amount,
	})
	if err != nil {
		return toAppError(err, "Could not create account")
	}

	fmt.Fprintln(w, "Account created successfully!")
	fmt.Fprintf(w, "Account Number: %s\n", account.AccountNumber)
	fmt.Fprintf(w, "Account Holder: %s\n", account.CustomerName)
	fmt.Fprintf(w, "Account Type:   %s\n", account.AccountType.DisplayName())
	fmt.Fprintf(w, "Balance:        %s\n", common.FormatAmount(account.Balance))
	fmt.Fprintln(w, "Please note your account number for login.")
	return nil
}

// Login handles `login`, which only confirms the credentials.
func (h *AccountHandler) Login(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	fmt.Fprintf(w, "Welcome, %s!\n", account.CustomerName)
	fmt.Fprintf(w, "Account: %s (%s)\n", account.AccountNumber, account.AccountType.DisplayName())
	return nil
}

func (h *AccountHandler) Balance(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	status := "Active"
	if !account.IsActive {
		status = "Inactive"
	}

	fmt.Fprintf(w, "Account Number:  %s\n", account.AccountNumber)
	fmt.Fprintf(w, "Account Holder:  %s\n", account.CustomerName)
	fmt.Fprintf(w, "Account Type:    %s\n", account.AccountType.DisplayName())
	fmt.Fprintf(w, "Account Status:  %s\n", status)
	fmt.Fprintf(w, "Opened:          %s\n", common.FormatDateTimeForDisplay(account.DateCreated))
	fmt.Fprintf(w, "Current Balance: %s\n", common.FormatAmount(account.Balance))
	return nil
}

func (h *AccountHandler) Deposit(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	fs := newFlagSet("deposit")
	rawAmount := fs.String("amount", "", "amount to deposit")
	note := fs.String("note", atmDepositNote, "description")
	if err := parseFlags(fs, c.Args); err != nil {
		return err
	}
	amount, appErr := parseAmount(*rawAmount)
	if appErr != nil {
		return appErr
	}

	updated, err := h.service.Deposit(c.Context(), account.AccountNumber, amount, *note)
	if err != nil {
		return toAppError(err, "Deposit failed")
	}

	fmt.Fprintf(w, "Successfully deposited %s\n", common.FormatAmount(amount))
	fmt.Fprintf(w, "New balance: %s\n", common.FormatAmount(updated.Balance))
	return nil
}

func (h *AccountHandler) Withdraw(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	fs := newFlagSet("withdraw")
	rawAmount := fs.String("amount", "", "amount to withdraw")
	note := fs.String("note", atmWithdrawalNote, "description")
	if err := parseFlags(fs, c.Args); err != nil {
		return err
	}
	amount, appErr := parseAmount(*rawAmount)
	if appErr != nil {
		return appErr
	}

	updated, err := h.service.Withdraw(c.Context(), account.AccountNumber, amount, *note)
	if err != nil {
		return toAppError(err, "Withdrawal failed")
	}

	fmt.Fprintf(w, "Successfully withdrawn %s\n", common.FormatAmount(amount))
	fmt.Fprintf(w, "New balance: %s\n", common.FormatAmount(updated.Balance))
	return nil
}

func (h *AccountHandler) Transfer(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	fs := newFlagSet("transfer")
	to := fs.String("to", "", "destination account number")
	rawAmount := fs.String("amount", "", "amount to transfer")
	note := fs.String("note", onlineTransfer, "description")
	if err := parseFlags(fs, c.Args); err != nil {
		return err
	}

	destination := strings.TrimSpace(*to)
	if !common.IsValidAccountNumber(destination) {
		return common.NewAppError(common.CodeInvalidInput, common.ValidationMessage("account"), nil)
	}
	amount, appErr := parseAmount(*rawAmount)
	if appErr != nil {
		return appErr
	}

	if err := h.service.Transfer(c.Context(), account.AccountNumber, destination, amount, *note); err != nil {
		return toAppError(err, "Transfer failed")
	}

	fmt.Fprintf(w, "Successfully transferred %s to %s\n", common.FormatAmount(amount), destination)
	if updated, err := h.service.GetAccountByNumber(c.Context(), account.AccountNumber); err == nil {
		fmt.Fprintf(w, "New balance: %s\n", common.FormatAmount(updated.Balance))
	}
	return nil
}

// ChangePin handles `change-pin`; the global --pin is the current PIN.
func (h *AccountHandler) ChangePin(w io.Writer, c *Command) *common.AppError {
	account, appErr := currentAccount(c)
	if appErr != nil {
		return appErr
	}

	fs := newFlagSet("change-pin")
	newPin := fs.String("new", "", "new 4-digit PIN")
	if err := parseFlags(fs, c.Args); err != nil {
		return err
	}
	if strings.TrimSpace(*newPin) == "" {
		return common.NewAppError(common.CodeInvalidInput, "--new is required", nil)
	}

	if err := h.service.ChangePin(c.Context(), account.AccountNumber, c.Pin, *newPin); err != nil {
		return toAppError(err, "PIN change failed")
	}

	fmt.Fprintln(w, "PIN changed successfully!")
	return nil
}
