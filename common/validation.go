package common

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go-bank-ledger/model"

	"github.com/shopspring/decimal"
)

var (
	// MinimumBalance must remain on an account after any withdrawal or outgoing transfer.
	MinimumBalance = decimal.NewFromInt(100)
	// MaxAmount is the largest amount a single operation may move.
	MaxAmount = decimal.RequireFromString("999999999.99")
)

var (
	emailPattern         = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phonePattern         = regexp.MustCompile(`^[6-9]\d{9}$`)
	pinPattern           = regexp.MustCompile(`^\d{4}$`)
	namePattern          = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	accountNumberPattern = regexp.MustCompile(`^ACC\d+$`)
)

// IsNotEmpty reports whether s has any non-whitespace content.
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidName accepts 2-50 letters and spaces.
func IsValidName(name string) bool {
	if !IsNotEmpty(name) {
		return false
	}
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	return n >= 2 && n <= 50 && namePattern.MatchString(trimmed)
}

// IsValidPhoneNumber accepts a 10-digit mobile number starting with 6-9.
func IsValidPhoneNumber(phone string) bool {
	if !IsNotEmpty(phone) {
		return false
	}
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

func IsValidEmail(email string) bool {
	if !IsNotEmpty(email) {
		return false
	}
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// IsValidPin accepts exactly four digits. Confirmation matching is up to the caller.
func IsValidPin(pin string) bool {
	if !IsNotEmpty(pin) {
		return false
	}
	return pinPattern.MatchString(strings.TrimSpace(pin))
}

// IsValidAmount parses s and checks it with IsValidAmountValue.
func IsValidAmount(s string) bool {
	if !IsNotEmpty(s) {
		return false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return IsValidAmountValue(amount)
}

// IsValidAmountValue accepts 0 < amount <= MaxAmount with no more than two
// significant decimal places. "1.500" passes, "0.004" does not.
func IsValidAmountValue(amount decimal.Decimal) bool {
	return amount.IsPositive() &&
		amount.LessThanOrEqual(MaxAmount) &&
		amount.Equal(amount.Truncate(2))
}

func IsValidAddress(address string) bool {
	if !IsNotEmpty(address) {
		return false
	}
	n := utf8.RuneCountInString(strings.TrimSpace(address))
	return n >= 10 && n <= 200
}

func IsValidAccountNumber(accountNumber string) bool {
	if !IsNotEmpty(accountNumber) {
		return false
	}
	return accountNumberPattern.MatchString(strings.TrimSpace(accountNumber))
}

// IsValidMinimumDeposit checks amount against the floor of the named account type.
// Unknown type names use the savings floor.
func IsValidMinimumDeposit(amount decimal.Decimal, accountType string) bool {
	t := model.AccountType(strings.ToUpper(strings.TrimSpace(accountType)))
	return amount.GreaterThanOrEqual(t.MinimumDeposit())
}

// CanWithdraw reports whether amount can leave an account holding balance
// without dropping it below MinimumBalance.
func CanWithdraw(amount, balance decimal.Decimal) bool {
	return amount.IsPositive() &&
		amount.LessThanOrEqual(balance) &&
		balance.Sub(amount).GreaterThanOrEqual(MinimumBalance)
}

// SanitizeInput trims s and collapses inner whitespace runs to one space.
func SanitizeInput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ValidationMessage is the user-facing hint for a field that failed validation.
func ValidationMessage(field string) string {
	switch strings.ToLower(field) {
	case "name":
		return "Name must contain only letters and spaces (2-50 characters)"
	case "email":
		return "Please enter a valid email address"
	case "phone":
		return "Please enter a valid 10-digit mobile number"
	case "pin":
		return "PIN must be exactly 4 digits"
	case "amount":
		return "Amount must be a positive number with at most 2 decimal places"
	case "address":
		return "Address must be between 10-200 characters"
	case "account":
		return "Please enter a valid account number"
	case "initial_deposit":
		return "Initial deposit is below the account type minimum or has more than 2 decimal places"
	default:
		return "Invalid input for " + field
	}
}
