package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product an account was opened as.
type AccountType string

const (
	AccountTypeSavings      AccountType = "SAVINGS"
	AccountTypeCurrent      AccountType = "CURRENT"
	AccountTypeFixedDeposit AccountType = "FIXED_DEPOSIT"
)

// DisplayName returns the human readable label of the account type.
func (t AccountType) DisplayName() string {
	switch t {
	case AccountTypeSavings:
		return "Savings Account"
	case AccountTypeCurrent:
		return "Current Account"
	case AccountTypeFixedDeposit:
		return "Fixed Deposit Account"
	default:
		return string(t)
	}
}

// MinimumDeposit is the smallest initial deposit accepted for the type.
// Unknown types fall back to the savings floor.
func (t AccountType) MinimumDeposit() decimal.Decimal {
	switch t {
	case AccountTypeCurrent:
		return decimal.NewFromInt(5000)
	case AccountTypeFixedDeposit:
		return decimal.NewFromInt(10000)
	default:
		return decimal.NewFromInt(1000)
	}
}

// ParseAccountType accepts the type name in any case, with "-" or " " in place of "_".
func ParseAccountType(s string) (AccountType, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch AccountType(norm) {
	case AccountTypeSavings, AccountTypeCurrent, AccountTypeFixedDeposit:
		return AccountType(norm), true
	}
	return "", false
}

type Account struct {
	AccountNumber string          `json:"account_number"`
	CustomerName  string          `json:"customer_name"`
	PhoneNumber   string          `json:"phone_number"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	AccountType   AccountType     `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	DateCreated   time.Time       `json:"date_created"`
	Pin           string          `json:"pin"`
	IsActive      bool            `json:"is_active"`
}
