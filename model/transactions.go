package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit        TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal     TransactionType = "WITHDRAWAL"
	TransactionTypeTransferIn     TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut    TransactionType = "TRANSFER_OUT"
	TransactionTypeBalanceInquiry TransactionType = "BALANCE_INQUIRY"
)

// StatusSuccess is the only status recorded today; failed attempts are never logged.
const StatusSuccess = "SUCCESS"

// DisplayName returns the label used in statements and exports.
func (t TransactionType) DisplayName() string {
	switch t {
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdrawal:
		return "Withdrawal"
	case TransactionTypeTransferIn:
		return "Transfer In"
	case TransactionTypeTransferOut:
		return "Transfer Out"
	case TransactionTypeBalanceInquiry:
		return "Balance Inquiry"
	default:
		return string(t)
	}
}

// IsCredit reports whether the type adds money to the account.
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeTransferIn
}

// IsDebit reports whether the type takes money out of the account.
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeWithdrawal || t == TransactionTypeTransferOut
}

type Transaction struct {
	TransactionID     string          `json:"transaction_id"`
	AccountNumber     string          `json:"account_number"`
	Type              TransactionType `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	BalanceAfter      decimal.Decimal `json:"balance_after"`
	Timestamp         time.Time       `json:"timestamp"`
	Description       string          `json:"description"`
	TransferToAccount string          `json:"transfer_to_account,omitempty"`
	Status            string          `json:"status"`
}

// NewTransaction stamps a new successful entry with a fresh ID and the current time.
func NewTransaction(accountNumber string, txType TransactionType, amount, balanceAfter decimal.Decimal, description string) *Transaction {
	return &Transaction{
		TransactionID: NewTransactionID(),
		AccountNumber: accountNumber,
		Type:          txType,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Timestamp:     time.Now(),
		Description:   description,
		Status:        StatusSuccess,
	}
}

// NewTransactionID returns "TXN" followed by 32 hex characters.
func NewTransactionID() string {
	return "TXN" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
