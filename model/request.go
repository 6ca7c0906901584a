// file: model/request.go

package model

import "github.com/shopspring/decimal"

// CreateAccountRequest carries everything needed to open an account.
// Field order matters: validation reports the first failing field in declaration order.
type CreateAccountRequest struct {
	CustomerName   string          `json:"name" validate:"bank_name"`
	PhoneNumber    string          `json:"phone" validate:"bank_phone"`
	Email          string          `json:"email" validate:"bank_email"`
	Address        string          `json:"address" validate:"bank_address"`
	Pin            string          `json:"pin" validate:"bank_pin"`
	AccountType    AccountType     `json:"account_type"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}
