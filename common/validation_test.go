package common

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFieldValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) bool
		input string
		want  bool
	}{
		{"name ok", IsValidName, "Jane Doe", true},
		{"name trimmed", IsValidName, "  Al  ", true},
		{"name too short", IsValidName, "J", false},
		{"name too long", IsValidName, strings.Repeat("a", 51), false},
		{"name digits", IsValidName, "Jane 2", false},
		{"name blank", IsValidName, "   ", false},

		{"phone ok", IsValidPhoneNumber, "9876543210", true},
		{"phone trimmed", IsValidPhoneNumber, " 6123456789 ", true},
		{"phone bad prefix", IsValidPhoneNumber, "5876543210", false},
		{"phone short", IsValidPhoneNumber, "987654321", false},

		{"email ok", IsValidEmail, "jane.doe+bank@example.co", true},
		{"email no tld", IsValidEmail, "jane@example", false},
		{"email no at", IsValidEmail, "jane.example.com", false},

		{"pin ok", IsValidPin, "0420", true},
		{"pin five digits", IsValidPin, "12345", false},
		{"pin letters", IsValidPin, "12a4", false},

		{"address ok", IsValidAddress, "12 Baker Street", true},
		{"address short", IsValidAddress, "Main St", false},
		{"address long", IsValidAddress, strings.Repeat("x", 201), false},
		{"address counts characters not bytes", IsValidAddress, "Müllerstr", false},
		{"address ten accented characters", IsValidAddress, "Müllerstr.", true},
		{"address accented within limit", IsValidAddress, strings.Repeat("ü", 150), true},
		{"address accented at limit", IsValidAddress, strings.Repeat("ß", 200), true},
		{"address accented over limit", IsValidAddress, strings.Repeat("ß", 201), false},

		{"account ok", IsValidAccountNumber, "ACC1718000000000", true},
		{"account prefix only", IsValidAccountNumber, "ACC", false},
		{"account lowercase", IsValidAccountNumber, "acc123", false},

		{"amount ok", IsValidAmount, "1500.25", true},
		{"amount max", IsValidAmount, "999999999.99", true},
		{"amount over max", IsValidAmount, "1000000000", false},
		{"amount zero", IsValidAmount, "0", false},
		{"amount negative", IsValidAmount, "-5", false},
		{"amount garbage", IsValidAmount, "12abc", false},
		{"amount trailing zeros", IsValidAmount, "1.500", true},
		{"amount sub-cent", IsValidAmount, "0.004", false},
		{"amount three decimals", IsValidAmount, "10.125", false},
		{"amount empty", IsValidAmount, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.input))
		})
	}
}

func TestIsValidMinimumDeposit(t *testing.T) {
	assert.True(t, IsValidMinimumDeposit(d("1000"), "SAVINGS"))
	assert.False(t, IsValidMinimumDeposit(d("999.99"), "savings"))
	assert.True(t, IsValidMinimumDeposit(d("5000"), "CURRENT"))
	assert.False(t, IsValidMinimumDeposit(d("4999"), "CURRENT"))
	assert.True(t, IsValidMinimumDeposit(d("10000"), "FIXED_DEPOSIT"))
	assert.False(t, IsValidMinimumDeposit(d("9999.99"), "FIXED_DEPOSIT"))
	// unknown types use the savings floor
	assert.True(t, IsValidMinimumDeposit(d("1000"), "PLATINUM"))
	assert.False(t, IsValidMinimumDeposit(d("500"), "PLATINUM"))
}

func TestCanWithdraw(t *testing.T) {
	tests := []struct {
		amount, balance string
		want            bool
	}{
		{"900", "1000", true},
		{"950", "1000", false},
		{"900.01", "1000", false},
		{"0", "1000", false},
		{"-1", "1000", false},
		{"1000", "1000", false},
		{"50", "150", true},
		{"150", "150", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount+"_of_"+tt.balance, func(t *testing.T) {
			assert.Equal(t, tt.want, CanWithdraw(d(tt.amount), d(tt.balance)))
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Jane Doe", SanitizeInput("  Jane \t  Doe \n"))
	assert.Equal(t, "", SanitizeInput(""))
	assert.Equal(t, "", SanitizeInput("   "))
}

func TestValidationMessage(t *testing.T) {
	assert.Equal(t, "PIN must be exactly 4 digits", ValidationMessage("PIN"))
	assert.Equal(t, "Invalid input for nickname", ValidationMessage("nickname"))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1000.00", FormatAmount(d("1000")))
	assert.Equal(t, "0.10", FormatAmount(d("0.1")))

	ts := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, "05/03/2024 07:08:09", FormatDateTime(ts))
	assert.Equal(t, "05 Mar 2024, 07:08:09", FormatDateTimeForDisplay(ts))
	assert.Equal(t, "", FormatDateTime(time.Time{}))
}
