package common

import (
	"errors"
	"reflect"
	"strings"

	"go-bank-ledger/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names so errors line up with ValidationMessage keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for tag, fn := range map[string]func(string) bool{
		"bank_name":    IsValidName,
		"bank_phone":   IsValidPhoneNumber,
		"bank_email":   IsValidEmail,
		"bank_address": IsValidAddress,
		"bank_pin":     IsValidPin,
	} {
		pred := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pred(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}

	v.RegisterStructValidation(validateCreateAccount, model.CreateAccountRequest{})
	return v
}

// validateCreateAccount checks the account type and deposit floor. validator
// runs it on every call; Validate reports only the first error, so a deposit
// problem surfaces once every contact field has passed.
func validateCreateAccount(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.CreateAccountRequest)
	accountType, ok := model.ParseAccountType(string(req.AccountType))
	if !ok {
		sl.ReportError(req.AccountType, "account_type", "AccountType", "account_type", "")
		return
	}
	if !IsValidAmountValue(req.InitialDeposit) || !IsValidMinimumDeposit(req.InitialDeposit, string(accountType)) {
		sl.ReportError(req.InitialDeposit, "initial_deposit", "InitialDeposit", "min_deposit", "")
	}
}

// Validate checks payload against its validate tags and returns a
// *ValidationError naming the first failing field.
func Validate(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		field := validationErrors[0].Field()
		return &ValidationError{Field: field, Message: ValidationMessage(field)}
	}
	return err
}
