package service

import (
	"crypto/subtle"
	"strings"

	"go-bank-ledger/logger"

	"golang.org/x/crypto/bcrypt"
)

// IPinVerifier turns a PIN into its stored form and checks candidates against it.
type IPinVerifier interface {
	Hash(pin string) (string, error)
	Verify(pin, stored string) bool
}

// PlainPinVerifier stores PINs as entered. Comparison is constant time.
type PlainPinVerifier struct{}

func (PlainPinVerifier) Hash(pin string) (string, error) {
	return strings.TrimSpace(pin), nil
}

func (PlainPinVerifier) Verify(pin, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(pin)), []byte(stored)) == 1
}

// BcryptPinVerifier stores salted bcrypt hashes of PINs.
type BcryptPinVerifier struct {
	Cost int
}

func NewBcryptPinVerifier(cost int) *BcryptPinVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPinVerifier{Cost: cost}
}

func (v *BcryptPinVerifier) Hash(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(pin)), v.Cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash PIN")
		return "", err
	}
	return string(bytes), nil
}

func (v *BcryptPinVerifier) Verify(pin, stored string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(strings.TrimSpace(pin)))
	return err == nil
}
