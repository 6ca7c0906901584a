package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmailExists             = errors.New("email address already exists")
	ErrPhoneExists             = errors.New("phone number already exists")
	ErrAuthenticationFailed    = errors.New("invalid account number or PIN")
	ErrInvalidAmount           = errors.New("amount must be greater than zero and at most 999999999.99")
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountInactive         = errors.New("account is not active")
	ErrInsufficientFunds       = errors.New("insufficient funds: a minimum balance of 100.00 must remain")
	ErrSameAccountTransfer     = errors.New("cannot transfer money to the same account")
	ErrSenderAccountNotFound   = errors.New("sender account not found")
	ErrReceiverAccountNotFound = errors.New("receiver account not found")
	ErrInvalidPin              = errors.New("PIN must be exactly 4 digits")
)

const (
	accountNumberPrefix = "ACC"

	openingDescription  = "Initial deposit - Account opening"
	depositDescription  = "Cash deposit"
	withdrawDescription = "Cash withdrawal"
	transferDescription = "Transfer between accounts"

	// Compared against when the account number is unknown.
	dummyPin = "0000"
)

// AccountService owns the account collection and every balance mutation.
// Mutations persist a staged snapshot first and only then update memory.
type AccountService struct {
	mu           sync.RWMutex
	repo         repository.IAccountRepository
	transactions *TransactionService
	pins         IPinVerifier
	now          func() time.Time

	accounts map[string]*model.Account
	order    []string
	dummy    string
}

// NewAccountService loads the saved accounts and returns a ready service.
func NewAccountService(ctx context.Context, repo repository.IAccountRepository, transactions *TransactionService, pins IPinVerifier) *AccountService {
	if pins == nil {
		pins = PlainPinVerifier{}
	}

	s := &AccountService{
		repo:         repo,
		transactions: transactions,
		pins:         pins,
		now:          time.Now,
		accounts:     make(map[string]*model.Account),
	}

	for _, a := range repo.LoadAccounts(ctx) {
		if a == nil {
			continue
		}
		if _, dup := s.accounts[a.AccountNumber]; dup {
			logger.Log.WithField("account_number", a.AccountNumber).Warn("Skipping duplicate stored account")
			continue
		}
		s.accounts[a.AccountNumber] = a
		s.order = append(s.order, a.AccountNumber)
	}

	if hashed, err := pins.Hash(dummyPin); err == nil {
		s.dummy = hashed
	}
	return s
}

// CreateAccount validates req, opens the account and records the opening deposit.
func (s *AccountService) CreateAccount(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_type":    req.AccountType,
		"initial_deposit": req.InitialDeposit.String(),
	})

	if err := common.Validate(req); err != nil {
		log.WithError(err).Warn("Account creation rejected")
		return nil, err
	}
	accountType, _ := model.ParseAccountType(string(req.AccountType))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailExistsLocked(req.Email) {
		log.Warn("Account creation rejected: duplicate email")
		return nil, ErrEmailExists
	}
	if s.phoneExistsLocked(req.PhoneNumber) {
		log.Warn("Account creation rejected: duplicate phone number")
		return nil, ErrPhoneExists
	}

	pin, err := s.pins.Hash(req.Pin)
	if err != nil {
		return nil, fmt.Errorf("could not secure PIN: %w", err)
	}

	account := &model.Account{
		AccountNumber: s.nextAccountNumberLocked(),
		CustomerName:  common.SanitizeInput(req.CustomerName),
		PhoneNumber:   common.SanitizeInput(req.PhoneNumber),
		Email:         common.SanitizeInput(req.Email),
		Address:       common.SanitizeInput(req.Address),
		AccountType:   accountType,
		Balance:       req.InitialDeposit,
		DateCreated:   s.now(),
		Pin:           pin,
		IsActive:      true,
	}

	if err := s.commitLocked(ctx, account); err != nil {
		return nil, err
	}
	s.record(ctx, model.NewTransaction(account.AccountNumber, model.TransactionTypeDeposit,
		req.InitialDeposit, req.InitialDeposit, openingDescription))

	log.WithField("account_number", account.AccountNumber).Info("Account created")
	return clone(account), nil
}

// Authenticate returns the account when the number and PIN match an active
// account. Every failure yields ErrAuthenticationFailed.
func (s *AccountService) Authenticate(_ context.Context, accountNumber, pin string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.authenticateLocked(accountNumber, pin)
	if !ok {
		logger.Log.WithField("account_number", strings.TrimSpace(accountNumber)).Warn("Authentication failed")
		return nil, ErrAuthenticationFailed
	}
	return clone(account), nil
}

func (s *AccountService) authenticateLocked(accountNumber, pin string) (*model.Account, bool) {
	accountNumber = strings.TrimSpace(accountNumber)
	if !common.IsNotEmpty(accountNumber) || !common.IsNotEmpty(pin) {
		return nil, false
	}

	account, found := s.accounts[accountNumber]
	stored := s.dummy
	if found {
		stored = account.Pin
	}
	match := s.pins.Verify(pin, stored)

	if !found || !match || !account.IsActive {
		return nil, false
	}
	return account, true
}

// Deposit credits amount to the account and records a DEPOSIT entry.
func (s *AccountService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"amount":         amount.String(),
	})

	if !common.IsValidAmountValue(amount) {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.activeAccountLocked(accountNumber, ErrAccountNotFound)
	if err != nil {
		log.WithError(err).Warn("Deposit rejected")
		return nil, err
	}

	staged := *account
	staged.Balance = staged.Balance.Add(amount)
	if err := s.commitLocked(ctx, &staged); err != nil {
		return nil, err
	}
	s.record(ctx, model.NewTransaction(accountNumber, model.TransactionTypeDeposit,
		amount, staged.Balance, orDefault(description, depositDescription)))

	log.Info("Deposit completed")
	return clone(&staged), nil
}

// Withdraw debits amount as long as the minimum balance remains.
func (s *AccountService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"amount":         amount.String(),
	})

	if !common.IsValidAmountValue(amount) {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.activeAccountLocked(accountNumber, ErrAccountNotFound)
	if err != nil {
		log.WithError(err).Warn("Withdrawal rejected")
		return nil, err
	}
	if !common.CanWithdraw(amount, account.Balance) {
		log.Warn("Withdrawal rejected: insufficient funds")
		return nil, ErrInsufficientFunds
	}

	staged := *account
	staged.Balance = staged.Balance.Sub(amount)
	if err := s.commitLocked(ctx, &staged); err != nil {
		return nil, err
	}
	s.record(ctx, model.NewTransaction(accountNumber, model.TransactionTypeWithdrawal,
		amount, staged.Balance, orDefault(description, withdrawDescription)))

	log.Info("Withdrawal completed")
	return clone(&staged), nil
}

// Transfer moves amount between two active accounts with a single save,
// then records the TRANSFER_OUT and TRANSFER_IN entries.
func (s *AccountService) Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal, description string) error {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account": fromAccountNumber,
		"to_account":   toAccountNumber,
		"amount":       amount.String(),
	})

	log.Info("Starting money transfer process")

	if !common.IsValidAmountValue(amount) {
		return ErrInvalidAmount
	}
	if fromAccountNumber == toAccountNumber {
		return ErrSameAccountTransfer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.activeAccountLocked(fromAccountNumber, ErrSenderAccountNotFound)
	if err != nil {
		log.WithError(err).Warn("Transfer rejected")
		return err
	}
	to, err := s.activeAccountLocked(toAccountNumber, ErrReceiverAccountNotFound)
	if err != nil {
		log.WithError(err).Warn("Transfer rejected")
		return err
	}
	if !common.CanWithdraw(amount, from.Balance) {
		log.Warn("Transfer rejected: insufficient funds")
		return ErrInsufficientFunds
	}

	stagedFrom := *from
	stagedFrom.Balance = stagedFrom.Balance.Sub(amount)
	stagedTo := *to
	stagedTo.Balance = stagedTo.Balance.Add(amount)

	if err := s.commitLocked(ctx, &stagedFrom, &stagedTo); err != nil {
		return err
	}

	desc := orDefault(description, transferDescription)
	debit := model.NewTransaction(fromAccountNumber, model.TransactionTypeTransferOut,
		amount, stagedFrom.Balance, desc+" - Transfer to "+toAccountNumber)
	debit.TransferToAccount = toAccountNumber
	credit := model.NewTransaction(toAccountNumber, model.TransactionTypeTransferIn,
		amount, stagedTo.Balance, desc+" - Transfer from "+fromAccountNumber)

	s.record(ctx, debit)
	s.record(ctx, credit)

	log.Info("Transfer completed successfully")
	return nil
}

// ChangePin replaces the PIN after re-authenticating with oldPin.
func (s *AccountService) ChangePin(ctx context.Context, accountNumber, oldPin, newPin string) error {
	log := logger.Log.WithField("account_number", accountNumber)

	if !common.IsValidPin(newPin) {
		return ErrInvalidPin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.authenticateLocked(accountNumber, oldPin)
	if !ok {
		log.Warn("PIN change rejected: authentication failed")
		return ErrAuthenticationFailed
	}

	pin, err := s.pins.Hash(newPin)
	if err != nil {
		return fmt.Errorf("could not secure PIN: %w", err)
	}

	staged := *account
	staged.Pin = pin
	if err := s.commitLocked(ctx, &staged); err != nil {
		return err
	}

	log.Info("PIN changed")
	return nil
}

func (s *AccountService) GetAccountByNumber(_ context.Context, accountNumber string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountNumber]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return clone(account), nil
}

// EmailExists matches case-insensitively.
func (s *AccountService) EmailExists(_ context.Context, email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailExistsLocked(email)
}

func (s *AccountService) PhoneExists(_ context.Context, phoneNumber string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phoneExistsLocked(phoneNumber)
}

// Count returns the number of accounts held.
func (s *AccountService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *AccountService) emailExistsLocked(email string) bool {
	email = strings.TrimSpace(email)
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (s *AccountService) phoneExistsLocked(phoneNumber string) bool {
	phoneNumber = strings.TrimSpace(phoneNumber)
	for _, a := range s.accounts {
		if a.PhoneNumber == phoneNumber {
			return true
		}
	}
	return false
}

func (s *AccountService) activeAccountLocked(accountNumber string, notFound error) (*model.Account, error) {
	account, ok := s.accounts[accountNumber]
	if !ok {
		return nil, notFound
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	return account, nil
}

// nextAccountNumberLocked derives the number from the creation time in
// milliseconds, stepping forward until it is unused.
func (s *AccountService) nextAccountNumberLocked() string {
	n := s.now().UnixMilli()
	for {
		number := fmt.Sprintf("%s%d", accountNumberPrefix, n)
		if _, taken := s.accounts[number]; !taken {
			return number
		}
		n++
	}
}

// commitLocked saves the collection with updated in place of the current
// entries (new accounts go last) and swaps it in only if the save succeeds.
func (s *AccountService) commitLocked(ctx context.Context, updated ...*model.Account) error {
	pending := make(map[string]*model.Account, len(updated))
	for _, a := range updated {
		pending[a.AccountNumber] = a
	}

	snapshot := make([]*model.Account, 0, len(s.order)+len(updated))
	for _, number := range s.order {
		if a, ok := pending[number]; ok {
			snapshot = append(snapshot, a)
			delete(pending, number)
			continue
		}
		snapshot = append(snapshot, s.accounts[number])
	}
	var added []string
	for _, a := range updated {
		if _, ok := pending[a.AccountNumber]; ok {
			snapshot = append(snapshot, a)
			added = append(added, a.AccountNumber)
		}
	}

	if err := s.repo.SaveAccounts(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	for _, a := range updated {
		s.accounts[a.AccountNumber] = a
	}
	s.order = append(s.order, added...)
	return nil
}

// record appends to the transaction log. The balance change is already
// saved at this point, so a failure is logged rather than returned.
func (s *AccountService) record(ctx context.Context, t *model.Transaction) {
	if s.transactions == nil {
		return
	}
	if err := s.transactions.Record(ctx, t); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"account_number": t.AccountNumber,
			"type":           t.Type,
		}).Error("Balance updated but transaction could not be recorded")
	}
}

func orDefault(description, fallback string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return fallback
}

func clone(a *model.Account) *model.Account {
	c := *a
	return &c
}
