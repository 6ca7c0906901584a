package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrNilTransaction = errors.New("transaction is required")
	ErrPersistence    = errors.New("could not persist ledger state")
)

// TransactionService owns the append-only transaction log.
type TransactionService struct {
	mu           sync.RWMutex
	repo         repository.ITransactionRepository
	cache        ICacheClient
	cacheTTL     time.Duration
	cacheSpace   string
	transactions []*model.Transaction
	// generations counts recorded entries per account; a statement built at
	// an older generation must not stay in the cache.
	generations map[string]uint64
}

// NewTransactionService loads the saved log. cache may be nil. cacheNamespace
// keeps statements of ledgers sharing one Redis apart.
func NewTransactionService(ctx context.Context, repo repository.ITransactionRepository, cache ICacheClient, cacheTTL time.Duration, cacheNamespace string) *TransactionService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &TransactionService{
		repo:         repo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		cacheSpace:   cacheNamespace,
		transactions: repo.LoadTransactions(ctx),
		generations:  make(map[string]uint64),
	}
}

// Record appends t and persists the whole log. On a failed save the log is left as it was.
func (s *TransactionService) Record(ctx context.Context, t *model.Transaction) error {
	if t == nil {
		return ErrNilTransaction
	}

	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": t.TransactionID,
		"account_number": t.AccountNumber,
		"type":           t.Type,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make([]*model.Transaction, len(s.transactions), len(s.transactions)+1)
	copy(staged, s.transactions)
	staged = append(staged, t)

	if err := s.repo.SaveTransactions(ctx, staged); err != nil {
		log.WithError(err).Error("Failed to record transaction")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.transactions = staged
	s.generations[t.AccountNumber]++

	if s.cache != nil {
		if err := s.cache.Del(ctx, statementCacheKey(s.cacheSpace, t.AccountNumber)).Err(); err != nil {
			log.WithError(err).Warn("Failed to invalidate statement cache")
		}
	}

	log.Info("Transaction recorded")
	return nil
}

// ByAccount returns the account's entries newest first. Entries sharing a
// timestamp come back in reverse recording order.
func (s *TransactionService) ByAccount(ctx context.Context, accountNumber string) []*model.Transaction {
	key := statementCacheKey(s.cacheSpace, accountNumber)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var transactions []*model.Transaction
			if err := json.Unmarshal([]byte(cached), &transactions); err == nil {
				return transactions
			}
		}
	}

	s.mu.RLock()
	transactions := s.byAccountLocked(accountNumber)
	generation := s.generations[accountNumber]
	s.mu.RUnlock()

	if s.cache != nil {
		s.fillStatementCache(ctx, key, accountNumber, generation, transactions)
	}

	return transactions
}

// fillStatementCache stores a statement built at generation. If a Record for
// the account landed meanwhile, its invalidation may have run before our Set,
// so the entry is dropped again.
func (s *TransactionService) fillStatementCache(ctx context.Context, key, accountNumber string, generation uint64, transactions []*model.Transaction) {
	log := logger.Log.WithField("account_number", accountNumber)

	data, err := json.Marshal(transactions)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.WithError(err).Warn("Failed to cache statement")
		return
	}

	s.mu.RLock()
	stale := s.generations[accountNumber] != generation
	s.mu.RUnlock()
	if !stale {
		return
	}
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		log.WithError(err).Warn("Failed to drop stale statement")
	}
}

func (s *TransactionService) byAccountLocked(accountNumber string) []*model.Transaction {
	result := []*model.Transaction{}
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if t := s.transactions[i]; t.AccountNumber == accountNumber {
			entry := *t
			result = append(result, &entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}

// Recent returns at most limit entries of ByAccount.
func (s *TransactionService) Recent(ctx context.Context, accountNumber string, limit int) []*model.Transaction {
	if limit <= 0 {
		return []*model.Transaction{}
	}
	transactions := s.ByAccount(ctx, accountNumber)
	if len(transactions) > limit {
		transactions = transactions[:limit]
	}
	return transactions
}

// TotalDeposited sums deposits and incoming transfers.
func (s *TransactionService) TotalDeposited(_ context.Context, accountNumber string) decimal.Decimal {
	return s.sum(accountNumber, model.TransactionType.IsCredit)
}

// TotalWithdrawn sums withdrawals and outgoing transfers.
func (s *TransactionService) TotalWithdrawn(_ context.Context, accountNumber string) decimal.Decimal {
	return s.sum(accountNumber, model.TransactionType.IsDebit)
}

func (s *TransactionService) sum(accountNumber string, match func(model.TransactionType) bool) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, t := range s.transactions {
		if t.AccountNumber == accountNumber && match(t.Type) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// ExportToText writes the account's statement, newest first, to destination.
func (s *TransactionService) ExportToText(ctx context.Context, accountNumber, destination string) error {
	s.mu.RLock()
	transactions := s.byAccountLocked(accountNumber)
	s.mu.RUnlock()

	if err := s.repo.ExportTransactionsToText(transactions, destination); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Count returns the number of recorded entries.
func (s *TransactionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}
