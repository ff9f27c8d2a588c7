// Package memory is a storage backend holding everything in process
// memory. It backs the service tests and works as a throwaway dev
// backend; durability is explicitly out of its scope.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

// interface implementations
var (
	_ storage.AccountRepository     = (*Store)(nil)
	_ storage.TransactionRepository = (*Store)(nil)
	_ storage.Atomic                = (*Store)(nil)
)

// Store keeps all state under one mutex. WithinTx holds the write lock
// for the whole critical section, which trivially serializes balance
// check-and-mutate pairs; mutations are staged and applied only when
// the scoped function succeeds.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]*model.Account
	acctOrder    []string
	transactions map[string]*model.Transaction
	txnOrder     []string
}

func New() *Store {
	return &Store{
		accounts:     make(map[string]*model.Account),
		transactions: make(map[string]*model.Transaction),
	}
}

func (s *Store) LoggerComponent() string {
	return "MemoryStore"
}

// AllActive implementation of interface storage.AccountRepository
func (s *Store) AllActive(_ context.Context) ([]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*model.Account, 0)
	for _, number := range s.acctOrder {
		if m := s.accounts[number]; !m.Deleted {
			cp := *m
			res = append(res, &cp)
		}
	}

	return res, nil
}

// ReadByNumber implementation of interface storage.AccountRepository
func (s *Store) ReadByNumber(_ context.Context, number string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.accounts[number]
	if !ok || m.Deleted {
		return nil, apperr.ErrAccountNotFound
	}
	cp := *m

	return &cp, nil
}

// Exists implementation of interface storage.AccountRepository
func (s *Store) Exists(_ context.Context, number string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.accounts[number]

	return ok, nil
}

// Create implementation of interface storage.AccountRepository
func (s *Store) Create(_ context.Context, m *model.Account) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[m.AccountNumber]; ok {
		return nil, apperr.ErrConflict
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	cp := *m
	s.accounts[m.AccountNumber] = &cp
	s.acctOrder = append(s.acctOrder, m.AccountNumber)

	return m, nil
}

// SoftDelete implementation of interface storage.AccountRepository
func (s *Store) SoftDelete(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.accounts[number]
	if !ok || m.Deleted {
		return apperr.ErrAccountNotFound
	}
	m.Deleted = true

	return nil
}

// ReadByTransactionID implementation of interface storage.TransactionRepository
func (s *Store) ReadByTransactionID(_ context.Context, transactionID string) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperr.ErrTransactionNotFound
	}
	cp := *m

	return &cp, nil
}

// AllByAccountNumber implementation of interface storage.TransactionRepository
func (s *Store) AllByAccountNumber(_ context.Context, number string) ([]*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*model.Transaction, 0)
	for _, id := range s.txnOrder {
		if m := s.transactions[id]; m.AccountNumber == number {
			cp := *m
			res = append(res, &cp)
		}
	}

	return res, nil
}

// AllByStatus implementation of interface storage.TransactionRepository
func (s *Store) AllByStatus(_ context.Context, status model.TransactionStatus) ([]*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*model.Transaction, 0)
	for _, id := range s.txnOrder {
		if m := s.transactions[id]; m.Status == status {
			cp := *m
			res = append(res, &cp)
		}
	}

	return res, nil
}

// WithinTx implementation of interface storage.Atomic
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:        s,
		accounts:     make(map[string]*model.Account),
		transactions: make(map[string]*model.Transaction),
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.commit()

	return nil
}

// memTx stages mutations until commit; the store lock is already held.
type memTx struct {
	store        *Store
	accounts     map[string]*model.Account
	transactions map[string]*model.Transaction
	created      []*model.Transaction
}

var _ storage.Tx = (*memTx)(nil)

// AccountForUpdate implementation of interface storage.Tx
func (t *memTx) AccountForUpdate(_ context.Context, number string) (*model.Account, error) {
	if m, ok := t.accounts[number]; ok {
		cp := *m
		return &cp, nil
	}

	m, ok := t.store.accounts[number]
	if !ok {
		return nil, apperr.ErrAccountNotFound
	}

	cp := *m
	t.accounts[number] = &cp
	out := cp

	return &out, nil
}

// UpdateAccountBalance implementation of interface storage.Tx
func (t *memTx) UpdateAccountBalance(ctx context.Context, number string, balance decimal.Decimal) error {
	if _, ok := t.accounts[number]; !ok {
		if _, err := t.AccountForUpdate(ctx, number); err != nil {
			return err
		}
	}
	t.accounts[number].Balance = balance

	return nil
}

// UpdateAccount implementation of interface storage.Tx
func (t *memTx) UpdateAccount(ctx context.Context, m *model.Account) error {
	if _, ok := t.accounts[m.AccountNumber]; !ok {
		if _, err := t.AccountForUpdate(ctx, m.AccountNumber); err != nil {
			return err
		}
	}

	staged := t.accounts[m.AccountNumber]
	staged.Name = m.Name
	staged.Balance = m.Balance

	return nil
}

// CreateTransaction implementation of interface storage.Tx
func (t *memTx) CreateTransaction(_ context.Context, m *model.Transaction) (*model.Transaction, error) {
	if _, ok := t.store.transactions[m.TransactionID]; ok {
		return nil, apperr.ErrConflict
	}
	if _, ok := t.transactions[m.TransactionID]; ok {
		return nil, apperr.ErrConflict
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	cp := *m
	t.transactions[m.TransactionID] = &cp
	t.created = append(t.created, &cp)

	return m, nil
}

// TransactionForUpdate implementation of interface storage.Tx
func (t *memTx) TransactionForUpdate(_ context.Context, transactionID string) (*model.Transaction, error) {
	if m, ok := t.transactions[transactionID]; ok {
		cp := *m
		return &cp, nil
	}

	m, ok := t.store.transactions[transactionID]
	if !ok {
		return nil, apperr.ErrTransactionNotFound
	}

	cp := *m
	t.transactions[transactionID] = &cp
	out := cp

	return &out, nil
}

// ResolveTransaction implementation of interface storage.Tx
func (t *memTx) ResolveTransaction(ctx context.Context, transactionID string, status model.TransactionStatus, approvedBy string) error {
	if _, ok := t.transactions[transactionID]; !ok {
		if _, err := t.TransactionForUpdate(ctx, transactionID); err != nil {
			return err
		}
	}

	m := t.transactions[transactionID]
	m.Status = status
	m.ApprovedBy = approvedBy

	return nil
}

func (t *memTx) commit() {
	for number, m := range t.accounts {
		t.store.accounts[number] = m
	}

	createdIDs := make(map[string]struct{}, len(t.created))
	for _, m := range t.created {
		t.store.transactions[m.TransactionID] = m
		t.store.txnOrder = append(t.store.txnOrder, m.TransactionID)
		createdIDs[m.TransactionID] = struct{}{}
	}

	for id, m := range t.transactions {
		if _, ok := createdIDs[id]; ok {
			continue
		}
		t.store.transactions[id] = m
	}
}
