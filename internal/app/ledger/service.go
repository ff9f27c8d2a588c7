// Package ledger owns the account lifecycle: creation, administrative
// rename/rebalance, soft-deletion and lookup. Money movement lives in
// the engine package.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

const accountNumberPrefix = "AC"

const (
	nameMinLen = 2
	nameMaxLen = 100
)

type Service struct {
	accounts storage.AccountRepository
	store    storage.Atomic
}

func (s *Service) LoggerComponent() string {
	return "Ledger.Service"
}

func New(accounts storage.AccountRepository, store storage.Atomic) *Service {
	return &Service{
		accounts: accounts,
		store:    store,
	}
}

// ListActive returns all non-deleted accounts in store order.
func (s *Service) ListActive(ctx context.Context) ([]*model.Account, error) {
	return s.accounts.AllActive(ctx)
}

// GetByNumber returns the active account with the given number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*model.Account, error) {
	return s.accounts.ReadByNumber(ctx, number)
}

// Create opens an account with a freshly assigned account number.
// The store's unique constraint is the hard uniqueness guarantee; the
// generated number only makes collisions negligible.
func (s *Service) Create(ctx context.Context, name string, initialBalance decimal.Decimal) (*model.Account, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", apperr.ErrInvalidInput)
	}

	m := &model.Account{
		AccountNumber: NewAccountNumber(),
		Name:          strings.TrimSpace(name),
		Balance:       initialBalance,
	}

	return s.accounts.Create(ctx, m)
}

// SoftDelete marks an account deleted. Its transactions stay retrievable
// through the engine's history lookup.
func (s *Service) SoftDelete(ctx context.Context, number string) error {
	return s.accounts.SoftDelete(ctx, number)
}

// Update overwrites name and balance of an active account directly,
// bypassing the transaction ledger. This is an administrative override:
// a balance set here is not reconstructable from transaction history,
// so every use is logged at warn level. The overwrite runs inside the
// atomic unit so it cannot interleave with a concurrent deposit or
// approval on the same account.
func (s *Service) Update(ctx context.Context, number string, name string, balance decimal.Decimal) (*model.Account, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance must not be negative", apperr.ErrInvalidInput)
	}

	var m *model.Account

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		acc, err := tx.AccountForUpdate(ctx, number)
		if err != nil {
			return err
		}
		if acc.Deleted {
			return apperr.ErrAccountNotFound
		}

		l := logger.Get(ctx, s)
		l.Warn().
			Str("account_number", number).
			Str("old_balance", acc.Balance.String()).
			Str("new_balance", balance.String()).
			Msg("Administrative account override")

		acc.Name = strings.TrimSpace(name)
		acc.Balance = balance

		if err := tx.UpdateAccount(ctx, acc); err != nil {
			return err
		}
		m = acc

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NewAccountNumber generates an external-facing account number.
func NewAccountNumber() string {
	return accountNumberPrefix + xid.New().String()
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < nameMinLen || len(trimmed) > nameMaxLen {
		return fmt.Errorf("%w: name must be %d-%d characters", apperr.ErrInvalidInput, nameMinLen, nameMaxLen)
	}

	return nil
}
