package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankoffice/internal/app/model"
)

type AccountRepository interface {
	// AllActive returns all non-deleted accounts in store order
	AllActive(ctx context.Context) ([]*model.Account, error)
	// ReadByNumber returns the non-deleted account with the given number
	ReadByNumber(ctx context.Context, number string) (*model.Account, error)
	// Exists reports whether an account with the number was ever created,
	// soft-deleted accounts included
	Exists(ctx context.Context, number string) (bool, error)
	// Create a new model.Account; the account number unique constraint
	// is enforced by the store
	Create(ctx context.Context, m *model.Account) (*model.Account, error)
	// SoftDelete marks a non-deleted account deleted
	SoftDelete(ctx context.Context, number string) error
}

type TransactionRepository interface {
	// ReadByTransactionID returns the transaction with the given external id
	ReadByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error)
	// AllByAccountNumber returns all transactions of the account in store order
	AllByAccountNumber(ctx context.Context, number string) ([]*model.Transaction, error)
	// AllByStatus returns all transactions with the given status, across accounts
	AllByStatus(ctx context.Context, status model.TransactionStatus) ([]*model.Transaction, error)
}

type UserRepository interface {
	// Create a new model.User
	Create(ctx context.Context, m *model.User) (*model.User, error)
	// Read instance of model.User
	Read(ctx context.Context, id uuid.UUID) (*model.User, error)
	// ReadByName instance of model.User
	ReadByName(ctx context.Context, name string) (*model.User, error)
	// ReadByNameAndPassword instance of model.User; used by login
	ReadByNameAndPassword(ctx context.Context, name string, password string) (*model.User, error)
	// AllByRole returns all users with the role
	AllByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	// SetActive toggles the active flag
	SetActive(ctx context.Context, name string, active bool) error
	// Exists reports whether a user with the name exists
	Exists(ctx context.Context, name string) (bool, error)
}

// Atomic runs money movement in a single scoped transaction: everything
// done through the Tx either commits together or not at all, and the
// touched account rows stay locked until then.
type Atomic interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the mutation surface available inside Atomic.WithinTx.
type Tx interface {
	// AccountForUpdate reads and locks an account row regardless of the
	// deleted flag; callers decide whether a deleted account is acceptable
	AccountForUpdate(ctx context.Context, number string) (*model.Account, error)
	// UpdateAccountBalance overwrites the locked account's balance
	UpdateAccountBalance(ctx context.Context, number string, balance decimal.Decimal) error
	// UpdateAccount overwrites name and balance of the locked account
	UpdateAccount(ctx context.Context, m *model.Account) error
	// CreateTransaction appends a ledger entry
	CreateTransaction(ctx context.Context, m *model.Transaction) (*model.Transaction, error)
	// TransactionForUpdate reads and locks a transaction row
	TransactionForUpdate(ctx context.Context, transactionID string) (*model.Transaction, error)
	// ResolveTransaction moves a transaction to a terminal status
	ResolveTransaction(ctx context.Context, transactionID string, status model.TransactionStatus, approvedBy string) error
}
