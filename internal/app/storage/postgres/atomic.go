package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

// storage.Atomic interface implementation
var _ storage.Atomic = (*Store)(nil)

// Store runs money movement inside a SERIALIZABLE transaction with
// row-level locks on the touched accounts, so concurrent operations on
// one account cannot interleave their balance check and write.
type Store struct {
	db *sql.DB
}

func (s *Store) LoggerComponent() string {
	return "Store"
}

func NewStore(db *sql.DB) (*Store, error) {
	return &Store{db: db}, nil
}

// WithinTx implementation of interface storage.Atomic
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("tx begin: %w", err)
	}

	if err := fn(ctx, &storeTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx commit: %w", err)
	}

	return nil
}

// storage.Tx interface implementation
var _ storage.Tx = (*storeTx)(nil)

type storeTx struct {
	tx *sql.Tx
}

// AccountForUpdate implementation of interface storage.Tx.
// The deleted flag is returned as-is; deposit and withdraw reject deleted
// accounts while approval of an already-queued withdrawal does not.
func (t *storeTx) AccountForUpdate(ctx context.Context, number string) (*model.Account, error) {
	const SQL = `
		SELECT id, created_at, account_number, name, balance, is_deleted
		FROM accounts
		WHERE account_number=$1
		FOR UPDATE
`
	m := &model.Account{}

	err := t.tx.QueryRowContext(ctx, SQL, number).Scan(&m.ID, &m.CreatedAt, &m.AccountNumber, &m.Name, &m.Balance, &m.Deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrAccountNotFound
		}
		return nil, fmt.Errorf("select for update: %w", err)
	}

	return m, nil
}

// UpdateAccountBalance implementation of interface storage.Tx
func (t *storeTx) UpdateAccountBalance(ctx context.Context, number string, balance decimal.Decimal) error {
	const SQL = `
		UPDATE accounts
		SET balance=$1
		WHERE account_number=$2
`
	if _, err := t.tx.ExecContext(ctx, SQL, balance, number); err != nil {
		return fmt.Errorf("balance update: %w", err)
	}

	return nil
}

// UpdateAccount implementation of interface storage.Tx
func (t *storeTx) UpdateAccount(ctx context.Context, m *model.Account) error {
	const SQL = `
		UPDATE accounts
		SET name=$1, balance=$2
		WHERE account_number=$3
`
	if _, err := t.tx.ExecContext(ctx, SQL, m.Name, m.Balance, m.AccountNumber); err != nil {
		return fmt.Errorf("account update: %w", err)
	}

	return nil
}

// CreateTransaction implementation of interface storage.Tx
func (t *storeTx) CreateTransaction(ctx context.Context, m *model.Transaction) (*model.Transaction, error) {
	const SQL = `
		INSERT INTO transactions (transaction_id, account_number, amount, type, status, created_at, performed_by, approved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING id
`

	err := t.tx.QueryRowContext(ctx, SQL,
		m.TransactionID, m.AccountNumber, m.Amount, m.Type, m.Status, m.CreatedAt, m.PerformedBy, m.ApprovedBy,
	).Scan(&m.ID)
	if err != nil {
		if pgErr, ok := err.(*pg.Error); ok {
			if pgerrcode.IsIntegrityConstraintViolation(string(pgErr.Code)) {
				return nil, apperr.ErrConflict
			}
		}

		return nil, fmt.Errorf("insert: %w", err)
	}

	return m, nil
}

// TransactionForUpdate implementation of interface storage.Tx
func (t *storeTx) TransactionForUpdate(ctx context.Context, transactionID string) (*model.Transaction, error) {
	const SQL = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id=$1
		FOR UPDATE
`
	m, err := scanTransaction(t.tx.QueryRowContext(ctx, SQL, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("select for update: %w", err)
	}

	return m, nil
}

// ResolveTransaction implementation of interface storage.Tx
func (t *storeTx) ResolveTransaction(ctx context.Context, transactionID string, status model.TransactionStatus, approvedBy string) error {
	const SQL = `
		UPDATE transactions
		SET status=$1, approved_by=$2
		WHERE transaction_id=$3
`
	if _, err := t.tx.ExecContext(ctx, SQL, status, approvedBy, transactionID); err != nil {
		return fmt.Errorf("status update: %w", err)
	}

	return nil
}
