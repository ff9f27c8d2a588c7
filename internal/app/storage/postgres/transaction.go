package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

// storage.TransactionRepository interface implementation
var _ storage.TransactionRepository = (*TransactionRepository)(nil)

type TransactionRepository struct {
	db *sql.DB
}

func (r *TransactionRepository) LoggerComponent() string {
	return "TransactionRepository"
}

func NewTransactionRepository(db *sql.DB) (*TransactionRepository, error) {
	s := &TransactionRepository{
		db: db,
	}
	return s, nil
}

const transactionColumns = `id, transaction_id, account_number, amount, type, status, created_at, performed_by, coalesce(approved_by, '')`

func scanTransaction(row interface {
	Scan(dest ...interface{}) error
}) (*model.Transaction, error) {
	m := &model.Transaction{}
	err := row.Scan(&m.ID, &m.TransactionID, &m.AccountNumber, &m.Amount, &m.Type, &m.Status, &m.CreatedAt, &m.PerformedBy, &m.ApprovedBy)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ReadByTransactionID implementation of interface storage.TransactionRepository
func (r *TransactionRepository) ReadByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	const SQL = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id=$1
`
	m, err := scanTransaction(r.db.QueryRowContext(ctx, SQL, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// AllByAccountNumber implementation of interface storage.TransactionRepository
func (r *TransactionRepository) AllByAccountNumber(ctx context.Context, number string) ([]*model.Transaction, error) {
	const SQL = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_number=$1
		ORDER BY created_at
`
	return r.queryAll(ctx, SQL, number)
}

// AllByStatus implementation of interface storage.TransactionRepository
func (r *TransactionRepository) AllByStatus(ctx context.Context, status model.TransactionStatus) ([]*model.Transaction, error) {
	const SQL = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status=$1
		ORDER BY created_at
`
	return r.queryAll(ctx, SQL, status)
}

func (r *TransactionRepository) queryAll(ctx context.Context, query string, args ...interface{}) ([]*model.Transaction, error) {
	l := logger.Ctx(ctx).With().Str("method", "queryAll").Logger()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.Transaction, 0)

	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			l.Debug().Err(err).Send()
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return res, nil
}
