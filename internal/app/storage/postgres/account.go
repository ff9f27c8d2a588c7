package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

// storage.AccountRepository interface implementation
var _ storage.AccountRepository = (*AccountRepository)(nil)

type AccountRepository struct {
	db *sql.DB
}

func (r *AccountRepository) LoggerComponent() string {
	return "AccountRepository"
}

func NewAccountRepository(db *sql.DB) (*AccountRepository, error) {
	s := &AccountRepository{
		db: db,
	}
	return s, nil
}

// AllActive implementation of interface storage.AccountRepository
func (r *AccountRepository) AllActive(ctx context.Context) ([]*model.Account, error) {
	l := logger.Ctx(ctx).With().Str("method", "AllActive").Logger()

	const SQL = `
		SELECT id, created_at, account_number, name, balance
		FROM accounts
		WHERE NOT is_deleted
		ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, SQL)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.Account, 0)

	for rows.Next() {
		m := &model.Account{}
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.AccountNumber, &m.Name, &m.Balance); err != nil {
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

// ReadByNumber implementation of interface storage.AccountRepository
func (r *AccountRepository) ReadByNumber(ctx context.Context, number string) (*model.Account, error) {
	const SQL = `
		SELECT id, created_at, account_number, name, balance
		FROM accounts
		WHERE account_number=$1 AND NOT is_deleted
`
	m := &model.Account{}

	err := r.db.QueryRowContext(ctx, SQL, number).Scan(&m.ID, &m.CreatedAt, &m.AccountNumber, &m.Name, &m.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrAccountNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// Exists implementation of interface storage.AccountRepository.
// Counts soft-deleted accounts as existing.
func (r *AccountRepository) Exists(ctx context.Context, number string) (bool, error) {
	const SQL = `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number=$1)
`
	var exists bool
	if err := r.db.QueryRowContext(ctx, SQL, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("select: %w", err)
	}

	return exists, nil
}

// Create implementation of interface storage.AccountRepository
func (r *AccountRepository) Create(ctx context.Context, m *model.Account) (*model.Account, error) {
	const SQL = `
		INSERT INTO accounts (account_number, name, balance)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
`

	err := r.db.QueryRowContext(ctx, SQL, m.AccountNumber, m.Name, m.Balance).Scan(&m.ID, &m.CreatedAt)
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

// SoftDelete implementation of interface storage.AccountRepository
func (r *AccountRepository) SoftDelete(ctx context.Context, number string) error {
	const SQL = `
		UPDATE accounts
		SET is_deleted=TRUE
		WHERE account_number=$1 AND NOT is_deleted
`

	res, err := r.db.ExecContext(ctx, SQL, number)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrAccountNotFound
	}

	return nil
}
