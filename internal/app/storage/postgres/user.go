package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

// storage.UserRepository interface implementation
var _ storage.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) LoggerComponent() string {
	return "UserRepository"
}

func NewUserRepository(db *sql.DB) (*UserRepository, error) {
	s := &UserRepository{
		db: db,
	}
	return s, nil
}

// Create implementation of interface storage.UserRepository.
// Password hashing happens in the database with pgcrypto.
func (r *UserRepository) Create(ctx context.Context, m *model.User) (*model.User, error) {
	const SQL = `
		INSERT INTO users (username, password, role, active)
		VALUES ($1, crypt($2, gen_salt('bf')), $3, $4)
		RETURNING id
`

	err := r.db.QueryRowContext(ctx, SQL, m.Name, m.Password, m.Role, m.Active).Scan(&m.ID)
	if err != nil {
		if pgErr, ok := err.(*pg.Error); ok {
			if pgerrcode.IsIntegrityConstraintViolation(string(pgErr.Code)) {
				return nil, apperr.ErrConflict
			}
		}

		return nil, fmt.Errorf("insert: %w", err)
	}

	m.Password = ""

	return m, nil
}

// Read implementation of interface storage.UserRepository
func (r *UserRepository) Read(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const SQL = `
		SELECT id, username, role, active
		FROM users
		WHERE id=$1
`
	return r.readRow(r.db.QueryRowContext(ctx, SQL, id))
}

// ReadByName implementation of interface storage.UserRepository
func (r *UserRepository) ReadByName(ctx context.Context, name string) (*model.User, error) {
	const SQL = `
		SELECT id, username, role, active
		FROM users
		WHERE username=$1
`
	return r.readRow(r.db.QueryRowContext(ctx, SQL, name))
}

// ReadByNameAndPassword implementation of interface storage.UserRepository
func (r *UserRepository) ReadByNameAndPassword(ctx context.Context, name string, password string) (*model.User, error) {
	const SQL = `
		SELECT id, username, role, active
		FROM users
		WHERE username=$1
		AND password=crypt($2, password)
`
	return r.readRow(r.db.QueryRowContext(ctx, SQL, name, password))
}

// AllByRole implementation of interface storage.UserRepository
func (r *UserRepository) AllByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	const SQL = `
		SELECT id, username, role, active
		FROM users
		WHERE role=$1
		ORDER BY username
`
	rows, err := r.db.QueryContext(ctx, SQL, role)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.User, 0)

	for rows.Next() {
		m := &model.User{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Active); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return res, nil
}

// SetActive implementation of interface storage.UserRepository
func (r *UserRepository) SetActive(ctx context.Context, name string, active bool) error {
	const SQL = `
		UPDATE users
		SET active=$1
		WHERE username=$2
`
	res, err := r.db.ExecContext(ctx, SQL, active, name)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// Exists implementation of interface storage.UserRepository
func (r *UserRepository) Exists(ctx context.Context, name string) (bool, error) {
	const SQL = `
		SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)
`
	var exists bool
	if err := r.db.QueryRowContext(ctx, SQL, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("select: %w", err)
	}

	return exists, nil
}

func (r *UserRepository) readRow(row *sql.Row) (*model.User, error) {
	m := &model.User{}

	err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}
