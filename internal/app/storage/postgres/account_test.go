package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	pg "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/model"
)

var accountColumns = []string{"id", "created_at", "account_number", "name", "balance"}

func TestAccountReadByNumber(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE account_number=\\$1 AND NOT is_deleted").
		WithArgs("AC123").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id, time.Now(), "AC123", "Alice", "1000"))

	r, err := NewAccountRepository(db)
	require.NoError(t, err)

	m, err := r.ReadByNumber(context.Background(), "AC123")
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, "AC123", m.AccountNumber)
	assert.True(t, m.Balance.Equal(decimal.NewFromInt(1000)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountReadByNumberNotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE account_number=\\$1 AND NOT is_deleted").
		WithArgs("ACmissing").
		WillReturnRows(sqlmock.NewRows(accountColumns))

	r, err := NewAccountRepository(db)
	require.NoError(t, err)

	_, err = r.ReadByNumber(context.Background(), "ACmissing")
	assert.ErrorIs(t, err, apperr.ErrAccountNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountExistsIncludesDeleted(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM accounts WHERE account_number=\\$1\\)").
		WithArgs("AC123").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	r, err := NewAccountRepository(db)
	require.NoError(t, err)

	exists, err := r.Exists(context.Background(), "AC123")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountCreateConflict(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("AC123", "Alice", sqlmock.AnyArg()).
		WillReturnError(&pg.Error{Code: "23505"})

	r, err := NewAccountRepository(db)
	require.NoError(t, err)

	_, err = r.Create(context.Background(), &model.Account{
		AccountNumber: "AC123",
		Name:          "Alice",
		Balance:       decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountSoftDelete(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE accounts SET is_deleted=TRUE WHERE account_number=\\$1 AND NOT is_deleted").
		WithArgs("AC123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	r, err := NewAccountRepository(db)
	require.NoError(t, err)

	require.NoError(t, r.SoftDelete(context.Background(), "AC123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountAllActive(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE NOT is_deleted ORDER BY created_at").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(uuid.New(), time.Now(), "AC1", "Alice", "100").
			AddRow(uuid.New(), time.Now(), "AC2", "Bob", "200"))

	r, err := NewAccountRepository(db)
	require.NoError(t, err)

	res, err := r.AllActive(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "AC1", res[0].AccountNumber)
	assert.Equal(t, "AC2", res[1].AccountNumber)

	assert.NoError(t, mock.ExpectationsWereMet())
}
