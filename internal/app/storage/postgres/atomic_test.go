package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

func TestWithinTxCommits(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE account_number=\\$1 FOR UPDATE").
		WithArgs("AC123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "account_number", "name", "balance", "is_deleted"}).
			AddRow(id, time.Now(), "AC123", "Alice", "1000", false))
	mock.ExpectExec("UPDATE accounts SET balance=\\$1 WHERE account_number=\\$2").
		WithArgs(sqlmock.AnyArg(), "AC123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		acc, err := tx.AccountForUpdate(ctx, "AC123")
		if err != nil {
			return err
		}
		assert.False(t, acc.Deleted)

		return tx.UpdateAccountBalance(ctx, "AC123", acc.Balance.Add(decimal.NewFromInt(500)))
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE account_number=\\$1 FOR UPDATE").
		WithArgs("ACmissing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "account_number", "name", "balance", "is_deleted"}))
	mock.ExpectRollback()

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		_, err := tx.AccountForUpdate(ctx, "ACmissing")
		return err
	})
	assert.ErrorIs(t, err, apperr.ErrAccountNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxUpdateAccount(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE account_number=\\$1 FOR UPDATE").
		WithArgs("AC123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "account_number", "name", "balance", "is_deleted"}).
			AddRow(id, time.Now(), "AC123", "Alice", "1000", false))
	mock.ExpectExec("UPDATE accounts SET name=\\$1, balance=\\$2 WHERE account_number=\\$3").
		WithArgs("Alice Cooper", sqlmock.AnyArg(), "AC123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		acc, err := tx.AccountForUpdate(ctx, "AC123")
		if err != nil {
			return err
		}

		acc.Name = "Alice Cooper"
		acc.Balance = decimal.NewFromInt(5000)

		return tx.UpdateAccount(ctx, acc)
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxCreateAndResolveTransaction(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rowID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs("TX1", "AC123", sqlmock.AnyArg(), "DEBIT", "PENDING", sqlmock.AnyArg(), "clerk1", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rowID))
	mock.ExpectExec("UPDATE transactions SET status=\\$1, approved_by=\\$2 WHERE transaction_id=\\$3").
		WithArgs("COMPLETED", "manager", "TX1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		m, err := tx.CreateTransaction(ctx, &model.Transaction{
			TransactionID: "TX1",
			AccountNumber: "AC123",
			Amount:        decimal.NewFromInt(250000),
			Type:          model.TransactionTypeDebit,
			Status:        model.TransactionStatusPending,
			CreatedAt:     time.Now(),
			PerformedBy:   "clerk1",
		})
		if err != nil {
			return err
		}
		assert.Equal(t, rowID, m.ID)

		return tx.ResolveTransaction(ctx, "TX1", model.TransactionStatusCompleted, "manager")
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
