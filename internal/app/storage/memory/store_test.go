package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

func TestWithinTxStagesUntilCommit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	_, err := s.Create(ctx, &model.Account{AccountNumber: "AC1", Name: "Alice", Balance: decimal.NewFromInt(100)})
	require.NoError(t, err)

	err = s.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.UpdateAccountBalance(ctx, "AC1", decimal.NewFromInt(200)); err != nil {
			return err
		}

		_, err := tx.CreateTransaction(ctx, &model.Transaction{
			TransactionID: "TX1",
			AccountNumber: "AC1",
			Amount:        decimal.NewFromInt(100),
			Type:          model.TransactionTypeCredit,
			Status:        model.TransactionStatusCompleted,
		})
		return err
	})
	require.NoError(t, err)

	acc, err := s.ReadByNumber(ctx, "AC1")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(200)))

	m, err := s.ReadByTransactionID(ctx, "TX1")
	require.NoError(t, err)
	assert.Equal(t, "AC1", m.AccountNumber)
}

func TestWithinTxDiscardsOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	_, err := s.Create(ctx, &model.Account{AccountNumber: "AC1", Name: "Alice", Balance: decimal.NewFromInt(100)})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.UpdateAccountBalance(ctx, "AC1", decimal.NewFromInt(999)); err != nil {
			return err
		}
		if _, err := tx.CreateTransaction(ctx, &model.Transaction{TransactionID: "TX1", AccountNumber: "AC1"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.ReadByNumber(ctx, "AC1")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)))

	_, err = s.ReadByTransactionID(ctx, "TX1")
	assert.ErrorIs(t, err, apperr.ErrTransactionNotFound)
}

func TestAccountForUpdateReturnsDeleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	_, err := s.Create(ctx, &model.Account{AccountNumber: "AC1", Name: "Alice", Balance: decimal.NewFromInt(100)})
	require.NoError(t, err)
	require.NoError(t, s.SoftDelete(ctx, "AC1"))

	err = s.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		acc, err := tx.AccountForUpdate(ctx, "AC1")
		if err != nil {
			return err
		}
		assert.True(t, acc.Deleted)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateDuplicateAccountNumber(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	_, err := s.Create(ctx, &model.Account{AccountNumber: "AC1", Name: "Alice"})
	require.NoError(t, err)

	_, err = s.Create(ctx, &model.Account{AccountNumber: "AC1", Name: "Bob"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestReadsReturnCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	_, err := s.Create(ctx, &model.Account{AccountNumber: "AC1", Name: "Alice", Balance: decimal.NewFromInt(100)})
	require.NoError(t, err)

	acc, err := s.ReadByNumber(ctx, "AC1")
	require.NoError(t, err)
	acc.Balance = decimal.NewFromInt(999999)
	acc.Name = "Mallory"

	got, err := s.ReadByNumber(ctx, "AC1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
}

func TestExistsCountsDeleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	_, err := s.Create(ctx, &model.Account{AccountNumber: "AC1", Name: "Alice"})
	require.NoError(t, err)
	require.NoError(t, s.SoftDelete(ctx, "AC1"))

	exists, err := s.Exists(ctx, "AC1")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.ReadByNumber(ctx, "AC1")
	assert.ErrorIs(t, err, apperr.ErrAccountNotFound)
}
