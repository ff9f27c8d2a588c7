// Package engine owns money-movement semantics: deposits, withdrawals
// with approval-threshold branching, the pending-transaction approval
// workflow and history queries.
//
// Every balance mutation runs inside storage.Atomic.WithinTx, so the
// precondition check and the write commit as one unit per account. The
// withdraw and approve paths re-read the balance under the lock; an
// unguarded check-then-debit could drive a balance negative.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

const transactionIDPrefix = "TX"

type Service struct {
	accounts     storage.AccountRepository
	transactions storage.TransactionRepository
	store        storage.Atomic

	// Withdrawals strictly above the threshold are queued as PENDING
	// and debited only on manager approval.
	threshold decimal.Decimal
}

func (s *Service) LoggerComponent() string {
	return "Engine.Service"
}

func New(accounts storage.AccountRepository, transactions storage.TransactionRepository, store storage.Atomic, threshold decimal.Decimal) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		store:        store,
		threshold:    threshold,
	}
}

// Deposit credits the account and records a COMPLETED CREDIT entry in
// the same atomic unit.
func (s *Service) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, performedBy string) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperr.ErrInvalidInput)
	}

	var m *model.Transaction

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		acc, err := tx.AccountForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if acc.Deleted {
			return apperr.ErrAccountNotFound
		}

		if err := tx.UpdateAccountBalance(ctx, accountNumber, acc.Balance.Add(amount)); err != nil {
			return err
		}

		m, err = tx.CreateTransaction(ctx, newTransaction(accountNumber, amount, model.TransactionTypeCredit, model.TransactionStatusCompleted, performedBy))

		return err
	})
	if err != nil {
		return nil, err
	}

	l := logger.Get(ctx, s)
	l.Debug().
		Str("transaction_id", m.TransactionID).
		Str("account_number", accountNumber).
		Msg("Deposit completed")

	return m, nil
}

// Withdraw debits the account immediately, or queues a PENDING DEBIT
// awaiting manager approval when the amount exceeds the threshold. The
// balance check happens before any mutation on both paths; a pending
// withdrawal leaves the balance untouched until approval.
func (s *Service) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, performedBy string) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperr.ErrInvalidInput)
	}

	var m *model.Transaction

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		acc, err := tx.AccountForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if acc.Deleted {
			return apperr.ErrAccountNotFound
		}

		if acc.Balance.LessThan(amount) {
			return apperr.ErrInsufficientBalance
		}

		status := model.TransactionStatusCompleted
		if amount.GreaterThan(s.threshold) {
			status = model.TransactionStatusPending
		} else if err := tx.UpdateAccountBalance(ctx, accountNumber, acc.Balance.Sub(amount)); err != nil {
			return err
		}

		m, err = tx.CreateTransaction(ctx, newTransaction(accountNumber, amount, model.TransactionTypeDebit, status, performedBy))

		return err
	})
	if err != nil {
		return nil, err
	}

	l := logger.Get(ctx, s)
	l.Debug().
		Str("transaction_id", m.TransactionID).
		Str("account_number", accountNumber).
		Str("status", string(m.Status)).
		Msg("Withdrawal recorded")

	return m, nil
}

// Approve resolves a PENDING withdrawal: the balance is re-checked at
// approval time, the debit applied and the status set to COMPLETED in
// one atomic unit. On insufficient balance the transaction stays
// PENDING; it is not auto-rejected.
func (s *Service) Approve(ctx context.Context, transactionID string, approvedBy string) (*model.Transaction, error) {
	var m *model.Transaction

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		m, err = tx.TransactionForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if m.Status != model.TransactionStatusPending {
			return apperr.ErrInvalidTransactionState
		}

		acc, err := tx.AccountForUpdate(ctx, m.AccountNumber)
		if err != nil {
			return err
		}

		if acc.Balance.LessThan(m.Amount) {
			return apperr.ErrInsufficientBalance
		}

		if err := tx.UpdateAccountBalance(ctx, m.AccountNumber, acc.Balance.Sub(m.Amount)); err != nil {
			return err
		}

		if err := tx.ResolveTransaction(ctx, transactionID, model.TransactionStatusCompleted, approvedBy); err != nil {
			return err
		}

		m.Status = model.TransactionStatusCompleted
		m.ApprovedBy = approvedBy

		return nil
	})
	if err != nil {
		return nil, err
	}

	l := logger.Get(ctx, s)
	l.Info().
		Str("transaction_id", transactionID).
		Str("approved_by", approvedBy).
		Msg("Withdrawal approved")

	return m, nil
}

// Reject resolves a PENDING withdrawal without touching the balance;
// it was never debited.
func (s *Service) Reject(ctx context.Context, transactionID string, approvedBy string) (*model.Transaction, error) {
	var m *model.Transaction

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		m, err = tx.TransactionForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if m.Status != model.TransactionStatusPending {
			return apperr.ErrInvalidTransactionState
		}

		if err := tx.ResolveTransaction(ctx, transactionID, model.TransactionStatusRejected, approvedBy); err != nil {
			return err
		}

		m.Status = model.TransactionStatusRejected
		m.ApprovedBy = approvedBy

		return nil
	})
	if err != nil {
		return nil, err
	}

	l := logger.Get(ctx, s)
	l.Info().
		Str("transaction_id", transactionID).
		Str("approved_by", approvedBy).
		Msg("Withdrawal rejected")

	return m, nil
}

// HistoryForAccount returns all transactions of an account in store
// order. The existence check counts soft-deleted accounts: history of a
// closed account stays retrievable.
func (s *Service) HistoryForAccount(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	exists, err := s.accounts.Exists(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.ErrAccountNotFound
	}

	return s.transactions.AllByAccountNumber(ctx, accountNumber)
}

// GetByTransactionID returns a single transaction.
func (s *Service) GetByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	return s.transactions.ReadByTransactionID(ctx, transactionID)
}

// ListPending returns all PENDING transactions across accounts.
func (s *Service) ListPending(ctx context.Context) ([]*model.Transaction, error) {
	return s.transactions.AllByStatus(ctx, model.TransactionStatusPending)
}

func newTransaction(accountNumber string, amount decimal.Decimal, typ model.TransactionType, status model.TransactionStatus, performedBy string) *model.Transaction {
	return &model.Transaction{
		ID:            uuid.New(),
		TransactionID: transactionIDPrefix + xid.New().String(),
		AccountNumber: accountNumber,
		Amount:        amount,
		Type:          typ,
		Status:        status,
		CreatedAt:     time.Now(),
		PerformedBy:   performedBy,
	}
}
