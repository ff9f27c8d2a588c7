package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
)

// Transaction is a single ledger entry. Amount and Type are immutable
// after creation; Status only moves PENDING -> COMPLETED or
// PENDING -> REJECTED.
type Transaction struct {
	ID            uuid.UUID         `json:"-"`
	TransactionID string            `json:"transaction_id"`
	AccountNumber string            `json:"account_number"`
	Amount        decimal.Decimal   `json:"amount"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	PerformedBy   string            `json:"performed_by"`
	ApprovedBy    string            `json:"approved_by,omitempty"`
}
