package webhook

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the payload posted to the configured endpoint.
type Event struct {
	Kind          string          `json:"kind"`
	TransactionID string          `json:"transaction_id"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	PerformedBy   string          `json:"performed_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EventKindPendingApproval marks a withdrawal queued for manager approval.
const EventKindPendingApproval = "withdrawal.pending_approval"
