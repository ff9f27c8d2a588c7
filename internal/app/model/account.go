package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a customer account. AccountNumber is the external-facing
// identifier; ID is the storage key and never leaves the service.
type Account struct {
	ID            uuid.UUID       `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	AccountNumber string          `json:"account_number"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	Deleted       bool            `json:"-"`
}
