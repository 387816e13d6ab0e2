package domain

import (
	"time"
)

// TransactionType carries the direction of a transaction. Statement rows are
// accepted with whatever lower-cased value they declare; only Credit and
// Debit participate in aggregation.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Transaction represents one normalized statement row. Immutable once
// created; Amount is always >= 0 and the sign lives in Type.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	OwnerRef    string          `json:"ownerRef"`
}

// User is the opaque authenticated identity record. The engine persists and
// clears it but never validates it; authentication lives outside this
// service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
