package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// POS transaction statuses as pushed by offline terminals.
const (
	POSStatusCompleted = "COMPLETED"
	POSStatusPending   = "PENDING"
	POSStatusVoided    = "VOIDED"
)

// POSTransaction is a sale synced from a POS terminal. GrandTotal is the
// gross item sales amount for the transaction.
type POSTransaction struct {
	ID              int64
	CompanyID       int64
	OutletID        int64
	Code            string
	Status          string
	TransactionDate time.Time
	GrandTotal      decimal.Decimal
}

// POSPayment is one payment applied to a POS transaction.
type POSPayment struct {
	ID            int64
	TransactionID int64
	MethodCode    string
	Amount        decimal.Decimal
}

// POSTaxLine is a stored per-rate tax breakdown row captured when the
// sale was rung up. When present, these rows are authoritative and the
// company tax defaults are not consulted.
type POSTaxLine struct {
	ID            int64
	TransactionID int64
	TaxRateID     int64
	IsInclusive   bool
	Amount        decimal.Decimal
}
