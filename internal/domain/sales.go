package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesInvoice is a posted customer invoice. TaxAmount is authoritative
// for posting; the invoice flow computed it when the document was
// finalized, so the invoice mapper never re-derives it.
type SalesInvoice struct {
	ID          int64
	CompanyID   int64
	OutletID    *int64
	Number      string
	Status      string
	InvoiceDate time.Time
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	GrandTotal  decimal.Decimal
}

// SalesPayment settles (part of) a sales invoice through one payment
// method.
type SalesPayment struct {
	ID            int64
	CompanyID     int64
	OutletID      *int64
	InvoiceID     int64
	InvoiceNumber string
	MethodCode    string
	Amount        decimal.Decimal
	PaidAt        time.Time
}
