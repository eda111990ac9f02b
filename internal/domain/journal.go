package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocType identifies the kind of business document behind a journal batch.
type DocType string

const (
	DocTypeSalesInvoice   DocType = "SALES_INVOICE"
	DocTypeSalesPaymentIn DocType = "SALES_PAYMENT_IN"
	DocTypeDepreciation   DocType = "DEPRECIATION"
	DocTypePOSSale        DocType = "POS_SALE"
)

// Valid reports whether the doc type is one of the known variants.
func (d DocType) Valid() bool {
	switch d {
	case DocTypeSalesInvoice, DocTypeSalesPaymentIn, DocTypeDepreciation, DocTypePOSSale:
		return true
	}
	return false
}

// JournalBatch is the unit of double-entry posting for one business
// document. At most one batch exists per (CompanyID, DocType, DocID);
// the database enforces this with a unique index, which doubles as the
// posting idempotency key. Batches are immutable once created.
type JournalBatch struct {
	ID        int64
	Reference string
	CompanyID int64
	OutletID  *int64
	DocType   DocType
	DocID     int64
	PostedAt  time.Time
}

// JournalLine is one debit-or-credit entry within a batch. Exactly one
// of Debit/Credit is strictly positive, the other is exactly zero.
type JournalLine struct {
	ID          int64
	BatchID     int64
	CompanyID   int64
	OutletID    *int64
	AccountID   int64
	LineDate    time.Time
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// DebitLine builds a normalized debit line.
func DebitLine(companyID int64, outletID *int64, accountID int64, date time.Time, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{
		CompanyID:   companyID,
		OutletID:    outletID,
		AccountID:   accountID,
		LineDate:    date,
		Debit:       NormalizeMoney(amount),
		Credit:      decimal.Zero,
		Description: description,
	}
}

// CreditLine builds a normalized credit line.
func CreditLine(companyID int64, outletID *int64, accountID int64, date time.Time, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{
		CompanyID:   companyID,
		OutletID:    outletID,
		AccountID:   accountID,
		LineDate:    date,
		Debit:       decimal.Zero,
		Credit:      NormalizeMoney(amount),
		Description: description,
	}
}

// Validate checks the one-sided shape invariant for a single line.
func (l *JournalLine) Validate() error {
	debit := ToMinorUnits(l.Debit)
	credit := ToMinorUnits(l.Credit)

	if debit < 0 || credit < 0 {
		return fmt.Errorf("%w: negative amount on account %d", ErrInvalidJournalLineShape, l.AccountID)
	}

	if (debit > 0) == (credit > 0) {
		return fmt.Errorf("%w: account %d debit=%s credit=%s", ErrInvalidJournalLineShape, l.AccountID, l.Debit, l.Credit)
	}

	return nil
}

// ValidateJournalLines checks the shape invariant on every line and the
// balance invariant across the set, in minor units. Both must hold
// before any batch write.
func ValidateJournalLines(lines []JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: no lines", ErrUnbalancedJournal)
	}

	var debits, credits int64
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return err
		}

		debits += ToMinorUnits(lines[i].Debit)
		credits += ToMinorUnits(lines[i].Credit)
	}

	if debits != credits {
		return fmt.Errorf("%w: debits=%s credits=%s", ErrUnbalancedJournal,
			FromMinorUnits(debits), FromMinorUnits(credits))
	}

	return nil
}

// PostingRequest is the ephemeral unit of work handed to the posting
// service. It is never persisted.
type PostingRequest struct {
	DocType   DocType
	DocID     int64
	CompanyID int64
	OutletID  *int64
}

// Validate validates the request fields.
func (r *PostingRequest) Validate() error {
	if !r.DocType.Valid() {
		return fmt.Errorf("unknown doc type %q", r.DocType)
	}

	if r.DocID <= 0 {
		return fmt.Errorf("doc id must be positive, got %d", r.DocID)
	}

	if r.CompanyID <= 0 {
		return fmt.Errorf("company id must be positive, got %d", r.CompanyID)
	}

	return nil
}
