package domain

import "errors"

var (
	// Mapping configuration errors
	ErrOutletAccountMappingMissing = errors.New("outlet account mapping missing")
	ErrOutletPaymentMappingMissing = errors.New("outlet payment method mapping missing")
	ErrUnsupportedPaymentMethod    = errors.New("unsupported payment method")

	// Structural invariant violations
	ErrPOSEmptyPaymentSet         = errors.New("pos sale has no positive payments")
	ErrPOSOverpaymentNotSupported = errors.New("pos sale payments exceed amount due")
	ErrUnbalancedJournal          = errors.New("journal lines do not balance")
	ErrInvalidJournalLineShape    = errors.New("journal line must be strictly one-sided")
	ErrMixedTaxInclusive          = errors.New("tax rates mix inclusive and exclusive modes")

	// Lookup errors
	ErrJournalBatchNotFound    = errors.New("journal batch not found")
	ErrSalesInvoiceNotFound    = errors.New("sales invoice not found")
	ErrSalesPaymentNotFound    = errors.New("sales payment not found")
	ErrDepreciationRunNotFound = errors.New("depreciation run not found")
	ErrPOSTransactionNotFound  = errors.New("pos transaction not found")
)
