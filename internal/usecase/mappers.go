package usecase

import (
	"context"
	"fmt"

	"github.com/s18id/jurnapod-sub001/internal/domain"
)

// JournalMapper turns one business document into journal lines. Mappers
// only read persisted state; every read goes through tx so backfill and
// live posting see the same snapshot they lock.
type JournalMapper interface {
	MapToJournal(ctx context.Context, tx Transaction, req domain.PostingRequest) ([]domain.JournalLine, error)
}

// MapperDeps bundles the repositories mappers read from.
type MapperDeps struct {
	Invoices         SalesInvoiceRepository
	Payments         SalesPaymentRepository
	DepreciationRuns DepreciationRunRepository
	POS              POSTransactionRepository
	Mappings         AccountMappingRepository
	Taxes            TaxRateRepository
}

// MapperFor selects the mapper for a document type. The switch is
// exhaustive over the DocType variants.
func MapperFor(docType domain.DocType, deps MapperDeps) (JournalMapper, error) {
	switch docType {
	case domain.DocTypeSalesInvoice:
		return NewSalesInvoiceMapper(deps.Invoices, deps.Mappings), nil
	case domain.DocTypeSalesPaymentIn:
		return NewSalesPaymentMapper(deps.Payments, deps.Mappings), nil
	case domain.DocTypeDepreciation:
		return NewDepreciationMapper(deps.DepreciationRuns, deps.Mappings), nil
	case domain.DocTypePOSSale:
		return NewPOSSaleMapper(deps.POS, deps.Mappings, deps.Taxes), nil
	default:
		return nil, fmt.Errorf("no mapper for doc type %q", docType)
	}
}

// SalesInvoiceMapper posts a finalized invoice: AR debit for the grand
// total, revenue credit for the subtotal, tax credit for the stored tax
// amount. The invoice's tax_amount is authoritative; no re-allocation
// happens here.
type SalesInvoiceMapper struct {
	invoices SalesInvoiceRepository
	mappings AccountMappingRepository
}

// NewSalesInvoiceMapper creates a new SalesInvoiceMapper.
func NewSalesInvoiceMapper(invoices SalesInvoiceRepository, mappings AccountMappingRepository) *SalesInvoiceMapper {
	return &SalesInvoiceMapper{invoices: invoices, mappings: mappings}
}

// MapToJournal implements JournalMapper.
func (m *SalesInvoiceMapper) MapToJournal(ctx context.Context, tx Transaction, req domain.PostingRequest) ([]domain.JournalLine, error) {
	inv, err := m.invoices.GetByID(ctx, tx, req.CompanyID, req.DocID)
	if err != nil {
		return nil, err
	}

	hasTax := domain.ToMinorUnits(inv.TaxAmount) > 0

	required := []domain.MappingKey{domain.KeyAR, domain.KeySalesRevenue}
	if hasTax {
		required = append(required, domain.KeySalesTax)
	}

	accounts, err := m.mappings.ResolveAccounts(ctx, tx, inv.CompanyID, inv.OutletID, required)
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalLine{
		domain.DebitLine(inv.CompanyID, inv.OutletID, accounts[domain.KeyAR], inv.InvoiceDate,
			inv.GrandTotal, fmt.Sprintf("Invoice %s receivable", inv.Number)),
		domain.CreditLine(inv.CompanyID, inv.OutletID, accounts[domain.KeySalesRevenue], inv.InvoiceDate,
			inv.Subtotal, fmt.Sprintf("Invoice %s revenue", inv.Number)),
	}

	if hasTax {
		lines = append(lines, domain.CreditLine(inv.CompanyID, inv.OutletID, accounts[domain.KeySalesTax],
			inv.InvoiceDate, inv.TaxAmount, fmt.Sprintf("Invoice %s tax", inv.Number)))
	}

	return lines, nil
}

// SalesPaymentMapper posts an incoming payment: payment-method account
// debit, AR credit. The account is resolved through the outlet mapping
// table by method code, never read off the payment row.
type SalesPaymentMapper struct {
	payments SalesPaymentRepository
	mappings AccountMappingRepository
}

// NewSalesPaymentMapper creates a new SalesPaymentMapper.
func NewSalesPaymentMapper(payments SalesPaymentRepository, mappings AccountMappingRepository) *SalesPaymentMapper {
	return &SalesPaymentMapper{payments: payments, mappings: mappings}
}

// MapToJournal implements JournalMapper.
func (m *SalesPaymentMapper) MapToJournal(ctx context.Context, tx Transaction, req domain.PostingRequest) ([]domain.JournalLine, error) {
	payment, err := m.payments.GetByID(ctx, tx, req.CompanyID, req.DocID)
	if err != nil {
		return nil, err
	}

	method, err := domain.NormalizePaymentMethodCode(payment.MethodCode)
	if err != nil {
		return nil, err
	}

	methodAccount, err := m.mappings.ResolvePaymentAccount(ctx, tx, payment.CompanyID, payment.OutletID, method)
	if err != nil {
		return nil, err
	}

	accounts, err := m.mappings.ResolveAccounts(ctx, tx, payment.CompanyID, payment.OutletID, []domain.MappingKey{domain.KeyAR})
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Payment for invoice %s via %s", payment.InvoiceNumber, method)

	return []domain.JournalLine{
		domain.DebitLine(payment.CompanyID, payment.OutletID, methodAccount, payment.PaidAt,
			payment.Amount, description),
		domain.CreditLine(payment.CompanyID, payment.OutletID, accounts[domain.KeyAR], payment.PaidAt,
			payment.Amount, description),
	}, nil
}

// DepreciationMapper posts one straight-line depreciation period:
// expense debit, accumulated depreciation credit.
type DepreciationMapper struct {
	runs     DepreciationRunRepository
	mappings AccountMappingRepository
}

// NewDepreciationMapper creates a new DepreciationMapper.
func NewDepreciationMapper(runs DepreciationRunRepository, mappings AccountMappingRepository) *DepreciationMapper {
	return &DepreciationMapper{runs: runs, mappings: mappings}
}

// MapToJournal implements JournalMapper.
func (m *DepreciationMapper) MapToJournal(ctx context.Context, tx Transaction, req domain.PostingRequest) ([]domain.JournalLine, error) {
	run, err := m.runs.GetByID(ctx, tx, req.CompanyID, req.DocID)
	if err != nil {
		return nil, err
	}

	accounts, err := m.mappings.ResolveAccounts(ctx, tx, run.CompanyID, run.OutletID, []domain.MappingKey{
		domain.KeyDepreciationExpense,
		domain.KeyAccumDepreciation,
	})
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Depreciation %s - %s", run.Period, run.AssetName)

	return []domain.JournalLine{
		domain.DebitLine(run.CompanyID, run.OutletID, accounts[domain.KeyDepreciationExpense], run.RunDate,
			run.Amount, description),
		domain.CreditLine(run.CompanyID, run.OutletID, accounts[domain.KeyAccumDepreciation], run.RunDate,
			run.Amount, description),
	}, nil
}
