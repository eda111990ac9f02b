package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/s18id/jurnapod-sub001/internal/domain"
)

// POSSaleMapper posts a synced POS sale: one debit per payment method,
// an AR debit for any unpaid remainder, a revenue credit, and a tax
// credit. The revenue/tax split prefers the stored per-rate breakdown;
// without one it falls back to the company's default tax configuration.
type POSSaleMapper struct {
	pos      POSTransactionRepository
	mappings AccountMappingRepository
	taxes    TaxRateRepository
}

// NewPOSSaleMapper creates a new POSSaleMapper.
func NewPOSSaleMapper(pos POSTransactionRepository, mappings AccountMappingRepository, taxes TaxRateRepository) *POSSaleMapper {
	return &POSSaleMapper{pos: pos, mappings: mappings, taxes: taxes}
}

type methodTotal struct {
	method string
	amount decimal.Decimal
}

// MapToJournal implements JournalMapper.
func (m *POSSaleMapper) MapToJournal(ctx context.Context, tx Transaction, req domain.PostingRequest) ([]domain.JournalLine, error) {
	sale, err := m.pos.GetByID(ctx, tx, req.CompanyID, req.DocID)
	if err != nil {
		return nil, err
	}

	methods, paidCents, err := m.paymentTotals(ctx, tx, sale)
	if err != nil {
		return nil, err
	}

	revenue, taxTotal, dueCents, err := m.revenueTaxSplit(ctx, tx, sale)
	if err != nil {
		return nil, err
	}

	if paidCents > dueCents {
		return nil, fmt.Errorf("%w: pos sale %d paid=%s due=%s", domain.ErrPOSOverpaymentNotSupported,
			sale.ID, domain.FromMinorUnits(paidCents), domain.FromMinorUnits(dueCents))
	}

	outletID := &sale.OutletID
	hasTax := domain.ToMinorUnits(taxTotal) > 0
	remainderCents := dueCents - paidCents

	required := []domain.MappingKey{domain.KeySalesRevenue}
	if hasTax {
		required = append(required, domain.KeySalesTax)
	}
	if remainderCents > 0 {
		required = append(required, domain.KeyAR)
	}

	accounts, err := m.mappings.ResolveAccounts(ctx, tx, sale.CompanyID, outletID, required)
	if err != nil {
		return nil, err
	}

	var lines []domain.JournalLine
	for _, mt := range methods {
		accountID, err := m.mappings.ResolvePaymentAccount(ctx, tx, sale.CompanyID, outletID, mt.method)
		if err != nil {
			return nil, err
		}

		lines = append(lines, domain.DebitLine(sale.CompanyID, outletID, accountID, sale.TransactionDate,
			mt.amount, fmt.Sprintf("POS %s payment %s", sale.Code, mt.method)))
	}

	if remainderCents > 0 {
		lines = append(lines, domain.DebitLine(sale.CompanyID, outletID, accounts[domain.KeyAR], sale.TransactionDate,
			domain.FromMinorUnits(remainderCents), fmt.Sprintf("POS %s unpaid remainder", sale.Code)))
	}

	lines = append(lines, domain.CreditLine(sale.CompanyID, outletID, accounts[domain.KeySalesRevenue],
		sale.TransactionDate, revenue, fmt.Sprintf("POS %s sales revenue", sale.Code)))

	if hasTax {
		lines = append(lines, domain.CreditLine(sale.CompanyID, outletID, accounts[domain.KeySalesTax],
			sale.TransactionDate, taxTotal, fmt.Sprintf("POS %s sales tax", sale.Code)))
	}

	return lines, nil
}

// paymentTotals groups positive payments per normalized method code in
// first-seen order. Zero and negative rows are ignored; an empty result
// fails the mapping.
func (m *POSSaleMapper) paymentTotals(ctx context.Context, tx Transaction, sale *domain.POSTransaction) ([]methodTotal, int64, error) {
	payments, err := m.pos.ListPayments(ctx, tx, sale.ID)
	if err != nil {
		return nil, 0, err
	}

	index := make(map[string]int)

	var methods []methodTotal
	var paidCents int64
	for _, p := range payments {
		amount := domain.NormalizeMoney(p.Amount)
		if domain.ToMinorUnits(amount) <= 0 {
			continue
		}

		method, err := domain.NormalizePaymentMethodCode(p.MethodCode)
		if err != nil {
			return nil, 0, fmt.Errorf("pos sale %d payment %d: %w", sale.ID, p.ID, err)
		}

		paidCents += domain.ToMinorUnits(amount)

		if i, ok := index[method]; ok {
			methods[i].amount = methods[i].amount.Add(amount)
			continue
		}

		index[method] = len(methods)
		methods = append(methods, methodTotal{method: method, amount: amount})
	}

	if len(methods) == 0 {
		return nil, 0, fmt.Errorf("%w: pos sale %d", domain.ErrPOSEmptyPaymentSet, sale.ID)
	}

	return methods, paidCents, nil
}

// revenueTaxSplit derives the revenue credit, tax credit, and the amount
// due from payers. A stored tax breakdown wins; otherwise the company
// default rates are applied to the gross amount.
func (m *POSSaleMapper) revenueTaxSplit(ctx context.Context, tx Transaction, sale *domain.POSTransaction) (revenue, taxTotal decimal.Decimal, dueCents int64, err error) {
	gross := domain.NormalizeMoney(sale.GrandTotal)

	taxLines, err := m.pos.ListTaxLines(ctx, tx, sale.ID)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}

	if len(taxLines) > 0 {
		inclusive := taxLines[0].IsInclusive

		taxTotal = decimal.Zero
		for _, tl := range taxLines {
			if tl.IsInclusive != inclusive {
				return decimal.Zero, decimal.Zero, 0,
					fmt.Errorf("%w: pos sale %d tax line %d", domain.ErrMixedTaxInclusive, sale.ID, tl.ID)
			}

			taxTotal = taxTotal.Add(domain.NormalizeMoney(tl.Amount))
		}

		if inclusive {
			revenue = domain.NormalizeMoney(gross.Sub(taxTotal))
			return revenue, taxTotal, domain.ToMinorUnits(gross), nil
		}

		due := domain.NormalizeMoney(gross.Add(taxTotal))
		return gross, taxTotal, domain.ToMinorUnits(due), nil
	}

	defaults, err := m.taxes.GetCompanyDefaults(ctx, tx, sale.CompanyID)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}

	if len(defaults) == 0 {
		return gross, decimal.Zero, domain.ToMinorUnits(gross), nil
	}

	split, err := domain.AllocateTax(gross, defaults)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}

	if split.Inclusive {
		return split.Base, split.TotalTax, domain.ToMinorUnits(gross), nil
	}

	due := domain.NormalizeMoney(gross.Add(split.TotalTax))
	return split.Base, split.TotalTax, domain.ToMinorUnits(due), nil
}
