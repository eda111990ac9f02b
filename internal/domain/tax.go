package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// TaxRate is a configured tax rate for a company. Rates sharing one
// computation must agree on IsInclusive.
type TaxRate struct {
	ID          int64
	CompanyID   int64
	Code        string
	Name        string
	RatePercent decimal.Decimal
	IsInclusive bool
	IsActive    bool
}

// TaxAllocation is the tax amount attributed to a single rate.
type TaxAllocation struct {
	TaxRateID int64
	Amount    decimal.Decimal
}

// TaxSplit is the result of allocating tax over an ordered rate list.
// Sum of Allocations always equals TotalTax to the cent.
type TaxSplit struct {
	Base        decimal.Decimal
	TotalTax    decimal.Decimal
	Inclusive   bool
	Allocations []TaxAllocation
}

// AllocateTax splits tax for grossAmount across an ordered, non-empty
// list of rates. For inclusive rates the base is extracted from the
// gross; for exclusive rates the gross is the base. Per-rate amounts are
// rounded individually and the rounding remainder is added entirely to
// the last rate in the list, so order must be stable (callers order by
// rate id).
func AllocateTax(grossAmount decimal.Decimal, rates []TaxRate) (TaxSplit, error) {
	if len(rates) == 0 {
		return TaxSplit{}, fmt.Errorf("allocate tax: empty rate list")
	}

	inclusive := rates[0].IsInclusive
	totalRate := decimal.Zero
	for _, r := range rates {
		if r.IsInclusive != inclusive {
			return TaxSplit{}, fmt.Errorf("%w: rate %d", ErrMixedTaxInclusive, r.ID)
		}

		totalRate = totalRate.Add(r.RatePercent)
	}

	gross := NormalizeMoney(grossAmount)

	if totalRate.LessThanOrEqual(decimal.Zero) {
		allocations := make([]TaxAllocation, 0, len(rates))
		for _, r := range rates {
			allocations = append(allocations, TaxAllocation{TaxRateID: r.ID, Amount: decimal.Zero})
		}

		return TaxSplit{
			Base:        gross,
			TotalTax:    decimal.Zero,
			Inclusive:   inclusive,
			Allocations: allocations,
		}, nil
	}

	var base, expectedTotal decimal.Decimal
	if inclusive {
		divisor := decimal.NewFromInt(1).Add(totalRate.Div(oneHundred))
		base = NormalizeMoney(gross.Div(divisor))
		expectedTotal = NormalizeMoney(gross.Sub(base))
	} else {
		base = gross
		expectedTotal = NormalizeMoney(base.Mul(totalRate).Div(oneHundred))
	}

	allocations := make([]TaxAllocation, 0, len(rates))
	allocated := decimal.Zero
	for _, r := range rates {
		amount := NormalizeMoney(base.Mul(r.RatePercent).Div(oneHundred))
		allocated = allocated.Add(amount)
		allocations = append(allocations, TaxAllocation{TaxRateID: r.ID, Amount: amount})
	}

	// The last-listed rate absorbs the whole rounding remainder.
	remainder := expectedTotal.Sub(allocated)
	if !remainder.IsZero() {
		last := len(allocations) - 1
		allocations[last].Amount = NormalizeMoney(allocations[last].Amount.Add(remainder))
	}

	return TaxSplit{
		Base:        base,
		TotalTax:    expectedTotal,
		Inclusive:   inclusive,
		Allocations: allocations,
	}, nil
}
