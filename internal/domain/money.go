package domain

import (
	"github.com/shopspring/decimal"
)

// Money amounts are carried as decimals but normalized to 2 decimal
// places by round-tripping through integer minor units (cents). Balance
// checks compare minor units, never decimal equality on raw values.

// ToMinorUnits converts an amount to integer cents, rounding half away
// from zero.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromMinorUnits converts integer cents back to a 2-decimal amount.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}

// NormalizeMoney rounds an amount to 2 decimal places. Idempotent:
// NormalizeMoney(NormalizeMoney(x)) == NormalizeMoney(x).
func NormalizeMoney(d decimal.Decimal) decimal.Decimal {
	return FromMinorUnits(ToMinorUnits(d))
}
