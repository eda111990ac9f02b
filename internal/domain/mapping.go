package domain

import (
	"fmt"
	"strings"
)

// MappingKey is a logical account role resolved per (company, outlet) to
// a concrete ledger account.
type MappingKey string

const (
	KeyCash                MappingKey = "CASH"
	KeyQRIS                MappingKey = "QRIS"
	KeyCard                MappingKey = "CARD"
	KeyBankTransfer        MappingKey = "BANK_TRANSFER"
	KeySalesRevenue        MappingKey = "SALES_REVENUE"
	KeySalesTax            MappingKey = "SALES_TAX"
	KeyAR                  MappingKey = "AR"
	KeyDepreciationExpense MappingKey = "DEPRECIATION_EXPENSE"
	KeyAccumDepreciation   MappingKey = "ACCUMULATED_DEPRECIATION"
)

// MissingMappingError reports every required mapping key that could not
// be resolved for a (company, outlet) pair in one shot.
type MissingMappingError struct {
	CompanyID int64
	OutletID  *int64
	Keys      []MappingKey
}

func (e *MissingMappingError) Error() string {
	keys := make([]string, 0, len(e.Keys))
	for _, k := range e.Keys {
		keys = append(keys, string(k))
	}

	outlet := "none"
	if e.OutletID != nil {
		outlet = fmt.Sprintf("%d", *e.OutletID)
	}

	return fmt.Sprintf("%s: company=%d outlet=%s keys=[%s]",
		ErrOutletAccountMappingMissing, e.CompanyID, outlet, strings.Join(keys, ", "))
}

func (e *MissingMappingError) Unwrap() error {
	return ErrOutletAccountMappingMissing
}

// NormalizePaymentMethodCode uppercases and trims a raw payment method
// code. An empty result means the code cannot identify a method.
func NormalizePaymentMethodCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", fmt.Errorf("%w: empty method code", ErrUnsupportedPaymentMethod)
	}

	return normalized, nil
}
