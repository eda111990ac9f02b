package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a depreciable fixed asset.
type Asset struct {
	ID               int64
	CompanyID        int64
	OutletID         *int64
	Name             string
	PurchaseCost     decimal.Decimal
	SalvageValue     decimal.Decimal
	UsefulLifeMonths int64
	AcquiredAt       time.Time
}

// MonthlyDepreciation computes the straight-line depreciation amount per
// period: (purchase cost - salvage value) / useful life in months.
func (a *Asset) MonthlyDepreciation() (decimal.Decimal, error) {
	if a.UsefulLifeMonths <= 0 {
		return decimal.Zero, fmt.Errorf("asset %d: useful life must be positive, got %d", a.ID, a.UsefulLifeMonths)
	}

	base := a.PurchaseCost.Sub(a.SalvageValue)
	return NormalizeMoney(base.Div(decimal.NewFromInt(a.UsefulLifeMonths))), nil
}

// DepreciationRun is one executed depreciation period for one asset; it
// is the posting document for DocTypeDepreciation.
type DepreciationRun struct {
	ID        int64
	CompanyID int64
	AssetID   int64
	AssetName string
	OutletID  *int64
	Period    string
	RunDate   time.Time
	Amount    decimal.Decimal
}
