package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

// TaxRateRepository implements usecase.TaxRateRepository.
type TaxRateRepository struct {
	pool *pgxpool.Pool
}

// NewTaxRateRepository creates a new TaxRateRepository.
func NewTaxRateRepository(pool *pgxpool.Pool) *TaxRateRepository {
	return &TaxRateRepository{pool: pool}
}

// GetCompanyDefaults returns the company's default active rates ordered
// by rate id, which fixes the allocation order.
func (r *TaxRateRepository) GetCompanyDefaults(ctx context.Context, tx usecase.Transaction, companyID int64) ([]domain.TaxRate, error) {
	db := dbFrom(r.pool, tx)

	rows, err := db.Query(ctx, `
		SELECT tr.id, tr.company_id, tr.code, tr.name, tr.rate_percent, tr.is_inclusive, tr.is_active
		FROM tax_rates tr
		JOIN company_tax_defaults ctd ON ctd.tax_rate_id = tr.id
		WHERE ctd.company_id = $1 AND tr.is_active
		ORDER BY tr.id`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTaxRates(rows)
}

// GetByIDs returns the requested rates ordered by rate id.
func (r *TaxRateRepository) GetByIDs(ctx context.Context, tx usecase.Transaction, companyID int64, ids []int64) ([]domain.TaxRate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := dbFrom(r.pool, tx)

	rows, err := db.Query(ctx, `
		SELECT id, company_id, code, name, rate_percent, is_inclusive, is_active
		FROM tax_rates
		WHERE company_id = $1 AND id = ANY($2)
		ORDER BY id`,
		companyID, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTaxRates(rows)
}

func scanTaxRates(rows pgx.Rows) ([]domain.TaxRate, error) {
	var rates []domain.TaxRate
	for rows.Next() {
		var rate domain.TaxRate
		var percent pgtype.Numeric

		err := rows.Scan(&rate.ID, &rate.CompanyID, &rate.Code, &rate.Name, &percent, &rate.IsInclusive, &rate.IsActive)
		if err != nil {
			return nil, err
		}

		rate.RatePercent = numericToDecimal(percent)
		rates = append(rates, rate)
	}

	return rates, rows.Err()
}
