package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

// AccountMappingRepository implements usecase.AccountMappingRepository
// over outlet_account_mappings and outlet_payment_method_mappings.
type AccountMappingRepository struct {
	pool *pgxpool.Pool
}

// NewAccountMappingRepository creates a new AccountMappingRepository.
func NewAccountMappingRepository(pool *pgxpool.Pool) *AccountMappingRepository {
	return &AccountMappingRepository{pool: pool}
}

// ResolveAccounts resolves all requested keys, failing with one
// MissingMappingError naming every absent key rather than the first.
func (r *AccountMappingRepository) ResolveAccounts(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, keys []domain.MappingKey) (map[domain.MappingKey]int64, error) {
	if len(keys) == 0 {
		return map[domain.MappingKey]int64{}, nil
	}

	db := dbFrom(r.pool, tx)

	requested := make([]string, 0, len(keys))
	for _, k := range keys {
		requested = append(requested, string(k))
	}

	rows, err := db.Query(ctx, `
		SELECT mapping_key, account_id
		FROM outlet_account_mappings
		WHERE company_id = $1
		  AND outlet_id IS NOT DISTINCT FROM $2
		  AND mapping_key = ANY($3)`,
		companyID, outletID, requested,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resolved := make(map[domain.MappingKey]int64, len(keys))
	for rows.Next() {
		var key string
		var accountID int64
		if err := rows.Scan(&key, &accountID); err != nil {
			return nil, err
		}

		resolved[domain.MappingKey(key)] = accountID
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []domain.MappingKey
	for _, k := range keys {
		if _, ok := resolved[k]; !ok {
			missing = append(missing, k)
		}
	}

	if len(missing) > 0 {
		return nil, &domain.MissingMappingError{CompanyID: companyID, OutletID: outletID, Keys: missing}
	}

	return resolved, nil
}

// ResolvePaymentAccount resolves a payment method's ledger account. A
// specific outlet_payment_method_mappings row takes precedence; a legacy
// generic mapping under the same key is the fallback.
func (r *AccountMappingRepository) ResolvePaymentAccount(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, methodCode string) (int64, error) {
	db := dbFrom(r.pool, tx)

	var accountID int64
	err := db.QueryRow(ctx, `
		SELECT account_id
		FROM outlet_payment_method_mappings
		WHERE company_id = $1
		  AND outlet_id IS NOT DISTINCT FROM $2
		  AND method_code = $3`,
		companyID, outletID, methodCode,
	).Scan(&accountID)

	if err == nil {
		return accountID, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = db.QueryRow(ctx, `
		SELECT account_id
		FROM outlet_account_mappings
		WHERE company_id = $1
		  AND outlet_id IS NOT DISTINCT FROM $2
		  AND mapping_key = $3`,
		companyID, outletID, methodCode,
	).Scan(&accountID)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: company=%d method=%s", domain.ErrOutletPaymentMappingMissing, companyID, methodCode)
	}

	if err != nil {
		return 0, err
	}

	return accountID, nil
}
