package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

type reconPool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// ReconciliationRepository implements usecase.ReconciliationRepository.
// Each report runs in one REPEATABLE READ, READ ONLY transaction so the
// three counts come from a single snapshot.
type ReconciliationRepository struct {
	pool reconPool
}

// NewReconciliationRepository creates a new ReconciliationRepository.
func NewReconciliationRepository(pool *pgxpool.Pool) *ReconciliationRepository {
	return newReconciliationRepositoryWithPool(pool)
}

func newReconciliationRepositoryWithPool(pool reconPool) *ReconciliationRepository {
	return &ReconciliationRepository{pool: pool}
}

const missingBatchesSQL = `
	SELECT t.id
	FROM pos_transactions t
	LEFT JOIN journal_batches b
	  ON b.company_id = t.company_id
	 AND b.doc_type = '` + string(domain.DocTypePOSSale) + `'
	 AND b.doc_id = t.id
	WHERE t.company_id = $1
	  AND ($2::bigint IS NULL OR t.outlet_id = $2)
	  AND t.status = '` + domain.POSStatusCompleted + `'
	  AND b.id IS NULL
	ORDER BY t.id`

// A batch with no lines at all is a half-written posting and counts as
// unbalanced, so the HAVING clause checks the line count explicitly:
// with zero joined rows both SUMs coalesce to 0 and 0 <> 0 would let
// the batch pass.
const unbalancedBatchesSQL = `
	SELECT b.id
	FROM journal_batches b
	LEFT JOIN journal_lines l ON l.journal_batch_id = b.id
	WHERE b.company_id = $1
	  AND ($2::bigint IS NULL OR b.outlet_id = $2)
	GROUP BY b.id
	HAVING COUNT(l.id) = 0 OR COALESCE(SUM(l.debit), 0) <> COALESCE(SUM(l.credit), 0)
	ORDER BY b.id`

const orphanBatchesSQL = `
	SELECT b.id
	FROM journal_batches b
	LEFT JOIN pos_transactions t
	  ON t.company_id = b.company_id
	 AND t.id = b.doc_id
	WHERE b.company_id = $1
	  AND ($2::bigint IS NULL OR b.outlet_id = $2)
	  AND b.doc_type = '` + string(domain.DocTypePOSSale) + `'
	  AND t.id IS NULL
	ORDER BY b.id`

// Report produces the three consistency counts plus bounded samples.
func (r *ReconciliationRepository) Report(ctx context.Context, companyID int64, outletID *int64, sampleLimit int) (*usecase.ReconciliationReport, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	report := &usecase.ReconciliationReport{
		CompanyID: companyID,
		OutletID:  outletID,
		CheckedAt: time.Now().UTC(),
	}

	report.MissingBatches, report.MissingSampleIDs, err = countAndSample(ctx, tx, missingBatchesSQL, companyID, outletID, sampleLimit)
	if err != nil {
		return nil, fmt.Errorf("missing batches: %w", err)
	}

	report.UnbalancedBatches, report.UnbalancedSampleIDs, err = countAndSample(ctx, tx, unbalancedBatchesSQL, companyID, outletID, sampleLimit)
	if err != nil {
		return nil, fmt.Errorf("unbalanced batches: %w", err)
	}

	report.OrphanBatches, report.OrphanSampleIDs, err = countAndSample(ctx, tx, orphanBatchesSQL, companyID, outletID, sampleLimit)
	if err != nil {
		return nil, fmt.Errorf("orphan batches: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return report, nil
}

func countAndSample(ctx context.Context, tx pgx.Tx, idQuery string, companyID int64, outletID *int64, sampleLimit int) (int64, []int64, error) {
	var count int64
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM (`+idQuery+`) ids`, companyID, outletID).Scan(&count)
	if err != nil {
		return 0, nil, err
	}

	if count == 0 {
		return 0, nil, nil
	}

	rows, err := tx.Query(ctx, idQuery+` LIMIT `+fmt.Sprintf("%d", sampleLimit), companyID, outletID)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, nil, err
		}

		ids = append(ids, id)
	}

	return count, ids, rows.Err()
}
