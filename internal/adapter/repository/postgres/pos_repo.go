package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

// POSTransactionRepository implements usecase.POSTransactionRepository.
type POSTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPOSTransactionRepository creates a new POSTransactionRepository.
func NewPOSTransactionRepository(pool *pgxpool.Pool) *POSTransactionRepository {
	return &POSTransactionRepository{pool: pool}
}

const posTransactionColumns = `id, company_id, outlet_id, code, status, transaction_date, grand_total`

// GetByID retrieves a POS transaction scoped to a company.
func (r *POSTransactionRepository) GetByID(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.POSTransaction, error) {
	row := dbFrom(r.pool, tx).QueryRow(ctx, `
		SELECT `+posTransactionColumns+`
		FROM pos_transactions
		WHERE company_id = $1 AND id = $2`,
		companyID, id,
	)

	return scanPOSTransaction(row)
}

// GetByIDForUpdate locks the row for the duration of tx, serializing
// against concurrent status changes and live posting.
func (r *POSTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.POSTransaction, error) {
	row := dbFrom(r.pool, tx).QueryRow(ctx, `
		SELECT `+posTransactionColumns+`
		FROM pos_transactions
		WHERE company_id = $1 AND id = $2
		FOR UPDATE`,
		companyID, id,
	)

	return scanPOSTransaction(row)
}

// ListPayments returns the payment rows of a transaction in ring-up
// order.
func (r *POSTransactionRepository) ListPayments(ctx context.Context, tx usecase.Transaction, transactionID int64) ([]domain.POSPayment, error) {
	rows, err := dbFrom(r.pool, tx).Query(ctx, `
		SELECT id, pos_transaction_id, method_code, amount
		FROM pos_transaction_payments
		WHERE pos_transaction_id = $1
		ORDER BY id`,
		transactionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.POSPayment
	for rows.Next() {
		var p domain.POSPayment
		var amount pgtype.Numeric

		if err := rows.Scan(&p.ID, &p.TransactionID, &p.MethodCode, &amount); err != nil {
			return nil, err
		}

		p.Amount = numericToDecimal(amount)
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// ListTaxLines returns the stored tax breakdown of a transaction ordered
// by id.
func (r *POSTransactionRepository) ListTaxLines(ctx context.Context, tx usecase.Transaction, transactionID int64) ([]domain.POSTaxLine, error) {
	rows, err := dbFrom(r.pool, tx).Query(ctx, `
		SELECT id, pos_transaction_id, tax_rate_id, is_inclusive, amount
		FROM pos_transaction_taxes
		WHERE pos_transaction_id = $1
		ORDER BY id`,
		transactionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var taxLines []domain.POSTaxLine
	for rows.Next() {
		var tl domain.POSTaxLine
		var amount pgtype.Numeric

		if err := rows.Scan(&tl.ID, &tl.TransactionID, &tl.TaxRateID, &tl.IsInclusive, &amount); err != nil {
			return nil, err
		}

		tl.Amount = numericToDecimal(amount)
		taxLines = append(taxLines, tl)
	}

	return taxLines, rows.Err()
}

// ListUnpostedCompleted returns ids of COMPLETED transactions with no
// journal batch, oldest first.
func (r *POSTransactionRepository) ListUnpostedCompleted(ctx context.Context, companyID int64, outletID *int64, limit int) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id
		FROM pos_transactions t
		LEFT JOIN journal_batches b
		  ON b.company_id = t.company_id
		 AND b.doc_type = $1
		 AND b.doc_id = t.id
		WHERE t.company_id = $2
		  AND ($3::bigint IS NULL OR t.outlet_id = $3)
		  AND t.status = $4
		  AND b.id IS NULL
		ORDER BY t.id
		LIMIT $5`,
		string(domain.DocTypePOSSale), companyID, outletID, domain.POSStatusCompleted, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListCompanyIDs returns every company with POS transactions.
func (r *POSTransactionRepository) ListCompanyIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT company_id
		FROM pos_transactions
		ORDER BY company_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanPOSTransaction(row pgx.Row) (*domain.POSTransaction, error) {
	t := &domain.POSTransaction{}
	var grandTotal pgtype.Numeric

	err := row.Scan(&t.ID, &t.CompanyID, &t.OutletID, &t.Code, &t.Status, &t.TransactionDate, &grandTotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPOSTransactionNotFound
	}

	if err != nil {
		return nil, err
	}

	t.GrandTotal = numericToDecimal(grandTotal)

	return t, nil
}
