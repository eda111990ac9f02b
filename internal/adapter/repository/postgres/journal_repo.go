package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

// JournalBatchUniqueConstraint is the unique index enforcing the posting
// idempotency key.
const JournalBatchUniqueConstraint = "journal_batches_company_doc_key"

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// CreateBatch inserts the batch. DO NOTHING on the idempotency key keeps
// a lost race from aborting the enclosing transaction; the existing
// batch id is returned with inserted=false instead.
func (r *JournalRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, batch *domain.JournalBatch) (int64, bool, error) {
	db := dbFrom(r.pool, tx)

	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO journal_batches (reference, company_id, outlet_id, doc_type, doc_id, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, doc_type, doc_id) DO NOTHING
		RETURNING id`,
		batch.Reference, batch.CompanyID, batch.OutletID, string(batch.DocType), batch.DocID,
		timeToPgTimestamptz(batch.PostedAt),
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) || IsUniqueViolation(err, JournalBatchUniqueConstraint) {
		existing, err := r.GetBatchByDoc(ctx, tx, batch.CompanyID, batch.DocType, batch.DocID)
		if err != nil {
			return 0, false, err
		}

		return existing.ID, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("insert journal batch: %w", err)
	}

	batch.ID = id

	return id, true, nil
}

// CreateLines bulk-inserts lines for a batch.
func (r *JournalRepository) CreateLines(ctx context.Context, tx usecase.Transaction, lines []domain.JournalLine) error {
	db := dbFrom(r.pool, tx)

	b := &pgx.Batch{}
	for i := range lines {
		l := &lines[i]
		b.Queue(`
			INSERT INTO journal_lines (journal_batch_id, company_id, outlet_id, account_id, line_date, debit, credit, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.BatchID, l.CompanyID, l.OutletID, l.AccountID, timeToPgTimestamptz(l.LineDate),
			decimalToNumeric(l.Debit), decimalToNumeric(l.Credit), l.Description,
		)
	}

	results := db.SendBatch(ctx, b)
	defer results.Close()

	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert journal lines: %w", err)
		}
	}

	return nil
}

// GetBatchByDoc looks up the batch for one document.
func (r *JournalRepository) GetBatchByDoc(ctx context.Context, tx usecase.Transaction, companyID int64, docType domain.DocType, docID int64) (*domain.JournalBatch, error) {
	db := dbFrom(r.pool, tx)

	batch := &domain.JournalBatch{}
	var docTypeStr string
	err := db.QueryRow(ctx, `
		SELECT id, reference, company_id, outlet_id, doc_type, doc_id, posted_at
		FROM journal_batches
		WHERE company_id = $1 AND doc_type = $2 AND doc_id = $3`,
		companyID, string(docType), docID,
	).Scan(&batch.ID, &batch.Reference, &batch.CompanyID, &batch.OutletID, &docTypeStr, &batch.DocID, &batch.PostedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrJournalBatchNotFound
	}

	if err != nil {
		return nil, err
	}

	batch.DocType = domain.DocType(docTypeStr)

	return batch, nil
}

// GetLinesByBatch retrieves the lines of a batch ordered by id.
func (r *JournalRepository) GetLinesByBatch(ctx context.Context, batchID int64) ([]domain.JournalLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, journal_batch_id, company_id, outlet_id, account_id, line_date, debit, credit, description
		FROM journal_lines
		WHERE journal_batch_id = $1
		ORDER BY id`,
		batchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var l domain.JournalLine
		var debit, credit pgtype.Numeric

		err := rows.Scan(&l.ID, &l.BatchID, &l.CompanyID, &l.OutletID, &l.AccountID, &l.LineDate,
			&debit, &credit, &l.Description)
		if err != nil {
			return nil, err
		}

		l.Debit = numericToDecimal(debit)
		l.Credit = numericToDecimal(credit)
		lines = append(lines, l)
	}

	return lines, rows.Err()
}
