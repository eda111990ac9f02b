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

// SalesInvoiceRepository implements usecase.SalesInvoiceRepository.
type SalesInvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewSalesInvoiceRepository creates a new SalesInvoiceRepository.
func NewSalesInvoiceRepository(pool *pgxpool.Pool) *SalesInvoiceRepository {
	return &SalesInvoiceRepository{pool: pool}
}

// GetByID retrieves an invoice scoped to a company.
func (r *SalesInvoiceRepository) GetByID(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.SalesInvoice, error) {
	db := dbFrom(r.pool, tx)

	inv := &domain.SalesInvoice{}
	var subtotal, taxAmount, grandTotal pgtype.Numeric

	err := db.QueryRow(ctx, `
		SELECT id, company_id, outlet_id, number, status, invoice_date, subtotal, tax_amount, grand_total
		FROM sales_invoices
		WHERE company_id = $1 AND id = $2`,
		companyID, id,
	).Scan(&inv.ID, &inv.CompanyID, &inv.OutletID, &inv.Number, &inv.Status, &inv.InvoiceDate,
		&subtotal, &taxAmount, &grandTotal)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSalesInvoiceNotFound
	}

	if err != nil {
		return nil, err
	}

	inv.Subtotal = numericToDecimal(subtotal)
	inv.TaxAmount = numericToDecimal(taxAmount)
	inv.GrandTotal = numericToDecimal(grandTotal)

	return inv, nil
}

// SalesPaymentRepository implements usecase.SalesPaymentRepository.
type SalesPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewSalesPaymentRepository creates a new SalesPaymentRepository.
func NewSalesPaymentRepository(pool *pgxpool.Pool) *SalesPaymentRepository {
	return &SalesPaymentRepository{pool: pool}
}

// GetByID retrieves a payment with its invoice number for traceability.
func (r *SalesPaymentRepository) GetByID(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.SalesPayment, error) {
	db := dbFrom(r.pool, tx)

	p := &domain.SalesPayment{}
	var amount pgtype.Numeric

	err := db.QueryRow(ctx, `
		SELECT p.id, p.company_id, p.outlet_id, p.invoice_id, i.number, p.method_code, p.amount, p.paid_at
		FROM sales_payments p
		JOIN sales_invoices i ON i.id = p.invoice_id
		WHERE p.company_id = $1 AND p.id = $2`,
		companyID, id,
	).Scan(&p.ID, &p.CompanyID, &p.OutletID, &p.InvoiceID, &p.InvoiceNumber, &p.MethodCode, &amount, &p.PaidAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSalesPaymentNotFound
	}

	if err != nil {
		return nil, err
	}

	p.Amount = numericToDecimal(amount)

	return p, nil
}

// DepreciationRunRepository implements usecase.DepreciationRunRepository.
type DepreciationRunRepository struct {
	pool *pgxpool.Pool
}

// NewDepreciationRunRepository creates a new DepreciationRunRepository.
func NewDepreciationRunRepository(pool *pgxpool.Pool) *DepreciationRunRepository {
	return &DepreciationRunRepository{pool: pool}
}

// GetByID retrieves an executed depreciation run with its asset context.
func (r *DepreciationRunRepository) GetByID(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.DepreciationRun, error) {
	db := dbFrom(r.pool, tx)

	run := &domain.DepreciationRun{}
	var amount pgtype.Numeric

	err := db.QueryRow(ctx, `
		SELECT d.id, d.company_id, d.asset_id, a.name, a.outlet_id, d.period, d.run_date, d.amount
		FROM depreciation_runs d
		JOIN assets a ON a.id = d.asset_id
		WHERE d.company_id = $1 AND d.id = $2`,
		companyID, id,
	).Scan(&run.ID, &run.CompanyID, &run.AssetID, &run.AssetName, &run.OutletID, &run.Period, &run.RunDate, &amount)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDepreciationRunNotFound
	}

	if err != nil {
		return nil, err
	}

	run.Amount = numericToDecimal(amount)

	return run, nil
}
