package usecase

import (
	"context"

	"github.com/s18id/jurnapod-sub001/internal/domain"
)

// Transaction represents a database transaction. The service that
// begins a transaction owns its lifecycle; everything else only issues
// statements on it.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique batch references.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient database errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// JournalRepository defines data access for journal batches and lines.
// Read methods accept a nil Transaction to run against the pool.
type JournalRepository interface {
	// CreateBatch inserts the batch and returns its id. When a batch for
	// the same (company, doc type, doc id) already exists, it reports
	// inserted=false with the existing batch's id instead of failing, so
	// losing a posting race is never an error.
	CreateBatch(ctx context.Context, tx Transaction, batch *domain.JournalBatch) (id int64, inserted bool, err error)
	CreateLines(ctx context.Context, tx Transaction, lines []domain.JournalLine) error
	GetBatchByDoc(ctx context.Context, tx Transaction, companyID int64, docType domain.DocType, docID int64) (*domain.JournalBatch, error)
	GetLinesByBatch(ctx context.Context, batchID int64) ([]domain.JournalLine, error)
}

// AccountMappingRepository resolves logical account roles to ledger
// account ids per (company, outlet).
type AccountMappingRepository interface {
	// ResolveAccounts resolves every requested key. If any key cannot be
	// resolved the whole call fails with a MissingMappingError naming all
	// missing keys.
	ResolveAccounts(ctx context.Context, tx Transaction, companyID int64, outletID *int64, keys []domain.MappingKey) (map[domain.MappingKey]int64, error)
	// ResolvePaymentAccount resolves a payment method code through the
	// outlet payment method mappings, falling back to the legacy generic
	// mapping key of the same name. A specific row wins over the fallback.
	ResolvePaymentAccount(ctx context.Context, tx Transaction, companyID int64, outletID *int64, methodCode string) (int64, error)
}

// TaxRateRepository defines data access for tax configuration.
type TaxRateRepository interface {
	// GetCompanyDefaults returns the company's default active tax rates
	// ordered by rate id.
	GetCompanyDefaults(ctx context.Context, tx Transaction, companyID int64) ([]domain.TaxRate, error)
	GetByIDs(ctx context.Context, tx Transaction, companyID int64, ids []int64) ([]domain.TaxRate, error)
}

// SalesInvoiceRepository reads posted sales invoices.
type SalesInvoiceRepository interface {
	GetByID(ctx context.Context, tx Transaction, companyID, id int64) (*domain.SalesInvoice, error)
}

// SalesPaymentRepository reads sales payments.
type SalesPaymentRepository interface {
	GetByID(ctx context.Context, tx Transaction, companyID, id int64) (*domain.SalesPayment, error)
}

// DepreciationRunRepository reads executed depreciation runs.
type DepreciationRunRepository interface {
	GetByID(ctx context.Context, tx Transaction, companyID, id int64) (*domain.DepreciationRun, error)
}

// POSTransactionRepository reads POS transactions pushed by terminals.
type POSTransactionRepository interface {
	GetByID(ctx context.Context, tx Transaction, companyID, id int64) (*domain.POSTransaction, error)
	// GetByIDForUpdate locks the transaction row for the duration of tx.
	GetByIDForUpdate(ctx context.Context, tx Transaction, companyID, id int64) (*domain.POSTransaction, error)
	ListPayments(ctx context.Context, tx Transaction, transactionID int64) ([]domain.POSPayment, error)
	ListTaxLines(ctx context.Context, tx Transaction, transactionID int64) ([]domain.POSTaxLine, error)
	// ListUnpostedCompleted returns ids of COMPLETED transactions that
	// have no journal batch yet, oldest first.
	ListUnpostedCompleted(ctx context.Context, companyID int64, outletID *int64, limit int) ([]int64, error)
	ListCompanyIDs(ctx context.Context) ([]int64, error)
}

// ReconciliationRepository produces ledger consistency counts for one
// scope inside a single consistent-read transaction.
type ReconciliationRepository interface {
	Report(ctx context.Context, companyID int64, outletID *int64, sampleLimit int) (*ReconciliationReport, error)
}
