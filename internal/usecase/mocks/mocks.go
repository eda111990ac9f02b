package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	mu         sync.Mutex
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func NewMockTransaction() *MockTransaction {
	return &MockTransaction{}
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// By default every Begin hands out a fresh MockTransaction and records
// it so tests can assert commit/rollback behavior.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := NewMockTransaction()
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("REF-%06d", m.counter)
}

// MockRetrier is a mock implementation of Retrier. The default runs the
// operation once with no retry.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockJournalRepository is a mock implementation of JournalRepository
// with an in-memory store enforcing the one-batch-per-document rule.
type MockJournalRepository struct {
	mu      sync.RWMutex
	nextID  int64
	batches map[string]*domain.JournalBatch
	lines   map[int64][]domain.JournalLine

	CreateBatchFunc     func(ctx context.Context, tx usecase.Transaction, batch *domain.JournalBatch) (int64, bool, error)
	CreateLinesFunc     func(ctx context.Context, tx usecase.Transaction, lines []domain.JournalLine) error
	GetBatchByDocFunc   func(ctx context.Context, tx usecase.Transaction, companyID int64, docType domain.DocType, docID int64) (*domain.JournalBatch, error)
	GetLinesByBatchFunc func(ctx context.Context, batchID int64) ([]domain.JournalLine, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		batches: make(map[string]*domain.JournalBatch),
		lines:   make(map[int64][]domain.JournalLine),
	}
}

func docKey(companyID int64, docType domain.DocType, docID int64) string {
	return fmt.Sprintf("%d/%s/%d", companyID, docType, docID)
}

func (m *MockJournalRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, batch *domain.JournalBatch) (int64, bool, error) {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, batch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := docKey(batch.CompanyID, batch.DocType, batch.DocID)
	if existing, ok := m.batches[key]; ok {
		return existing.ID, false, nil
	}

	m.nextID++
	stored := *batch
	stored.ID = m.nextID
	m.batches[key] = &stored
	batch.ID = stored.ID
	return stored.ID, true, nil
}

func (m *MockJournalRepository) CreateLines(ctx context.Context, tx usecase.Transaction, lines []domain.JournalLine) error {
	if m.CreateLinesFunc != nil {
		return m.CreateLinesFunc(ctx, tx, lines)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range lines {
		m.lines[l.BatchID] = append(m.lines[l.BatchID], l)
	}
	return nil
}

func (m *MockJournalRepository) GetBatchByDoc(ctx context.Context, tx usecase.Transaction, companyID int64, docType domain.DocType, docID int64) (*domain.JournalBatch, error) {
	if m.GetBatchByDocFunc != nil {
		return m.GetBatchByDocFunc(ctx, tx, companyID, docType, docID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	batch, ok := m.batches[docKey(companyID, docType, docID)]
	if !ok {
		return nil, domain.ErrJournalBatchNotFound
	}
	copied := *batch
	return &copied, nil
}

func (m *MockJournalRepository) GetLinesByBatch(ctx context.Context, batchID int64) ([]domain.JournalLine, error) {
	if m.GetLinesByBatchFunc != nil {
		return m.GetLinesByBatchFunc(ctx, batchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]domain.JournalLine(nil), m.lines[batchID]...), nil
}

// BatchCount reports how many batches the in-memory store holds.
func (m *MockJournalRepository) BatchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.batches)
}

// MockAccountMappingRepository is a mock implementation of
// AccountMappingRepository backed by in-memory maps.
type MockAccountMappingRepository struct {
	mu       sync.RWMutex
	accounts map[string]int64
	payments map[string]int64

	ResolveAccountsFunc       func(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, keys []domain.MappingKey) (map[domain.MappingKey]int64, error)
	ResolvePaymentAccountFunc func(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, methodCode string) (int64, error)
}

func NewMockAccountMappingRepository() *MockAccountMappingRepository {
	return &MockAccountMappingRepository{
		accounts: make(map[string]int64),
		payments: make(map[string]int64),
	}
}

func scopeKey(companyID int64, outletID *int64, key string) string {
	if outletID == nil {
		return fmt.Sprintf("%d/-/%s", companyID, key)
	}
	return fmt.Sprintf("%d/%d/%s", companyID, *outletID, key)
}

// SetAccount seeds an account mapping.
func (m *MockAccountMappingRepository) SetAccount(companyID int64, outletID *int64, key domain.MappingKey, accountID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[scopeKey(companyID, outletID, string(key))] = accountID
}

// SetPaymentAccount seeds a payment method mapping.
func (m *MockAccountMappingRepository) SetPaymentAccount(companyID int64, outletID *int64, methodCode string, accountID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[scopeKey(companyID, outletID, methodCode)] = accountID
}

func (m *MockAccountMappingRepository) ResolveAccounts(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, keys []domain.MappingKey) (map[domain.MappingKey]int64, error) {
	if m.ResolveAccountsFunc != nil {
		return m.ResolveAccountsFunc(ctx, tx, companyID, outletID, keys)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	resolved := make(map[domain.MappingKey]int64, len(keys))
	var missing []domain.MappingKey
	for _, k := range keys {
		id, ok := m.accounts[scopeKey(companyID, outletID, string(k))]
		if !ok {
			missing = append(missing, k)
			continue
		}
		resolved[k] = id
	}

	if len(missing) > 0 {
		return nil, &domain.MissingMappingError{CompanyID: companyID, OutletID: outletID, Keys: missing}
	}
	return resolved, nil
}

func (m *MockAccountMappingRepository) ResolvePaymentAccount(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, methodCode string) (int64, error) {
	if m.ResolvePaymentAccountFunc != nil {
		return m.ResolvePaymentAccountFunc(ctx, tx, companyID, outletID, methodCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id, ok := m.payments[scopeKey(companyID, outletID, methodCode)]; ok {
		return id, nil
	}
	if id, ok := m.accounts[scopeKey(companyID, outletID, methodCode)]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: company=%d method=%s", domain.ErrOutletPaymentMappingMissing, companyID, methodCode)
}

// MockTaxRateRepository is a mock implementation of TaxRateRepository.
type MockTaxRateRepository struct {
	mu       sync.RWMutex
	defaults map[int64][]domain.TaxRate

	GetCompanyDefaultsFunc func(ctx context.Context, tx usecase.Transaction, companyID int64) ([]domain.TaxRate, error)
	GetByIDsFunc           func(ctx context.Context, tx usecase.Transaction, companyID int64, ids []int64) ([]domain.TaxRate, error)
}

func NewMockTaxRateRepository() *MockTaxRateRepository {
	return &MockTaxRateRepository{
		defaults: make(map[int64][]domain.TaxRate),
	}
}

// SetCompanyDefaults seeds a company's default rates.
func (m *MockTaxRateRepository) SetCompanyDefaults(companyID int64, rates []domain.TaxRate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults[companyID] = rates
}

func (m *MockTaxRateRepository) GetCompanyDefaults(ctx context.Context, tx usecase.Transaction, companyID int64) ([]domain.TaxRate, error) {
	if m.GetCompanyDefaultsFunc != nil {
		return m.GetCompanyDefaultsFunc(ctx, tx, companyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.TaxRate(nil), m.defaults[companyID]...), nil
}

func (m *MockTaxRateRepository) GetByIDs(ctx context.Context, tx usecase.Transaction, companyID int64, ids []int64) ([]domain.TaxRate, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, tx, companyID, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var rates []domain.TaxRate
	for _, r := range m.defaults[companyID] {
		if wanted[r.ID] {
			rates = append(rates, r)
		}
	}
	return rates, nil
}

// MockPOSTransactionRepository is a mock implementation of
// POSTransactionRepository backed by in-memory stores.
type MockPOSTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[int64]*domain.POSTransaction
	payments     map[int64][]domain.POSPayment
	taxLines     map[int64][]domain.POSTaxLine

	GetByIDFunc               func(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.POSTransaction, error)
	GetByIDForUpdateFunc      func(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.POSTransaction, error)
	ListPaymentsFunc          func(ctx context.Context, tx usecase.Transaction, transactionID int64) ([]domain.POSPayment, error)
	ListTaxLinesFunc          func(ctx context.Context, tx usecase.Transaction, transactionID int64) ([]domain.POSTaxLine, error)
	ListUnpostedCompletedFunc func(ctx context.Context, companyID int64, outletID *int64, limit int) ([]int64, error)
	ListCompanyIDsFunc        func(ctx context.Context) ([]int64, error)
}

func NewMockPOSTransactionRepository() *MockPOSTransactionRepository {
	return &MockPOSTransactionRepository{
		transactions: make(map[int64]*domain.POSTransaction),
		payments:     make(map[int64][]domain.POSPayment),
		taxLines:     make(map[int64][]domain.POSTaxLine),
	}
}

// AddTransaction seeds a POS transaction with its payments and tax lines.
func (m *MockPOSTransactionRepository) AddTransaction(t domain.POSTransaction, payments []domain.POSPayment, taxLines []domain.POSTaxLine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := t
	m.transactions[t.ID] = &stored
	m.payments[t.ID] = payments
	m.taxLines[t.ID] = taxLines
}

func (m *MockPOSTransactionRepository) getByID(companyID, id int64) (*domain.POSTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.transactions[id]
	if !ok || t.CompanyID != companyID {
		return nil, domain.ErrPOSTransactionNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *MockPOSTransactionRepository) GetByID(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.POSTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tx, companyID, id)
	}
	return m.getByID(companyID, id)
}

func (m *MockPOSTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id int64) (*domain.POSTransaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, companyID, id)
	}
	return m.getByID(companyID, id)
}

func (m *MockPOSTransactionRepository) ListPayments(ctx context.Context, tx usecase.Transaction, transactionID int64) ([]domain.POSPayment, error) {
	if m.ListPaymentsFunc != nil {
		return m.ListPaymentsFunc(ctx, tx, transactionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.POSPayment(nil), m.payments[transactionID]...), nil
}

func (m *MockPOSTransactionRepository) ListTaxLines(ctx context.Context, tx usecase.Transaction, transactionID int64) ([]domain.POSTaxLine, error) {
	if m.ListTaxLinesFunc != nil {
		return m.ListTaxLinesFunc(ctx, tx, transactionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.POSTaxLine(nil), m.taxLines[transactionID]...), nil
}

func (m *MockPOSTransactionRepository) ListUnpostedCompleted(ctx context.Context, companyID int64, outletID *int64, limit int) ([]int64, error) {
	if m.ListUnpostedCompletedFunc != nil {
		return m.ListUnpostedCompletedFunc(ctx, companyID, outletID, limit)
	}
	return nil, nil
}

func (m *MockPOSTransactionRepository) ListCompanyIDs(ctx context.Context) ([]int64, error) {
	if m.ListCompanyIDsFunc != nil {
		return m.ListCompanyIDsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[int64]bool)
	var ids []int64
	for _, t := range m.transactions {
		if !seen[t.CompanyID] {
			seen[t.CompanyID] = true
			ids = append(ids, t.CompanyID)
		}
	}
	return ids, nil
}
