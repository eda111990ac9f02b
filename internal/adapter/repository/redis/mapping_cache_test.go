package redis

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
	"github.com/s18id/jurnapod-sub001/internal/usecase/mocks"
)

// countingMappingRepo counts pass-through calls to the wrapped repository.
type countingMappingRepo struct {
	inner        *mocks.MockAccountMappingRepository
	resolveCalls int
	paymentCalls int
}

func (c *countingMappingRepo) ResolveAccounts(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, keys []domain.MappingKey) (map[domain.MappingKey]int64, error) {
	c.resolveCalls++
	return c.inner.ResolveAccounts(ctx, tx, companyID, outletID, keys)
}

func (c *countingMappingRepo) ResolvePaymentAccount(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, methodCode string) (int64, error) {
	c.paymentCalls++
	return c.inner.ResolvePaymentAccount(ctx, tx, companyID, outletID, methodCode)
}

func newTestCache(t *testing.T) (*MappingCache, *mocks.MockAccountMappingRepository, *countingMappingRepo) {
	t.Helper()

	client, _ := newTestRedisClient(t)
	inner := mocks.NewMockAccountMappingRepository()
	counting := &countingMappingRepo{inner: inner}

	return NewMappingCache(counting, client, time.Minute, zerolog.Nop()), inner, counting
}

func TestMappingCache_ReadThrough(t *testing.T) {
	cache, inner, counting := newTestCache(t)

	outlet := int64(3)
	inner.SetAccount(1, &outlet, domain.KeySalesRevenue, 400)

	ctx := context.Background()
	keys := []domain.MappingKey{domain.KeySalesRevenue}

	first, err := cache.ResolveAccounts(ctx, nil, 1, &outlet, keys)
	require.NoError(t, err)

	second, err := cache.ResolveAccounts(ctx, nil, 1, &outlet, keys)
	require.NoError(t, err)

	assert.Equal(t, int64(400), first[domain.KeySalesRevenue])
	assert.Equal(t, int64(400), second[domain.KeySalesRevenue])
	assert.Equal(t, 1, counting.resolveCalls, "second read should be served from cache")
}

func TestMappingCache_TransactionBypassesCache(t *testing.T) {
	cache, inner, counting := newTestCache(t)

	outlet := int64(3)
	inner.SetAccount(1, &outlet, domain.KeySalesRevenue, 400)

	ctx := context.Background()
	keys := []domain.MappingKey{domain.KeySalesRevenue}
	tx := mocks.NewMockTransaction()

	for i := 0; i < 2; i++ {
		_, err := cache.ResolveAccounts(ctx, tx, 1, &outlet, keys)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, counting.resolveCalls, "transactional reads must bypass the cache")
}

func TestMappingCache_MissesAreNotCached(t *testing.T) {
	cache, inner, counting := newTestCache(t)

	outlet := int64(3)
	ctx := context.Background()
	keys := []domain.MappingKey{domain.KeySalesRevenue}

	_, err := cache.ResolveAccounts(ctx, nil, 1, &outlet, keys)
	require.ErrorIs(t, err, domain.ErrOutletAccountMappingMissing)

	// Once the mapping is configured, the next read must see it.
	inner.SetAccount(1, &outlet, domain.KeySalesRevenue, 400)

	resolved, err := cache.ResolveAccounts(ctx, nil, 1, &outlet, keys)
	require.NoError(t, err)

	assert.Equal(t, int64(400), resolved[domain.KeySalesRevenue])
	assert.Equal(t, 2, counting.resolveCalls)
}

func TestMappingCache_PaymentAccount(t *testing.T) {
	cache, inner, counting := newTestCache(t)

	outlet := int64(3)
	inner.SetPaymentAccount(1, &outlet, "QRIS", 102)

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		accountID, err := cache.ResolvePaymentAccount(ctx, nil, 1, &outlet, "QRIS")
		require.NoError(t, err)
		assert.Equal(t, int64(102), accountID)
	}

	assert.Equal(t, 1, counting.paymentCalls, "repeat reads should hit the cache")
}

func TestMappingCache_ScopesDoNotCollide(t *testing.T) {
	cache, inner, _ := newTestCache(t)

	outletA := int64(3)
	outletB := int64(4)
	inner.SetAccount(1, &outletA, domain.KeySalesRevenue, 400)
	inner.SetAccount(1, &outletB, domain.KeySalesRevenue, 401)
	inner.SetAccount(1, nil, domain.KeySalesRevenue, 402)

	ctx := context.Background()
	keys := []domain.MappingKey{domain.KeySalesRevenue}

	a, err := cache.ResolveAccounts(ctx, nil, 1, &outletA, keys)
	require.NoError(t, err)
	b, err := cache.ResolveAccounts(ctx, nil, 1, &outletB, keys)
	require.NoError(t, err)
	def, err := cache.ResolveAccounts(ctx, nil, 1, nil, keys)
	require.NoError(t, err)

	assert.Equal(t, int64(400), a[domain.KeySalesRevenue])
	assert.Equal(t, int64(401), b[domain.KeySalesRevenue])
	assert.Equal(t, int64(402), def[domain.KeySalesRevenue])
}
