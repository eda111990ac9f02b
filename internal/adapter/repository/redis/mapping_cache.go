package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

// MappingCache is a read-through cache over an AccountMappingRepository.
// Outlet account mappings are admin-configured and change rarely, so a
// short TTL is safe on read paths. Calls carrying a transaction bypass
// the cache: those reads must see the transaction's snapshot.
type MappingCache struct {
	inner  usecase.AccountMappingRepository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewMappingCache creates a new MappingCache.
func NewMappingCache(inner usecase.AccountMappingRepository, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *MappingCache {
	return &MappingCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// ResolveAccounts implements usecase.AccountMappingRepository.
func (c *MappingCache) ResolveAccounts(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, keys []domain.MappingKey) (map[domain.MappingKey]int64, error) {
	if tx != nil {
		return c.inner.ResolveAccounts(ctx, tx, companyID, outletID, keys)
	}

	cacheKey := c.accountsKey(companyID, outletID, keys)

	cached, err := c.client.Get(ctx, cacheKey).Result()
	if err == nil {
		var raw map[string]int64
		if err := json.Unmarshal([]byte(cached), &raw); err == nil {
			resolved := make(map[domain.MappingKey]int64, len(raw))
			for k, v := range raw {
				resolved[domain.MappingKey(k)] = v
			}

			return resolved, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn().Err(err).Msg("mapping cache read failed")
	}

	resolved, err := c.inner.ResolveAccounts(ctx, nil, companyID, outletID, keys)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]int64, len(resolved))
	for k, v := range resolved {
		raw[string(k)] = v
	}

	if encoded, err := json.Marshal(raw); err == nil {
		if err := c.client.Set(ctx, cacheKey, encoded, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("mapping cache write failed")
		}
	}

	return resolved, nil
}

// ResolvePaymentAccount implements usecase.AccountMappingRepository.
func (c *MappingCache) ResolvePaymentAccount(ctx context.Context, tx usecase.Transaction, companyID int64, outletID *int64, methodCode string) (int64, error) {
	if tx != nil {
		return c.inner.ResolvePaymentAccount(ctx, tx, companyID, outletID, methodCode)
	}

	cacheKey := fmt.Sprintf("paymap:%d:%s:%s", companyID, outletPart(outletID), methodCode)

	cached, err := c.client.Get(ctx, cacheKey).Result()
	if err == nil {
		if accountID, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return accountID, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn().Err(err).Msg("mapping cache read failed")
	}

	accountID, err := c.inner.ResolvePaymentAccount(ctx, nil, companyID, outletID, methodCode)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, cacheKey, strconv.FormatInt(accountID, 10), c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("mapping cache write failed")
	}

	return accountID, nil
}

func (c *MappingCache) accountsKey(companyID int64, outletID *int64, keys []domain.MappingKey) string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k))
	}
	sort.Strings(names)

	return fmt.Sprintf("acctmap:%d:%s:%s", companyID, outletPart(outletID), strings.Join(names, ","))
}

func outletPart(outletID *int64) string {
	if outletID == nil {
		return "-"
	}

	return strconv.FormatInt(*outletID, 10)
}
