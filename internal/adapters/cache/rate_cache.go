package cache

import (
	"eurofx/internal/domain"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/ristretto"
)

// RistrettoRateCache keeps per-date rate lists in memory in front of the store.
type RistrettoRateCache struct {
	cache *ristretto.Cache
}

func NewRateCache(maxDates int64) (*RistrettoRateCache, error) {
	if maxDates <= 0 {
		maxDates = 512
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxDates,
		MaxCost:     maxDates,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c}, nil
}

func (c *RistrettoRateCache) Get(date time.Time) ([]domain.Rate, bool) {
	if v, ok := c.cache.Get(toKey(date)); ok {
		rates, ok := v.([]domain.Rate)
		return slices.Clone(rates), ok
	}
	return nil, false
}

func (c *RistrettoRateCache) Set(date time.Time, rates []domain.Rate) {
	if len(rates) == 0 {
		return
	}
	c.cache.Set(toKey(date), slices.Clone(rates), 1)
}

func (c *RistrettoRateCache) Clear() { c.cache.Clear() }

func (c *RistrettoRateCache) Close() { c.cache.Close() }

func toKey(date time.Time) string { return date.Format(domain.DateLayout) }
