package results

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"grantnet/internal/network/models"
	"grantnet/pkg/platform/sentinel"
)

const (
	defaultMaxEntries  = 1000
	defaultBufferItems = 64
)

// MemoryCache keeps encoded results in a ristretto cache. Entries are stored
// encoded so callers never share a result value.
type MemoryCache struct {
	cache *ristretto.Cache
}

// NewMemory constructs a cache bounded to maxEntries results.
func NewMemory(maxEntries int64) (*MemoryCache, error) {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: defaultBufferItems,
		// Cost counts results, so ristretto's per-entry bookkeeping must not
		// be charged against MaxCost.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryCache{cache: cache}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.AnalysisResult, error) {
	value, found := c.cache.Get(key)
	if !found {
		return nil, sentinel.ErrNotFound
	}
	payload, ok := value.([]byte)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return decode(payload)
}

// Set stores result with cost 1 and waits for the write to be applied so a
// following Get observes it. A write the cache refuses is an error.
func (c *MemoryCache) Set(_ context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error {
	payload, err := encode(result)
	if err != nil {
		return err
	}
	if !c.cache.SetWithTTL(key, payload, 1, ttl) {
		return fmt.Errorf("memory cache rejected %s", key)
	}
	c.cache.Wait()
	return nil
}

// Close stops the cache's background goroutines.
func (c *MemoryCache) Close() {
	c.cache.Close()
}
