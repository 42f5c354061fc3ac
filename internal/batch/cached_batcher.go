package batch

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"slices"
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"

	"github.com/bft-labs/runlane/internal/domain"
)

// DefaultCacheEntries is the number of layouts kept by a CachedBatcher.
const DefaultCacheEntries = 256

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Len    int
}

// CachedBatcher memoizes another Batcher keyed by a content hash of the
// request, so unrelated re-renders with identical input skip the sweep.
// It is safe for concurrent use.
type CachedBatcher struct {
	next  Batcher
	group singleflight.Group

	mu     sync.Mutex
	cache  *lru.Cache
	hits   uint64
	misses uint64
}

// NewCachedBatcher wraps next with an LRU cache holding up to maxEntries layouts.
// A non-positive maxEntries uses DefaultCacheEntries.
func NewCachedBatcher(next Batcher, maxEntries int) *CachedBatcher {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &CachedBatcher{
		next:  next,
		cache: lru.New(maxEntries),
	}
}

// Batch implements Batcher. Errors are not cached.
func (c *CachedBatcher) Batch(req Request) ([]domain.Batch, error) {
	key := RequestKey(req)

	c.mu.Lock()
	if v, ok := c.cache.Get(key); ok {
		c.hits++
		c.mu.Unlock()
		return cloneBatches(v.([]domain.Batch)), nil
	}
	c.misses++
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		batches, err := c.next.Batch(req)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache.Add(key, batches)
		c.mu.Unlock()
		return batches, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneBatches(v.([]domain.Batch)), nil
}

// Stats returns a snapshot of hit/miss counters.
func (c *CachedBatcher) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Len: c.cache.Len()}
}

// Purge drops every cached layout.
func (c *CachedBatcher) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
}

// RequestKey returns the hex SHA-256 of everything that affects a layout.
func RequestKey(req Request) string {
	h := sha256.New()
	var buf [8]byte
	putInt := func(v int64) {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	putFloat := func(v float64) {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	putString := func(s string) {
		putInt(int64(len(s)))
		h.Write([]byte(s))
	}

	putInt(req.Window.Start)
	putInt(req.Window.End)
	putFloat(req.Width)
	putFloat(req.MinChunkWidth)
	putFloat(req.MinMultipleWidth)
	putInt(int64(len(req.Records)))
	for _, r := range req.Records {
		putString(r.ID)
		putString(r.Key)
		putString(string(r.Status))
		putInt(r.StartTime)
		if r.EndTime == nil {
			h.Write([]byte{0})
		} else {
			h.Write([]byte{1})
			putInt(*r.EndTime)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func cloneBatches(in []domain.Batch) []domain.Batch {
	out := make([]domain.Batch, len(in))
	for i, b := range in {
		out[i] = b
		out[i].Records = slices.Clone(b.Records)
	}
	return out
}

var (
	_ Batcher = (*DefaultBatcher)(nil)
	_ Batcher = (*CachedBatcher)(nil)
)
