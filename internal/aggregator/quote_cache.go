package aggregator

import (
	"github.com/gagliardetto/solana-go"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

// quoteKey identifies a quote request against one snapshot version. A new
// snapshot version never hits entries of an older one.
type quoteKey struct {
	inputMint  solana.PublicKey
	outputMint solana.PublicKey
	amount     uint64
	strategy   string
	maxHops    int
	exactOut   bool
	version    uint64
}

// BoundedLRUCache is a thread-safe bounded LRU cache with generic key-value types
type BoundedLRUCache[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

func NewBoundedLRUCache[K comparable, V any](maxSize int) *BoundedLRUCache[K, V] {
	if maxSize < 1 {
		maxSize = 1
	}
	// lru.New only fails for a non-positive size
	cache, _ := lru.New[K, V](maxSize)
	return &BoundedLRUCache[K, V]{cache: cache}
}

// Get retrieves a value and marks it most recently used.
func (c *BoundedLRUCache[K, V]) Get(key K) (V, bool) {
	return c.cache.Get(key)
}

// Set adds or updates a value, evicting the least recently used entry when full.
func (c *BoundedLRUCache[K, V]) Set(key K, value V) {
	c.cache.Add(key, value)
}

func (c *BoundedLRUCache[K, V]) Size() int {
	return c.cache.Len()
}

func (c *BoundedLRUCache[K, V]) Clear() {
	c.cache.Purge()
}

// QuoteCache is the aggregator's cache of finished quotes.
type QuoteCache = BoundedLRUCache[quoteKey, *domain.SwapQuote]

func NewQuoteCache(maxSize int) *QuoteCache {
	return NewBoundedLRUCache[quoteKey, *domain.SwapQuote](maxSize)
}
