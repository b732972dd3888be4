package market

import (
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

const numShards = 16

// poolEntry keeps the order a pool was first inserted in so snapshots come
// out in a stable order. Routers break ties by that order.
type poolEntry struct {
	pool *domain.Pool
	seq  uint64
}

// ShardedPoolMap is a sharded map for pools to reduce lock contention
type ShardedPoolMap struct {
	shards [numShards]poolShard

	seqMu sync.Mutex
	seq   uint64
}

type poolShard struct {
	mu    sync.RWMutex
	pools map[solana.PublicKey]poolEntry
}

func NewShardedPoolMap() *ShardedPoolMap {
	m := &ShardedPoolMap{}
	for i := 0; i < numShards; i++ {
		m.shards[i].pools = make(map[solana.PublicKey]poolEntry)
	}
	return m
}

func (m *ShardedPoolMap) getShard(key solana.PublicKey) *poolShard {
	// first byte of the key is uniform enough for sharding
	idx := key[0] % numShards
	return &m.shards[idx]
}

func (m *ShardedPoolMap) nextSeq() uint64 {
	m.seqMu.Lock()
	defer m.seqMu.Unlock()
	m.seq++
	return m.seq
}

func (m *ShardedPoolMap) Get(key solana.PublicKey) (*domain.Pool, bool) {
	shard := m.getShard(key)
	shard.mu.RLock()
	entry, ok := shard.pools[key]
	shard.mu.RUnlock()
	return entry.pool, ok
}

// Set stores a pool. Replacing a pool keeps its original position.
// It reports whether the key was new.
func (m *ShardedPoolMap) Set(key solana.PublicKey, pool *domain.Pool) bool {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if entry, ok := shard.pools[key]; ok {
		entry.pool = pool
		shard.pools[key] = entry
		return false
	}
	shard.pools[key] = poolEntry{pool: pool, seq: m.nextSeq()}
	return true
}

// Delete removes a pool and reports whether it was present.
func (m *ShardedPoolMap) Delete(key solana.PublicKey) bool {
	shard := m.getShard(key)
	shard.mu.Lock()
	_, ok := shard.pools[key]
	delete(shard.pools, key)
	shard.mu.Unlock()
	return ok
}

// Len returns total count across all shards
func (m *ShardedPoolMap) Len() int {
	total := 0
	for i := 0; i < numShards; i++ {
		m.shards[i].mu.RLock()
		total += len(m.shards[i].pools)
		m.shards[i].mu.RUnlock()
	}
	return total
}

// GetAll returns all pools in insertion order.
func (m *ShardedPoolMap) GetAll() []*domain.Pool {
	entries := make([]poolEntry, 0, m.Len())
	for i := 0; i < numShards; i++ {
		m.shards[i].mu.RLock()
		for _, entry := range m.shards[i].pools {
			entries = append(entries, entry)
		}
		m.shards[i].mu.RUnlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
	result := make([]*domain.Pool, len(entries))
	for i, entry := range entries {
		result[i] = entry.pool
	}
	return result
}
