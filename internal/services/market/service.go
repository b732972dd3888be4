// Package market keeps the current pool snapshot. Writers replace whole
// pools; readers get immutable, versioned snapshots that are safe to route
// over without locking.
package market

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/metrics"
	"github.com/hxuan190/liquidity-router/internal/services"
)

const (
	ServiceName = "MarketService"
)

var ErrNilPool = errors.New("nil pool")

// PoolStorage persists pools between runs.
type PoolStorage interface {
	LoadAllPools() ([]*domain.Pool, error)
	SavePoolBatch(pools []*domain.Pool, version uint64) error
	DeletePool(address solana.PublicKey) error
}

// Snapshot is a point-in-time view of the routable pools. Neither the slice
// nor the pools it points to are modified after creation.
type Snapshot struct {
	Version uint64
	Pools   []*domain.Pool
}

type Service struct {
	logger   *services.ServiceLogger
	registry *MarketRegistry
	storage  PoolStorage

	// mu serializes writers and guards snapshot
	mu       sync.RWMutex
	pools    *ShardedPoolMap
	snapshot *Snapshot

	version     atomic.Uint64
	updateCount atomic.Uint64
}

// NewService creates a market service. storage may be nil.
func NewService(registry *MarketRegistry, storage PoolStorage) *Service {
	if registry == nil {
		registry = NewDefaultMarketRegistry()
	}
	svc := &Service{
		registry: registry,
		storage:  storage,
		pools:    NewShardedPoolMap(),
	}
	svc.logger = services.NewServiceLogger(svc)
	return svc
}

func (svc *Service) ID() string {
	return ServiceName
}

// Start loads persisted pools, if any.
func (svc *Service) Start() error {
	if svc.storage == nil {
		svc.logger.Info().Msg("no pool storage configured, starting empty")
		return nil
	}
	pools, err := svc.storage.LoadAllPools()
	if err != nil {
		return fmt.Errorf("failed to load persisted pools: %w", err)
	}
	n, err := svc.Load(pools)
	if err != nil {
		return err
	}
	svc.logger.Info().Int("pools", n).Msg("loaded persisted pools")
	return nil
}

// Stop persists the current pools.
func (svc *Service) Stop() error {
	return svc.Persist()
}

func (svc *Service) Persist() error {
	if svc.storage == nil {
		return nil
	}
	snap := svc.Snapshot()
	return svc.storage.SavePoolBatch(svc.pools.GetAll(), snap.Version)
}

// Load upserts every pool as one snapshot change. Invalid pools fail the
// whole load before anything is applied.
func (svc *Service) Load(pools []*domain.Pool) (int, error) {
	for i, pool := range pools {
		if pool == nil {
			return 0, fmt.Errorf("pool %d: %w", i, ErrNilPool)
		}
		if err := pool.Validate(); err != nil {
			return 0, fmt.Errorf("pool %d (%s): %w", i, pool.Address, err)
		}
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, pool := range pools {
		p := *pool
		svc.pools.Set(p.Address, &p)
	}
	svc.updateCount.Add(uint64(len(pools)))
	metrics.PoolUpdates.Add(float64(len(pools)))
	svc.bumpLocked()
	return len(pools), nil
}

// Upsert inserts or replaces one pool. The pool is copied.
func (svc *Service) Upsert(pool *domain.Pool) error {
	if pool == nil {
		return ErrNilPool
	}
	if err := pool.Validate(); err != nil {
		return fmt.Errorf("pool %s: %w", pool.Address, err)
	}

	p := *pool
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.pools.Set(p.Address, &p)
	svc.updateCount.Add(1)
	metrics.PoolUpdates.Inc()
	svc.bumpLocked()
	return nil
}

// Remove drops a pool from memory and from storage. It reports whether the
// pool was known.
func (svc *Service) Remove(address solana.PublicKey) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if !svc.pools.Delete(address) {
		return false, nil
	}
	svc.bumpLocked()
	if svc.storage != nil {
		if err := svc.storage.DeletePool(address); err != nil {
			return true, fmt.Errorf("failed to delete persisted pool %s: %w", address, err)
		}
	}
	return true, nil
}

// bumpLocked starts a new snapshot version. Must be called with mu held.
func (svc *Service) bumpLocked() {
	v := svc.version.Add(1)
	svc.snapshot = nil
	metrics.SnapshotVersion.Set(float64(v))
	metrics.PoolCount.Set(float64(svc.pools.Len()))
}

func (svc *Service) Get(address solana.PublicKey) (*domain.Pool, bool) {
	return svc.pools.Get(address)
}

// AllPools returns every pool in insertion order, routable or not.
func (svc *Service) AllPools() []*domain.Pool {
	return svc.pools.GetAll()
}

// Snapshot returns the routable pools of the current version. Repeated calls
// without writes in between return the same Snapshot.
func (svc *Service) Snapshot() *Snapshot {
	svc.mu.RLock()
	snap := svc.snapshot
	svc.mu.RUnlock()
	if snap != nil {
		return snap
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.snapshot != nil {
		return svc.snapshot
	}
	ready := svc.registry.ReadyPools(svc.pools.GetAll())
	svc.snapshot = &Snapshot{
		Version: svc.version.Load(),
		Pools:   ready,
	}
	metrics.ReadyPoolCount.Set(float64(len(ready)))
	return svc.snapshot
}

// IsReady reports whether pool passes its kind's readiness validator.
func (svc *Service) IsReady(pool *domain.Pool) bool {
	return svc.registry.IsPoolReady(pool)
}

func (svc *Service) Version() uint64 {
	return svc.version.Load()
}

// GetStats returns the pool count and the number of pool updates applied.
func (svc *Service) GetStats() (int, uint64) {
	return svc.pools.Len(), svc.updateCount.Load()
}
