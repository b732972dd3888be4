package market

import (
	"github.com/hxuan190/liquidity-router/internal/domain"
)

// PoolValidator decides whether a pool of a given kind can be routed through
type PoolValidator interface {
	IsReady(pool *domain.Pool) bool

	// SupportsPoolKind returns true if this validator can handle the given pool kind
	SupportsPoolKind(kind domain.PoolKind) bool
}

type MarketRegistry struct {
	validators []PoolValidator
}

func NewMarketRegistry() *MarketRegistry {
	return &MarketRegistry{
		validators: make([]PoolValidator, 0),
	}
}

func NewDefaultMarketRegistry() *MarketRegistry {
	r := NewMarketRegistry()
	r.RegisterValidator(NewReservesValidator())
	r.RegisterValidator(NewOrderBookValidator())
	return r
}

func (r *MarketRegistry) RegisterValidator(validator PoolValidator) {
	r.validators = append(r.validators, validator)
}

// IsPoolReady asks the first validator that supports the pool's kind.
// Kinds without a validator are not ready.
func (r *MarketRegistry) IsPoolReady(pool *domain.Pool) bool {
	for _, validator := range r.validators {
		if validator.SupportsPoolKind(pool.Kind) {
			return validator.IsReady(pool)
		}
	}
	return false
}

// ReadyPools filters pools down to the ones that can be routed through,
// keeping their order.
func (r *MarketRegistry) ReadyPools(pools []*domain.Pool) []*domain.Pool {
	ready := make([]*domain.Pool, 0, len(pools))
	for _, pool := range pools {
		if r.IsPoolReady(pool) {
			ready = append(ready, pool)
		}
	}
	return ready
}
