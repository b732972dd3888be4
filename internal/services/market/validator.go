package market

import (
	"github.com/hxuan190/liquidity-router/internal/domain"
)

// ReservesValidator implements PoolValidator for AMM pools
type ReservesValidator struct{}

func NewReservesValidator() *ReservesValidator {
	return &ReservesValidator{}
}

// IsReady checks that both reserves are non-zero. A zero reserve cannot be
// priced in either direction.
func (v *ReservesValidator) IsReady(pool *domain.Pool) bool {
	return pool.ReserveA > 0 && pool.ReserveB > 0
}

func (v *ReservesValidator) SupportsPoolKind(kind domain.PoolKind) bool {
	return kind == domain.PoolKindConstantProduct || kind == domain.PoolKindConcentratedLiquidity
}

// OrderBookValidator implements PoolValidator for order-book markets
type OrderBookValidator struct{}

func NewOrderBookValidator() *OrderBookValidator {
	return &OrderBookValidator{}
}

// IsReady requires a two-sided, uncrossed book with resting quantity on at
// least one side.
func (v *OrderBookValidator) IsReady(pool *domain.Pool) bool {
	if pool.BestBid == 0 || pool.BestAsk == 0 {
		return false
	}
	if pool.BestAsk < pool.BestBid {
		return false
	}
	return pool.ReserveA > 0 || pool.ReserveB > 0
}

func (v *OrderBookValidator) SupportsPoolKind(kind domain.PoolKind) bool {
	return kind == domain.PoolKindOrderBook
}
