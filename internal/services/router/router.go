// Package router finds the best way to swap one token for another across a
// pool snapshot. Every router is a pure function of its arguments: pools are
// read, never mutated, and no state is shared between calls.
package router

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

// Strategy is a routing algorithm over a pool snapshot.
type Strategy interface {
	Name() string
	FindBestRoute(pools []*domain.Pool, tokenIn, tokenOut solana.PublicKey, amountIn uint64) (*domain.SwapQuote, error)
}

var (
	_ Strategy = SinglePoolRouter{}
	_ Strategy = SplitRouter{}
	_ Strategy = MultiHopRouter{}
)

// poolMatch is a pool that trades the requested pair directly.
type poolMatch struct {
	pool *domain.Pool
	aToB bool
}

func matchingPools(pools []*domain.Pool, tokenIn, tokenOut solana.PublicKey) []poolMatch {
	var matches []poolMatch
	for _, pool := range pools {
		if pool == nil {
			continue
		}
		if aToB, ok := pool.Direction(tokenIn, tokenOut); ok {
			matches = append(matches, poolMatch{pool: pool, aToB: aToB})
		}
	}
	return matches
}

func newStep(pool *domain.Pool, aToB bool, amountIn, amountOut uint64, impactBps uint16) domain.RouteStep {
	tokenIn, tokenOut := pool.Tokens(aToB)
	return domain.RouteStep{
		PoolAddress:    pool.Address,
		Source:         pool.Source,
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		PriceImpactBps: impactBps,
		FeeBps:         pool.FeeBps(),
	}
}
