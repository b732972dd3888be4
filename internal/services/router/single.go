package router

import (
	"sort"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

// SinglePoolRouter picks the one pool that gives the most output.
type SinglePoolRouter struct{}

func (SinglePoolRouter) Name() string {
	return domain.StrategySinglePool
}

// FindBestRoute quotes every pool on the pair that passes its liquidity guard
// and keeps the first quote with the highest output.
func (r SinglePoolRouter) FindBestRoute(pools []*domain.Pool, tokenIn, tokenOut solana.PublicKey, amountIn uint64) (*domain.SwapQuote, error) {
	var best *domain.SwapQuote
	for _, m := range matchingPools(pools, tokenIn, tokenOut) {
		quote, ok := singlePoolQuote(m, tokenIn, tokenOut, amountIn, domain.StrategySinglePool)
		if !ok {
			continue
		}
		if quote.BetterThan(best) {
			best = quote
		}
	}
	if best == nil {
		return nil, ErrNoRouteFound
	}
	return best, nil
}

// FindAllRoutes returns every viable single-pool quote, best first.
func (r SinglePoolRouter) FindAllRoutes(pools []*domain.Pool, tokenIn, tokenOut solana.PublicKey, amountIn uint64) []*domain.SwapQuote {
	var quotes []*domain.SwapQuote
	for _, m := range matchingPools(pools, tokenIn, tokenOut) {
		if quote, ok := singlePoolQuote(m, tokenIn, tokenOut, amountIn, domain.StrategySinglePool); ok {
			quotes = append(quotes, quote)
		}
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].AmountOut > quotes[j].AmountOut
	})
	return quotes
}

// FindBestRouteExactOut returns the single-pool quote that needs the least
// input to produce amountOut.
func (r SinglePoolRouter) FindBestRouteExactOut(pools []*domain.Pool, tokenIn, tokenOut solana.PublicKey, amountOut uint64) (*domain.SwapQuote, error) {
	var best *domain.SwapQuote
	for _, m := range matchingPools(pools, tokenIn, tokenOut) {
		amountIn, err := m.pool.Quote(amountOut, m.aToB)
		if err != nil {
			continue
		}
		quote, ok := singlePoolQuote(m, tokenIn, tokenOut, amountIn, domain.StrategySinglePool)
		if !ok {
			continue
		}
		if best == nil || quote.AmountIn < best.AmountIn {
			best = quote
		}
	}
	if best == nil {
		return nil, ErrNoRouteFound
	}
	return best, nil
}

func singlePoolQuote(m poolMatch, tokenIn, tokenOut solana.PublicKey, amountIn uint64, strategy string) (*domain.SwapQuote, bool) {
	if !m.pool.HasSufficientLiquidity(amountIn, m.aToB) {
		return nil, false
	}
	amountOut, impact, err := m.pool.CalculateOutput(amountIn, m.aToB)
	if err != nil {
		return nil, false
	}
	route := domain.SingleStepRoute(newStep(m.pool, m.aToB, amountIn, amountOut, impact))
	return domain.NewSwapQuote(tokenIn, tokenOut, amountIn, route, strategy), true
}
