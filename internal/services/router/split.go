package router

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"

	"github.com/hxuan190/liquidity-router/internal/calculator"
	"github.com/hxuan190/liquidity-router/internal/domain"
)

// SplitGridStep is the percentage step of the two-pool grid search.
const SplitGridStep = 10

// SplitRouter divides the input across every pool on the pair.
type SplitRouter struct{}

func (SplitRouter) Name() string {
	return domain.StrategySplit
}

// allocation is one pool's share of a split and its priced result.
// err is set when the pool could not price its share.
type allocation struct {
	match     poolMatch
	percent   uint64
	amountIn  uint64
	amountOut uint64
	impactBps uint16
	err       error
}

func (a *allocation) price() {
	if a.amountIn == 0 {
		return
	}
	a.amountOut, a.impactBps, a.err = a.match.pool.CalculateOutput(a.amountIn, a.match.aToB)
	if a.err != nil {
		a.amountOut, a.impactBps = 0, 0
	}
}

// FindBestRoute searches an 11-point grid when two pools match, splits
// evenly when three or more match and falls back to a single-pool quote when
// only one does.
func (r SplitRouter) FindBestRoute(pools []*domain.Pool, tokenIn, tokenOut solana.PublicKey, amountIn uint64) (*domain.SwapQuote, error) {
	matches := matchingPools(pools, tokenIn, tokenOut)

	var allocs []allocation
	switch len(matches) {
	case 0:
		return nil, ErrNoRouteFound
	case 1:
		m := matches[0]
		amountOut, impact, err := m.pool.CalculateOutput(amountIn, m.aToB)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoRouteFound, err)
		}
		route := domain.SingleStepRoute(newStep(m.pool, m.aToB, amountIn, amountOut, impact))
		return domain.NewSwapQuote(tokenIn, tokenOut, amountIn, route, domain.StrategySplit), nil
	case 2:
		allocs = bestTwoPoolSplit(matches[0], matches[1], amountIn)
	default:
		allocs = equalSplit(matches, amountIn)
	}

	return buildSplitQuote(allocs, tokenIn, tokenOut)
}

// bestTwoPoolSplit tries p% to the first pool and the rest to the second for
// p in 0, 10, ..., 100. A trial in which either pool cannot price a non-zero
// share is skipped. Ties keep the smallest p. It returns nil when no trial
// routes the whole input.
func bestTwoPoolSplit(first, second poolMatch, amountIn uint64) []allocation {
	var (
		best      []allocation
		bestTotal = new(uint256.Int)
		total     = new(uint256.Int)
		temp      = new(uint256.Int)
	)

	for p := uint64(0); p <= 100; p += SplitGridStep {
		// amountIn * p / 100 never exceeds amountIn
		amount1, _ := calculator.MulDiv(amountIn, p, 100)
		trial := []allocation{
			{match: first, percent: p, amountIn: amount1},
			{match: second, percent: 100 - p, amountIn: amountIn - amount1},
		}
		trial[0].price()
		trial[1].price()
		if trial[0].err != nil || trial[1].err != nil {
			continue
		}

		total.SetUint64(trial[0].amountOut)
		total.Add(total, temp.SetUint64(trial[1].amountOut))
		if best == nil || total.Gt(bestTotal) {
			best = trial
			bestTotal.Set(total)
		}
	}
	return best
}

// equalSplit gives every pool amountIn / n; the last pool takes the remainder.
// Pools that cannot price their share are dropped and the input is split
// again over the rest, so the shares always add up to amountIn. It returns
// nil when no pool is left.
func equalSplit(matches []poolMatch, amountIn uint64) []allocation {
	for len(matches) > 0 {
		allocs, healthy := splitEvenly(matches, amountIn)
		if len(healthy) == len(matches) {
			return allocs
		}
		matches = healthy
	}
	return nil
}

func splitEvenly(matches []poolMatch, amountIn uint64) ([]allocation, []poolMatch) {
	n := uint64(len(matches))
	base := amountIn / n

	allocs := make([]allocation, len(matches))
	healthy := make([]poolMatch, 0, len(matches))
	for i, m := range matches {
		amount := base
		if i == len(matches)-1 {
			amount = amountIn - base*(n-1)
		}
		allocs[i] = allocation{match: m, amountIn: amount}
		if amountIn > 0 {
			allocs[i].percent = amount * 100 / amountIn
		}
		allocs[i].price()
		if allocs[i].err == nil {
			healthy = append(healthy, m)
		}
	}
	return allocs, healthy
}

// buildSplitQuote turns priced allocations into a parallel route. Allocations
// with no input are left out of the route; a pricing failure on a non-zero
// share fails the quote, since the steps must spend the whole input.
func buildSplitQuote(allocs []allocation, tokenIn, tokenOut solana.PublicKey) (*domain.SwapQuote, error) {
	steps := make([]domain.RouteStep, 0, len(allocs))
	for _, a := range allocs {
		if a.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoRouteFound, a.err)
		}
		if a.amountIn == 0 {
			continue
		}
		steps = append(steps, newStep(a.match.pool, a.match.aToB, a.amountIn, a.amountOut, a.impactBps))
	}
	if len(steps) == 0 {
		return nil, ErrNoRouteFound
	}

	route, err := domain.ParallelRoute(steps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRouteFound, err)
	}
	return domain.NewSwapQuote(tokenIn, tokenOut, route.TotalInput, route, domain.StrategySplit), nil
}

// SplitPercents reports the share of input each step of a parallel route
// received, in whole percent.
func SplitPercents(route *domain.Route) []uint8 {
	percents := make([]uint8, len(route.Steps))
	if route.TotalInput == 0 {
		return percents
	}
	for i, s := range route.Steps {
		p, _ := calculator.MulDiv(s.AmountIn, 100, route.TotalInput)
		percents[i] = uint8(p)
	}
	return percents
}
