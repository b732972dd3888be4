package router

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

// DefaultMaxHops is the hop bound used when none is configured.
const DefaultMaxHops = 2

// MultiHopRouter chains swaps through intermediate tokens. MaxHops must lie
// in [MinHops, MaxHops].
type MultiHopRouter struct {
	MaxHops int
}

func NewMultiHopRouter(maxHops int) (MultiHopRouter, error) {
	if err := ValidateMaxHops(maxHops); err != nil {
		return MultiHopRouter{}, err
	}
	return MultiHopRouter{MaxHops: maxHops}, nil
}

func (MultiHopRouter) Name() string {
	return "multihop"
}

// FindBestRoute builds the token graph of pools and returns the best simple
// path of at most r.MaxHops hops.
func (r MultiHopRouter) FindBestRoute(pools []*domain.Pool, tokenIn, tokenOut solana.PublicKey, amountIn uint64) (*domain.SwapQuote, error) {
	if err := ValidateMaxHops(r.MaxHops); err != nil {
		return nil, err
	}
	return r.FindBestRouteWithGraph(NewGraph(pools), tokenIn, tokenOut, amountIn)
}

// FindBestRouteWithGraph is FindBestRoute over a graph that was built ahead
// of time. The graph must come from the snapshot being quoted.
func (r MultiHopRouter) FindBestRouteWithGraph(g *Graph, tokenIn, tokenOut solana.PublicKey, amountIn uint64) (*domain.SwapQuote, error) {
	if err := ValidateMaxHops(r.MaxHops); err != nil {
		return nil, err
	}

	var best *domain.SwapQuote
	for _, path := range g.FindPaths(tokenIn, tokenOut, r.MaxHops) {
		route, ok := evaluatePath(g, path, amountIn)
		if !ok {
			continue
		}
		quote := domain.NewSwapQuote(tokenIn, tokenOut, amountIn, route, domain.MultiHopStrategy(len(path)))
		if quote.BetterThan(best) {
			best = quote
		}
	}
	if best == nil {
		return nil, ErrNoRouteFound
	}
	return best, nil
}

// evaluatePath runs amountIn through each edge in order. Any step that fails
// to price discards the whole path.
func evaluatePath(g *Graph, path []Edge, amountIn uint64) (domain.Route, bool) {
	steps := make([]domain.RouteStep, 0, len(path))
	amount := amountIn
	for _, e := range path {
		pool := g.Pool(e)
		out, impact, err := pool.CalculateOutput(amount, e.AToB)
		if err != nil {
			return domain.Route{}, false
		}
		steps = append(steps, newStep(pool, e.AToB, amount, out, impact))
		amount = out
	}
	return domain.SequentialRoute(steps), true
}
