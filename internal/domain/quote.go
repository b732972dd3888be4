package domain

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const MaxPriceImpactBps uint16 = 10000

const (
	StrategySinglePool = "single_pool"
	StrategySplit      = "split"
)

// MultiHopStrategy labels a multi-hop quote by its hop count, e.g. "multi_hop_2".
func MultiHopStrategy(hops int) string {
	return fmt.Sprintf("multi_hop_%d", hops)
}

type RouteShape uint8

const (
	// RouteShapeSequential chains steps: each step's output feeds the next.
	RouteShapeSequential RouteShape = iota
	// RouteShapeParallel splits one input across steps on the same pair.
	RouteShapeParallel
)

func (s RouteShape) String() string {
	switch s {
	case RouteShapeSequential:
		return "sequential"
	case RouteShapeParallel:
		return "parallel"
	default:
		return "UNKNOWN"
	}
}

type RouteStep struct {
	PoolAddress    solana.PublicKey `json:"poolAddress"`
	Source         string           `json:"source"`
	TokenIn        solana.PublicKey `json:"tokenIn"`
	TokenOut       solana.PublicKey `json:"tokenOut"`
	AmountIn       uint64           `json:"amountIn"`
	AmountOut      uint64           `json:"amountOut"`
	PriceImpactBps uint16           `json:"priceImpactBps"`
	FeeBps         uint16           `json:"feeBps"`
}

type Route struct {
	Steps               []RouteStep `json:"steps"`
	Shape               RouteShape  `json:"shape"`
	TotalInput          uint64      `json:"totalInput"`
	TotalOutput         uint64      `json:"totalOutput"`
	TotalPriceImpactBps uint16      `json:"totalPriceImpactBps"`
}

func SingleStepRoute(step RouteStep) Route {
	return Route{
		Steps:               []RouteStep{step},
		Shape:               RouteShapeSequential,
		TotalInput:          step.AmountIn,
		TotalOutput:         step.AmountOut,
		TotalPriceImpactBps: step.PriceImpactBps,
	}
}

// SequentialRoute chains steps. The aggregate impact is the sum of step
// impacts capped at 10000 bps.
func SequentialRoute(steps []RouteStep) Route {
	r := Route{Steps: steps, Shape: RouteShapeSequential}
	if len(steps) == 0 {
		return r
	}
	r.TotalInput = steps[0].AmountIn
	r.TotalOutput = steps[len(steps)-1].AmountOut

	var impact uint32
	for _, s := range steps {
		impact += uint32(s.PriceImpactBps)
	}
	if impact > uint32(MaxPriceImpactBps) {
		impact = uint32(MaxPriceImpactBps)
	}
	r.TotalPriceImpactBps = uint16(impact)
	return r
}

// ParallelRoute sums inputs and outputs across steps. The aggregate impact is
// the input-weighted mean of step impacts.
func ParallelRoute(steps []RouteStep) (Route, error) {
	r := Route{Steps: steps, Shape: RouteShapeParallel}

	totalIn := new(uint256.Int)
	totalOut := new(uint256.Int)
	weighted := new(uint256.Int)
	temp := new(uint256.Int)
	for _, s := range steps {
		totalIn.Add(totalIn, temp.SetUint64(s.AmountIn))
		totalOut.Add(totalOut, temp.SetUint64(s.AmountOut))
		temp.SetUint64(s.AmountIn)
		weighted.Add(weighted, temp.Mul(temp, uint256.NewInt(uint64(s.PriceImpactBps))))
	}
	if !totalIn.IsUint64() || !totalOut.IsUint64() {
		return Route{}, fmt.Errorf("%w: parallel totals exceed 64 bits", ErrInvalidRoute)
	}
	r.TotalInput = totalIn.Uint64()
	r.TotalOutput = totalOut.Uint64()
	if !totalIn.IsZero() {
		weighted.Div(weighted, totalIn)
		r.TotalPriceImpactBps = uint16(weighted.Uint64())
	}
	return r, nil
}

func (r *Route) HopCount() int {
	if r.Shape == RouteShapeParallel {
		if len(r.Steps) == 0 {
			return 0
		}
		return 1
	}
	return len(r.Steps)
}

func (r *Route) IsDirect() bool {
	return r.HopCount() == 1
}

// EffectivePrice is TotalOutput / TotalInput in raw units.
func (r *Route) EffectivePrice() decimal.Decimal {
	if r.TotalInput == 0 {
		return decimal.Zero
	}
	out := decimal.NewFromBigInt(new(big.Int).SetUint64(r.TotalOutput), 0)
	in := decimal.NewFromBigInt(new(big.Int).SetUint64(r.TotalInput), 0)
	return out.Div(in)
}

// Path is the token sequence the route walks through.
func (r *Route) Path() []solana.PublicKey {
	if len(r.Steps) == 0 {
		return nil
	}
	if r.Shape == RouteShapeParallel {
		return []solana.PublicKey{r.Steps[0].TokenIn, r.Steps[0].TokenOut}
	}
	path := make([]solana.PublicKey, 0, len(r.Steps)+1)
	path = append(path, r.Steps[0].TokenIn)
	for _, s := range r.Steps {
		path = append(path, s.TokenOut)
	}
	return path
}

// TotalFeeBps sums step fees for sequential routes and input-weights them for
// parallel ones.
func (r *Route) TotalFeeBps() uint16 {
	if r.Shape == RouteShapeParallel {
		if r.TotalInput == 0 {
			return 0
		}
		weighted := new(uint256.Int)
		temp := new(uint256.Int)
		for _, s := range r.Steps {
			temp.SetUint64(s.AmountIn)
			weighted.Add(weighted, temp.Mul(temp, uint256.NewInt(uint64(s.FeeBps))))
		}
		return uint16(weighted.Div(weighted, uint256.NewInt(r.TotalInput)).Uint64())
	}
	var fee uint32
	for _, s := range r.Steps {
		fee += uint32(s.FeeBps)
	}
	if fee > uint32(MaxPriceImpactBps) {
		fee = uint32(MaxPriceImpactBps)
	}
	return uint16(fee)
}

// Validate checks the structural invariants of the route's shape.
func (r *Route) Validate() error {
	if len(r.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidRoute)
	}
	switch r.Shape {
	case RouteShapeSequential:
		for i := 1; i < len(r.Steps); i++ {
			prev, cur := r.Steps[i-1], r.Steps[i]
			if !prev.TokenOut.Equals(cur.TokenIn) {
				return fmt.Errorf("%w: step %d input token does not follow step %d", ErrInvalidRoute, i, i-1)
			}
			if prev.AmountOut != cur.AmountIn {
				return fmt.Errorf("%w: step %d input %d != step %d output %d", ErrInvalidRoute, i, cur.AmountIn, i-1, prev.AmountOut)
			}
		}
	case RouteShapeParallel:
		first := r.Steps[0]
		var sum uint64
		for i, s := range r.Steps {
			if !s.TokenIn.Equals(first.TokenIn) || !s.TokenOut.Equals(first.TokenOut) {
				return fmt.Errorf("%w: step %d trades a different pair", ErrInvalidRoute, i)
			}
			sum += s.AmountIn
		}
		if sum != r.TotalInput {
			return fmt.Errorf("%w: step inputs sum to %d, want %d", ErrInvalidRoute, sum, r.TotalInput)
		}
	default:
		return fmt.Errorf("%w: unknown shape %d", ErrInvalidRoute, r.Shape)
	}
	return nil
}

type SwapQuote struct {
	TokenIn        solana.PublicKey `json:"tokenIn"`
	TokenOut       solana.PublicKey `json:"tokenOut"`
	AmountIn       uint64           `json:"amountIn"`
	AmountOut      uint64           `json:"amountOut"`
	PriceImpactBps uint16           `json:"priceImpactBps"`
	Route          Route            `json:"route"`
	Strategy       string           `json:"strategy"`
}

func NewSwapQuote(tokenIn, tokenOut solana.PublicKey, amountIn uint64, route Route, strategy string) *SwapQuote {
	return &SwapQuote{
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		AmountIn:       amountIn,
		AmountOut:      route.TotalOutput,
		PriceImpactBps: route.TotalPriceImpactBps,
		Route:          route,
		Strategy:       strategy,
	}
}

// BetterThan orders quotes by output only. Equal outputs are not better.
func (q *SwapQuote) BetterThan(other *SwapQuote) bool {
	if other == nil {
		return true
	}
	return q.AmountOut > other.AmountOut
}
