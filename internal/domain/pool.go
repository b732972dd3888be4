package domain

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/liquidity-router/internal/calculator"
)

// OrderBookPriceScale is the fixed-point scale of best bid/ask prices:
// a price of 1_000_000 means one unit of B per unit of A.
const OrderBookPriceScale uint64 = 1_000_000

type PoolKind uint8

const (
	PoolKindConstantProduct PoolKind = iota
	PoolKindConcentratedLiquidity
	PoolKindOrderBook
)

func (k PoolKind) String() string {
	switch k {
	case PoolKindConstantProduct:
		return "ConstantProduct"
	case PoolKindConcentratedLiquidity:
		return "ConcentratedLiquidity"
	case PoolKindOrderBook:
		return "OrderBook"
	default:
		return "UNKNOWN"
	}
}

func ParsePoolKind(s string) (PoolKind, bool) {
	switch s {
	case "ConstantProduct":
		return PoolKindConstantProduct, true
	case "ConcentratedLiquidity":
		return PoolKindConcentratedLiquidity, true
	case "OrderBook":
		return PoolKindOrderBook, true
	default:
		return 0, false
	}
}

// Pool is one liquidity source in a snapshot. Kind selects the pricing model;
// BestBid and BestAsk are only meaningful for order books. Routing never
// mutates a Pool.
type Pool struct {
	Kind      PoolKind         `json:"kind"`
	Address   solana.PublicKey `json:"address"`
	ProgramID solana.PublicKey `json:"programId"`
	Source    string           `json:"source"`
	TokenA    solana.PublicKey `json:"tokenA"`
	TokenB    solana.PublicKey `json:"tokenB"`
	ReserveA  uint64           `json:"reserveA"`
	ReserveB  uint64           `json:"reserveB"`
	FeeRate   uint16           `json:"feeRate"`
	BestBid   uint64           `json:"bestBid,omitempty"`
	BestAsk   uint64           `json:"bestAsk,omitempty"`
}

func (p *Pool) ID() solana.PublicKey {
	return p.Address
}

// FeeBps is the pool's fee in basis points. Order books report their spread.
func (p *Pool) FeeBps() uint16 {
	if p.Kind == PoolKindOrderBook {
		return p.SpreadBps()
	}
	return p.FeeRate
}

// Reserves returns (reserveIn, reserveOut) for the given direction.
func (p *Pool) Reserves(aToB bool) (uint64, uint64) {
	if aToB {
		return p.ReserveA, p.ReserveB
	}
	return p.ReserveB, p.ReserveA
}

// Direction reports whether the pool trades tokenIn for tokenOut and, if so,
// whether the swap runs A->B.
func (p *Pool) Direction(tokenIn, tokenOut solana.PublicKey) (aToB bool, ok bool) {
	switch {
	case p.TokenA.Equals(tokenIn) && p.TokenB.Equals(tokenOut):
		return true, true
	case p.TokenB.Equals(tokenIn) && p.TokenA.Equals(tokenOut):
		return false, true
	default:
		return false, false
	}
}

// Tokens returns (tokenIn, tokenOut) for the given direction.
func (p *Pool) Tokens(aToB bool) (solana.PublicKey, solana.PublicKey) {
	if aToB {
		return p.TokenA, p.TokenB
	}
	return p.TokenB, p.TokenA
}

// SpreadBps is (ask - bid) / bid in basis points, capped at 10000.
// An empty bid side counts as a 100% spread.
func (p *Pool) SpreadBps() uint16 {
	if p.BestBid == 0 {
		return uint16(calculator.BpsDenom)
	}
	var spread uint64
	if p.BestAsk > p.BestBid {
		spread = p.BestAsk - p.BestBid
	}
	bps, err := calculator.MulDiv(spread, calculator.BpsDenom, p.BestBid)
	if err != nil || bps > calculator.BpsDenom {
		return uint16(calculator.BpsDenom)
	}
	return uint16(bps)
}

// CalculateOutput prices amountIn through the pool and returns the output
// amount with its price impact in bps.
func (p *Pool) CalculateOutput(amountIn uint64, aToB bool) (uint64, uint16, error) {
	switch p.Kind {
	case PoolKindConstantProduct, PoolKindConcentratedLiquidity:
		return p.ammOutput(amountIn, aToB)
	case PoolKindOrderBook:
		return p.orderBookOutput(amountIn, aToB)
	default:
		return 0, 0, ErrUnknownPoolKind
	}
}

func (p *Pool) ammOutput(amountIn uint64, aToB bool) (uint64, uint16, error) {
	reserveIn, reserveOut := p.Reserves(aToB)
	amountOut, err := calculator.AmountOut(amountIn, reserveIn, reserveOut, p.FeeRate)
	if err != nil {
		return 0, 0, err
	}
	impact, err := calculator.PriceImpactBps(amountIn, amountOut, reserveIn, reserveOut)
	if err != nil {
		return 0, 0, err
	}
	return amountOut, impact, nil
}

// Selling A fills at the best bid, buying A fills at the best ask. The
// opposite side's available quantity caps the fill.
func (p *Pool) orderBookOutput(amountIn uint64, aToB bool) (uint64, uint16, error) {
	var (
		amountOut uint64
		available uint64
		err       error
	)
	if aToB {
		if p.BestBid == 0 {
			return 0, 0, calculator.ErrInsufficientLiquidity
		}
		available = p.ReserveB
		amountOut, err = calculator.MulDiv(amountIn, p.BestBid, OrderBookPriceScale)
	} else {
		if p.BestAsk == 0 {
			return 0, 0, calculator.ErrInsufficientLiquidity
		}
		available = p.ReserveA
		amountOut, err = calculator.MulDiv(amountIn, OrderBookPriceScale, p.BestAsk)
	}
	if err != nil {
		return 0, 0, err
	}
	if amountOut > available {
		return 0, 0, calculator.ErrInsufficientLiquidity
	}
	return amountOut, p.SpreadBps(), nil
}

// CalculatePriceImpact returns only the impact half of CalculateOutput.
func (p *Pool) CalculatePriceImpact(amountIn uint64, aToB bool) (uint16, error) {
	if p.Kind == PoolKindOrderBook {
		return p.SpreadBps(), nil
	}
	_, impact, err := p.CalculateOutput(amountIn, aToB)
	return impact, err
}

// HasSufficientLiquidity guards against pathological slippage: AMM pools
// reject swaps that would take half or more of the output reserve, order
// books accept whatever they can price.
func (p *Pool) HasSufficientLiquidity(amountIn uint64, aToB bool) bool {
	amountOut, _, err := p.CalculateOutput(amountIn, aToB)
	if err != nil {
		return false
	}
	if p.Kind == PoolKindOrderBook {
		return true
	}
	_, reserveOut := p.Reserves(aToB)
	return amountOut < reserveOut/2
}

// Quote returns the input amount required for amountOut. Order books are
// priced at the opposite side of the book.
func (p *Pool) Quote(amountOut uint64, aToB bool) (uint64, error) {
	switch p.Kind {
	case PoolKindConstantProduct, PoolKindConcentratedLiquidity:
		reserveIn, reserveOut := p.Reserves(aToB)
		return calculator.AmountIn(amountOut, reserveIn, reserveOut, p.FeeRate)
	case PoolKindOrderBook:
		_, available := p.Reserves(aToB)
		if amountOut > available {
			return 0, calculator.ErrInsufficientLiquidity
		}
		if aToB {
			if p.BestBid == 0 {
				return 0, calculator.ErrInsufficientLiquidity
			}
			return ceilMulDiv(amountOut, OrderBookPriceScale, p.BestBid)
		}
		if p.BestAsk == 0 {
			return 0, calculator.ErrInsufficientLiquidity
		}
		return ceilMulDiv(amountOut, p.BestAsk, OrderBookPriceScale)
	default:
		return 0, ErrUnknownPoolKind
	}
}

func ceilMulDiv(a, b, c uint64) (uint64, error) {
	q, err := calculator.MulDiv(a, b, c)
	if err != nil {
		return 0, err
	}
	back, err := calculator.MulDiv(q, c, b)
	if err != nil {
		return 0, err
	}
	if back < a {
		q++
	}
	return q, nil
}

func (p *Pool) Validate() error {
	if p.Address.IsZero() {
		return ErrInvalidPool
	}
	if p.TokenA.Equals(p.TokenB) {
		return ErrInvalidPool
	}
	if p.Kind > PoolKindOrderBook {
		return ErrUnknownPoolKind
	}
	if p.FeeRate > uint16(calculator.BpsDenom) {
		return calculator.ErrInvalidFee
	}
	return nil
}
