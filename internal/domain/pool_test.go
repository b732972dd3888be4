package domain

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/liquidity-router/internal/calculator"
)

var (
	tokenA = solana.PublicKey{0xa}
	tokenB = solana.PublicKey{0xb}
	tokenC = solana.PublicKey{0xc}
)

func ammPool(reserveA, reserveB uint64, fee uint16) *Pool {
	return &Pool{
		Kind:     PoolKindConstantProduct,
		Address:  solana.PublicKey{0x01},
		Source:   "Test",
		TokenA:   tokenA,
		TokenB:   tokenB,
		ReserveA: reserveA,
		ReserveB: reserveB,
		FeeRate:  fee,
	}
}

func bookPool(liqA, liqB, bid, ask uint64) *Pool {
	return &Pool{
		Kind:     PoolKindOrderBook,
		Address:  solana.PublicKey{0x02},
		Source:   "Book",
		TokenA:   tokenA,
		TokenB:   tokenB,
		ReserveA: liqA,
		ReserveB: liqB,
		BestBid:  bid,
		BestAsk:  ask,
	}
}

func TestAMMPoolUsesCalculator(t *testing.T) {
	pool := ammPool(1_000_000_000, 50_000_000_000, 25)

	out, impact, err := pool.CalculateOutput(1_000_000, true)
	require.NoError(t, err)
	want, err := calculator.AmountOut(1_000_000, 1_000_000_000, 50_000_000_000, 25)
	require.NoError(t, err)
	require.Equal(t, want, out)
	wantImpact, err := calculator.PriceImpactBps(1_000_000, want, 1_000_000_000, 50_000_000_000)
	require.NoError(t, err)
	require.Equal(t, wantImpact, impact)

	back, _, err := pool.CalculateOutput(1_000_000, false)
	require.NoError(t, err)
	wantBack, _ := calculator.AmountOut(1_000_000, 50_000_000_000, 1_000_000_000, 25)
	require.Equal(t, wantBack, back)
}

func TestConcentratedLiquidityPricesLikeConstantProduct(t *testing.T) {
	cp := ammPool(1_500_000_000, 75_000_000_000, 10)
	cl := ammPool(1_500_000_000, 75_000_000_000, 10)
	cl.Kind = PoolKindConcentratedLiquidity

	outCP, impactCP, err := cp.CalculateOutput(2_000_000, true)
	require.NoError(t, err)
	outCL, impactCL, err := cl.CalculateOutput(2_000_000, true)
	require.NoError(t, err)
	require.Equal(t, outCP, outCL)
	require.Equal(t, impactCP, impactCL)
}

func TestAMMZeroReserve(t *testing.T) {
	pool := ammPool(0, 1_000, 25)
	_, _, err := pool.CalculateOutput(10, true)
	require.ErrorIs(t, err, calculator.ErrInvalidReserves)
	require.False(t, pool.HasSufficientLiquidity(10, true))
}

func TestAMMLiquidityGuard(t *testing.T) {
	pool := ammPool(1_000, 1_000, 0)

	// 1000 in -> 500 out, exactly half of the reserve
	require.False(t, pool.HasSufficientLiquidity(1_000, true))
	// 100 in -> 90 out
	require.True(t, pool.HasSufficientLiquidity(100, true))
}

func TestOrderBookOutput(t *testing.T) {
	book := bookPool(1_000_000_000, 50_000_000_000, 49_500, 50_500)

	out, impact, err := book.CalculateOutput(1_000_000_000, true)
	require.NoError(t, err)
	require.Equal(t, uint64(49_500_000), out)
	require.Equal(t, uint16(202), impact)
	require.Equal(t, uint16(202), book.FeeBps())

	out, _, err = book.CalculateOutput(50_500_000, false)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), out)

	_, _, err = book.CalculateOutput(50_500_001*10, false)
	require.ErrorIs(t, err, calculator.ErrInsufficientLiquidity)
}

func TestOrderBookCeilingAndEmptySide(t *testing.T) {
	book := bookPool(1_000_000_000, 1_000_000, 49_500, 50_500)

	_, _, err := book.CalculateOutput(1_000_000_000, true)
	require.ErrorIs(t, err, calculator.ErrInsufficientLiquidity)
	require.False(t, book.HasSufficientLiquidity(1_000_000_000, true))
	require.True(t, book.HasSufficientLiquidity(1_000, true))

	noBid := bookPool(1_000_000_000, 50_000_000_000, 0, 50_500)
	_, _, err = noBid.CalculateOutput(1_000, true)
	require.ErrorIs(t, err, calculator.ErrInsufficientLiquidity)
	require.Equal(t, uint16(10000), noBid.SpreadBps())

	noAsk := bookPool(1_000_000_000, 50_000_000_000, 49_500, 0)
	_, _, err = noAsk.CalculateOutput(1_000, false)
	require.ErrorIs(t, err, calculator.ErrInsufficientLiquidity)
}

func TestSpreadBpsCapped(t *testing.T) {
	book := bookPool(1, 1, 1_000, 1_000_000)
	require.Equal(t, uint16(10000), book.SpreadBps())

	crossed := bookPool(1, 1, 1_000, 900)
	require.Equal(t, uint16(0), crossed.SpreadBps())
}

func TestDirection(t *testing.T) {
	pool := ammPool(1, 1, 0)

	aToB, ok := pool.Direction(tokenA, tokenB)
	require.True(t, ok)
	require.True(t, aToB)

	aToB, ok = pool.Direction(tokenB, tokenA)
	require.True(t, ok)
	require.False(t, aToB)

	_, ok = pool.Direction(tokenA, tokenC)
	require.False(t, ok)
	_, ok = pool.Direction(tokenA, tokenA)
	require.False(t, ok)
}

func TestPoolQuoteInverts(t *testing.T) {
	pool := ammPool(1_000_000_000, 50_000_000_000, 25)
	in, err := pool.Quote(10_000_000, true)
	require.NoError(t, err)
	out, _, err := pool.CalculateOutput(in, true)
	require.NoError(t, err)
	require.GreaterOrEqual(t, out, uint64(10_000_000))

	book := bookPool(1_000_000_000, 50_000_000_000, 49_500, 50_500)
	in, err = book.Quote(49_500_000, true)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), in)

	in, err = book.Quote(1_000, true)
	require.NoError(t, err)
	out, _, err = book.CalculateOutput(in, true)
	require.NoError(t, err)
	require.GreaterOrEqual(t, out, uint64(1_000))
}

func TestPoolValidate(t *testing.T) {
	require.NoError(t, ammPool(1, 1, 25).Validate())

	same := ammPool(1, 1, 25)
	same.TokenB = tokenA
	require.ErrorIs(t, same.Validate(), ErrInvalidPool)

	badFee := ammPool(1, 1, 10001)
	require.ErrorIs(t, badFee.Validate(), calculator.ErrInvalidFee)

	badKind := ammPool(1, 1, 25)
	badKind.Kind = PoolKind(9)
	require.ErrorIs(t, badKind.Validate(), ErrUnknownPoolKind)
	_, _, err := badKind.CalculateOutput(1, true)
	require.ErrorIs(t, err, ErrUnknownPoolKind)
}
