// Package dex builds snapshot pools for the liquidity sources the router
// understands. Each constructor pins the source's pricing model and fee.
package dex

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

const (
	SourceRaydium = "Raydium"
	SourceOrca    = "Orca"
	SourceMeteora = "Meteora"
	SourcePhoenix = "Phoenix"
)

const (
	RaydiumFeeBps             uint16 = 25
	OrcaConstantProductFeeBps uint16 = 30
	MeteoraDefaultFeeBps      uint16 = 25
)

var (
	RaydiumAMMProgramID    = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	OrcaTokenSwapProgramID = solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")
	OrcaWhirlpoolProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	MeteoraProgramID       = solana.MustPublicKeyFromBase58("Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB")
	PhoenixProgramID       = solana.MustPublicKeyFromBase58("PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY")
)

// NewRaydiumPool returns a Raydium constant-product pool at the fixed 0.25% fee.
func NewRaydiumPool(address, tokenA, tokenB solana.PublicKey, reserveA, reserveB uint64) *domain.Pool {
	return &domain.Pool{
		Kind:      domain.PoolKindConstantProduct,
		Address:   address,
		ProgramID: RaydiumAMMProgramID,
		Source:    SourceRaydium,
		TokenA:    tokenA,
		TokenB:    tokenB,
		ReserveA:  reserveA,
		ReserveB:  reserveB,
		FeeRate:   RaydiumFeeBps,
	}
}

// NewOrcaConstantProductPool returns a legacy Orca pool at the fixed 0.3% fee.
func NewOrcaConstantProductPool(address, tokenA, tokenB solana.PublicKey, reserveA, reserveB uint64) *domain.Pool {
	return &domain.Pool{
		Kind:      domain.PoolKindConstantProduct,
		Address:   address,
		ProgramID: OrcaTokenSwapProgramID,
		Source:    SourceOrca,
		TokenA:    tokenA,
		TokenB:    tokenB,
		ReserveA:  reserveA,
		ReserveB:  reserveB,
		FeeRate:   OrcaConstantProductFeeBps,
	}
}

// NewOrcaWhirlpool returns a concentrated-liquidity pool. Reserves are the
// virtual reserves at the current price; pricing uses the constant-product
// approximation.
func NewOrcaWhirlpool(address, tokenA, tokenB solana.PublicKey, reserveA, reserveB uint64, feeBps uint16) *domain.Pool {
	return &domain.Pool{
		Kind:      domain.PoolKindConcentratedLiquidity,
		Address:   address,
		ProgramID: OrcaWhirlpoolProgramID,
		Source:    SourceOrca,
		TokenA:    tokenA,
		TokenB:    tokenB,
		ReserveA:  reserveA,
		ReserveB:  reserveB,
		FeeRate:   feeBps,
	}
}

func NewMeteoraPool(address, tokenA, tokenB solana.PublicKey, reserveA, reserveB uint64, feeBps uint16) *domain.Pool {
	return &domain.Pool{
		Kind:      domain.PoolKindConstantProduct,
		Address:   address,
		ProgramID: MeteoraProgramID,
		Source:    SourceMeteora,
		TokenA:    tokenA,
		TokenB:    tokenB,
		ReserveA:  reserveA,
		ReserveB:  reserveB,
		FeeRate:   feeBps,
	}
}

// NewPhoenixMarket returns an order-book source priced at its best bid/ask.
// liquidityA and liquidityB are the quantities resting on each side; bid and
// ask are scaled by domain.OrderBookPriceScale.
func NewPhoenixMarket(address, tokenA, tokenB solana.PublicKey, liquidityA, liquidityB, bestBid, bestAsk uint64) *domain.Pool {
	return &domain.Pool{
		Kind:      domain.PoolKindOrderBook,
		Address:   address,
		ProgramID: PhoenixProgramID,
		Source:    SourcePhoenix,
		TokenA:    tokenA,
		TokenB:    tokenB,
		ReserveA:  liquidityA,
		ReserveB:  liquidityB,
		BestBid:   bestBid,
		BestAsk:   bestAsk,
	}
}

// SourceForProgram maps an owning program to its source name and pool kind.
func SourceForProgram(programID solana.PublicKey) (string, domain.PoolKind, bool) {
	switch {
	case programID.Equals(RaydiumAMMProgramID):
		return SourceRaydium, domain.PoolKindConstantProduct, true
	case programID.Equals(OrcaTokenSwapProgramID):
		return SourceOrca, domain.PoolKindConstantProduct, true
	case programID.Equals(OrcaWhirlpoolProgramID):
		return SourceOrca, domain.PoolKindConcentratedLiquidity, true
	case programID.Equals(MeteoraProgramID):
		return SourceMeteora, domain.PoolKindConstantProduct, true
	case programID.Equals(PhoenixProgramID):
		return SourcePhoenix, domain.PoolKindOrderBook, true
	default:
		return "", 0, false
	}
}

// ExamplePools is the demo snapshot: four AMM pools on one pair with
// different depths and fees.
func ExamplePools(tokenA, tokenB solana.PublicKey) []*domain.Pool {
	return []*domain.Pool{
		NewRaydiumPool(solana.NewWallet().PublicKey(), tokenA, tokenB, 1_000_000_000, 50_000_000_000),
		NewOrcaConstantProductPool(solana.NewWallet().PublicKey(), tokenA, tokenB, 2_000_000_000, 100_000_000_000),
		NewOrcaWhirlpool(solana.NewWallet().PublicKey(), tokenA, tokenB, 1_500_000_000, 75_000_000_000, 10),
		NewMeteoraPool(solana.NewWallet().PublicKey(), tokenA, tokenB, 1_200_000_000, 60_000_000_000, 20),
	}
}
