package executor

import (
	"github.com/hxuan190/liquidity-router/internal/dex"
	"github.com/hxuan190/liquidity-router/internal/domain"
)

// Compute unit budget for a route. The per-swap costs are what each program
// typically consumes for one swap instruction.
const (
	BaseComputeUnits  = 20_000
	DefaultSwapUnits  = 80_000
	ComputeUnitBuffer = 1.1 // 10% buffer
	MaxComputeUnits   = 1_400_000
	raydiumSwapUnits  = 60_000
	orcaSwapUnits     = 70_000
	meteoraSwapUnits  = 90_000
	phoenixSwapUnits  = 50_000
)

type CUEstimateResult struct {
	UnitsEstimated  uint64
	UnitsWithBuffer uint32
}

// EstimateCU sums the per-step swap cost of a route, adds a buffer and caps
// the result at the per-transaction maximum.
func EstimateCU(route *domain.Route) CUEstimateResult {
	units := uint64(BaseComputeUnits)
	for _, step := range route.Steps {
		units += swapUnits(step.Source)
	}

	withBuffer := uint64(float64(units) * ComputeUnitBuffer)
	if withBuffer > MaxComputeUnits {
		withBuffer = MaxComputeUnits
	}
	return CUEstimateResult{
		UnitsEstimated:  units,
		UnitsWithBuffer: uint32(withBuffer),
	}
}

func swapUnits(source string) uint64 {
	switch source {
	case dex.SourceRaydium:
		return raydiumSwapUnits
	case dex.SourceOrca:
		return orcaSwapUnits
	case dex.SourceMeteora:
		return meteoraSwapUnits
	case dex.SourcePhoenix:
		return phoenixSwapUnits
	default:
		return DefaultSwapUnits
	}
}
