package router

import (
	"github.com/hxuan190/liquidity-router/internal/domain"
)

// Price impact thresholds in basis points
const (
	PriceImpactLow      uint16 = 100
	PriceImpactModerate uint16 = 300
	PriceImpactHigh     uint16 = 500
	PriceImpactExtreme  uint16 = 1000
)

type PriceImpactSeverity string

const (
	SeverityNone     PriceImpactSeverity = "none"     // < 1%
	SeverityLow      PriceImpactSeverity = "low"      // 1-3%
	SeverityModerate PriceImpactSeverity = "moderate" // 3-5%
	SeverityHigh     PriceImpactSeverity = "high"     // 5-10%
	SeverityExtreme  PriceImpactSeverity = "extreme"  // >= 10%
)

func GetPriceImpactSeverity(priceImpactBps uint16) PriceImpactSeverity {
	switch {
	case priceImpactBps < PriceImpactLow:
		return SeverityNone
	case priceImpactBps < PriceImpactModerate:
		return SeverityLow
	case priceImpactBps < PriceImpactHigh:
		return SeverityModerate
	case priceImpactBps < PriceImpactExtreme:
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}

// GetPriceImpactWarning returns a user-facing warning, empty below 1%.
func GetPriceImpactWarning(priceImpactBps uint16) string {
	switch GetPriceImpactSeverity(priceImpactBps) {
	case SeverityLow:
		return "Low price impact"
	case SeverityModerate:
		return "Moderate price impact - consider reducing trade size"
	case SeverityHigh:
		return "High price impact - you may receive significantly less tokens"
	case SeverityExtreme:
		return "EXTREME price impact - this trade will severely impact the market price"
	default:
		return ""
	}
}

// StepWarnings lists a warning for every step of a quote whose own impact is
// at least moderate. The aggregate of a sequential route can hide one bad hop.
func StepWarnings(q *domain.SwapQuote) []string {
	if q == nil {
		return nil
	}
	var warnings []string
	for _, s := range q.Route.Steps {
		if s.PriceImpactBps < PriceImpactModerate {
			continue
		}
		warnings = append(warnings, s.Source+": "+GetPriceImpactWarning(s.PriceImpactBps))
	}
	return warnings
}
