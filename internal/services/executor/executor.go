// Package executor turns a chosen quote into swaps. Only dry runs are
// supported: building and submitting transactions is left to a live backend.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/liquidity-router/internal/calculator"
	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/metrics"
	"github.com/hxuan190/liquidity-router/internal/services"
)

const EXECUTOR_SERVICE = "executor-service"

var (
	ErrLiveExecutionUnsupported = errors.New("live execution not supported, use dry-run mode")
	ErrInvalidSlippage          = errors.New("slippage must be at most 10000 bps")
	ErrNilQuote                 = errors.New("nil quote")
)

type Executor struct {
	logger *services.ServiceLogger
	dryRun bool
}

func New(dryRun bool) *Executor {
	e := &Executor{dryRun: dryRun}
	e.logger = services.NewServiceLogger(e)
	return e
}

func (e *Executor) ID() string {
	return EXECUTOR_SERVICE
}

func (e *Executor) DryRun() bool {
	return e.dryRun
}

// MinAmountOut is the least output a swap may settle for under slippageBps.
func MinAmountOut(amountOut uint64, slippageBps uint16) (uint64, error) {
	if uint64(slippageBps) > calculator.BpsDenom {
		return 0, ErrInvalidSlippage
	}
	return calculator.MulDiv(amountOut, calculator.BpsDenom-uint64(slippageBps), calculator.BpsDenom)
}

// Execute runs quote. A dry run never fails once the quote and slippage are
// valid; live mode always returns ErrLiveExecutionUnsupported.
func (e *Executor) Execute(ctx context.Context, quote *domain.SwapQuote, slippageBps uint16) (*domain.ExecutionResult, error) {
	mode := "live"
	if e.dryRun {
		mode = "dry_run"
	}

	result, err := e.execute(ctx, quote, slippageBps)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.Executions.WithLabelValues(mode, status).Inc()
	return result, err
}

func (e *Executor) execute(ctx context.Context, quote *domain.SwapQuote, slippageBps uint16) (*domain.ExecutionResult, error) {
	if quote == nil {
		return nil, ErrNilQuote
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	minOut, err := MinAmountOut(quote.AmountOut, slippageBps)
	if err != nil {
		return nil, err
	}
	if err := quote.Route.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to execute: %w", err)
	}

	if !e.dryRun {
		e.logger.Warn().Str("strategy", quote.Strategy).Msg("LIVE MODE requested")
		return nil, ErrLiveExecutionUnsupported
	}
	return e.simulate(quote, minOut), nil
}

func (e *Executor) simulate(quote *domain.SwapQuote, minOut uint64) *domain.ExecutionResult {
	cu := EstimateCU(&quote.Route)
	log := e.logger.Method("simulate")

	log.Info().
		Str("strategy", quote.Strategy).
		Str("token_in", quote.TokenIn.String()).
		Str("token_out", quote.TokenOut.String()).
		Uint64("amount_in", quote.AmountIn).
		Uint64("expected_out", quote.AmountOut).
		Uint64("min_out", minOut).
		Str("price_impact", bpsPercent(quote.PriceImpactBps)).
		Int("hops", quote.Route.HopCount()).
		Uint32("compute_units", cu.UnitsWithBuffer).
		Msg("DRY RUN - simulating swap")

	logs := make([]string, 0, len(quote.Route.Steps))
	for i, step := range quote.Route.Steps {
		log.Info().
			Int("step", i+1).
			Str("source", step.Source).
			Str("pool", step.PoolAddress.String()).
			Uint64("amount_in", step.AmountIn).
			Uint64("amount_out", step.AmountOut).
			Str("fee", bpsPercent(step.FeeBps)).
			Str("price_impact", bpsPercent(step.PriceImpactBps)).
			Msg("simulated step")
		logs = append(logs, fmt.Sprintf("step %d: %d -> %d on %s (fee %s%%, impact %s%%)",
			i+1, step.AmountIn, step.AmountOut, step.Source, bpsPercent(step.FeeBps), bpsPercent(step.PriceImpactBps)))
	}

	return &domain.ExecutionResult{
		Success:         true,
		DryRun:          true,
		SimulatedOutput: quote.AmountOut,
		MinAmountOut:    minOut,
		ComputeUnits:    cu.UnitsWithBuffer,
		Logs:            logs,
	}
}

// bpsPercent renders basis points as a percentage with two decimals.
func bpsPercent(bps uint16) string {
	return decimal.New(int64(bps), -2).StringFixed(2)
}
