package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hxuan190/liquidity-router/internal/aggregator"
	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/services/executor"
	"github.com/hxuan190/liquidity-router/internal/services/router"
)

// quoteOnce prints every strategy's result, then the configured strategy's
// quote, and optionally executes it.
func quoteOnce(ctx context.Context, w io.Writer, aggSvc *aggregator.Service, exec *executor.Executor, req *domain.SwapRequest, execute bool) error {
	results, err := aggSvc.CompareStrategies(ctx, req)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tOUTPUT\tIMPACT\tHOPS\tTIME")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s (%v)\n", r.Strategy, r.Duration, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d bps\t%d\t%s\n",
			r.Quote.Strategy, r.Quote.AmountOut, r.Quote.PriceImpactBps, r.Quote.Route.HopCount(), r.Duration)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	quote, err := aggSvc.GetQuote(ctx, req)
	if err != nil {
		return err
	}
	printQuote(w, quote)

	if !execute {
		return nil
	}
	result, err := exec.Execute(ctx, quote, req.SlippageBps)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nexecution: success=%t dry_run=%t min_out=%d compute_units=%d\n",
		result.Success, result.DryRun, result.MinAmountOut, result.ComputeUnits)
	for _, line := range result.Logs {
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}

func printQuote(w io.Writer, quote *domain.SwapQuote) {
	fmt.Fprintf(w, "\nbest route: %s\n", quote.Strategy)
	fmt.Fprintf(w, "  in:     %d\n", quote.AmountIn)
	fmt.Fprintf(w, "  out:    %d\n", quote.AmountOut)
	fmt.Fprintf(w, "  price:  %s\n", quote.Route.EffectivePrice().StringFixed(6))
	fmt.Fprintf(w, "  impact: %d bps (%s)\n", quote.PriceImpactBps, router.GetPriceImpactSeverity(quote.PriceImpactBps))

	var percents []uint8
	if quote.Route.Shape == domain.RouteShapeParallel {
		percents = router.SplitPercents(&quote.Route)
	}
	for i, step := range quote.Route.Steps {
		share := ""
		if percents != nil {
			share = fmt.Sprintf(" [%d%%]", percents[i])
		}
		fmt.Fprintf(w, "  %d. %s %s%s: %d -> %d\n", i+1, step.Source, step.PoolAddress, share, step.AmountIn, step.AmountOut)
	}

	if warning := router.GetPriceImpactWarning(quote.PriceImpactBps); warning != "" {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	for _, warning := range router.StepWarnings(quote) {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}
