// Package aggregator runs routing strategies against the current market
// snapshot and picks the best quote.
package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/metrics"
	"github.com/hxuan190/liquidity-router/internal/services"
	"github.com/hxuan190/liquidity-router/internal/services/market"
	"github.com/hxuan190/liquidity-router/internal/services/router"
)

const AGGREGATOR_SERVICE = "aggregator-service"

// Strategy names accepted from callers.
const (
	StrategySingle   = "single"
	StrategySplit    = "split"
	StrategyMultiHop = "multihop"
	StrategyAll      = "all"
)

const DefaultQuoteCacheSize = 1024

var (
	// Error aliases
	ErrNoRouteFound = router.ErrNoRouteFound
	ErrConfig       = router.ErrConfig
)

// strategyOrder is the order "all" compares strategies in. Equal outputs
// keep the earlier strategy.
var strategyOrder = []string{StrategySingle, StrategySplit, StrategyMultiHop}

func ValidStrategy(name string) bool {
	switch name {
	case StrategySingle, StrategySplit, StrategyMultiHop, StrategyAll:
		return true
	default:
		return false
	}
}

type Config struct {
	DefaultStrategy string
	MaxHops         int
	QuoteCacheSize  int
}

// StrategyResult is one strategy's outcome when comparing strategies.
type StrategyResult struct {
	Strategy string
	Quote    *domain.SwapQuote
	Err      error
	Duration time.Duration
}

type Service struct {
	logger    *services.ServiceLogger
	marketSvc *market.Service
	config    Config
	cache     *QuoteCache

	graphMu      sync.Mutex
	graph        *router.Graph
	graphVersion uint64
}

func NewService(marketSvc *market.Service, cfg Config) (*Service, error) {
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = StrategyAll
	}
	if cfg.MaxHops == 0 {
		cfg.MaxHops = router.DefaultMaxHops
	}
	if cfg.QuoteCacheSize == 0 {
		cfg.QuoteCacheSize = DefaultQuoteCacheSize
	}
	if !ValidStrategy(cfg.DefaultStrategy) {
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrConfig, cfg.DefaultStrategy)
	}
	if err := router.ValidateMaxHops(cfg.MaxHops); err != nil {
		return nil, fmt.Errorf("%w: max hops %d", err, cfg.MaxHops)
	}

	svc := &Service{
		marketSvc: marketSvc,
		config:    cfg,
		cache:     NewQuoteCache(cfg.QuoteCacheSize),
	}
	svc.logger = services.NewServiceLogger(svc)
	return svc, nil
}

func (svc *Service) ID() string {
	return AGGREGATOR_SERVICE
}

func (svc *Service) Start() error {
	if err := svc.marketSvc.Start(); err != nil {
		return err
	}
	snap := svc.marketSvc.Snapshot()
	svc.logger.Info().
		Int("pools", len(snap.Pools)).
		Uint64("version", snap.Version).
		Str("default_strategy", svc.config.DefaultStrategy).
		Int("max_hops", svc.config.MaxHops).
		Msg("aggregator started")
	return nil
}

func (svc *Service) Stop() error {
	svc.cache.Clear()
	return svc.marketSvc.Stop()
}

func (svc *Service) Market() *market.Service {
	return svc.marketSvc
}

func (svc *Service) Config() Config {
	return svc.config
}

// resolve fills request defaults and validates them.
func (svc *Service) resolve(req *domain.SwapRequest) (string, int, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = svc.config.DefaultStrategy
	}
	if !ValidStrategy(strategy) {
		return "", 0, fmt.Errorf("%w: unknown strategy %q", ErrConfig, strategy)
	}
	maxHops := req.MaxHops
	if maxHops == 0 {
		maxHops = svc.config.MaxHops
	}
	if err := router.ValidateMaxHops(maxHops); err != nil {
		return "", 0, fmt.Errorf("%w: max hops %d", err, maxHops)
	}
	switch req.SwapMode {
	case "", domain.SwapModeExactIn, domain.SwapModeExactOut:
	default:
		return "", 0, fmt.Errorf("%w: unknown swap mode %q", ErrConfig, req.SwapMode)
	}
	return strategy, maxHops, nil
}

// GetQuote quotes req against the current snapshot. ExactOut requests are
// priced by the single-pool router only.
func (svc *Service) GetQuote(ctx context.Context, req *domain.SwapRequest) (*domain.SwapQuote, error) {
	strategy, maxHops, err := svc.resolve(req)
	if err != nil {
		return nil, err
	}

	snap := svc.marketSvc.Snapshot()
	key := quoteKey{
		inputMint:  req.InputMint,
		outputMint: req.OutputMint,
		amount:     req.Amount,
		strategy:   strategy,
		maxHops:    maxHops,
		exactOut:   req.IsExactOut(),
		version:    snap.Version,
	}
	if quote, ok := svc.cache.Get(key); ok {
		metrics.QuoteCacheHits.Inc()
		return quote, nil
	}
	metrics.QuoteCacheMisses.Inc()
	metrics.PoolsEvaluated.Observe(float64(len(snap.Pools)))

	var quote *domain.SwapQuote
	switch {
	case req.IsExactOut():
		quote, err = svc.timed(StrategySingle, func() (*domain.SwapQuote, error) {
			return router.SinglePoolRouter{}.FindBestRouteExactOut(snap.Pools, req.InputMint, req.OutputMint, req.Amount)
		})
	case strategy == StrategyAll:
		quote, err = svc.bestOfAll(ctx, snap, req, maxHops)
	default:
		quote, err = svc.runStrategy(snap, strategy, req, maxHops)
	}
	if err != nil {
		svc.logger.Debug().
			Str("input_mint", req.InputMint.String()).
			Str("output_mint", req.OutputMint.String()).
			Uint64("amount", req.Amount).
			Str("strategy", strategy).
			Err(err).
			Msg("no quote")
		return nil, err
	}

	severity := router.GetPriceImpactSeverity(quote.PriceImpactBps)
	metrics.PriceImpact.WithLabelValues(string(severity)).Observe(float64(quote.PriceImpactBps))
	metrics.RouteHops.Observe(float64(quote.Route.HopCount()))

	svc.cache.Set(key, quote)
	metrics.QuoteCacheSize.Set(float64(svc.cache.Size()))
	return quote, nil
}

// CompareStrategies runs every strategy concurrently and reports each
// outcome in a fixed order.
func (svc *Service) CompareStrategies(ctx context.Context, req *domain.SwapRequest) ([]StrategyResult, error) {
	_, maxHops, err := svc.resolve(req)
	if err != nil {
		return nil, err
	}
	return svc.compare(ctx, svc.marketSvc.Snapshot(), req, maxHops)
}

func (svc *Service) compare(ctx context.Context, snap *market.Snapshot, req *domain.SwapRequest, maxHops int) ([]StrategyResult, error) {
	results := make([]StrategyResult, len(strategyOrder))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range strategyOrder {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			quote, err := svc.runStrategy(snap, name, req, maxHops)
			results[i] = StrategyResult{
				Strategy: name,
				Quote:    quote,
				Err:      err,
				Duration: time.Since(start),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (svc *Service) bestOfAll(ctx context.Context, snap *market.Snapshot, req *domain.SwapRequest, maxHops int) (*domain.SwapQuote, error) {
	results, err := svc.compare(ctx, snap, req, maxHops)
	if err != nil {
		return nil, err
	}

	var (
		best   *domain.SwapQuote
		winner string
	)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if r.Quote.BetterThan(best) {
			best = r.Quote
			winner = r.Strategy
		}
	}
	if best == nil {
		return nil, ErrNoRouteFound
	}
	metrics.StrategyWins.WithLabelValues(winner).Inc()
	return best, nil
}

func (svc *Service) runStrategy(snap *market.Snapshot, name string, req *domain.SwapRequest, maxHops int) (*domain.SwapQuote, error) {
	return svc.timed(name, func() (*domain.SwapQuote, error) {
		switch name {
		case StrategySingle:
			return router.SinglePoolRouter{}.FindBestRoute(snap.Pools, req.InputMint, req.OutputMint, req.Amount)
		case StrategySplit:
			return router.SplitRouter{}.FindBestRoute(snap.Pools, req.InputMint, req.OutputMint, req.Amount)
		case StrategyMultiHop:
			r := router.MultiHopRouter{MaxHops: maxHops}
			return r.FindBestRouteWithGraph(svc.graphFor(snap), req.InputMint, req.OutputMint, req.Amount)
		default:
			return nil, fmt.Errorf("%w: unknown strategy %q", ErrConfig, name)
		}
	})
}

func (svc *Service) timed(name string, fn func() (*domain.SwapQuote, error)) (*domain.SwapQuote, error) {
	start := time.Now()
	quote, err := fn()
	metrics.QuoteDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.QuoteRequests.WithLabelValues(name, status).Inc()
	return quote, err
}

// graphFor returns the token graph of snap, rebuilding it only when the
// snapshot version moved.
func (svc *Service) graphFor(snap *market.Snapshot) *router.Graph {
	svc.graphMu.Lock()
	defer svc.graphMu.Unlock()

	if svc.graph != nil && svc.graphVersion == snap.Version {
		return svc.graph
	}
	svc.graph = router.NewGraph(snap.Pools)
	svc.graphVersion = snap.Version
	metrics.GraphRebuilds.Inc()
	svc.logger.Debug().
		Uint64("version", snap.Version).
		Int("tokens", svc.graph.TokenCount()).
		Int("edges", svc.graph.EdgeCount()).
		Msg("rebuilt token graph")
	return svc.graph
}
