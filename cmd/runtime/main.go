package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/liquidity-router/internal/adapters/persistence"
	"github.com/hxuan190/liquidity-router/internal/aggregator"
	"github.com/hxuan190/liquidity-router/internal/common"
	"github.com/hxuan190/liquidity-router/internal/config"
	"github.com/hxuan190/liquidity-router/internal/dex"
	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/http"
	"github.com/hxuan190/liquidity-router/internal/services/executor"
	"github.com/hxuan190/liquidity-router/internal/services/market"
)

var cmdlineFlags struct {
	configFile    string
	serve         bool
	tokenIn       string
	tokenOut      string
	amount        uint64
	strategy      string
	maxHops       int
	dryRun        bool
	execute       bool
	poolsFile     string
	writeSnapshot string
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to TOML config file")
	flag.BoolVar(&cmdlineFlags.serve, "serve", false, "run the HTTP API instead of a one-shot quote")
	flag.StringVar(&cmdlineFlags.tokenIn, "token-in", "SOL", "input mint address or symbol")
	flag.StringVar(&cmdlineFlags.tokenOut, "token-out", "USDC", "output mint address or symbol")
	flag.Uint64Var(&cmdlineFlags.amount, "amount", 1_000_000_000, "input amount in base units")
	flag.StringVar(&cmdlineFlags.strategy, "strategy", "", "routing strategy: single, split, multihop or all")
	flag.IntVar(&cmdlineFlags.maxHops, "max-hops", 0, "maximum hops for multi-hop routing (1-3)")
	flag.BoolVar(&cmdlineFlags.dryRun, "dry-run", true, "simulate execution without sending transactions")
	flag.BoolVar(&cmdlineFlags.execute, "execute", false, "execute the best quote")
	flag.StringVar(&cmdlineFlags.poolsFile, "pools", "", "JSON pool snapshot to load")
	flag.StringVar(&cmdlineFlags.writeSnapshot, "write-snapshot", "", "write the loaded pools to this JSON file")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %s\n", err)
		os.Exit(1)
	}
	common.SetupLogger(cfg.General.LogLevel, cfg.General.Env)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("liquidity router failed")
	}
}

// loadConfig applies explicitly set command line flags over the loaded config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		return nil, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			cfg.Routing.DefaultStrategy = cmdlineFlags.strategy
		case "max-hops":
			cfg.Routing.MaxHops = cmdlineFlags.maxHops
		case "dry-run":
			cfg.Execution.DryRun = cmdlineFlags.dryRun
		case "pools":
			cfg.Storage.SnapshotFile = cmdlineFlags.poolsFile
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	tokenIn, err := common.ParseMint(cmdlineFlags.tokenIn)
	if err != nil {
		return fmt.Errorf("invalid -token-in: %w", err)
	}
	tokenOut, err := common.ParseMint(cmdlineFlags.tokenOut)
	if err != nil {
		return fmt.Errorf("invalid -token-out: %w", err)
	}

	log.Info().
		Str("network", cfg.Network.Network).
		Str("rpc_url", cfg.Network.RPCURL).
		Str("strategy", cfg.Routing.DefaultStrategy).
		Int("max_hops", cfg.Routing.MaxHops).
		Bool("dry_run", cfg.Execution.DryRun).
		Uint16("slippage_bps", cfg.Execution.SlippageBps).
		Msg("starting liquidity router")

	var storage market.PoolStorage
	if cfg.Storage.PersistenceEnabled {
		boltStorage, err := persistence.NewStorage(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer boltStorage.Close()
		storage = boltStorage
	}

	marketSvc := market.NewService(nil, storage)
	aggSvc, err := aggregator.NewService(marketSvc, aggregator.Config{
		DefaultStrategy: cfg.Routing.DefaultStrategy,
		MaxHops:         cfg.Routing.MaxHops,
		QuoteCacheSize:  cfg.Routing.QuoteCacheSize,
	})
	if err != nil {
		return err
	}
	if err := aggSvc.Start(); err != nil {
		return err
	}
	defer func() {
		if err := aggSvc.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop aggregator")
		}
	}()

	if err := seedPools(cfg, marketSvc, tokenIn, tokenOut); err != nil {
		return err
	}
	if cmdlineFlags.writeSnapshot != "" {
		if err := persistence.WriteSnapshotFile(cmdlineFlags.writeSnapshot, marketSvc.AllPools()); err != nil {
			return err
		}
		log.Info().Str("path", cmdlineFlags.writeSnapshot).Msg("wrote pool snapshot")
	}

	exec := executor.New(cfg.Execution.DryRun)

	if cmdlineFlags.serve {
		return serve(cfg, aggSvc, exec)
	}

	req := &domain.SwapRequest{
		InputMint:   tokenIn,
		OutputMint:  tokenOut,
		Amount:      cmdlineFlags.amount,
		SwapMode:    domain.SwapModeExactIn,
		SlippageBps: cfg.Execution.SlippageBps,
	}
	return quoteOnce(context.Background(), os.Stdout, aggSvc, exec, req, cmdlineFlags.execute)
}

// seedPools fills an empty market from the snapshot file, or from the demo
// pools when no file is configured. Pools restored from storage win.
func seedPools(cfg *config.Config, marketSvc *market.Service, tokenIn, tokenOut solana.PublicKey) error {
	if len(marketSvc.AllPools()) > 0 {
		log.Info().Int("pools", len(marketSvc.AllPools())).Msg("using persisted pools")
		return nil
	}

	var (
		pools  []*domain.Pool
		source string
		err    error
	)
	if cfg.Storage.SnapshotFile != "" {
		pools, err = persistence.LoadSnapshotFile(cfg.Storage.SnapshotFile)
		if err != nil {
			return err
		}
		source = cfg.Storage.SnapshotFile
	} else {
		pools = dex.ExamplePools(tokenIn, tokenOut)
		source = "example pools"
	}

	n, err := marketSvc.Load(pools)
	if err != nil {
		return err
	}
	log.Info().Int("pools", n).Str("source", source).Msg("loaded pools")
	return nil
}

func serve(cfg *config.Config, aggSvc *aggregator.Service, exec *executor.Executor) error {
	common.TuneRuntime()

	httpSvc := http.NewHTTPService(&cfg.General, aggSvc, exec, cfg.Execution.SlippageBps)
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSvc.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down services...")
	}

	if err := httpSvc.Stop(); err != nil {
		return err
	}
	log.Info().Msg("Shutdown complete")
	return nil
}
