package config

import (
	"fmt"
	"slices"

	"github.com/kelseyhightower/envconfig"
)

var Strategies = []string{"single", "split", "multihop", "all"}

const (
	MinHops = 1
	MaxHops = 3
)

type RoutingConfig struct {
	MaxHops         int    `toml:"max_hops" envconfig:"ROUTER_MAX_HOPS"`
	DefaultStrategy string `toml:"default_strategy" envconfig:"ROUTER_STRATEGY"`
	QuoteCacheSize  int    `toml:"quote_cache_size" envconfig:"ROUTER_QUOTE_CACHE_SIZE"`
}

func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		MaxHops:         2,
		DefaultStrategy: "all",
		QuoteCacheSize:  1024,
	}
}

func (c *RoutingConfig) Key() string {
	return ROUTING_CONFIG_KEY
}

func (c *RoutingConfig) Load() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *RoutingConfig) Validate() error {
	if c.MaxHops < MinHops || c.MaxHops > MaxHops {
		return fmt.Errorf("%w: max_hops must be between %d and %d, got %d", ErrInvalidConfig, MinHops, MaxHops, c.MaxHops)
	}
	if !slices.Contains(Strategies, c.DefaultStrategy) {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.DefaultStrategy)
	}
	if c.QuoteCacheSize < 1 {
		return fmt.Errorf("%w: quote_cache_size must be positive", ErrInvalidConfig)
	}
	return nil
}

type ExecutionConfig struct {
	DryRun      bool   `toml:"dry_run" envconfig:"EXECUTION_DRY_RUN"`
	SlippageBps uint16 `toml:"slippage_bps" envconfig:"EXECUTION_SLIPPAGE_BPS"`
}

func DefaultExecutionConfig() ExecutionConfig {
	return ExecutionConfig{
		DryRun:      true,
		SlippageBps: 100,
	}
}

func (c *ExecutionConfig) Key() string {
	return EXECUTION_CONFIG_KEY
}

func (c *ExecutionConfig) Load() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *ExecutionConfig) Validate() error {
	if c.SlippageBps > 10_000 {
		return fmt.Errorf("%w: slippage_bps must be at most 10000, got %d", ErrInvalidConfig, c.SlippageBps)
	}
	return nil
}
