package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const DefaultNetwork = "devnet"

type NetworkConfig struct {
	Network string `toml:"network" envconfig:"NETWORK"`
	RPCURL  string `toml:"rpc_url" envconfig:"RPC_URL"`
}

// DefaultRPCURL maps a cluster name to its public RPC endpoint. Anything
// else is taken to be a custom RPC URL.
func DefaultRPCURL(network string) string {
	switch network {
	case "devnet":
		return "https://api.devnet.solana.com"
	case "mainnet-beta", "mainnet":
		return "https://api.mainnet-beta.solana.com"
	case "testnet":
		return "https://api.testnet.solana.com"
	default:
		return network
	}
}

func (n *NetworkConfig) Key() string {
	return NETWORK_CONFIG_KEY
}

func (n *NetworkConfig) Load() error {
	if err := envconfig.Process("", n); err != nil {
		return err
	}
	return n.Validate()
}

// Validate fills the RPC URL from the network when it is unset.
func (n *NetworkConfig) Validate() error {
	if n.Network == "" {
		n.Network = DefaultNetwork
	}
	if n.RPCURL == "" {
		n.RPCURL = DefaultRPCURL(n.Network)
	}
	if n.RPCURL == "" {
		return fmt.Errorf("%w: no rpc url for network %q", ErrInvalidConfig, n.Network)
	}
	return nil
}
