// Package common contains common constants and variables used across services
package common

import "github.com/gagliardetto/solana-go"

// Well-known mints used as CLI defaults and in the demo pool set.
var (
	WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	USDCMint       = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	USDTMint       = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
)

// KnownMints maps a short symbol to its mint.
var KnownMints = map[string]solana.PublicKey{
	"SOL":  WrappedSOLMint,
	"USDC": USDCMint,
	"USDT": USDTMint,
}

// ParseMint accepts either a known symbol or a base58 mint address.
func ParseMint(s string) (solana.PublicKey, error) {
	if mint, ok := KnownMints[s]; ok {
		return mint, nil
	}
	return solana.PublicKeyFromBase58(s)
}
