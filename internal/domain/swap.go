package domain

import (
	"github.com/gagliardetto/solana-go"
)

const (
	SwapModeExactIn  = "ExactIn"
	SwapModeExactOut = "ExactOut"
)

type SwapRequest struct {
	InputMint solana.PublicKey

	OutputMint solana.PublicKey

	// Amount is the input for ExactIn and the wanted output for ExactOut.
	Amount uint64

	// SwapMode is ExactIn or ExactOut. Empty means ExactIn.
	SwapMode string

	// Strategy is one of single, split, multihop or all.
	Strategy string

	MaxHops int

	SlippageBps uint16
}

func (r *SwapRequest) IsExactOut() bool {
	return r.SwapMode == SwapModeExactOut
}

type ExecutionResult struct {
	Success bool `json:"success"`

	DryRun bool `json:"dryRun"`

	Signature string `json:"signature,omitempty"`

	Error string `json:"error,omitempty"`

	SimulatedOutput uint64 `json:"simulatedOutput,omitempty"`

	MinAmountOut uint64 `json:"minAmountOut"`

	ComputeUnits uint32 `json:"computeUnits,omitempty"`

	Logs []string `json:"logs,omitempty"`
}
