package calculator

import "errors"

var (
	ErrInvalidReserves       = errors.New("invalid reserves")
	ErrMathOverflow          = errors.New("math overflow")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidFee            = errors.New("fee exceeds 10000 bps")
)
