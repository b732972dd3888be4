package router

import (
	"errors"

	"github.com/hxuan190/liquidity-router/internal/calculator"
)

var (
	ErrNoRouteFound = errors.New("no route found")
	ErrConfig       = errors.New("invalid router configuration")

	// Pool pricing errors, re-exported so callers only import the router.
	ErrInvalidReserves       = calculator.ErrInvalidReserves
	ErrMathOverflow          = calculator.ErrMathOverflow
	ErrInsufficientLiquidity = calculator.ErrInsufficientLiquidity
)
