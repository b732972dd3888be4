package http

import (
	"errors"

	"github.com/hxuan190/liquidity-router/internal/aggregator"
	"github.com/hxuan190/liquidity-router/internal/calculator"
	"github.com/hxuan190/liquidity-router/internal/common"
	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/services/executor"
	"github.com/hxuan190/liquidity-router/internal/services/market"
	"github.com/hxuan190/liquidity-router/internal/services/router"
)

// toHTTPError maps service errors onto API errors.
func toHTTPError(err error) *common.HttpError {
	var httpErr *common.HttpError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, aggregator.ErrConfig),
		errors.Is(err, executor.ErrInvalidSlippage),
		errors.Is(err, executor.ErrNilQuote),
		errors.Is(err, domain.ErrInvalidPool),
		errors.Is(err, domain.ErrUnknownPoolKind),
		errors.Is(err, calculator.ErrInvalidFee),
		errors.Is(err, market.ErrNilPool):
		return common.HTTPErrorBadRequest(err.Error())
	case errors.Is(err, aggregator.ErrNoRouteFound):
		return common.HTTPErrorNotFound(err.Error())
	case errors.Is(err, router.ErrInsufficientLiquidity),
		errors.Is(err, router.ErrInvalidReserves),
		errors.Is(err, router.ErrMathOverflow):
		return common.HTTPErrorUnprocessable(err.Error())
	case errors.Is(err, executor.ErrLiveExecutionUnsupported):
		return common.HTTPErrorNotImplemented(err.Error())
	default:
		return common.HTTPErrorInternalError(err.Error())
	}
}
