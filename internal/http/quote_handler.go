package http

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/liquidity-router/internal/aggregator"
	"github.com/hxuan190/liquidity-router/internal/calculator"
	"github.com/hxuan190/liquidity-router/internal/common"
	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/http/httputil"
	"github.com/hxuan190/liquidity-router/internal/services/executor"
	"github.com/hxuan190/liquidity-router/internal/services/router"
)

type QuoteHandler struct {
	aggregatorSvc      *aggregator.Service
	defaultSlippageBps uint16
}

func NewQuoteHandler(aggregatorSvc *aggregator.Service, defaultSlippageBps uint16) *QuoteHandler {
	return &QuoteHandler{aggregatorSvc: aggregatorSvc, defaultSlippageBps: defaultSlippageBps}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
	pub.GET("/compare", h.compareStrategies)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest is shared by the quote query string and the swap JSON body.
type QuoteRequest struct {
	// Mint address (base58) or a known symbol such as SOL or USDC
	InputMint  string `form:"inputMint" json:"inputMint" binding:"required"`
	OutputMint string `form:"outputMint" json:"outputMint" binding:"required"`

	// Amount in smallest token units
	Amount string `form:"amount" json:"amount" binding:"required"`

	// ExactIn (default) or ExactOut
	SwapMode string `form:"swapMode" json:"swapMode"`

	// single, split, multihop or all. Empty uses the server default.
	Strategy string `form:"strategy" json:"strategy"`

	MaxHops int `form:"maxHops" json:"maxHops"`

	// Slippage tolerance in basis points. Unset uses the server default;
	// an explicit 0 means no tolerance.
	SlippageBps *uint16 `form:"slippageBps" json:"slippageBps"`
}

func (r *QuoteRequest) toSwapRequest(defaultSlippageBps uint16) (*domain.SwapRequest, error) {
	inputMint, err := common.ParseMint(r.InputMint)
	if err != nil {
		return nil, common.HTTPErrorBadRequest("invalid inputMint address")
	}
	outputMint, err := common.ParseMint(r.OutputMint)
	if err != nil {
		return nil, common.HTTPErrorBadRequest("invalid outputMint address")
	}
	amount, err := strconv.ParseUint(r.Amount, 10, 64)
	if err != nil || amount == 0 {
		return nil, common.HTTPErrorBadRequest("invalid amount: must be a positive 64-bit integer")
	}

	slippageBps := defaultSlippageBps
	if r.SlippageBps != nil {
		slippageBps = *r.SlippageBps
	}
	if uint64(slippageBps) > calculator.BpsDenom {
		return nil, common.HTTPErrorBadRequest("invalid slippageBps: must be at most 10000")
	}

	swapMode := r.SwapMode
	if swapMode == "" {
		swapMode = domain.SwapModeExactIn
	}

	return &domain.SwapRequest{
		InputMint:   inputMint,
		OutputMint:  outputMint,
		Amount:      amount,
		SwapMode:    swapMode,
		Strategy:    r.Strategy,
		MaxHops:     r.MaxHops,
		SlippageBps: slippageBps,
	}, nil
}

// RouteInfo describes one step of the route.
type RouteInfo struct {
	PoolAddress    string `json:"poolAddress"`
	Source         string `json:"source"`
	Percent        uint8  `json:"percent"`
	InputMint      string `json:"inputMint"`
	OutputMint     string `json:"outputMint"`
	AmountIn       string `json:"amountIn"`
	AmountOut      string `json:"amountOut"`
	PriceImpactBps uint16 `json:"priceImpactBps"`
}

type QuoteResponse struct {
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	SwapMode   string `json:"swapMode"`
	Strategy   string `json:"strategy"`

	AmountIn  string `json:"amountIn"`
	AmountOut string `json:"amountOut"`

	// Output per unit of input, in raw units
	EffectivePrice string `json:"effectivePrice"`

	PriceImpactBps      uint16   `json:"priceImpactBps"`
	PriceImpactPercent  string   `json:"priceImpactPercent"`
	PriceImpactSeverity string   `json:"priceImpactSeverity"`
	PriceImpactWarning  string   `json:"priceImpactWarning"`
	StepWarnings        []string `json:"stepWarnings,omitempty"`

	FeeBps uint16 `json:"feeBps"`

	Routes       []RouteInfo `json:"routes"`
	RoutePath    []string    `json:"routePath"`
	HopCount     int         `json:"hopCount"`
	IsSplitRoute bool        `json:"isSplitRoute"`

	SlippageBps uint16 `json:"slippageBps"`

	// Minimum output for ExactIn, maximum input for ExactOut
	OtherAmountThreshold string `json:"otherAmountThreshold"`
}

// maxAmountIn is amountIn * 10000 / (10000 - slippage). Full slippage falls
// back to amountIn.
func maxAmountIn(amountIn uint64, slippageBps uint16) (uint64, error) {
	if uint64(slippageBps) >= calculator.BpsDenom {
		return amountIn, nil
	}
	return calculator.MulDiv(amountIn, calculator.BpsDenom, calculator.BpsDenom-uint64(slippageBps))
}

func buildQuoteResponse(req *domain.SwapRequest, quote *domain.SwapQuote) (QuoteResponse, error) {
	var (
		threshold uint64
		err       error
	)
	if req.IsExactOut() {
		threshold, err = maxAmountIn(quote.AmountIn, req.SlippageBps)
	} else {
		threshold, err = executor.MinAmountOut(quote.AmountOut, req.SlippageBps)
	}
	if err != nil {
		return QuoteResponse{}, err
	}

	route := &quote.Route
	isSplit := route.Shape == domain.RouteShapeParallel
	var percents []uint8
	if isSplit {
		percents = router.SplitPercents(route)
	}

	routes := make([]RouteInfo, 0, len(route.Steps))
	for i, step := range route.Steps {
		percent := uint8(100)
		if isSplit {
			percent = percents[i]
		}
		routes = append(routes, RouteInfo{
			PoolAddress:    step.PoolAddress.String(),
			Source:         step.Source,
			Percent:        percent,
			InputMint:      step.TokenIn.String(),
			OutputMint:     step.TokenOut.String(),
			AmountIn:       strconv.FormatUint(step.AmountIn, 10),
			AmountOut:      strconv.FormatUint(step.AmountOut, 10),
			PriceImpactBps: step.PriceImpactBps,
		})
	}

	path := route.Path()
	routePath := make([]string, 0, len(path))
	for _, mint := range path {
		routePath = append(routePath, mint.String())
	}

	return QuoteResponse{
		InputMint:            quote.TokenIn.String(),
		OutputMint:           quote.TokenOut.String(),
		SwapMode:             req.SwapMode,
		Strategy:             quote.Strategy,
		AmountIn:             strconv.FormatUint(quote.AmountIn, 10),
		AmountOut:            strconv.FormatUint(quote.AmountOut, 10),
		EffectivePrice:       route.EffectivePrice().StringFixed(9),
		PriceImpactBps:       quote.PriceImpactBps,
		PriceImpactPercent:   decimal.New(int64(quote.PriceImpactBps), -2).StringFixed(2) + "%",
		PriceImpactSeverity:  string(router.GetPriceImpactSeverity(quote.PriceImpactBps)),
		PriceImpactWarning:   router.GetPriceImpactWarning(quote.PriceImpactBps),
		StepWarnings:         router.StepWarnings(quote),
		FeeBps:               route.TotalFeeBps(),
		Routes:               routes,
		RoutePath:            routePath,
		HopCount:             route.HopCount(),
		IsSplitRoute:         isSplit,
		SlippageBps:          req.SlippageBps,
		OtherAmountThreshold: strconv.FormatUint(threshold, 10),
	}, nil
}

func (h *QuoteHandler) parse(c *gin.Context) (*domain.SwapRequest, bool) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return nil, false
	}
	swapReq, err := req.toSwapRequest(h.defaultSlippageBps)
	if err != nil {
		httputil.Error(c, toHTTPError(err))
		return nil, false
	}
	return swapReq, true
}

func (h *QuoteHandler) getQuote(c *gin.Context) {
	req, ok := h.parse(c)
	if !ok {
		return
	}

	quote, err := h.aggregatorSvc.GetQuote(c.Request.Context(), req)
	if err != nil {
		httputil.Error(c, toHTTPError(err))
		return
	}

	resp, err := buildQuoteResponse(req, quote)
	if err != nil {
		httputil.Error(c, toHTTPError(err))
		return
	}
	httputil.Success(c, resp)
}

// StrategyComparison is one strategy's outcome.
type StrategyComparison struct {
	Strategy       string `json:"strategy"`
	Label          string `json:"label,omitempty"`
	AmountOut      string `json:"amountOut,omitempty"`
	PriceImpactBps uint16 `json:"priceImpactBps,omitempty"`
	HopCount       int    `json:"hopCount,omitempty"`
	DurationMicros int64  `json:"durationMicros"`
	Error          string `json:"error,omitempty"`
	Best           bool   `json:"best"`
}

func (h *QuoteHandler) compareStrategies(c *gin.Context) {
	req, ok := h.parse(c)
	if !ok {
		return
	}
	if req.IsExactOut() {
		httputil.BadRequest(c, fmt.Sprintf("strategy comparison supports %s only", domain.SwapModeExactIn))
		return
	}

	results, err := h.aggregatorSvc.CompareStrategies(c.Request.Context(), req)
	if err != nil {
		httputil.Error(c, toHTTPError(err))
		return
	}

	out := make([]StrategyComparison, len(results))
	best := -1
	for i, r := range results {
		out[i] = StrategyComparison{
			Strategy:       r.Strategy,
			DurationMicros: r.Duration.Microseconds(),
		}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		out[i].Label = r.Quote.Strategy
		out[i].AmountOut = strconv.FormatUint(r.Quote.AmountOut, 10)
		out[i].PriceImpactBps = r.Quote.PriceImpactBps
		out[i].HopCount = r.Quote.Route.HopCount()
		if best < 0 || r.Quote.BetterThan(results[best].Quote) {
			best = i
		}
	}
	if best >= 0 {
		out[best].Best = true
	}
	httputil.Success(c, out)
}
