package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/liquidity-router/internal/aggregator"
	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/http/httputil"
	"github.com/hxuan190/liquidity-router/internal/services/executor"
)

// SwapHandler quotes a swap and hands the quote to the executor.
type SwapHandler struct {
	aggregatorSvc      *aggregator.Service
	executor           *executor.Executor
	defaultSlippageBps uint16
}

func NewSwapHandler(aggregatorSvc *aggregator.Service, exec *executor.Executor, defaultSlippageBps uint16) *SwapHandler {
	return &SwapHandler{
		aggregatorSvc:      aggregatorSvc,
		executor:           exec,
		defaultSlippageBps: defaultSlippageBps,
	}
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.swap)
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

type SwapResponse struct {
	Quote     QuoteResponse           `json:"quote"`
	Execution *domain.ExecutionResult `json:"execution"`
}

func (h *SwapHandler) swap(c *gin.Context) {
	var body QuoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	req, err := body.toSwapRequest(h.defaultSlippageBps)
	if err != nil {
		httputil.Error(c, toHTTPError(err))
		return
	}
	if req.IsExactOut() {
		httputil.BadRequest(c, "swap supports ExactIn only")
		return
	}

	quote, err := h.aggregatorSvc.GetQuote(c.Request.Context(), req)
	if err != nil {
		httputil.Error(c, toHTTPError(err))
		return
	}
	quoteResp, err := buildQuoteResponse(req, quote)
	if err != nil {
		httputil.Error(c, toHTTPError(err))
		return
	}

	result, err := h.executor.Execute(c.Request.Context(), quote, req.SlippageBps)
	if err != nil {
		httputil.Error(c, toHTTPError(err))
		return
	}
	httputil.Success(c, SwapResponse{Quote: quoteResp, Execution: result})
}
