package http

import (
	"bytes"
	"errors"
	"fmt"
	gohttp "net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/liquidity-router/internal/adapters/persistence"
	"github.com/hxuan190/liquidity-router/internal/aggregator"
	"github.com/hxuan190/liquidity-router/internal/calculator"
	"github.com/hxuan190/liquidity-router/internal/config"
	"github.com/hxuan190/liquidity-router/internal/domain"
	"github.com/hxuan190/liquidity-router/internal/services/executor"
	"github.com/hxuan190/liquidity-router/internal/services/market"
)

var (
	tokenA = solana.PublicKey{0xa}
	tokenB = solana.PublicKey{0xb}
	tokenC = solana.PublicKey{0xc}
	tokenD = solana.PublicKey{0xd}
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func pool(addr byte, a, b solana.PublicKey, reserveA, reserveB uint64) *domain.Pool {
	return &domain.Pool{
		Kind:     domain.PoolKindConstantProduct,
		Address:  solana.PublicKey{addr, 0xff},
		Source:   "Test",
		TokenA:   a,
		TokenB:   b,
		ReserveA: reserveA,
		ReserveB: reserveB,
		FeeRate:  25,
	}
}

func newTestServer(t *testing.T, dryRun bool) *HTTPService {
	t.Helper()
	marketSvc := market.NewService(nil, nil)
	_, err := marketSvc.Load([]*domain.Pool{
		pool(1, tokenA, tokenB, 500_000_000, 500_000_000),
		pool(2, tokenA, tokenB, 500_000_000, 500_000_000),
		pool(3, tokenB, tokenC, 500_000_000, 500_000_000),
	})
	require.NoError(t, err)

	aggSvc, err := aggregator.NewService(marketSvc, aggregator.Config{})
	require.NoError(t, err)
	require.NoError(t, aggSvc.Start())

	conf := config.DefaultGeneralConfig()
	conf.RateLimit = 0
	return NewHTTPService(&conf, aggSvc, executor.New(dryRun), 100)
}

func do(t *testing.T, svc *HTTPService, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	svc.Engine().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func quoteURL(in, out solana.PublicKey, amount string, extra string) string {
	return fmt.Sprintf("/api/v1/quote?inputMint=%s&outputMint=%s&amount=%s%s", in, out, amount, extra)
}

func TestHealth(t *testing.T) {
	svc := newTestServer(t, true)
	w := do(t, svc, gohttp.MethodGet, "/health", nil)
	require.Equal(t, gohttp.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"pools":3`)
}

func TestGetQuotePicksSplit(t *testing.T) {
	svc := newTestServer(t, true)
	w := do(t, svc, gohttp.MethodGet, quoteURL(tokenA, tokenB, "50000000", ""), nil)
	require.Equal(t, gohttp.StatusOK, w.Code, w.Body.String())

	resp := decode[QuoteResponse](t, w)
	require.True(t, resp.Success)
	q := resp.Data
	require.Equal(t, domain.StrategySplit, q.Strategy)
	require.True(t, q.IsSplitRoute)
	require.Equal(t, 1, q.HopCount)
	require.Len(t, q.Routes, 2)
	require.Equal(t, 100, int(q.Routes[0].Percent)+int(q.Routes[1].Percent))
	require.Equal(t, []string{tokenA.String(), tokenB.String()}, q.RoutePath)
	require.Equal(t, "50000000", q.AmountIn)
	require.Equal(t, uint16(100), q.SlippageBps)

	out, err := strconv.ParseUint(q.AmountOut, 10, 64)
	require.NoError(t, err)
	require.Equal(t, strconv.FormatUint(out*9900/10000, 10), q.OtherAmountThreshold)
}

func TestGetQuoteZeroSlippage(t *testing.T) {
	svc := newTestServer(t, true)
	w := do(t, svc, gohttp.MethodGet, quoteURL(tokenA, tokenB, "1000000", "&strategy=single&slippageBps=0"), nil)
	require.Equal(t, gohttp.StatusOK, w.Code, w.Body.String())

	q := decode[QuoteResponse](t, w).Data
	require.Zero(t, q.SlippageBps)
	require.Equal(t, q.AmountOut, q.OtherAmountThreshold)
}

func TestQuoteRequestSlippageDefault(t *testing.T) {
	req := QuoteRequest{InputMint: "SOL", OutputMint: "USDC", Amount: "1000"}

	swapReq, err := req.toSwapRequest(75)
	require.NoError(t, err)
	require.Equal(t, uint16(75), swapReq.SlippageBps)

	zero := uint16(0)
	req.SlippageBps = &zero
	swapReq, err = req.toSwapRequest(75)
	require.NoError(t, err)
	require.Zero(t, swapReq.SlippageBps)
}

func TestGetQuoteMultiHop(t *testing.T) {
	svc := newTestServer(t, true)
	w := do(t, svc, gohttp.MethodGet, quoteURL(tokenA, tokenC, "1000000", "&strategy=multihop"), nil)
	require.Equal(t, gohttp.StatusOK, w.Code, w.Body.String())

	q := decode[QuoteResponse](t, w).Data
	require.Equal(t, "multi_hop_2", q.Strategy)
	require.Equal(t, 2, q.HopCount)
	require.Equal(t, []string{tokenA.String(), tokenB.String(), tokenC.String()}, q.RoutePath)
	require.Equal(t, q.Routes[0].AmountOut, q.Routes[1].AmountIn)
}

func TestGetQuoteExactOut(t *testing.T) {
	svc := newTestServer(t, true)
	w := do(t, svc, gohttp.MethodGet, quoteURL(tokenA, tokenB, "1000000", "&swapMode=ExactOut&slippageBps=50"), nil)
	require.Equal(t, gohttp.StatusOK, w.Code, w.Body.String())

	q := decode[QuoteResponse](t, w).Data
	in, err := strconv.ParseUint(q.AmountIn, 10, 64)
	require.NoError(t, err)
	out, err := strconv.ParseUint(q.AmountOut, 10, 64)
	require.NoError(t, err)
	maxIn, err := strconv.ParseUint(q.OtherAmountThreshold, 10, 64)
	require.NoError(t, err)

	require.GreaterOrEqual(t, out, uint64(1_000_000))
	require.Greater(t, maxIn, in)
}

func TestGetQuoteErrors(t *testing.T) {
	svc := newTestServer(t, true)
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing params", "/api/v1/quote?amount=1", gohttp.StatusBadRequest},
		{"bad mint", "/api/v1/quote?inputMint=nope&outputMint=" + tokenB.String() + "&amount=1", gohttp.StatusBadRequest},
		{"bad amount", quoteURL(tokenA, tokenB, "abc", ""), gohttp.StatusBadRequest},
		{"zero amount", quoteURL(tokenA, tokenB, "0", ""), gohttp.StatusBadRequest},
		{"amount overflows", quoteURL(tokenA, tokenB, "18446744073709551616", ""), gohttp.StatusBadRequest},
		{"unknown strategy", quoteURL(tokenA, tokenB, "1000", "&strategy=fastest"), gohttp.StatusBadRequest},
		{"too many hops", quoteURL(tokenA, tokenB, "1000", "&maxHops=5"), gohttp.StatusBadRequest},
		{"slippage above 100%", quoteURL(tokenA, tokenB, "1000", "&slippageBps=20000"), gohttp.StatusBadRequest},
		{"unknown swap mode", quoteURL(tokenA, tokenB, "1000", "&swapMode=Both"), gohttp.StatusBadRequest},
		{"no route", quoteURL(tokenA, tokenD, "1000", ""), gohttp.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, svc, gohttp.MethodGet, tt.target, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			resp := decode[any](t, w)
			require.False(t, resp.Success)
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestCompareStrategies(t *testing.T) {
	svc := newTestServer(t, true)
	w := do(t, svc, gohttp.MethodGet, "/api/v1/quote/compare?inputMint="+tokenA.String()+"&outputMint="+tokenB.String()+"&amount=50000000", nil)
	require.Equal(t, gohttp.StatusOK, w.Code, w.Body.String())

	results := decode[[]StrategyComparison](t, w).Data
	require.Len(t, results, 3)
	require.Equal(t, aggregator.StrategySingle, results[0].Strategy)
	require.Equal(t, aggregator.StrategySplit, results[1].Strategy)
	require.Equal(t, aggregator.StrategyMultiHop, results[2].Strategy)

	var best []string
	for _, r := range results {
		require.Empty(t, r.Error)
		if r.Best {
			best = append(best, r.Strategy)
		}
	}
	require.Equal(t, []string{aggregator.StrategySplit}, best)
}

func TestSwapDryRun(t *testing.T) {
	svc := newTestServer(t, true)
	body := []byte(fmt.Sprintf(`{"inputMint":%q,"outputMint":%q,"amount":"1000000","strategy":"single"}`, tokenA, tokenB))
	w := do(t, svc, gohttp.MethodPost, "/api/v1/swap", body)
	require.Equal(t, gohttp.StatusOK, w.Code, w.Body.String())

	resp := decode[SwapResponse](t, w).Data
	require.True(t, resp.Execution.Success)
	require.True(t, resp.Execution.DryRun)
	require.Equal(t, resp.Quote.OtherAmountThreshold, strconv.FormatUint(resp.Execution.MinAmountOut, 10))
	require.Equal(t, resp.Quote.AmountOut, strconv.FormatUint(resp.Execution.SimulatedOutput, 10))
}

func TestSwapLiveNotImplemented(t *testing.T) {
	svc := newTestServer(t, false)
	body := []byte(fmt.Sprintf(`{"inputMint":%q,"outputMint":%q,"amount":"1000000"}`, tokenA, tokenB))
	w := do(t, svc, gohttp.MethodPost, "/api/v1/swap", body)
	require.Equal(t, gohttp.StatusNotImplemented, w.Code, w.Body.String())
}

func TestSwapRejectsBadBody(t *testing.T) {
	svc := newTestServer(t, true)
	w := do(t, svc, gohttp.MethodPost, "/api/v1/swap", []byte(`{"inputMint":"x"}`))
	require.Equal(t, gohttp.StatusBadRequest, w.Code)

	body := []byte(fmt.Sprintf(`{"inputMint":%q,"outputMint":%q,"amount":"10","swapMode":"ExactOut"}`, tokenA, tokenB))
	w = do(t, svc, gohttp.MethodPost, "/api/v1/swap", body)
	require.Equal(t, gohttp.StatusBadRequest, w.Code)
}

func TestPoolEndpoints(t *testing.T) {
	svc := newTestServer(t, true)

	w := do(t, svc, gohttp.MethodGet, "/api/v1/pools/stats", nil)
	require.Equal(t, gohttp.StatusOK, w.Code)
	stats := decode[PoolStatsResponse](t, w).Data
	require.Equal(t, 3, stats.PoolCount)
	require.Equal(t, 3, stats.ReadyPoolCount)

	w = do(t, svc, gohttp.MethodGet, "/api/v1/pools/list?limit=2", nil)
	require.Equal(t, gohttp.StatusOK, w.Code)
	list := decode[PoolListResponse](t, w).Data
	require.Equal(t, 3, list.Total)
	require.Equal(t, 2, list.Pages)
	require.Len(t, list.Pools, 2)

	addr := solana.PublicKey{1, 0xff}
	w = do(t, svc, gohttp.MethodGet, "/api/v1/pools/"+addr.String(), nil)
	require.Equal(t, gohttp.StatusOK, w.Code)
	detail := decode[map[string]any](t, w).Data
	require.Equal(t, addr.String(), detail["address"])
	require.Equal(t, true, detail["ready"])

	w = do(t, svc, gohttp.MethodGet, "/api/v1/pools/"+tokenD.String(), nil)
	require.Equal(t, gohttp.StatusNotFound, w.Code)

	w = do(t, svc, gohttp.MethodGet, "/api/v1/pools/not-base58!", nil)
	require.Equal(t, gohttp.StatusBadRequest, w.Code)
}

func TestAdminPoolLifecycle(t *testing.T) {
	svc := newTestServer(t, true)
	version := svc.aggregatorSvc.Market().Version()

	newPool := pool(7, tokenC, tokenD, 1_000_000, 2_000_000)
	body, err := sonic.Marshal(persistence.NewStoredPool(newPool))
	require.NoError(t, err)

	w := do(t, svc, gohttp.MethodPost, "/api/v1/admin/pools", body)
	require.Equal(t, gohttp.StatusOK, w.Code, w.Body.String())
	require.Greater(t, svc.aggregatorSvc.Market().Version(), version)

	// the new pool is routable immediately
	w = do(t, svc, gohttp.MethodGet, quoteURL(tokenC, tokenD, "1000", ""), nil)
	require.Equal(t, gohttp.StatusOK, w.Code, w.Body.String())

	w = do(t, svc, gohttp.MethodDelete, "/api/v1/admin/pools/"+newPool.Address.String(), nil)
	require.Equal(t, gohttp.StatusOK, w.Code)
	w = do(t, svc, gohttp.MethodDelete, "/api/v1/admin/pools/"+newPool.Address.String(), nil)
	require.Equal(t, gohttp.StatusNotFound, w.Code)

	bad := persistence.NewStoredPool(pool(8, tokenC, tokenC, 1, 1))
	body, err = sonic.Marshal(bad)
	require.NoError(t, err)
	w = do(t, svc, gohttp.MethodPost, "/api/v1/admin/pools", body)
	require.Equal(t, gohttp.StatusBadRequest, w.Code)

	highFee := persistence.NewStoredPool(pool(9, tokenC, tokenD, 1, 1))
	highFee.FeeRate = 20_000
	body, err = sonic.Marshal(highFee)
	require.NoError(t, err)
	w = do(t, svc, gohttp.MethodPost, "/api/v1/admin/pools", body)
	require.Equal(t, gohttp.StatusBadRequest, w.Code, w.Body.String())
	require.Equal(t, "BAD_REQUEST", decode[any](t, w).Code)

	w = do(t, svc, gohttp.MethodPost, "/api/v1/admin/pools/persist", nil)
	require.Equal(t, gohttp.StatusOK, w.Code)
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrap: %w", aggregator.ErrConfig), gohttp.StatusBadRequest},
		{aggregator.ErrNoRouteFound, gohttp.StatusNotFound},
		{executor.ErrInvalidSlippage, gohttp.StatusBadRequest},
		{executor.ErrLiveExecutionUnsupported, gohttp.StatusNotImplemented},
		{domain.ErrInvalidPool, gohttp.StatusBadRequest},
		{fmt.Errorf("pool x: %w", calculator.ErrInvalidFee), gohttp.StatusBadRequest},
		{domain.ErrUnknownPoolKind, gohttp.StatusBadRequest},
		{errors.New("boom"), gohttp.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.status, toHTTPError(tt.err).StatusCode, tt.err.Error())
	}
}
