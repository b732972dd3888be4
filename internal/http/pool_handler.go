package http

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/liquidity-router/internal/adapters/persistence"
	"github.com/hxuan190/liquidity-router/internal/common"
	"github.com/hxuan190/liquidity-router/internal/http/httputil"
	"github.com/hxuan190/liquidity-router/internal/services/market"
)

const maxPoolPageSize = 500

type PoolHandler struct {
	marketSvc *market.Service
}

func NewPoolHandler(marketSvc *market.Service) *PoolHandler {
	return &PoolHandler{marketSvc: marketSvc}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
	pub.GET("/list", h.listPools)
	pub.GET("/:address", h.getPool)

	admin.POST("", h.upsertPool)
	admin.DELETE("/:address", h.removePool)
	admin.POST("/persist", h.persist)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

type PoolStatsResponse struct {
	PoolCount      int    `json:"pool_count"`
	ReadyPoolCount int    `json:"ready_pool_count"`
	UpdateCount    uint64 `json:"update_count"`
	Version        uint64 `json:"version"`
}

func (h *PoolHandler) getStats(c *gin.Context) {
	poolCount, updateCount := h.marketSvc.GetStats()
	snap := h.marketSvc.Snapshot()
	httputil.Success(c, PoolStatsResponse{
		PoolCount:      poolCount,
		ReadyPoolCount: len(snap.Pools),
		UpdateCount:    updateCount,
		Version:        snap.Version,
	})
}

type PoolListResponse struct {
	Pools []*persistence.StoredPool `json:"pools"`
	Total int                       `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
	Pages int                       `json:"pages"`
}

func (h *PoolHandler) listPools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > maxPoolPageSize {
		limit = maxPoolPageSize
	}

	allPools := h.marketSvc.AllPools()
	total := len(allPools)

	pages := (total + limit - 1) / limit
	offset := (page - 1) * limit
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	pools := make([]*persistence.StoredPool, 0, end-offset)
	for _, pool := range allPools[offset:end] {
		pools = append(pools, persistence.NewStoredPool(pool))
	}

	httputil.Success(c, PoolListResponse{
		Pools: pools,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

type PoolDetailResponse struct {
	*persistence.StoredPool
	Ready     bool   `json:"ready"`
	FeeBps    uint16 `json:"fee_bps"`
	SpreadBps uint16 `json:"spread_bps,omitempty"`
}

func (h *PoolHandler) getPool(c *gin.Context) {
	address, err := solana.PublicKeyFromBase58(c.Param("address"))
	if err != nil {
		httputil.BadRequest(c, "invalid pool address")
		return
	}
	pool, ok := h.marketSvc.Get(address)
	if !ok {
		httputil.NotFound(c, "pool not found")
		return
	}

	httputil.Success(c, PoolDetailResponse{
		StoredPool: persistence.NewStoredPool(pool),
		Ready:      h.marketSvc.IsReady(pool),
		FeeBps:     pool.FeeBps(),
		SpreadBps:  pool.SpreadBps(),
	})
}

func (h *PoolHandler) upsertPool(c *gin.Context) {
	var stored persistence.StoredPool
	if err := c.ShouldBindJSON(&stored); err != nil {
		httputil.BadRequest(c, "invalid pool payload: "+err.Error())
		return
	}
	pool, err := stored.ToPool()
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	if err := h.marketSvc.Upsert(pool); err != nil {
		httputil.Error(c, toHTTPError(err))
		return
	}
	httputil.Success(c, gin.H{"address": pool.Address.String(), "version": h.marketSvc.Version()})
}

func (h *PoolHandler) removePool(c *gin.Context) {
	address, err := solana.PublicKeyFromBase58(c.Param("address"))
	if err != nil {
		httputil.BadRequest(c, "invalid pool address")
		return
	}
	removed, err := h.marketSvc.Remove(address)
	if err != nil {
		httputil.Error(c, common.HTTPErrorInternalError(err.Error()))
		return
	}
	if !removed {
		httputil.NotFound(c, "pool not found")
		return
	}
	httputil.Success(c, gin.H{"address": address.String(), "version": h.marketSvc.Version()})
}

func (h *PoolHandler) persist(c *gin.Context) {
	if err := h.marketSvc.Persist(); err != nil {
		httputil.Error(c, common.HTTPErrorInternalError("failed to persist pools: "+err.Error()))
		return
	}
	httputil.Success(c, gin.H{"version": h.marketSvc.Version()})
}
