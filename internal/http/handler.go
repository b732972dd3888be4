package http

import (
	"context"
	"fmt"
	gohttp "net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/liquidity-router/internal/aggregator"
	"github.com/hxuan190/liquidity-router/internal/config"
	"github.com/hxuan190/liquidity-router/internal/http/httputil"
	"github.com/hxuan190/liquidity-router/internal/http/middlewares"
	"github.com/hxuan190/liquidity-router/internal/services/executor"
)

const (
	API_VERSION  = "v1"
	HTTP_SERVICE = "http-service"
)

type HTTPService struct {
	aggregatorSvc *aggregator.Service
	rateLimiter   *middlewares.RateLimiter
	server        *gohttp.Server
	conf          *config.GeneralConfig

	handlers []httputil.IHttpHandler

	engineOnce sync.Once
	engine     *gin.Engine
}

// NewHTTPService wires the API handlers. defaultSlippageBps applies to
// requests that do not set slippageBps.
func NewHTTPService(conf *config.GeneralConfig, aggregatorSvc *aggregator.Service, exec *executor.Executor, defaultSlippageBps uint16) *HTTPService {
	svc := &HTTPService{
		aggregatorSvc: aggregatorSvc,
		conf:          conf,
	}
	if conf.RateLimit > 0 {
		svc.rateLimiter = middlewares.NewRateLimiter(conf.RateLimit, conf.RateLimit*2)
	}
	svc.handlers = []httputil.IHttpHandler{
		NewPoolHandler(aggregatorSvc.Market()),
		NewQuoteHandler(aggregatorSvc, defaultSlippageBps),
		NewSwapHandler(aggregatorSvc, exec, defaultSlippageBps),
	}
	return svc
}

func (svc *HTTPService) ID() string {
	return HTTP_SERVICE
}

// Engine returns the configured gin engine, building it on first use.
func (svc *HTTPService) Engine() *gin.Engine {
	svc.engineOnce.Do(func() {
		if svc.conf.Env != config.DevEnv {
			gin.SetMode(gin.ReleaseMode)
		}
		r := gin.New()
		r.Use(gin.Recovery())

		corsConf := cors.DefaultConfig()
		corsConf.AllowAllOrigins = true
		r.Use(cors.New(corsConf))

		r.Use(middlewares.MetricsMiddleware())
		if svc.rateLimiter != nil {
			r.Use(svc.rateLimiter.RateLimitMiddleware())
		}

		r.GET("/health", func(c *gin.Context) {
			snap := svc.aggregatorSvc.Market().Snapshot()
			c.JSON(gohttp.StatusOK, gin.H{
				"status":  "ok",
				"pools":   len(snap.Pools),
				"version": snap.Version,
			})
		})
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))

		api := r.Group("api")
		pub := api.Group(API_VERSION)
		admin := api.Group(fmt.Sprintf("%s/admin", API_VERSION))
		svc.setupHandlers(pub, admin)

		svc.engine = r
	})
	return svc.engine
}

// Start serves until Stop is called.
func (svc *HTTPService) Start() error {
	svc.server = &gohttp.Server{
		Addr:              svc.conf.HTTPHost + ":" + svc.conf.HTTPPort,
		Handler:           svc.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("host", svc.conf.HTTPHost).Str("port", svc.conf.HTTPPort).Msg("http server started")

	if err := svc.server.ListenAndServe(); err != nil && err != gohttp.ErrServerClosed {
		return err
	}
	return nil
}

func (svc *HTTPService) Stop() error {
	if svc.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop http server")
		return err
	}
	log.Info().Msg("http server stopped gracefully")
	return nil
}

func (svc *HTTPService) setupHandlers(rootPub *gin.RouterGroup, rootAdmin *gin.RouterGroup) {
	for _, h := range svc.handlers {
		pub := rootPub.Group(h.Root())
		admin := rootAdmin.Group(h.Root())
		h.SetRoutes(pub, admin)
	}
}
