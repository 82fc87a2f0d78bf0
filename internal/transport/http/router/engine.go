package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"fruito-api/internal/core/auth"
	"fruito-api/internal/core/config"
	"fruito-api/internal/core/server"
	mdw "fruito-api/internal/transport/http/middleware"
)

// Options ServiceName 非空时为每个请求开 server span，并从请求头续上上游 trace；
// AdminCheck 让管理端每个请求都回库确认身份，nil 时只看令牌
type Options struct {
	Logger      *zap.Logger
	ServiceName string
	JWT         *auth.JWTer
	Limits      config.Limits
	Modules     *Registry
	AdminCheck  mdw.AdminCheck
}

func baseEngine(o Options) *gin.Engine {
	r := server.NewRouter(o.Logger)
	lim := o.Limits

	mws := []gin.HandlerFunc{mdw.RequestID()}
	if o.ServiceName != "" {
		mws = append(mws, otelgin.Middleware(o.ServiceName, otelgin.WithFilter(traced)))
	}
	mws = append(mws, mdw.Metrics(), mdw.AccessLog(o.Logger))
	if lim.RPS > 0 {
		mws = append(mws, mdw.RateLimit(rate.Limit(lim.RPS), max(1, lim.Burst)))
	}
	if lim.PerIPRPS > 0 {
		mws = append(mws, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), max(1, lim.PerIPBurst)))
	}
	if lim.MaxInFlight > 0 {
		mws = append(mws, mdw.ConcurrencyLimit(lim.MaxInFlight))
	}
	if lim.MaxBodyBytes > 0 {
		mws = append(mws, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.RequestTimeout > 0 {
		mws = append(mws, mdw.Timeout(time.Duration(lim.RequestTimeout)*time.Second))
	}
	r.Use(mws...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// 探活和抓取指标不进 trace
func traced(r *http.Request) bool {
	return r.URL.Path != "/health" && r.URL.Path != "/metrics"
}

// NewAPIEngine 用户端：路由挂在根路径，Bearer 令牌可选
func NewAPIEngine(o Options) *gin.Engine {
	r := baseEngine(o)
	api := r.Group("")
	api.Use(mdw.OptionalJWT(o.JWT))
	if o.Modules != nil {
		o.Modules.MountAllAPI(api)
	}
	return r
}

// NewAdminEngine 管理端 /admin/v1，统一要求 admin 令牌
func NewAdminEngine(o Options) *gin.Engine {
	r := baseEngine(o)
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(o.JWT, "admin"))
	if o.AdminCheck != nil {
		admin.Use(mdw.RequireAdmin(o.AdminCheck))
	}
	if o.Modules != nil {
		o.Modules.MountAllAdmin(admin)
	}
	return r
}
