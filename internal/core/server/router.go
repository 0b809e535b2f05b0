package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "realestate-api/internal/transport/http/middleware"
)

type Options struct {
	Name           string // metrics 里的 engine 标签
	Mode           string // gin.DebugMode | gin.ReleaseMode | gin.TestMode
	RatePerMin     int    // 全局限速，<=0 不限
	MaxConcurrent  int64
	MaxBodyBytes   int64
	HandlerTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 16 << 20
	}
	return o
}

// NewRouter 两个引擎共用的中间件链
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	o = o.withDefaults()
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", mdw.HeaderRequestID},
			ExposeHeaders:   []string{mdw.HeaderRequestID},
			MaxAge:          12 * time.Hour,
		}),
		mdw.Metrics(o.Name),
		mdw.AccessLog(l),
		mdw.RateLimit(mdw.PerMinute(o.RatePerMin), max(o.RatePerMin, 1)),
		mdw.Timeout(o.HandlerTimeout),
		mdw.ConcurrencyLimit(o.MaxConcurrent),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1, "name": o.Name}) })
	return r
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
