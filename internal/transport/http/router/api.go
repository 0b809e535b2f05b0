package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate-api/internal/core/server"
	"realestate-api/internal/transport/http/handler"
	mdw "realestate-api/internal/transport/http/middleware"
)

type Options struct {
	server.Options
	AuthPerMin int // 登录/注册每 IP 每分钟次数
}

func NewAPIEngine(l *zap.Logger, d handler.Deps, o Options) *gin.Engine {
	o.Name = "api"
	r := server.NewRouter(l, o.Options)

	if d.AuthLimit == nil && o.AuthPerMin > 0 {
		d.AuthLimit = mdw.RateLimitPerIP(mdw.PerMinute(o.AuthPerMin), o.AuthPerMin)
	}

	api := r.Group("/api/v1")
	new(Registry).Register(handler.Modules(d)...).MountAPI(api)
	return r
}
