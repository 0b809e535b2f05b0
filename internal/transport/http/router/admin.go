package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate-api/internal/core/server"
	"realestate-api/internal/domain"
	"realestate-api/internal/transport/http/handler"
	mdw "realestate-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, d handler.Deps, o Options) *gin.Engine {
	o.Name = "admin"
	r := server.NewRouter(l, o.Options)
	r.GET("/metrics", mdw.MetricsHandler())

	// 管理端 v1（统一要求 Admin 角色）
	admin := r.Group("/admin/v1", mdw.AuthJWT(d.JWT, domain.RoleAdmin))
	new(Registry).Register(handler.Modules(d)...).MountAdmin(admin)
	return r
}
