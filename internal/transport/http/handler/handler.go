// Package handler 每个资源一个模块，按 API / Admin 分别挂载
package handler

import (
	"github.com/gin-gonic/gin"

	"realestate-api/internal/core/auth"
	"realestate-api/internal/domain"
	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/ez"
)

type Deps struct {
	Svc *service.Services
	JWT *auth.JWTer
	// AuthLimit 作用于登录/注册等匿名接口的每 IP 限速，可为 nil
	AuthLimit gin.HandlerFunc
}

// Modules 全部资源模块
func Modules(d Deps) []any {
	return []any{
		&Auth{d},
		&Properties{d},
		&PropertyTypes{d},
		&Images{d},
		&Inquiries{d},
		&Users{d},
		&Tokens{d},
	}
}

var agentOrAdmin = []string{domain.RoleAgent, domain.RoleAdmin}

type visibilityQuery struct {
	IsDeleted *bool `form:"isDeleted"`
}

type countOut struct {
	Count int64 `json:"count"`
}

type affectedOut struct {
	Affected int `json:"affected"`
}

func id(c *gin.Context) (uint, error) { return ez.ParamID(c, "id") }
