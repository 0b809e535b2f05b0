package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/core/auth"
	resp "realestate-api/internal/transport/http/response"
)

// 上下文 key
const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyClaims = "claims"
)

func bearer(c *gin.Context) (string, bool) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")), true
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyClaims, claims)
	c.Set(KeyUserID, claims.UserID())
	c.Set(KeyRole, claims.Role)
}

// AuthJWT 必须登录；roles 非空时角色需在其中
func AuthJWT(j *auth.JWTer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c)
		if !ok {
			resp.Abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil || claims.UserID() == 0 {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			resp.Abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalJWT 有合法 token 就写入身份，否则按匿名继续
func OptionalJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := bearer(c); ok {
			if claims, err := j.Parse(tok); err == nil && claims.UserID() != 0 {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// UserID 未登录返回 0,false
func UserID(c *gin.Context) (uint, bool) {
	id := c.GetUint(KeyUserID)
	return id, id != 0
}

func Role(c *gin.Context) string { return c.GetString(KeyRole) }
