package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/ez"
)

// Tokens 只有管理端接口
type Tokens struct{ Deps }

func (h *Tokens) MountAdmin(admin *gin.RouterGroup) {
	g := ez.New(admin)

	ez.RegisterAction(g, ez.Action[ez.Empty, affectedOut]{
		Method: http.MethodPost, Path: "/users/:id/revoke-tokens", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (affectedOut, error) {
			uid, err := id(c)
			if err != nil {
				return affectedOut{}, err
			}
			n, err := h.Svc.Tokens.RevokeAll(c.Request.Context(), uid, service.ReasonRevokedByAdmin)
			return affectedOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, affectedOut]{
		Method: http.MethodPost, Path: "/tokens/purge", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (affectedOut, error) {
			n, err := h.Svc.Tokens.PurgeExpired(c.Request.Context())
			return affectedOut{n}, err
		},
	})
}

