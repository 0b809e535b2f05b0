package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/ez"
	mdw "realestate-api/internal/transport/http/middleware"
)

type Auth struct{ Deps }

func (Auth) Priority() int { return 10 }

func (h *Auth) MountAPI(api *gin.RouterGroup) {
	var limit []gin.HandlerFunc
	if h.AuthLimit != nil {
		limit = append(limit, h.AuthLimit)
	}
	public := ez.New(api).Group("/auth", limit...)
	private := ez.New(api).Group("/auth", mdw.AuthJWT(h.JWT))

	ez.RegisterAction(public, ez.Action[service.RegisterInput, service.AuthResult]{
		Method: http.MethodPost, Path: "/register", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (service.AuthResult, error) {
			return h.Svc.Auth.Register(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(public, ez.Action[service.LoginInput, service.AuthResult]{
		Method: http.MethodPost, Path: "/login", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (service.AuthResult, error) {
			return h.Svc.Auth.Login(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(public, ez.Action[service.RefreshInput, service.AuthResult]{
		Method: http.MethodPost, Path: "/refresh-token", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.RefreshInput) (service.AuthResult, error) {
			return h.Svc.Auth.Refresh(c.Request.Context(), in.RefreshToken)
		},
	})
	ez.RegisterAction(private, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodPost, Path: "/logout", Binder: ez.BindNone, Auth: true,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			return ez.Empty{}, h.Svc.Auth.Logout(c.Request.Context(), ez.Actor(c).ID)
		},
	})
	ez.RegisterAction(private, ez.Action[service.ChangePasswordInput, ez.Empty]{
		Method: http.MethodPost, Path: "/change-password", Binder: ez.BindJSON, Auth: true,
		Handler: func(c *gin.Context, in *service.ChangePasswordInput) (ez.Empty, error) {
			return ez.Empty{}, h.Svc.Auth.ChangePassword(c.Request.Context(), ez.Actor(c).ID, *in)
		},
	})
}
