package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/domain"
	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/ez"
	mdw "realestate-api/internal/transport/http/middleware"
)

type Users struct{ Deps }

type roleIn struct {
	Role string `json:"role" binding:"required,oneof=Admin Agent User"`
}

func (h *Users) MountAPI(api *gin.RouterGroup) {
	me := ez.New(api).Group("/users/me", mdw.AuthJWT(h.JWT))

	ez.RegisterAction(me, ez.Action[ez.Empty, service.UserDTO]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (service.UserDTO, error) {
			return h.Svc.Users.Profile(c.Request.Context(), ez.Actor(c).ID)
		},
	})
	ez.RegisterAction(me, ez.Action[service.UpdateProfileInput, service.UserDTO]{
		Method: http.MethodPut, Path: "", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateProfileInput) (service.UserDTO, error) {
			return h.Svc.Users.UpdateProfile(c.Request.Context(), ez.Actor(c).ID, *in)
		},
	})
	ez.RegisterAction(me, ez.Action[service.UpdateAgentInfoInput, service.UserDTO]{
		Method: http.MethodPut, Path: "/agent-info", Binder: ez.BindJSON, Roles: []string{domain.RoleAgent},
		Handler: func(c *gin.Context, in *service.UpdateAgentInfoInput) (service.UserDTO, error) {
			return h.Svc.Users.UpdateAgentInfo(c.Request.Context(), ez.Actor(c).ID, *in)
		},
	})
}

func (h *Users) MountAdmin(admin *gin.RouterGroup) {
	g := ez.New(admin)

	ez.RegisterAction(g, ez.Action[service.UserFilter, service.Page[service.UserDTO]]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.UserFilter) (service.Page[service.UserDTO], error) {
			return h.Svc.Users.List(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[visibilityQuery, countOut]{
		Method: http.MethodGet, Path: "/users/count", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *visibilityQuery) (countOut, error) {
			n, err := h.Svc.Users.Count(c.Request.Context(), in.IsDeleted)
			return countOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, countOut]{
		Method: http.MethodGet, Path: "/agents/count", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (countOut, error) {
			n, err := h.Svc.Users.CountAgents(c.Request.Context())
			return countOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, service.UserDetailDTO]{
		Method: http.MethodGet, Path: "/users/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (service.UserDetailDTO, error) {
			uid, err := id(c)
			if err != nil {
				return service.UserDetailDTO{}, err
			}
			return h.Svc.Users.Detail(c.Request.Context(), uid)
		},
	})
	ez.RegisterAction(g, ez.Action[roleIn, service.UserDTO]{
		Method: http.MethodPut, Path: "/users/:id/role", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *roleIn) (service.UserDTO, error) {
			uid, err := id(c)
			if err != nil {
				return service.UserDTO{}, err
			}
			return h.Svc.Users.UpdateRole(c.Request.Context(), uid, in.Role)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/users/:id", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			uid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Users.SoftDelete(c.Request.Context(), uid)
		},
	})
}
