package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/ez"
	mdw "realestate-api/internal/transport/http/middleware"
)

type Properties struct{ Deps }

type detailQuery struct {
	IncludeType bool `form:"includeType"`
}

func (h *Properties) get(c *gin.Context, in *detailQuery) (service.PropertyDTO, error) {
	pid, err := id(c)
	if err != nil {
		return service.PropertyDTO{}, err
	}
	return h.Svc.Properties.Get(c.Request.Context(), pid, in.IncludeType)
}

func (h *Properties) search(c *gin.Context, in *service.PropertyFilter) (service.Page[service.PropertyDTO], error) {
	return h.Svc.Properties.Search(c.Request.Context(), *in)
}

func (h *Properties) MountAPI(api *gin.RouterGroup) {
	public := ez.New(api).Group("/properties")
	agent := ez.New(api).Group("/properties", mdw.AuthJWT(h.JWT, agentOrAdmin...))

	ez.RegisterAction(public, ez.Action[service.PropertyFilter, service.Page[service.PropertyDTO]]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.PropertyFilter) (service.Page[service.PropertyDTO], error) {
			// 公开接口只看上架中的房源
			in.IsDeleted = nil
			return h.search(c, in)
		},
	})
	ez.RegisterAction(public, ez.Action[ez.Empty, countOut]{
		Method: http.MethodGet, Path: "/count", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (countOut, error) {
			n, err := h.Svc.Properties.Count(c.Request.Context(), nil)
			return countOut{n}, err
		},
	})
	ez.RegisterAction(public, ez.Action[detailQuery, service.PropertyDTO]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindQuery, Handler: h.get,
	})

	ez.RegisterAction(agent, ez.Action[service.CreatePropertyInput, service.PropertyDTO]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreatePropertyInput) (service.PropertyDTO, error) {
			return h.Svc.Properties.Create(c.Request.Context(), ez.Actor(c), *in)
		},
	})
	ez.RegisterAction(agent, ez.Action[service.AgentUpdatePropertyInput, service.PropertyDTO]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.AgentUpdatePropertyInput) (service.PropertyDTO, error) {
			pid, err := id(c)
			if err != nil {
				return service.PropertyDTO{}, err
			}
			return h.Svc.Properties.AgentUpdate(c.Request.Context(), ez.Actor(c), pid, *in)
		},
	})
	ez.RegisterAction(agent, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			pid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Properties.SoftDelete(c.Request.Context(), ez.Actor(c), pid)
		},
	})
}

func (h *Properties) MountAdmin(admin *gin.RouterGroup) {
	g := ez.New(admin).Group("/properties")

	ez.RegisterAction(g, ez.Action[service.PropertyFilter, service.Page[service.PropertyDTO]]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery, Handler: h.search,
	})
	ez.RegisterAction(g, ez.Action[visibilityQuery, countOut]{
		Method: http.MethodGet, Path: "/count", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *visibilityQuery) (countOut, error) {
			n, err := h.Svc.Properties.Count(c.Request.Context(), in.IsDeleted)
			return countOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[detailQuery, service.PropertyDTO]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindQuery, Handler: h.get,
	})
	ez.RegisterAction(g, ez.Action[service.AdminUpdatePropertyInput, service.PropertyDTO]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.AdminUpdatePropertyInput) (service.PropertyDTO, error) {
			pid, err := id(c)
			if err != nil {
				return service.PropertyDTO{}, err
			}
			return h.Svc.Properties.AdminUpdate(c.Request.Context(), pid, *in)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			pid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Properties.SoftDelete(c.Request.Context(), ez.Actor(c), pid)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/:id/hard", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			pid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Properties.HardDelete(c.Request.Context(), pid)
		},
	})
}
