package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/ez"
)

type PropertyTypes struct{ Deps }

func (h *PropertyTypes) get(c *gin.Context, _ *ez.Empty) (service.PropertyTypeDTO, error) {
	tid, err := id(c)
	if err != nil {
		return service.PropertyTypeDTO{}, err
	}
	return h.Svc.Types.Get(c.Request.Context(), tid)
}

func (h *PropertyTypes) MountAPI(api *gin.RouterGroup) {
	g := ez.New(api).Group("/property-types")

	ez.RegisterAction(g, ez.Action[ez.Empty, []service.PropertyTypeDTO]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) ([]service.PropertyTypeDTO, error) {
			return h.Svc.Types.List(c.Request.Context(), nil)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, countOut]{
		Method: http.MethodGet, Path: "/count", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (countOut, error) {
			n, err := h.Svc.Types.Count(c.Request.Context(), nil)
			return countOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, service.PropertyTypeDTO]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone, Handler: h.get,
	})
}

func (h *PropertyTypes) MountAdmin(admin *gin.RouterGroup) {
	g := ez.New(admin).Group("/property-types")

	ez.RegisterAction(g, ez.Action[visibilityQuery, []service.PropertyTypeDTO]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *visibilityQuery) ([]service.PropertyTypeDTO, error) {
			return h.Svc.Types.List(c.Request.Context(), in.IsDeleted)
		},
	})
	ez.RegisterAction(g, ez.Action[visibilityQuery, countOut]{
		Method: http.MethodGet, Path: "/count", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *visibilityQuery) (countOut, error) {
			n, err := h.Svc.Types.Count(c.Request.Context(), in.IsDeleted)
			return countOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, service.PropertyTypeDTO]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone, Handler: h.get,
	})
	ez.RegisterAction(g, ez.Action[service.CreatePropertyTypeInput, service.PropertyTypeDTO]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreatePropertyTypeInput) (service.PropertyTypeDTO, error) {
			return h.Svc.Types.Create(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[service.UpdatePropertyTypeInput, service.PropertyTypeDTO]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdatePropertyTypeInput) (service.PropertyTypeDTO, error) {
			tid, err := id(c)
			if err != nil {
				return service.PropertyTypeDTO{}, err
			}
			return h.Svc.Types.Update(c.Request.Context(), tid, *in)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			tid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Types.SoftDelete(c.Request.Context(), tid)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/:id/hard", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			tid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Types.HardDelete(c.Request.Context(), tid)
		},
	})
}
