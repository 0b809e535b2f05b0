package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/ez"
	mdw "realestate-api/internal/transport/http/middleware"
)

type Images struct{ Deps }

type displayOrderIn struct {
	DisplayOrder *int `json:"displayOrder" binding:"required,min=0"`
}

func (h *Images) MountAPI(api *gin.RouterGroup) {
	public := ez.New(api)
	agent := ez.New(api).Group("", mdw.AuthJWT(h.JWT, agentOrAdmin...))

	ez.RegisterAction(public, ez.Action[ez.Empty, []service.PropertyImageDTO]{
		Method: http.MethodGet, Path: "/properties/:id/images", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) ([]service.PropertyImageDTO, error) {
			pid, err := id(c)
			if err != nil {
				return nil, err
			}
			return h.Svc.Images.ListByProperty(c.Request.Context(), pid)
		},
	})
	ez.RegisterAction(public, ez.Action[ez.Empty, service.PropertyImageDTO]{
		Method: http.MethodGet, Path: "/images/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (service.PropertyImageDTO, error) {
			iid, err := id(c)
			if err != nil {
				return service.PropertyImageDTO{}, err
			}
			return h.Svc.Images.Get(c.Request.Context(), iid)
		},
	})

	ez.RegisterAction(agent, ez.Action[service.CreateImageInput, service.PropertyImageDTO]{
		Method: http.MethodPost, Path: "/images", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateImageInput) (service.PropertyImageDTO, error) {
			return h.Svc.Images.Create(c.Request.Context(), ez.Actor(c), *in)
		},
	})
	ez.RegisterAction(agent, ez.Action[service.UpdateImageInput, service.PropertyImageDTO]{
		Method: http.MethodPut, Path: "/images/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateImageInput) (service.PropertyImageDTO, error) {
			iid, err := id(c)
			if err != nil {
				return service.PropertyImageDTO{}, err
			}
			return h.Svc.Images.Update(c.Request.Context(), ez.Actor(c), iid, *in)
		},
	})
	ez.RegisterAction(agent, ez.Action[displayOrderIn, service.PropertyImageDTO]{
		Method: http.MethodPut, Path: "/images/:id/display-order", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *displayOrderIn) (service.PropertyImageDTO, error) {
			iid, err := id(c)
			if err != nil {
				return service.PropertyImageDTO{}, err
			}
			return h.Svc.Images.UpdateDisplayOrder(c.Request.Context(), ez.Actor(c), iid, *in.DisplayOrder)
		},
	})
	ez.RegisterAction(agent, ez.Action[ez.Empty, service.PropertyImageDTO]{
		Method: http.MethodPut, Path: "/properties/:id/images/:imageId/primary", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (service.PropertyImageDTO, error) {
			pid, err := id(c)
			if err != nil {
				return service.PropertyImageDTO{}, err
			}
			iid, err := ez.ParamID(c, "imageId")
			if err != nil {
				return service.PropertyImageDTO{}, err
			}
			return h.Svc.Images.SetPrimary(c.Request.Context(), ez.Actor(c), iid, pid)
		},
	})
	ez.RegisterAction(agent, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/images/:id", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			iid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Images.SoftDelete(c.Request.Context(), ez.Actor(c), iid)
		},
	})
}

func (h *Images) MountAdmin(admin *gin.RouterGroup) {
	g := ez.New(admin)

	ez.RegisterAction(g, ez.Action[visibilityQuery, []service.PropertyImageDTO]{
		Method: http.MethodGet, Path: "/images", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *visibilityQuery) ([]service.PropertyImageDTO, error) {
			return h.Svc.Images.List(c.Request.Context(), in.IsDeleted)
		},
	})
	ez.RegisterAction(g, ez.Action[visibilityQuery, countOut]{
		Method: http.MethodGet, Path: "/images/count", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *visibilityQuery) (countOut, error) {
			n, err := h.Svc.Images.Count(c.Request.Context(), in.IsDeleted)
			return countOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, countOut]{
		Method: http.MethodGet, Path: "/properties/:id/images/count", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (countOut, error) {
			pid, err := id(c)
			if err != nil {
				return countOut{}, err
			}
			n, err := h.Svc.Images.CountByProperty(c.Request.Context(), pid)
			return countOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/images/:id/hard", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			iid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Images.HardDelete(c.Request.Context(), iid)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, affectedOut]{
		Method: http.MethodDelete, Path: "/properties/:id/images", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (affectedOut, error) {
			pid, err := id(c)
			if err != nil {
				return affectedOut{}, err
			}
			n, err := h.Svc.Images.DeleteAllByProperty(c.Request.Context(), pid)
			return affectedOut{n}, err
		},
	})
}
