package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/domain"
	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/ez"
	mdw "realestate-api/internal/transport/http/middleware"
)

type Inquiries struct{ Deps }

type inquiryStatusIn struct {
	Status domain.InquiryStatus `json:"status" binding:"required,min=1,max=4"`
}

func (h *Inquiries) MountAPI(api *gin.RouterGroup) {
	// 匿名也可以咨询；带 token 时记录用户
	public := ez.New(api).Group("/inquiries", mdw.OptionalJWT(h.JWT))
	agent := ez.New(api).Group("/agents/me", mdw.AuthJWT(h.JWT, agentOrAdmin...))

	ez.RegisterAction(public, ez.Action[service.CreateInquiryInput, service.InquiryDTO]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateInquiryInput) (service.InquiryDTO, error) {
			var uid *uint
			if v, ok := mdw.UserID(c); ok {
				uid = &v
			}
			return h.Svc.Inquiries.Create(c.Request.Context(), uid, *in)
		},
	})
	ez.RegisterAction(agent, ez.Action[service.PageQuery, service.Page[service.InquiryDTO]]{
		Method: http.MethodGet, Path: "/inquiries", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.PageQuery) (service.Page[service.InquiryDTO], error) {
			return h.Svc.Inquiries.ListForAgent(c.Request.Context(), ez.Actor(c).ID, *in)
		},
	})
}

func (h *Inquiries) MountAdmin(admin *gin.RouterGroup) {
	g := ez.New(admin)

	ez.RegisterAction(g, ez.Action[service.InquiryFilter, service.Page[service.InquiryDTO]]{
		Method: http.MethodGet, Path: "/inquiries", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.InquiryFilter) (service.Page[service.InquiryDTO], error) {
			return h.Svc.Inquiries.Search(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[visibilityQuery, countOut]{
		Method: http.MethodGet, Path: "/inquiries/count", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *visibilityQuery) (countOut, error) {
			n, err := h.Svc.Inquiries.Count(c.Request.Context(), in.IsDeleted)
			return countOut{n}, err
		},
	})
	ez.RegisterAction(g, ez.Action[visibilityQuery, []service.InquiryDTO]{
		Method: http.MethodGet, Path: "/properties/:id/inquiries", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *visibilityQuery) ([]service.InquiryDTO, error) {
			pid, err := id(c)
			if err != nil {
				return nil, err
			}
			return h.Svc.Inquiries.List(c.Request.Context(), &pid, in.IsDeleted)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, service.InquiryDTO]{
		Method: http.MethodGet, Path: "/inquiries/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *ez.Empty) (service.InquiryDTO, error) {
			iid, err := id(c)
			if err != nil {
				return service.InquiryDTO{}, err
			}
			return h.Svc.Inquiries.Get(c.Request.Context(), iid)
		},
	})
	ez.RegisterAction(g, ez.Action[inquiryStatusIn, service.InquiryDTO]{
		Method: http.MethodPut, Path: "/inquiries/:id/status", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *inquiryStatusIn) (service.InquiryDTO, error) {
			iid, err := id(c)
			if err != nil {
				return service.InquiryDTO{}, err
			}
			return h.Svc.Inquiries.UpdateStatus(c.Request.Context(), iid, in.Status)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/inquiries/:id", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			iid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Inquiries.SoftDelete(c.Request.Context(), iid)
		},
	})
	ez.RegisterAction(g, ez.Action[ez.Empty, ez.Empty]{
		Method: http.MethodDelete, Path: "/inquiries/:id/hard", Binder: ez.BindNone, Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *ez.Empty) (ez.Empty, error) {
			iid, err := id(c)
			if err != nil {
				return ez.Empty{}, err
			}
			return ez.Empty{}, h.Svc.Inquiries.HardDelete(c.Request.Context(), iid)
		},
	})
}
