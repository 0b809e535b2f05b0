// Package ez 一行注册非 CRUD 动作：鉴权、绑定、调用、统一信封
package ez

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/core/errs"
	"realestate-api/internal/service"
	mdw "realestate-api/internal/transport/http/middleware"
	resp "realestate-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Group 子分组，可追加中间件
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ { return EZ{g: e.g.Group(path, mw...)} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Empty 无入参 / 无出参
type Empty struct{}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string   // 例："/auth/login"、"/properties/:id"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Status  int      // 成功状态码，默认 200；204 不写响应体
	Handler func(c *gin.Context, in *I) (O, error)
}

func bind[I any](c *gin.Context, b Binder, in *I) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(in)
	case BindQuery:
		return c.ShouldBindQuery(in)
	default:
		return nil
	}
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth || len(a.Roles) > 0 {
			if _, ok := mdw.UserID(c); !ok {
				resp.Abort(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, mdw.Role(c)) {
				resp.Abort(c, resp.CodeForbidden, "forbidden")
				return
			}
		}

		// 2) 绑定入参
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				resp.Abort(c, resp.CodeTooLarge, "request body too large")
				return
			}
			resp.Abort(c, resp.CodeBadRequest, err.Error())
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, resp.New(status, resp.CodeMsgMap[status], out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// ParamID 路径参数转 uint；非法返回 400
func ParamID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errs.BadRequest("invalid " + name)
	}
	return uint(v), nil
}

// Actor 当前登录用户；未登录时 ID 为 0
func Actor(c *gin.Context) service.Actor {
	id, _ := mdw.UserID(c)
	return service.Actor{ID: id, Role: mdw.Role(c)}
}
