package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule 模块可选择实现其中一个或两个接口
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 每个引擎一个，不做全局注册
type Registry struct {
	apiMods   []APIModule
	adminMods []AdminModule
}

// Register 根据类型断言分发到 API/Admin 列表；两者都不是的模块被忽略
func (r *Registry) Register(mods ...any) *Registry {
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			r.apiMods = append(r.apiMods, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.adminMods = append(r.adminMods, m)
		}
	}
	return r
}

// MountAPI 在 /api/v1 上挂载所有已注册的 API 模块
func (r *Registry) MountAPI(api *gin.RouterGroup) {
	for _, m := range sorted(r.apiMods) {
		m.MountAPI(api)
	}
}

// MountAdmin 在 /admin/v1 上挂载所有已注册的 Admin 模块
func (r *Registry) MountAdmin(admin *gin.RouterGroup) {
	for _, m := range sorted(r.adminMods) {
		m.MountAdmin(admin)
	}
}

func sorted[M any](mods []M) []M {
	out := append([]M(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool { return priorityOf(out[i]) < priorityOf(out[j]) })
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
