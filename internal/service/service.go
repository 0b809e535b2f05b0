// Package service 查询编排与业务规则：拼装谓词、调用仓储、映射 DTO。
// 所有错误都是 *errs.Error。
package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"realestate-api/internal/core/cache"
	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
)

// Actor 调用方身份，由鉴权层提供
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// canManage 管理员或房源所属经纪人
func (a Actor) canManage(p *domain.Property) bool { return a.IsAdmin() || p.AgentID == a.ID }

type base struct {
	uows  *repo.Factory
	cache *cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

func newBase(f *repo.Factory, c *cache.Cache, l *zap.Logger) base {
	if l == nil {
		l = zap.NewNop()
	}
	return base{uows: f, cache: c, log: l, now: time.Now}
}

// storeErr 存储层错误 → 业务错误；约束冲突 409，其余 500 并记录原因
func (b *base) storeErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	if repo.IsConstraint(err) {
		return errs.Conflict(msg + ": conflicts with existing data")
	}
	b.log.Error(msg, zap.Error(err))
	return errs.Internal(msg, err)
}

// visibility 基础谓词：默认只看未删除；isDeleted=true 时替换为只看已删除。
// 可见性完全由谓词决定，所以总是带 WithDeleted 关掉仓储的默认过滤。
func visibility(isDeleted *bool) (repo.Predicate, repo.Option) {
	if isDeleted != nil && *isDeleted {
		return repo.OnlyDeleted(), repo.WithDeleted()
	}
	return repo.NotDeleted(), repo.WithDeleted()
}

func optional[V any](column string, v *V, mk func(string, any) repo.Predicate) repo.Predicate {
	if v == nil {
		return repo.Predicate{}
	}
	return mk(column, *v)
}

func mapSlice[S, D any](in []S, f func(*S) D) []D {
	out := make([]D, 0, len(in))
	for i := range in {
		out = append(out, f(&in[i]))
	}
	return out
}

func ptrs[T any](in []T) []*T {
	out := make([]*T, 0, len(in))
	for i := range in {
		out = append(out, &in[i])
	}
	return out
}

func setIf[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

// setPtrIf 可空列：传入非 nil 时覆盖
func setPtrIf[V any](dst **V, src *V) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
