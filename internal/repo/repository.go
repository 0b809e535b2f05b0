package repo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"realestate-api/internal/domain"
)

// Repository 泛型仓储；读走 UnitOfWork 的会话，写只暂存到 UnitOfWork
type Repository[T schema.Tabler] struct {
	uow *UnitOfWork
}

// For 同一个 UnitOfWork 取出的仓储共享会话与暂存队列
func For[T schema.Tabler](u *UnitOfWork) *Repository[T] { return &Repository[T]{uow: u} }

func (r *Repository[T]) name() string {
	var zero T
	return zero.TableName()
}

func (r *Repository[T]) query(p Predicate, o queryOpts) *gorm.DB {
	tx := r.uow.session().Model(new(T))
	if !o.showDeleted {
		tx = tx.Where(NotDeleted().expr)
	}
	if !p.IsZero() {
		tx = tx.Where(p.expr)
	}
	return tx
}

// GetByID 默认不返回软删除的行，需要时传 WithDeleted()
func (r *Repository[T]) GetByID(id uint, opts ...Option) (*T, error) {
	return r.Get(ByID(id), opts...)
}

// Get 返回第一条匹配；没有时 (nil, nil)
func (r *Repository[T]) Get(p Predicate, opts ...Option) (*T, error) {
	o := buildOpts(opts)
	var out T
	tx := o.applyIncludes(o.applyOrder(r.query(p, o)))
	if err := tx.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrap("get", r.name(), err)
	}
	return &out, nil
}

func (r *Repository[T]) GetAll(p Predicate, opts ...Option) ([]T, error) {
	o := buildOpts(opts)
	out := make([]T, 0)
	tx := o.applyIncludes(o.applyOrder(r.query(p, o)))
	if err := tx.Find(&out).Error; err != nil {
		return nil, wrap("get all", r.name(), err)
	}
	return out, nil
}

// GetPaged 先对完整过滤集合计数，再排序、skip/take、预加载
func (r *Repository[T]) GetPaged(p Predicate, skip, take int, opts ...Option) ([]T, int64, error) {
	if skip < 0 {
		skip = 0
	}
	if take < 1 {
		take = 1
	}
	o := buildOpts(opts)

	var total int64
	if err := r.query(p, o).Count(&total).Error; err != nil {
		return nil, 0, wrap("count", r.name(), err)
	}
	out := make([]T, 0, min(take, int(total)))
	if int64(skip) >= total {
		return out, total, nil
	}
	tx := o.applyOrder(r.query(p, o)).Offset(skip).Limit(take)
	if err := o.applyIncludes(tx).Find(&out).Error; err != nil {
		return nil, 0, wrap("get paged", r.name(), err)
	}
	return out, total, nil
}

func (r *Repository[T]) Count(p Predicate, opts ...Option) (int64, error) {
	var n int64
	if err := r.query(p, buildOpts(opts)).Count(&n).Error; err != nil {
		return 0, wrap("count", r.name(), err)
	}
	return n, nil
}

// CountAll 不带任何过滤，包括软删除的行
func (r *Repository[T]) CountAll() (int64, error) {
	var n int64
	if err := r.uow.session().Model(new(T)).Count(&n).Error; err != nil {
		return 0, wrap("count", r.name(), err)
	}
	return n, nil
}

func (r *Repository[T]) Exists(p Predicate, opts ...Option) (bool, error) {
	n, err := r.Count(p, opts...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Add 暂存插入；Save 后 entity 的 ID 被回填
func (r *Repository[T]) Add(entity *T) {
	r.uow.stage(stagedOp{op: "add", entity: r.name(), run: func(tx *gorm.DB) (int64, error) {
		res := tx.Omit(clause.Associations).Create(entity)
		return res.RowsAffected, res.Error
	}})
}

// Update 暂存整行覆盖更新（按主键），不级联关联
func (r *Repository[T]) Update(entity *T) {
	r.uow.stage(stagedOp{op: "update", entity: r.name(), run: func(tx *gorm.DB) (int64, error) {
		return save(tx, entity)
	}})
}

func (r *Repository[T]) BatchUpdate(entities []*T) {
	if len(entities) == 0 {
		return
	}
	r.uow.stage(stagedOp{op: "batch update", entity: r.name(), run: func(tx *gorm.DB) (int64, error) {
		var total int64
		for _, e := range entities {
			n, err := save(tx, e)
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil
	}})
}

// SoftDelete 暂存软删除；已删除的行不再写，返回 false
func SoftDelete[T schema.Tabler, PT interface {
	*T
	domain.Entity
}](r *Repository[T], entity PT) bool {
	if entity.Deleted() {
		return false
	}
	entity.MarkDeleted()
	r.Update(entity)
	return true
}

// Remove 暂存物理删除
func (r *Repository[T]) Remove(entity *T) {
	r.uow.stage(stagedOp{op: "remove", entity: r.name(), run: func(tx *gorm.DB) (int64, error) {
		res := tx.Delete(entity)
		return res.RowsAffected, res.Error
	}})
}

func save[T any](tx *gorm.DB, entity *T) (int64, error) {
	res := tx.Omit(clause.Associations).Save(entity)
	return res.RowsAffected, res.Error
}
