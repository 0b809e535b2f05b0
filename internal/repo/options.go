package repo

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type include struct {
	name string
	args []any
}

type queryOpts struct {
	showDeleted bool
	includes    []include
	order       []clause.OrderByColumn
}

// Option 读操作的可选项
type Option func(*queryOpts)

// WithDeleted 不再过滤 is_deleted = true 的行
func WithDeleted() Option { return func(o *queryOpts) { o.showDeleted = true } }

// Preload 预加载关联；args 透传给 gorm.Preload（条件或 func(*gorm.DB) *gorm.DB）
func Preload(name string, args ...any) Option {
	return func(o *queryOpts) { o.includes = append(o.includes, include{name: name, args: args}) }
}

func OrderBy(cols ...clause.OrderByColumn) Option {
	return func(o *queryOpts) { o.order = append(o.order, cols...) }
}

func Asc(column string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}}
}

func Desc(column string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: true}
}

func buildOpts(opts []Option) queryOpts {
	var o queryOpts
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o queryOpts) applyOrder(tx *gorm.DB) *gorm.DB {
	if len(o.order) == 0 {
		return tx
	}
	return tx.Order(clause.OrderBy{Columns: o.order})
}

func (o queryOpts) applyIncludes(tx *gorm.DB) *gorm.DB {
	for _, inc := range o.includes {
		tx = tx.Preload(inc.name, inc.args...)
	}
	return tx
}
