package repo

import (
	"gorm.io/gorm/clause"

	"realestate-api/internal/domain"
)

// Predicate 可组合的过滤条件，交给 gorm 翻译成 SQL，不在内存里求值。
// 零值表示“不过滤”，在 And/Or 中是单位元。
type Predicate struct {
	expr clause.Expression
}

// Expr 返回底层 clause；零值返回 nil
func (p Predicate) Expr() clause.Expression { return p.expr }

func (p Predicate) IsZero() bool { return p.expr == nil }

func (p Predicate) And(q Predicate) Predicate { return And(p, q) }

func (p Predicate) Or(q Predicate) Predicate { return Or(p, q) }

// Where 原生 SQL 片段，参数使用 ? 占位
func Where(sql string, args ...any) Predicate {
	return Predicate{expr: clause.Expr{SQL: sql, Vars: args}}
}

func col(name string) clause.Column { return clause.Column{Name: name} }

func Eq(column string, v any) Predicate  { return Predicate{expr: clause.Eq{Column: col(column), Value: v}} }
func Neq(column string, v any) Predicate { return Predicate{expr: clause.Neq{Column: col(column), Value: v}} }
func Gte(column string, v any) Predicate { return Predicate{expr: clause.Gte{Column: col(column), Value: v}} }
func Lte(column string, v any) Predicate { return Predicate{expr: clause.Lte{Column: col(column), Value: v}} }

// Like 由调用方自行拼 % 通配
func Like(column, pattern string) Predicate {
	return Predicate{expr: clause.Like{Column: col(column), Value: pattern}}
}

func In(column string, values ...any) Predicate {
	return Predicate{expr: clause.IN{Column: col(column), Values: values}}
}

func NotDeleted() Predicate  { return Eq(domain.ColIsDeleted, false) }
func OnlyDeleted() Predicate { return Eq(domain.ColIsDeleted, true) }

func ByID(id uint) Predicate { return Eq(domain.ColID, id) }

// And 合取；跳过零值，全部为零值时返回零值
func And(ps ...Predicate) Predicate {
	exprs := collect(ps)
	switch len(exprs) {
	case 0:
		return Predicate{}
	case 1:
		return Predicate{expr: exprs[0]}
	}
	return Predicate{expr: clause.AndConditions{Exprs: exprs}}
}

// Or 析取；零值同样被跳过
func Or(ps ...Predicate) Predicate {
	exprs := collect(ps)
	switch len(exprs) {
	case 0:
		return Predicate{}
	case 1:
		return Predicate{expr: exprs[0]}
	}
	return Predicate{expr: clause.OrConditions{Exprs: exprs}}
}

func Not(p Predicate) Predicate {
	if p.IsZero() {
		return p
	}
	return Predicate{expr: clause.NotConditions{Exprs: []clause.Expression{p.expr}}}
}

func collect(ps []Predicate) []clause.Expression {
	out := make([]clause.Expression, 0, len(ps))
	for _, p := range ps {
		if p.expr != nil {
			out = append(out, p.expr)
		}
	}
	return out
}
