package domain

import "time"

// Base 所有表共用的主键、软删除标记与审计时间
type Base struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	IsDeleted bool      `gorm:"not null;default:false;index"    json:"isDeleted"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"         json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"         json:"updatedAt"`
}

// Entity 可软删除的实体，repo.SoftDelete 以它为约束
type Entity interface {
	Deleted() bool
	MarkDeleted()
}

func (b *Base) Deleted() bool { return b.IsDeleted }
func (b *Base) MarkDeleted()  { b.IsDeleted = true }

// 列名常量，供谓词使用
const (
	ColID        = "id"
	ColIsDeleted = "is_deleted"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)
