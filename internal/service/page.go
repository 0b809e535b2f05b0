package service

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type PageQuery struct {
	PageNumber int `form:"pageNumber" json:"pageNumber"`
	PageSize   int `form:"pageSize"   json:"pageSize"`
}

// Normalize 页码与页大小至少为 1，页大小上限 MaxPageSize
func (q PageQuery) Normalize() PageQuery {
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}
	switch {
	case q.PageSize < 1:
		q.PageSize = DefaultPageSize
	case q.PageSize > MaxPageSize:
		q.PageSize = MaxPageSize
	}
	return q
}

func (q PageQuery) Skip() int { return (q.PageNumber - 1) * q.PageSize }

type Page[T any] struct {
	PageNumber  int   `json:"pageNumber"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
	Data        []T   `json:"data"`
}

func NewPage[T any](data []T, total int64, q PageQuery) Page[T] {
	q = q.Normalize()
	pages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		PageNumber:  q.PageNumber,
		PageSize:    q.PageSize,
		TotalCount:  total,
		TotalPages:  pages,
		HasPrevious: q.PageNumber > 1,
		HasNext:     q.PageNumber < pages,
		Data:        data,
	}
}
