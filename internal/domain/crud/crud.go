// Package crud holds the entity-generic repository contracts shared by every
// domain repository.
package crud

import "context"

type Reader[T any] interface {
	GetByID(ctx context.Context, id string) (T, error)
}

type Writer[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Repository is the basic create/read/update/delete-by-id surface.
type Repository[T any] interface {
	Reader[T]
	Writer[T]
}

// Page selects a window of a list query. Zero values mean "first page, default size".
type Page struct {
	Page  int
	Limit int
}

// Normalize fills defaults and clamps the limit.
func (p Page) Normalize(defaultLimit, maxLimit int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages reports how many pages of size p.Limit cover total items.
func (p Page) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
