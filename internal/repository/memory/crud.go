package memory

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
)

// crudRepo implements crud.Repository[T] over one table.
type crudRepo[T any] struct {
	table    *table[T]
	id       func(T) string
	notFound error
	// conflict reports a uniqueness violation between a stored row and the
	// row being written.
	conflict func(existing, candidate T) error
}

var _ crud.Repository[struct{}] = (*crudRepo[struct{}])(nil)

func (r *crudRepo[T]) GetByID(ctx context.Context, id string) (T, error) {
	v, ok := r.table.get(id)
	if !ok {
		var zero T
		return zero, r.notFound
	}
	return v, nil
}

func (r *crudRepo[T]) Create(ctx context.Context, entity T) (T, error) {
	return r.write(ctx, entity, false)
}

func (r *crudRepo[T]) Update(ctx context.Context, entity T) (T, error) {
	return r.write(ctx, entity, true)
}

func (r *crudRepo[T]) Delete(ctx context.Context, id string) error {
	if !r.table.delete(ctx, id) {
		return r.notFound
	}
	return nil
}

func (r *crudRepo[T]) write(ctx context.Context, entity T, mustExist bool) (T, error) {
	var zero T
	var conflict func(T) error
	if r.conflict != nil {
		conflict = func(existing T) error { return r.conflict(existing, entity) }
	}

	ok, err := r.table.put(ctx, r.id(entity), entity, mustExist, conflict)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, r.notFound
	}
	return entity, nil
}
