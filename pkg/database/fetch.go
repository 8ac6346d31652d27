package database

import (
	"context"
	"fmt"
	"reflect"
)

// All runs the accumulated statement unless Execute already did and returns
// every remaining row in result order. Rows are query.Row values, or entities
// loaded through the bound model. The state is cleared before returning,
// also on error.
func (d *Database) All(ctx context.Context) ([]any, error) {
	defer d.Clear()

	if err := d.ensureExecuted(ctx); err != nil {
		return nil, err
	}

	items := make([]any, 0)
	for {
		item, ok, err := d.get()
		if err != nil {
			return nil, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, item)
	}
}

// First returns the first row, or nil when nothing matched. Unless the
// statement already ran, the query is limited to one row first; an offset
// set before is kept. The state is cleared before returning.
func (d *Database) First(ctx context.Context) (any, error) {
	defer d.Clear()

	if d.stmt == nil && d.err == nil && !d.builder.IsEmpty() {
		d.builder.Limit(1, d.builder.Intent().Offset)
	}
	if err := d.ensureExecuted(ctx); err != nil {
		return nil, err
	}

	item, ok, err := d.get()
	if err != nil || !ok {
		return nil, err
	}
	return item, nil
}

// get fetches the next row of the live statement, hydrated when a model is
// bound.
func (d *Database) get() (any, bool, error) {
	row, ok, err := d.stmt.next()
	if err != nil {
		return nil, false, d.statementError("fetch", err)
	}
	if !ok {
		return nil, false, nil
	}
	if d.model == nil {
		return row, true, nil
	}

	entity, err := d.model.LoadEntity(row)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrModelType, err)
	}
	return entity, true, nil
}

// AllAs is All with the results asserted to T, typically the pointer type a
// StructModel produces or query.Row.
func AllAs[T any](ctx context.Context, d *Database) ([]T, error) {
	items, err := d.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		v, ok := item.(T)
		if !ok {
			return nil, fmt.Errorf("%w: got %T, want %s", ErrModelType, item, reflect.TypeFor[T]())
		}
		out = append(out, v)
	}
	return out, nil
}

// FirstAs is First with the result asserted to T. It returns the zero value
// of T when nothing matched.
func FirstAs[T any](ctx context.Context, d *Database) (T, error) {
	var zero T

	item, err := d.First(ctx)
	if err != nil || item == nil {
		return zero, err
	}

	v, ok := item.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %s", ErrModelType, item, reflect.TypeFor[T]())
	}
	return v, nil
}
