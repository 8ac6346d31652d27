package query

import "errors"

var (
	// ErrMissingTable is returned when a non-raw statement has no table.
	ErrMissingTable = errors.New("query: table is not set")

	// ErrEmptyValues is returned when an insert or update has no columns to write.
	ErrEmptyValues = errors.New("query: no values to write")

	// ErrMissingSQL is returned when a raw statement has no SQL text.
	ErrMissingSQL = errors.New("query: raw sql is empty")

	// ErrInvalidOperator is returned for comparison operators outside the supported set.
	ErrInvalidOperator = errors.New("query: invalid operator")

	// ErrInvalidConnective is returned when a predicate connective is neither AND nor OR.
	ErrInvalidConnective = errors.New("query: invalid connective")

	// ErrEmptyGroup is returned when a WhereQ callback adds no predicates.
	ErrEmptyGroup = errors.New("query: empty predicate group")

	// ErrMissingColumn is returned when a predicate or order term names no column.
	ErrMissingColumn = errors.New("query: column is not set")
)
